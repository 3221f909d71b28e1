package model

import "errors"

var (
	// ErrSessionNotFound is returned by session stores for unknown conversation ids
	ErrSessionNotFound = errors.New("session not found")

	// ErrVehicleNotFound is returned when a catalog lookup by id misses
	ErrVehicleNotFound = errors.New("vehicle not found")
)
