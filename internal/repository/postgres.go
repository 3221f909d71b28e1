package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"carfinder/internal/model"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// PostgresRepository handles database operations
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(dsn string, maxConn, maxIdleConn int) (*PostgresRepository, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRepository{db: db}, nil
}

// NewPostgresRepositoryFromDB wraps an existing connection
func NewPostgresRepositoryFromDB(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Close closes the database connection
func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

const schema = `
CREATE TABLE IF NOT EXISTS vehicles (
	id           BIGSERIAL PRIMARY KEY,
	brand        TEXT    NOT NULL,
	model        TEXT    NOT NULL,
	year         INTEGER NOT NULL,
	price        BIGINT  NOT NULL,
	color        TEXT    NOT NULL DEFAULT '',
	fuel_type    TEXT    NOT NULL DEFAULT '',
	transmission TEXT    NOT NULL DEFAULT '',
	seats        INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS vehicles_brand_idx ON vehicles (lower(brand));
CREATE INDEX IF NOT EXISTS vehicles_price_idx ON vehicles (price);

CREATE TABLE IF NOT EXISTS query_logs (
	id              BIGSERIAL PRIMARY KEY,
	conversation_id TEXT        NOT NULL,
	kind            TEXT        NOT NULL,
	filter          JSONB,
	compare_models  TEXT[],
	result_count    INTEGER     NOT NULL DEFAULT 0,
	error           TEXT,
	response_time_ms INTEGER    NOT NULL DEFAULT 0,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

// EnsureSchema creates the vehicles and query_logs tables if they are missing
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

const vehicleColumns = `id, brand, model, year, price, color, fuel_type, transmission, seats`

// buildVehicleWhere turns a filter into a WHERE clause and its positional args.
// Text attributes match case-insensitively as substrings; price bounds are inclusive.
// Search text narrows the structured constraints rather than replacing them.
func buildVehicleWhere(filter model.FilterCriteria) (string, []interface{}) {
	whereClauses := []string{"1=1"}
	args := []interface{}{}
	argIndex := 1

	add := func(format string, value interface{}) {
		whereClauses = append(whereClauses, fmt.Sprintf(format, argIndex))
		args = append(args, value)
		argIndex++
	}

	if filter.Search != "" {
		term := "%" + filter.Search + "%"
		whereClauses = append(whereClauses, fmt.Sprintf(
			"(brand ILIKE $%[1]d OR model ILIKE $%[1]d OR color ILIKE $%[1]d OR fuel_type ILIKE $%[1]d "+
				"OR transmission ILIKE $%[1]d OR year::text LIKE $%[1]d OR price::text LIKE $%[1]d)", argIndex))
		args = append(args, term)
		argIndex++
	}

	if filter.Brand != "" {
		add("brand ILIKE $%d", "%"+filter.Brand+"%")
	}
	if filter.ExcludedBrand != "" {
		add("lower(brand) <> lower($%d)", filter.ExcludedBrand)
	}
	if filter.Model != "" {
		add("model ILIKE $%d", "%"+filter.Model+"%")
	}
	if filter.Color != "" {
		add("color ILIKE $%d", "%"+filter.Color+"%")
	}
	if filter.FuelType != "" {
		add("fuel_type ILIKE $%d", "%"+filter.FuelType+"%")
	}
	if filter.Transmission != "" {
		add("transmission ILIKE $%d", "%"+filter.Transmission+"%")
	}
	if filter.MinPrice != nil {
		add("price >= $%d", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		add("price <= $%d", *filter.MaxPrice)
	}

	return strings.Join(whereClauses, " AND "), args
}

// orderClause always ends with id so pagination is deterministic
func orderClause(key model.SortKey) string {
	switch key {
	case model.SortPriceAscending:
		return "ORDER BY price ASC, id ASC"
	case model.SortPriceDescending:
		return "ORDER BY price DESC, id ASC"
	case model.SortYearAscending:
		return "ORDER BY year ASC, id ASC"
	case model.SortYearDescending:
		return "ORDER BY year DESC, id ASC"
	default:
		return "ORDER BY id ASC"
	}
}

// Query performs a filtered, sorted and paginated vehicle search
func (r *PostgresRepository) Query(ctx context.Context, filter model.FilterCriteria) (*model.ResultPage, error) {
	if filter.Limit < 1 {
		filter.Limit = model.DefaultLimit
	}
	if filter.Page < 1 {
		filter.Page = model.DefaultPage
	}

	whereClause, args := buildVehicleWhere(filter)

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM vehicles WHERE %s", whereClause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, fmt.Errorf("failed to count vehicles: %w", err)
	}

	argIndex := len(args) + 1
	selectQuery := fmt.Sprintf(`SELECT %s FROM vehicles WHERE %s %s LIMIT $%d OFFSET $%d`,
		vehicleColumns, whereClause, orderClause(filter.SortBy), argIndex, argIndex+1)
	args = append(args, filter.Limit, filter.Offset())

	vehicles := []model.Vehicle{}
	if err := r.db.SelectContext(ctx, &vehicles, selectQuery, args...); err != nil {
		return nil, fmt.Errorf("failed to fetch vehicles: %w", err)
	}

	return &model.ResultPage{
		Total:   total,
		Page:    filter.Page,
		Limit:   filter.Limit,
		Results: vehicles,
	}, nil
}

// Get retrieves a single vehicle by id
func (r *PostgresRepository) Get(ctx context.Context, id int64) (*model.Vehicle, error) {
	var vehicle model.Vehicle
	query := fmt.Sprintf(`SELECT %s FROM vehicles WHERE id = $1`, vehicleColumns)
	if err := r.db.GetContext(ctx, &vehicle, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrVehicleNotFound
		}
		return nil, fmt.Errorf("failed to get vehicle: %w", err)
	}
	return &vehicle, nil
}

// ImportVehicles inserts vehicles in one transaction and returns how many
// rows were written. Per-row failures are collected rather than aborting.
func (r *PostgresRepository) ImportVehicles(ctx context.Context, vehicles []model.Vehicle) (int, []string) {
	success := 0
	var failures []string

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, []string{fmt.Sprintf("failed to start transaction: %v", err)}
	}
	defer tx.Rollback()

	stmt, err := tx.PreparexContext(ctx, `
		INSERT INTO vehicles (brand, model, year, price, color, fuel_type, transmission, seats)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`)
	if err != nil {
		return 0, []string{fmt.Sprintf("failed to prepare statement: %v", err)}
	}
	defer stmt.Close()

	for _, v := range vehicles {
		if _, err := stmt.ExecContext(ctx, v.Brand, v.Model, v.Year, v.Price, v.Color, v.FuelType, v.Transmission, v.Seats); err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", v.DisplayName(), err))
			continue
		}
		success++
	}

	if err := tx.Commit(); err != nil {
		return 0, append(failures, fmt.Sprintf("failed to commit transaction: %v", err))
	}

	return success, failures
}

// RecordTurn logs a resolved turn into query_logs
func (r *PostgresRepository) RecordTurn(ctx context.Context, rec model.TurnRecord) error {
	var filterJSON interface{}
	if rec.Filter != nil {
		data, err := json.Marshal(rec.Filter)
		if err != nil {
			return fmt.Errorf("failed to encode filter: %w", err)
		}
		filterJSON = string(data)
	}

	var errText sql.NullString
	if rec.Error != "" {
		errText = sql.NullString{String: rec.Error, Valid: true}
	}

	logQuery := `
		INSERT INTO query_logs (conversation_id, kind, filter, compare_models, result_count, error, response_time_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, logQuery,
		rec.ConversationID, string(rec.Kind), filterJSON, pq.Array(rec.CompareModels),
		rec.Total, errText, rec.DurationMs,
	)
	if err != nil {
		return fmt.Errorf("failed to log query: %w", err)
	}
	return nil
}
