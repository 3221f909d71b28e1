package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const inventoryJSON = `[
	{"brand":"Toyota","model":"Camry","year":2022,"price":4200000,"color":"White","fuelType":"Hybrid","transmission":"Automatic","seats":5},
	{"brand":"Honda","model":"Civic","year":2021,"price":2200000,"color":"Red","fuelType":"Petrol","transmission":"Manual","seats":5},
	{"brand":"Honda","model":"City","year":2023,"price":1400000,"color":"Red","fuelType":"Petrol","transmission":"Automatic","seats":5}
]`

func writeInventory(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "inventory.json")
	require.NoError(t, os.WriteFile(path, []byte(inventoryJSON), 0o600))
	return path
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--no-color"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestAsk(t *testing.T) {
	out, err := run(t, "", "--data", writeInventory(t), "ask", "red", "honda", "cars")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Found red colored Honda cars (2 results):"), out)
}

func TestAskMissingInventory(t *testing.T) {
	_, err := run(t, "", "--data", filepath.Join(t.TempDir(), "none.json"), "ask", "anything")
	assert.Error(t, err)
}

func TestChatKeepsContext(t *testing.T) {
	stdin := "honda cars\nnext page\nreset\nnext page\nexit\n"
	out, err := run(t, stdin, "--data", writeInventory(t), "--limit", "1", "chat")
	require.NoError(t, err)

	assert.Contains(t, out, "Found Honda cars (2 total, page 1 of 2, showing 1)")
	assert.Contains(t, out, "Found Honda cars (2 total, page 2 of 2, showing 1)")
	assert.Contains(t, out, "Conversation reset.")
	assert.Contains(t, out, "Found cars (3 total, page 1 of 3, showing 1)")
}

func TestCompare(t *testing.T) {
	out, err := run(t, "", "--data", writeInventory(t), "compare", "Camry", "Civic")
	require.NoError(t, err)
	assert.Contains(t, out, "| Feature | 2022 Toyota Camry | 2021 Honda Civic |")

	_, err = run(t, "", "--data", writeInventory(t), "compare", "Camry")
	assert.Error(t, err)
}

func TestCatalog(t *testing.T) {
	out, err := run(t, "", "--data", writeInventory(t), "catalog", "--brand", "honda", "--sort", "price-asc")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.GreaterOrEqual(t, len(lines), 3)
	assert.Contains(t, lines[0], "BRAND")
	assert.Contains(t, lines[1], "City")
	assert.Contains(t, lines[2], "Civic")
	assert.Contains(t, out, "2 of 2 vehicles (page 1 of 1)")
}
