package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bankbook-dev/bankbook/internal/config"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// sqliteConfig writes a config pointing at a file-backed SQLite store so
// separate CLI invocations share state, the way a configured install does.
func sqliteConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "bankbook.yaml")
	cfg := &config.Config{Database: config.DatabaseConfig{
		Driver:   "sqlite3",
		Name:     filepath.Join(dir, "bankbook.db"),
		PoolSize: 1,
	}}
	require.NoError(t, config.Save(path, cfg))
	return path
}

func TestInitConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bankbook.yaml")

	out, err := run(t, "--config", path, "init-config")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote")

	_, statErr := os.Stat(path)
	require.NoError(t, statErr)

	// Refuses to clobber without --force.
	_, err = run(t, "--config", path, "init-config")
	require.Error(t, err)
	_, err = run(t, "--config", path, "init-config", "--force")
	require.NoError(t, err)
}

func TestAddListAcrossInvocations(t *testing.T) {
	cfg := sqliteConfig(t)

	out, err := run(t, "--config", cfg, "add", "1001",
		"--last", "Lee", "--middle", "Kim", "--first", "Ana",
		"--type", "credit", "--balance", "1000", "--date", "2024-01-01",
		"--place", "CDMX", "--credit-limit", "500")
	require.NoError(t, err)
	assert.Contains(t, out, "Account No: 1001")

	// A fresh invocation reloads the account from the store.
	out, err = run(t, "--config", cfg, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Lee Kim Ana")
	assert.Contains(t, out, "Credit limit: 500.00")
}

func TestDepositWithdrawScenario(t *testing.T) {
	cfg := sqliteConfig(t)

	_, err := run(t, "--config", cfg, "add", "1001",
		"--last", "Lee", "--middle", "Kim", "--first", "Ana",
		"--type", "credit", "--balance", "1000", "--credit-limit", "500")
	require.NoError(t, err)

	out, err := run(t, "--config", cfg, "withdraw", "1001", "1200")
	require.NoError(t, err)
	assert.Contains(t, out, "New balance: 0.00")

	out, err = run(t, "--config", cfg, "get", "1001")
	require.NoError(t, err)
	assert.Contains(t, out, "Credit limit: 300.00")
}

func TestAddDuplicateFails(t *testing.T) {
	cfg := sqliteConfig(t)

	_, err := run(t, "--config", cfg, "add", "1002",
		"--last", "Ruiz", "--middle", "Lopez", "--first", "Ivan", "--balance", "500")
	require.NoError(t, err)

	_, err = run(t, "--config", cfg, "add", "1002",
		"--last", "Ruiz", "--middle", "Lopez", "--first", "Ivan", "--balance", "500")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestExportImport(t *testing.T) {
	cfg := sqliteConfig(t)
	csvPath := filepath.Join(t.TempDir(), "accounts.csv")

	_, err := run(t, "--config", cfg, "add", "1001",
		"--last", "Lee", "--middle", "Kim", "--first", "Ana", "--balance", "750.25")
	require.NoError(t, err)

	out, err := run(t, "--config", cfg, "export", csvPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 1 accounts")

	// Importing the same file again reports the account as a duplicate.
	out, err = run(t, "--config", cfg, "import", csvPath)
	require.NoError(t, err)
	assert.Contains(t, out, "0 imported, 1 duplicates, 0 errors")
}

func TestFilterBalanceRange(t *testing.T) {
	cfg := sqliteConfig(t)

	for _, a := range [][]string{
		{"1", "55"}, {"2", "100"}, {"3", "500"}, {"4", "900"},
	} {
		_, err := run(t, "--config", cfg, "add", a[0],
			"--last", "Lee", "--middle", "Kim", "--first", "Ana", "--balance", a[1])
		require.NoError(t, err)
	}

	out, err := run(t, "--config", cfg, "filter", "--min-balance", "100", "--max-balance", "500")
	require.NoError(t, err)
	assert.Contains(t, out, "500.00")
	assert.Contains(t, out, "100.00")
	assert.NotContains(t, out, "900.00")
	assert.NotContains(t, out, "55.00")
}

func TestFilterByTypeShowsMeanBalance(t *testing.T) {
	cfg := sqliteConfig(t)

	_, err := run(t, "--config", cfg, "add", "1",
		"--last", "Lee", "--middle", "Kim", "--first", "Ana",
		"--type", "credit", "--balance", "500", "--credit-limit", "200")
	require.NoError(t, err)
	_, err = run(t, "--config", cfg, "add", "2",
		"--last", "Ruiz", "--middle", "Lopez", "--first", "Ivan",
		"--type", "credit", "--balance", "900", "--credit-limit", "100")
	require.NoError(t, err)
	_, err = run(t, "--config", cfg, "add", "3",
		"--last", "Park", "--middle", "Soto", "--first", "Mia", "--balance", "100")
	require.NoError(t, err)

	out, err := run(t, "--config", cfg, "filter", "--type", "credit")
	require.NoError(t, err)
	assert.Contains(t, out, "Mean balance (credit): 700.00")
	assert.NotContains(t, out, "Park Soto Mia")

	out, err = run(t, "--config", cfg, "filter", "--type", "normal")
	require.NoError(t, err)
	assert.Contains(t, out, "Mean balance (normal): 100.00")
}

func TestLocalModeWithoutConfig(t *testing.T) {
	// Point at a nonexistent config: the command runs unbound.
	cfg := filepath.Join(t.TempDir(), "absent.yaml")

	out, err := run(t, "--config", cfg, "add", "1001",
		"--last", "Lee", "--middle", "Kim", "--first", "Ana", "--balance", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "Account No: 1001")

	out, err = run(t, "--config", cfg, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No accounts")
}
