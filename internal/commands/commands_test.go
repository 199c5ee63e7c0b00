package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsight-dev/finsight/internal/config"
	"github.com/finsight-dev/finsight/internal/model"
)

func TestRunInit_CreatesStructure(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, runInit(dir, "ledger"))

	info, err := os.Stat(filepath.Join(dir, "ledger"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	cfg, err := config.Load(filepath.Join(dir, "finsight.yaml"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "ledger"), cfg.Ledger.Root)
	assert.Equal(t, "sqlite3", cfg.Store.Driver)
	assert.Equal(t, filepath.Join(dir, "predictions.db"), cfg.Store.DSN)

	goals, err := os.ReadFile(filepath.Join(dir, "ledger", "goals.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(goals), "id,owner_id,name")

	budgets, err := os.ReadFile(filepath.Join(dir, "ledger", "budgets.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(budgets), "id,owner_id,category")
}

func TestNewEnv_MissingConfig(t *testing.T) {
	_, err := newEnv(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestNewEnv_OpensStoreFromConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, runInit(dir, "ledger"))

	e, err := newEnv(filepath.Join(dir, "finsight.yaml"))
	require.NoError(t, err)
	defer e.close()

	stats, err := e.store.Statistics("user-1")
	require.NoError(t, err)
	assert.Zero(t, stats.Total)
}

func TestParseScenario(t *testing.T) {
	s, err := parseScenario("cut costs", "5", "-10", "0", 12)
	require.NoError(t, err)
	assert.Equal(t, "cut costs", s.Name)
	assert.Equal(t, "5", s.IncomeAdjustment.String())
	assert.Equal(t, "-10", s.ExpenseAdjustment.String())
	assert.Equal(t, 12, s.HorizonMonths)

	_, err = parseScenario("bad", "abc", "0", "0", 12)
	require.Error(t, err)
}

func TestParsePredictionTypes(t *testing.T) {
	all, err := parsePredictionTypes(nil)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	some, err := parsePredictionTypes([]string{"expense-forecast", "financial-health"})
	require.NoError(t, err)
	assert.Equal(t, []model.PredictionType{model.ExpenseForecast, model.FinancialHealth}, some)

	_, err = parsePredictionTypes([]string{"weather-forecast"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "weather-forecast")
}

func TestRootCommand_RegistersSubcommands(t *testing.T) {
	root := NewRootCommand()

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Contains(t, names, "init")
	assert.Contains(t, names, "insights")
	assert.Contains(t, names, "report")
	assert.Contains(t, names, "simulate")
	assert.Contains(t, names, "predict")
}
