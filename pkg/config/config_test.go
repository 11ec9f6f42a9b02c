package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/pkg/config"
)

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func TestLoad_ValoresPorDefecto(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.True(t, cfg.Ledger.DebitOnLateConfirm)
	assert.Equal(t, 5*time.Second, cfg.Ledger.OperationTimeout)
}

func TestLoad_VariablesDeEntorno(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("LEDGER_DEBIT_ON_LATE_CONFIRM", "false")
	t.Setenv("LEDGER_OPERATION_TIMEOUT_SECONDS", "2")
	t.Setenv("DB_PASSWORD", "p@ss:word")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.False(t, cfg.Ledger.DebitOnLateConfirm)
	assert.Equal(t, 2*time.Second, cfg.Ledger.OperationTimeout)
	assert.Contains(t, cfg.DB.DSN(), "p%40ss%3Aword", "la contraseña debe ir codificada")
}

func TestLoad_PuertoInvalido(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("HTTP_PORT", "70000")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestConnectionString_PrefiereDatabaseURL(t *testing.T) {
	c := config.DBConfig{DatabaseURL: "postgres://u:p@db:5432/x", Host: "localhost"}
	assert.Equal(t, "postgres://u:p@db:5432/x", c.ConnectionString())
}
