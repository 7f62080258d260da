package configuration

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("LOG_PATH", t.TempDir()+"/app.log")

	c := &Configuration{}
	require.NoError(t, c.load(nil))
	t.Cleanup(c.Unload)

	require.Equal(t, ":3200", c.SocketAddress)
	require.Equal(t, int64(10485760), c.MaxUploadSize)
	require.Contains(t, c.Database.Opts, "dbname=placements")
	require.NotNil(t, c.Logger())
}

func TestDatabaseOptsOverride(t *testing.T) {
	t.Setenv("DB_OPTS", "postgres://u:p@db:5432/x")
	t.Setenv("LOG_PATH", t.TempDir()+"/app.log")

	c := &Configuration{}
	require.NoError(t, c.load(nil))
	t.Cleanup(c.Unload)

	require.Equal(t, "postgres://u:p@db:5432/x", c.Database.Opts)
}

func TestLogLevelMapping(t *testing.T) {
	c := &Configuration{LogLevel: "debug"}
	require.Equal(t, "debug", c.LogrusLogLevel().String())

	c.LogLevel = "bogus"
	require.Equal(t, "error", c.LogrusLogLevel().String())
}
