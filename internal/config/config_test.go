package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOptions(t *testing.T, args ...string) *Options {
	t.Helper()
	o := defaults()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	register(fs, o)
	require.NoError(t, fs.Parse(args))
	return o
}

func TestApply_FlagDefaults(t *testing.T) {
	o := newOptions(t, "-c", "")
	require.NoError(t, apply(o))

	assert.Equal(t, "localhost:8080", o.Port)
	assert.Equal(t, "info", o.LogLevel)
	assert.Equal(t, 24*time.Hour, o.TokenTTL.Duration)
	assert.Equal(t, []string{"*"}, o.Origins())
}

func TestApply_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	body := `{"address":"0.0.0.0:9000","database_dsn":"postgres://file","token_ttl":"2h","allowed_origins":"https://a.example, https://b.example"}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	t.Setenv("CONFIG", path)
	t.Setenv("DATABASE_DSN", "postgres://env")

	o := newOptions(t, "-ttl", "30m")
	require.NoError(t, apply(o))

	assert.Equal(t, "0.0.0.0:9000", o.Port)
	assert.Equal(t, "postgres://env", o.DatabaseDSN)
	assert.Equal(t, 2*time.Hour, o.TokenTTL.Duration)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, o.Origins())
}

func TestApply_BadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"token_ttl":5}`), 0o600))

	o := newOptions(t, "-c", path)
	assert.Error(t, apply(o))
}
