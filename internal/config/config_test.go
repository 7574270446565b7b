package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 8, cfg.Canteen.CutoffHour)
	assert.Equal(t, "yes", cfg.Canteen.DefaultStatus)
	assert.Equal(t, "sqlite3", cfg.Database.Dialect)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
port: 9000
canteen:
  cutoff_hour: 9
  default_status: "no"
roster:
  - id: "s-01"
    name: "Lan Pham"
    department: "kitchen"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, 9, cfg.Canteen.CutoffHour)
	assert.Equal(t, "no", cfg.Canteen.DefaultStatus)
	require.Len(t, cfg.Roster, 1)
	assert.Equal(t, "s-01", cfg.Roster[0].ID)

	// Untouched sections keep their defaults.
	assert.Equal(t, 9090, cfg.MetricsPort)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("CANTEEN_CUTOFF_HOUR", "10")
	t.Setenv("CANTEEN_DB_DIALECT", "postgres")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.Canteen.CutoffHour)
	assert.Equal(t, "postgres", cfg.Database.Dialect)
}

func TestLocation(t *testing.T) {
	cfg := Default()
	cfg.Canteen.Timezone = "Asia/Ho_Chi_Minh"

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Ho_Chi_Minh", loc.String())

	cfg.Canteen.Timezone = "Not/AZone"
	_, err = cfg.Location()
	assert.Error(t, err)
}
