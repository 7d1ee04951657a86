package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"posterdesk/internal/domain"
)

func TestLoad_CreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", ConfigFileName)

	cfg := Load(path)

	assert.Equal(t, DefaultConfig(), cfg)
	_, err := os.Stat(path)
	require.NoError(t, err, "default config should be written")

	again := Load(path)
	assert.Equal(t, cfg, again)
}

func TestLoad_CustomPresets(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(`{
		"pageSizes": [{"key": "Banner", "widthPx": 3000, "heightPx": 1000}, {"key": "A4", "widthPx": 794, "heightPx": 1123}],
		"defaultPageSize": "Banner",
		"autosaveSchedule": ""
	}`), 0644))

	cfg := Load(path)

	reg, err := cfg.PageSizeRegistry()
	require.NoError(t, err)
	assert.Equal(t, "Banner", reg.Default().Key)
	assert.Len(t, reg.All(), 2)
	assert.Empty(t, cfg.AutosaveSchedule)
	assert.Equal(t, DefaultExportScale, cfg.ExportScale, "unset fields keep defaults")
}

func TestLoad_CorruptFileIsBackedUp(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(`{"pageSizes": [`), 0644))

	cfg := Load(path)

	assert.Equal(t, DefaultConfig(), cfg)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var backups int
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ConfigFileName+".corrupt.") {
			backups++
		}
	}
	assert.Equal(t, 1, backups)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"tiny preset", func(c *Config) {
			c.PageSizes = []domain.PageSize{{Key: "Stamp", WidthPx: 40, HeightPx: 40}}
		}, true},
		{"bad cron", func(c *Config) { c.AutosaveSchedule = "every now and then" }, true},
		{"cron spec", func(c *Config) { c.AutosaveSchedule = "*/5 * * * *" }, false},
		{"unknown driver", func(c *Config) { c.Catalog.Driver = "oracle" }, true},
		{"mongo", func(c *Config) { c.Catalog.Driver = "mongodb" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestResolvedExportDir(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, filepath.Join("/data", "exports"), cfg.ResolvedExportDir("/data"))
	cfg.ExportDir = "/tmp/out"
	assert.Equal(t, "/tmp/out", cfg.ResolvedExportDir("/data"))
}

func TestWatch_ReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, Save(path, DefaultConfig()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changes := make(chan *Config, 4)
	require.NoError(t, Watch(ctx, path, func(c *Config) { changes <- c }))

	cfg := DefaultConfig()
	cfg.DefaultPageSize = "Letter"
	require.NoError(t, Save(path, cfg))

	select {
	case got := <-changes:
		assert.Equal(t, "Letter", got.DefaultPageSize)
	case <-time.After(5 * time.Second):
		t.Fatal("config change not observed")
	}
}
