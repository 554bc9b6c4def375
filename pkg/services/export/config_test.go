package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "margins consume the page",
			mutate:  func(c *Config) { c.Page.MarginMM = 200 },
			wantErr: "no content area",
		},
		{
			name:    "zero render width",
			mutate:  func(c *Config) { c.Render.Width = 0 },
			wantErr: "render geometry",
		},
		{
			name:    "preset does not sum to 100",
			mutate:  func(c *Config) { c.Temperature.Seller = [3]int{50, 30, 15} },
			wantErr: "does not sum to 100",
		},
		{
			name: "thresholds out of order",
			mutate: func(c *Config) {
				c.Temperature.SellerMax = 6
				c.Temperature.BuyerMin = 5
			},
			wantErr: "thresholds out of order",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("overrides defaults from file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "exporter.yaml")
		content := `render:
  width: 1024
  trend_months: 12
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		cfg, err := LoadConfig(path)
		require.NoError(t, err)

		assert.Equal(t, 1024, cfg.Render.Width)
		assert.Equal(t, 12, cfg.Render.TrendMonths)
		// Untouched keys keep their defaults.
		assert.Equal(t, 2, cfg.Render.Scale)
		assert.Equal(t, 210.0, cfg.Page.WidthMM)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})

	t.Run("invalid values are rejected", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "exporter.yaml")
		content := `render:
  width: -1
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		_, err := LoadConfig(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "render geometry")
	})
}
