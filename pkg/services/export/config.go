package export

import (
	"fmt"
	"time"

	"github.com/mslanden/marketpress/pkg/models/domain"
	"github.com/spf13/viper"
)

// TemperatureConfig holds the market-temperature presets. The thresholds and
// triples are product constants carried over from the original newsletter;
// each triple must sum to 100.
type TemperatureConfig struct {
	// SellerMax is the highest active/(pending+closed) ratio still counted
	// as a seller's market; BuyerMin is the lowest ratio counted as a
	// buyer's market. Ratios in between are balanced.
	SellerMax float64 `mapstructure:"seller_max"`
	BuyerMin  float64 `mapstructure:"buyer_min"`
	Seller    [3]int  `mapstructure:"seller"`
	Balanced  [3]int  `mapstructure:"balanced"`
	Buyer     [3]int  `mapstructure:"buyer"`
}

// RenderConfig fixes the offscreen layout geometry.
type RenderConfig struct {
	// Width is the nominal layout width in pixels, independent of any
	// viewing device; the output must match a fixed print page width.
	Width int `mapstructure:"width"`
	// Scale is the oversampling factor applied at capture time.
	Scale int `mapstructure:"scale"`
	// ImageTimeout bounds each embedded image load.
	ImageTimeout time.Duration `mapstructure:"image_timeout"`
	// TrendMonths is how many months of history the trend charts cover.
	TrendMonths int `mapstructure:"trend_months"`
}

// Config is the full exporter configuration. All values are fixed constants
// per deployment, loaded once at startup.
type Config struct {
	Page        domain.PageFormat `mapstructure:"page"`
	Render      RenderConfig      `mapstructure:"render"`
	Palette     []string          `mapstructure:"palette"`
	Temperature TemperatureConfig `mapstructure:"temperature"`
}

func DefaultConfig() Config {
	return Config{
		Page: domain.PageFormat{
			WidthMM:  210,
			HeightMM: 297,
			MarginMM: 10,
		},
		Render: RenderConfig{
			Width:        794,
			Scale:        2,
			ImageTimeout: 3 * time.Second,
			TrendMonths:  6,
		},
		Palette: []string{
			"#8B5A2B", "#C19A6B", "#4A6741", "#7D8471", "#A0522D", "#6B4423",
		},
		Temperature: TemperatureConfig{
			SellerMax: 2,
			BuyerMin:  5,
			Seller:    [3]int{55, 30, 15},
			Balanced:  [3]int{40, 35, 25},
			Buyer:     [3]int{25, 35, 40},
		},
	}
}

// LoadConfig reads the exporter configuration from path, filling unset keys
// from the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("failed to read exporter config: %w", err)
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse exporter config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Page.ContentWidth() <= 0 || c.Page.ContentHeight() <= 0 {
		return fmt.Errorf("page format leaves no content area: %+v", c.Page)
	}
	if c.Render.Width <= 0 || c.Render.Scale <= 0 {
		return fmt.Errorf("render geometry must be positive: width=%d scale=%d", c.Render.Width, c.Render.Scale)
	}
	for name, triple := range map[string][3]int{
		"seller":   c.Temperature.Seller,
		"balanced": c.Temperature.Balanced,
		"buyer":    c.Temperature.Buyer,
	} {
		if triple[0]+triple[1]+triple[2] != 100 {
			return fmt.Errorf("temperature preset %q does not sum to 100: %v", name, triple)
		}
	}
	if c.Temperature.SellerMax > c.Temperature.BuyerMin {
		return fmt.Errorf("temperature thresholds out of order: seller_max=%v buyer_min=%v",
			c.Temperature.SellerMax, c.Temperature.BuyerMin)
	}
	return nil
}
