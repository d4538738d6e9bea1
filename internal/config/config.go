package config

import (
	"fmt"
	"os"
	"time"

	"backtest/internal/engine"
	"backtest/types"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config is the YAML run file structure.
type Config struct {
	Data       DataSection       `yaml:"data"`
	Backtest   BacktestSection   `yaml:"backtest"`
	Strategies []StrategySection `yaml:"strategies"`
	Output     OutputSection     `yaml:"output"`
}

type DataSection struct {
	Source      string `yaml:"source"` // "csv" or "postgres"
	DatabaseURL string `yaml:"database_url"`
	CSVDir      string `yaml:"csv_dir"`
}

type BacktestSection struct {
	StartDate    string  `yaml:"start_date"`
	EndDate      string  `yaml:"end_date"`
	StartCapital float64 `yaml:"start_capital"`
	RiskFree     string  `yaml:"risk_free"`
}

type StrategySection struct {
	Name         string             `yaml:"name"`
	Type         string             `yaml:"type"`
	Weights      map[string]float64 `yaml:"weights"`
	Period       string             `yaml:"period"`
	Growth       string             `yaml:"growth"`
	Ballast      string             `yaml:"ballast"`
	GrowthRate   float64            `yaml:"growth_rate"`
	GrowthWeight float64            `yaml:"growth_weight"`
	StartCapital float64            `yaml:"start_capital"`
}

type OutputSection struct {
	ChartPath string `yaml:"chart"`
}

// Load reads and parses a YAML run file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return &config, nil
}

// ToRunConfigs converts the strategy sections into engine run configs.
func (c *Config) ToRunConfigs() ([]engine.RunConfig, error) {
	start, err := time.Parse("2006-01-02", c.Backtest.StartDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start_date: %w", err)
	}
	end, err := time.Parse("2006-01-02", c.Backtest.EndDate)
	if err != nil {
		return nil, fmt.Errorf("invalid end_date: %w", err)
	}

	var runs []engine.RunConfig
	for _, s := range c.Strategies {
		run := engine.RunConfig{
			Name:          s.Name,
			Policy:        engine.PolicyType(s.Type),
			Weights:       types.Weights(s.Weights),
			Period:        engine.RebalancePeriod(s.Period),
			GrowthTicker:  s.Growth,
			BallastTicker: s.Ballast,
			GrowthRate:    s.GrowthRate,
			GrowthWeight:  s.GrowthWeight,
			Start:         start,
			End:           end,
			RiskFree:      c.Backtest.RiskFree,
		}
		capital := s.StartCapital
		if capital == 0 {
			capital = c.Backtest.StartCapital
		}
		if capital != 0 {
			run.StartCapital = decimal.NewFromFloat(capital)
		}
		runs = append(runs, run)
	}
	return runs, nil
}
