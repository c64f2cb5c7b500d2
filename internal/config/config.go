// Package config собирает настройки CLI: значения по умолчанию, YAML-файл,
// переменные окружения BRATLEY_*. Флаги командной строки применяются поверх в cmd/.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Log    LogConfig    `yaml:"log"`
	Solver SolverConfig `yaml:"solver"`
	Bench  BenchConfig  `yaml:"bench"`
}

type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

type SolverConfig struct {
	MaxNodes  int           `yaml:"max_nodes"`
	TimeLimit time.Duration `yaml:"time_limit"` // 0 — без ограничения
}

type BenchConfig struct {
	Workers int `yaml:"workers"`
}

func Default() Config {
	return Config{
		Log:    LogConfig{Level: "info", Format: "text"},
		Solver: SolverConfig{},
		Bench:  BenchConfig{Workers: 1},
	}
}

func (c Config) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level: unknown level %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format: unknown format %q", c.Log.Format)
	}
	if c.Solver.MaxNodes < 0 {
		return fmt.Errorf("solver.max_nodes must be >= 0 (got %d)", c.Solver.MaxNodes)
	}
	if c.Solver.TimeLimit < 0 {
		return fmt.Errorf("solver.time_limit must be >= 0 (got %s)", c.Solver.TimeLimit)
	}
	if c.Bench.Workers <= 0 {
		return fmt.Errorf("bench.workers must be > 0 (got %d)", c.Bench.Workers)
	}
	return nil
}

// Load читает YAML-файл (если path не пуст) поверх значений по умолчанию
// и применяет переменные окружения.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := decode(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decode(b []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func applyEnv(cfg *Config) error {
	var err error
	cfg.Log.Level = envString("BRATLEY_LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = envString("BRATLEY_LOG_FORMAT", cfg.Log.Format)
	if cfg.Solver.MaxNodes, err = envInt("BRATLEY_MAX_NODES", cfg.Solver.MaxNodes); err != nil {
		return err
	}
	if cfg.Solver.TimeLimit, err = envDuration("BRATLEY_TIME_LIMIT", cfg.Solver.TimeLimit); err != nil {
		return err
	}
	if cfg.Bench.Workers, err = envInt("BRATLEY_BENCH_WORKERS", cfg.Bench.Workers); err != nil {
		return err
	}
	return nil
}
