/**
 * Copyright (c) 2025 The Vortex Authors
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU Affero General Public License as
 * published by the Free Software Foundation, either version 3 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU Affero General Public License for more details.
 *
 * You should have received a copy of the GNU Affero General Public License
 * along with this program.  If not, see <https://www.gnu.org/licenses/>.
 */

package vexecd

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"VortexFrontEnd/internal/util"
)

type Config struct {
	Execd   ExecdConfig   `mapstructure:"Execd"`
	Monitor MonitorConfig `mapstructure:"Monitor"`
	DB      DBConfig      `mapstructure:"Database"`
}

type ExecdConfig struct {
	EnvRoot  string `mapstructure:"EnvRoot"`
	SpoolDir string `mapstructure:"SpoolDir"`
	LogPath  string `mapstructure:"LogPath"`
	LogLevel string `mapstructure:"LogLevel"`
}

type MonitorConfig struct {
	Enabled      bool   `mapstructure:"Enabled"`
	SamplePeriod string `mapstructure:"SamplePeriod"`
}

type DBConfig struct {
	Type     string          `mapstructure:"Type"`
	InfluxDB *InfluxDBConfig `mapstructure:"Influxdb"`
}

type InfluxDBConfig struct {
	URL         string `mapstructure:"Url"`
	Token       string `mapstructure:"Token"`
	Org         string `mapstructure:"Org"`
	Bucket      string `mapstructure:"Bucket"`
	Measurement string `mapstructure:"Measurement"`
}

// SamplePeriodDuration falls back to 10s when unset or unparsable values
// were already rejected by validateConfig.
func (c *MonitorConfig) SamplePeriodDuration() time.Duration {
	if c.SamplePeriod == "" {
		return 10 * time.Second
	}
	d, err := time.ParseDuration(c.SamplePeriod)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func validateConfig(cfg *Config) error {
	if cfg.Execd.EnvRoot == "" {
		cfg.Execd.EnvRoot = util.DefaultEnvRoot
	}
	if cfg.Execd.SpoolDir == "" {
		cfg.Execd.SpoolDir = util.DefaultSpoolDir
	}
	if cfg.Execd.LogLevel == "" {
		cfg.Execd.LogLevel = "info"
	}

	if cfg.Monitor.SamplePeriod != "" {
		if _, err := time.ParseDuration(cfg.Monitor.SamplePeriod); err != nil {
			return fmt.Errorf("invalid sample period %q: %w", cfg.Monitor.SamplePeriod, err)
		}
	}

	switch cfg.DB.Type {
	case "", "none":
		cfg.DB.Type = "none"
	case "influxdb":
		if cfg.DB.InfluxDB == nil {
			return fmt.Errorf("influxdb configuration is required when type is influxdb")
		}
		if cfg.DB.InfluxDB.URL == "" || cfg.DB.InfluxDB.Token == "" ||
			cfg.DB.InfluxDB.Org == "" || cfg.DB.InfluxDB.Bucket == "" {
			return fmt.Errorf("incomplete influxdb configuration")
		}
		if cfg.DB.InfluxDB.Measurement == "" {
			cfg.DB.InfluxDB.Measurement = "JobUsage"
		}
	default:
		return fmt.Errorf("unsupported database type: %s", cfg.DB.Type)
	}

	return nil
}
