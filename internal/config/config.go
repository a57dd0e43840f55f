/*
 * Copyright (c) 2023. Anton Starikov -- All Rights Reserved
 *
 * This file is part of SCO2BC project.
 *
 * SCO2BC is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as the Free Software Foundation,
 * either version 3 of the License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <http://www.gnu.org/licenses/>.
 */

package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/antst/sco2bc/internal/logger"

	"github.com/pborman/getopt/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

const (
	defaultMQTTURL      = "tcp://127.0.0.1:1883"
	defaultControlTopic = "sco2bc/control"
	defaultDBFile       = "~/.sco2bc.db"
	defaultConfigFile   = "config.yaml"
	defaultCommand      = "cycle"
	defaultHistoryLimit = 20
)

type MQTTConfig struct {
	URL          string `yaml:"url"`
	ControlTopic string `yaml:"control_topic"`
}

func NewMQTTConfig() *MQTTConfig {
	return &MQTTConfig{URL: defaultMQTTURL, ControlTopic: defaultControlTopic}
}

type Config struct {
	LogLevel    zapcore.Level    `yaml:"log_level"`
	DBFile      string           `yaml:"db_file"`
	MetricsAddr string           `yaml:"metrics_addr,omitempty"`
	MQTTConfig  *MQTTConfig      `yaml:"mqtt"`
	Fluid       *FluidConfig     `yaml:"fluid"`
	Cycle       *CycleConfig     `yaml:"cycle"`
	Stream      *StreamConfig    `yaml:"stream"`
	Optimizer   *OptimizerConfig `yaml:"optimizer"`
	Sweep       *SweepConfig     `yaml:"sweep"`

	// Command line only
	Command      string `yaml:"-"`
	HistoryLimit int    `yaml:"-"`
}

func defConfig() *Config {
	return &Config{
		LogLevel:     zapcore.InfoLevel,
		DBFile:       defaultDBFile,
		MQTTConfig:   NewMQTTConfig(),
		Fluid:        NewFluidConfig(),
		Cycle:        NewCycleConfig(),
		Stream:       NewStreamConfig(),
		Optimizer:    NewOptimizerConfig(),
		Sweep:        NewSweepConfig(),
		Command:      defaultCommand,
		HistoryLimit: defaultHistoryLimit,
	}
}

func GetPTR[T any](v T) *T {
	return &v
}

func prettyPrint(cfg *Config) {
	d, err := yaml.Marshal(cfg)
	if err != nil {
		logger.L().Error("Failed to marshal config for pretty print", err)
		return
	}
	logger.L().Debugf("--- Config ---\n%s\n\n", string(d))
}

func (cfg *Config) FillDefaults() {
	if cfg.MQTTConfig == nil {
		cfg.MQTTConfig = NewMQTTConfig()
	}
	if cfg.MQTTConfig.URL == "" {
		cfg.MQTTConfig.URL = defaultMQTTURL
	}
	if cfg.MQTTConfig.ControlTopic == "" {
		cfg.MQTTConfig.ControlTopic = defaultControlTopic
	}
	if cfg.Fluid == nil {
		cfg.Fluid = NewFluidConfig()
	}
	if cfg.Cycle == nil {
		cfg.Cycle = NewCycleConfig()
	}
	if cfg.Stream == nil {
		cfg.Stream = NewStreamConfig()
	}
	if cfg.Optimizer == nil {
		cfg.Optimizer = NewOptimizerConfig()
	}
	if cfg.Sweep == nil {
		cfg.Sweep = NewSweepConfig()
	}
	if cfg.DBFile == "" {
		cfg.DBFile = defaultDBFile
	}
	cfg.Fluid.FillDefaults()
	cfg.Cycle.FillDefaults()
	cfg.Stream.FillDefaults()
	cfg.Optimizer.FillDefaults()
	cfg.Sweep.FillDefaults()
}

type overrides struct {
	set     *getopt.Set
	pending []func(*Config)
}

func (o *overrides) float(dst func(*Config) **float64, name, help string) {
	var v float64
	opt := o.set.FlagLong(&v, name, 0, help)
	o.pending = append(o.pending, func(cfg *Config) {
		if opt.Seen() {
			*dst(cfg) = GetPTR(v)
		}
	})
}

func (o *overrides) str(dst func(*Config) *string, name, help string) {
	var v string
	opt := o.set.FlagLong(&v, name, 0, help)
	o.pending = append(o.pending, func(cfg *Config) {
		if opt.Seen() {
			*dst(cfg) = v
		}
	})
}

func (o *overrides) integer(dst func(*Config) *int, name, help string) {
	var v int
	opt := o.set.FlagLong(&v, name, 0, help)
	o.pending = append(o.pending, func(cfg *Config) {
		if opt.Seen() {
			*dst(cfg) = v
		}
	})
}

// Get parses args (args[0] is the program name), reads the config file and
// applies command line overrides on top of it.
func Get(args []string, usage io.Writer) (*Config, error) {
	cfg := defConfig()

	set := getopt.New()
	set.SetParameters("[cycle|entropy|sweep|serve|history]")
	logLevel := set.StringLong("log-level", 'l', "", "log levels: debug, info, warn, error, dpanic, panic, fatal")
	configFile := set.StringLong("config", 'c', defaultConfigFile, "config file pathname")
	dbFile := set.StringLong("db", 'd', "", "DB file pathname")
	help := set.BoolLong("help", 'h', "show usage")

	o := &overrides{set: set}
	o.float(func(c *Config) **float64 { return &c.Cycle.P1 }, "p1", "compressor inlet pressure, Pa")
	o.float(func(c *Config) **float64 { return &c.Cycle.P2 }, "p2", "compressor outlet pressure, Pa")
	o.float(func(c *Config) **float64 { return &c.Cycle.T1 }, "t1", "compressor inlet temperature, K")
	o.float(func(c *Config) **float64 { return &c.Cycle.T3Max }, "t3max", "turbine inlet temperature, K")
	o.float(func(c *Config) **float64 { return &c.Cycle.CompressorEfficiency }, "eta-c", "compressor isentropic efficiency")
	o.float(func(c *Config) **float64 { return &c.Cycle.TurbineEfficiency }, "eta-t", "turbine isentropic efficiency")
	o.float(func(c *Config) **float64 { return &c.Sweep.From }, "from", "sweep start value")
	o.float(func(c *Config) **float64 { return &c.Sweep.To }, "to", "sweep end value")
	o.str(func(c *Config) *string { return &c.Fluid.Name }, "fluid", "working fluid")
	o.str(func(c *Config) *string { return &c.Fluid.Provider }, "provider", "property provider: peng-robinson, ideal-gas")
	o.str(func(c *Config) *string { return &c.Optimizer.Method }, "method", "optimizer: compass, augmented-lagrangian")
	o.str(func(c *Config) *string { return &c.Sweep.Variable }, "var", "sweep variable: p1, p2, t1, t3max, eta_c, eta_t")
	o.integer(func(c *Config) *int { return &c.Sweep.Steps }, "steps", "sweep points")
	o.integer(func(c *Config) *int { return &c.HistoryLimit }, "limit", "history rows")

	if err := set.Getopt(args, nil); err != nil {
		set.PrintUsage(usage)
		return nil, errors.Wrap(err, "parse flags")
	}
	if *help {
		set.PrintUsage(usage)
		return nil, ErrHelp
	}

	if err := readFile(cfg, *configFile); err != nil {
		return nil, err
	}
	logger.L().Debugf("Using config file `%v`", *configFile)

	cfg.FillDefaults()
	for _, apply := range o.pending {
		apply(cfg)
	}
	if err := cfg.Stream.Validate(); err != nil {
		return nil, err
	}

	if *dbFile != "" {
		cfg.DBFile = *dbFile
	}
	cfg.DBFile = expandHome(cfg.DBFile)

	if rest := set.Args(); len(rest) > 0 {
		cfg.Command = strings.ToLower(rest[0])
	}

	if *logLevel != "" {
		if err := cfg.LogLevel.Set(*logLevel); err != nil {
			logger.L().Errorf("Wrong log level `%v`: %v", *logLevel, err)
		}
	}
	logger.SetLogLevel(cfg.LogLevel)

	prettyPrint(cfg)

	return cfg, nil
}

// ErrHelp is returned by Get when usage was requested.
var ErrHelp = errors.New("help requested")

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	return err == nil && !info.IsDir()
}

func readFile(cfg *Config, configFileName string) error {
	if !fileExists(configFileName) {
		return nil
	}

	f, err := os.Open(configFileName)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil && err != io.EOF {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to unmarshal config: %w", err)
		}
	}

	return nil
}
