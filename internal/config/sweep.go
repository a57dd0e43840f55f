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

const (
	defaultSweepVariable = "p2"
	defaultSweepSteps    = 10
	defaultSweepWorkers  = 4
)

// SweepConfig drives a one-variable parameter sweep of the cycle.
type SweepConfig struct {
	Variable string   `yaml:"variable"`
	From     *float64 `yaml:"from"`
	To       *float64 `yaml:"to"`
	Steps    int      `yaml:"steps"`
	Workers  int      `yaml:"workers"`
}

func NewSweepConfig() *SweepConfig {
	cfg := &SweepConfig{}
	cfg.FillDefaults()
	return cfg
}

func (s *SweepConfig) FillDefaults() {
	if s.Variable == "" {
		s.Variable = defaultSweepVariable
	}
	if s.From == nil {
		s.From = GetPTR(15e6)
	}
	if s.To == nil {
		s.To = GetPTR(35e6)
	}
	if s.Steps <= 0 {
		s.Steps = defaultSweepSteps
	}
	if s.Workers <= 0 {
		s.Workers = defaultSweepWorkers
	}
}
