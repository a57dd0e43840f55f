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

import "github.com/antst/sco2bc/internal/cycle"

var (
	defaultP1    = 7.5e6
	defaultT1    = 300.0
	defaultP2    = 25e6
	defaultT3Max = 923.0
	defaultEtaC  = 0.85
	defaultEtaT  = 0.90
)

// CycleConfig holds the boundary conditions of the Brayton loop.
type CycleConfig struct {
	P1                   *float64 `yaml:"p1"`
	T1                   *float64 `yaml:"t1"`
	P2                   *float64 `yaml:"p2"`
	T3Max                *float64 `yaml:"t3max"`
	CompressorEfficiency *float64 `yaml:"eta_c"`
	TurbineEfficiency    *float64 `yaml:"eta_t"`
}

func NewCycleConfig() *CycleConfig {
	cfg := &CycleConfig{}
	cfg.FillDefaults()
	return cfg
}

func (c *CycleConfig) FillDefaults() {
	if c.P1 == nil {
		c.P1 = GetPTR(defaultP1)
	}
	if c.T1 == nil {
		c.T1 = GetPTR(defaultT1)
	}
	if c.P2 == nil {
		c.P2 = GetPTR(defaultP2)
	}
	if c.T3Max == nil {
		c.T3Max = GetPTR(defaultT3Max)
	}
	if c.CompressorEfficiency == nil {
		c.CompressorEfficiency = GetPTR(defaultEtaC)
	}
	if c.TurbineEfficiency == nil {
		c.TurbineEfficiency = GetPTR(defaultEtaT)
	}
}

// Params converts the config into solver parameters for the given fluid.
func (c *CycleConfig) Params(fluid string) cycle.Parameters {
	c.FillDefaults()
	return cycle.Parameters{
		P1:                   *c.P1,
		T1:                   *c.T1,
		P2:                   *c.P2,
		T3Max:                *c.T3Max,
		CompressorEfficiency: *c.CompressorEfficiency,
		TurbineEfficiency:    *c.TurbineEfficiency,
		Fluid:                fluid,
	}
}
