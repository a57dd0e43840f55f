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
	ProviderPengRobinson = "peng-robinson"
	ProviderIdealGas     = "ideal-gas"

	defaultFluid     = "CO2"
	defaultCacheSize = 4096
)

// FluidConfig selects the working fluid and its property provider.
type FluidConfig struct {
	Name      string `yaml:"name"`
	Provider  string `yaml:"provider"`
	CacheSize int    `yaml:"cache_size"`
	// Ideal-gas overrides; zero means derive from the fluid data.
	IdealCp float64 `yaml:"ideal_cp,omitempty"`
	IdealR  float64 `yaml:"ideal_r,omitempty"`
}

func NewFluidConfig() *FluidConfig {
	cfg := &FluidConfig{}
	cfg.FillDefaults()
	return cfg
}

func (f *FluidConfig) FillDefaults() {
	if f.Name == "" {
		f.Name = defaultFluid
	}
	if f.Provider == "" {
		f.Provider = ProviderPengRobinson
	}
	if f.CacheSize < 0 {
		f.CacheSize = 0
	} else if f.CacheSize == 0 {
		f.CacheSize = defaultCacheSize
	}
}
