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

package fluid

import (
	"github.com/pkg/errors"

	"github.com/antst/sco2bc/internal/config"
	"github.com/antst/sco2bc/internal/logger"
	"github.com/antst/sco2bc/internal/thermo"
)

// NewProvider builds the property provider selected by the config.
func NewProvider(cfg *config.FluidConfig) (thermo.PropertyProvider, error) {
	cfg.FillDefaults()
	f, err := Get(cfg.Name)
	if err != nil {
		return nil, err
	}

	var p thermo.PropertyProvider
	switch cfg.Provider {
	case config.ProviderPengRobinson:
		p = NewPengRobinson()
	case config.ProviderIdealGas:
		g := IdealGasFor(f)
		if cfg.IdealCp > 0 {
			g.Cp = cfg.IdealCp
		}
		if cfg.IdealR > 0 {
			g.R = cfg.IdealR
		}
		p = g
	default:
		return nil, errors.Errorf("unknown property provider `%s`", cfg.Provider)
	}
	logger.L().Debugf("Using %s property provider for %s", cfg.Provider, f.Name)

	if cfg.CacheSize > 0 {
		cached, err := NewCached(p, cfg.CacheSize)
		if err != nil {
			return nil, err
		}
		return cached, nil
	}
	return p, nil
}
