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

package optimizer

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/optimize"

	"github.com/antst/sco2bc/internal/config"
)

// Finite-difference gradients limit how tight the multiplier method can be.
const minLagrangianTolerance = 1e-6

// Optimizer finds a local minimum subject to constraints[i](x) >= 0.
type Optimizer interface {
	Minimize(objective func([]float64) float64, x0 []float64, constraints []func([]float64) float64) ([]float64, bool)
}

// InnerMethod maps a config name to a gonum method for the augmented
// Lagrangian subproblems.
func InnerMethod(name string) (func() optimize.Method, error) {
	switch name {
	case "", "bfgs":
		return func() optimize.Method { return &optimize.BFGS{} }, nil
	case "lbfgs":
		return func() optimize.Method { return &optimize.LBFGS{} }, nil
	case "nelder-mead":
		return func() optimize.Method { return &optimize.NelderMead{} }, nil
	case "gradient":
		return func() optimize.Method { return &optimize.GradientDescent{} }, nil
	}
	return nil, errors.Errorf("unknown inner method `%s`", name)
}

// New builds the optimizer selected by the config.
func New(cfg *config.OptimizerConfig) (Optimizer, error) {
	cfg.FillDefaults()
	switch cfg.Method {
	case config.MethodCompass:
		return NewCompassSearch(cfg.Step, cfg.Tolerance, cfg.MaxIterations), nil
	case config.MethodAugmentedLagrangian:
		method, err := InnerMethod(cfg.Inner)
		if err != nil {
			return nil, err
		}
		return NewAugmentedLagrangian(cfg.Penalty, math.Max(cfg.Tolerance, minLagrangianTolerance), defaultOuter, method), nil
	}
	return nil, errors.Errorf("unknown optimizer `%s`", cfg.Method)
}
