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

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"

	"github.com/antst/sco2bc/internal/logger"
)

const (
	defaultPenaltyGrowth = 10.0
	defaultOuter         = 50
	innerIterations      = 500
	innerGradient        = 1e-9
)

// AugmentedLagrangian is the method of multipliers for inequality
// constraints c(x) >= 0. Each outer iteration minimizes
//
//	f(x) + 1/(2 rho) * sum(max(0, lambda - rho c(x))^2 - lambda^2)
//
// with a gonum method and then updates lambda = max(0, lambda - rho c(x)).
// Coordinates that start non-zero are searched in log magnitude,
// x = x0 * exp(y), so like CompassSearch they never change sign.
type AugmentedLagrangian struct {
	Penalty   float64
	Tolerance float64
	MaxOuter  int
	Method    func() optimize.Method
}

func NewAugmentedLagrangian(penalty, tolerance float64, maxOuter int, method func() optimize.Method) *AugmentedLagrangian {
	return &AugmentedLagrangian{Penalty: penalty, Tolerance: tolerance, MaxOuter: maxOuter, Method: method}
}

func (a *AugmentedLagrangian) settings() (float64, float64, int, func() optimize.Method) {
	rho, tol, outer, method := a.Penalty, a.Tolerance, a.MaxOuter, a.Method
	if rho <= 0 {
		rho = 10
	}
	if tol <= 0 {
		tol = 1e-6
	}
	if outer <= 0 {
		outer = defaultOuter
	}
	if method == nil {
		method = func() optimize.Method { return &optimize.BFGS{} }
	}
	return rho, tol, outer, method
}

// logScale maps the search vector y to x. Zero coordinates of the origin are
// searched directly.
type logScale []float64

func (o logScale) point(y []float64) []float64 {
	x := make([]float64, len(y))
	for i, v := range y {
		if o[i] == 0 {
			x[i] = v
		} else {
			x[i] = o[i] * math.Exp(v)
		}
	}
	return x
}

func (a *AugmentedLagrangian) Minimize(objective func([]float64) float64, x0 []float64, constraints []func([]float64) float64) ([]float64, bool) {
	rho, tol, maxOuter, method := a.settings()
	origin := logScale(clone(x0))
	y := make([]float64, len(x0))
	lambda := make([]float64, len(constraints))
	lastViolation := math.Inf(1)

	for outer := 0; outer < maxOuter; outer++ {
		lagrangian := func(v []float64) float64 {
			x := origin.point(v)
			f := objective(x)
			for i, c := range constraints {
				t := math.Max(0, lambda[i]-rho*c(x))
				f += (t*t - lambda[i]*lambda[i]) / (2 * rho)
			}
			return f
		}
		problem := optimize.Problem{
			Func: lagrangian,
			Grad: func(grad, v []float64) {
				fd.Gradient(grad, lagrangian, v, &fd.Settings{Formula: fd.Central})
			},
		}
		settings := &optimize.Settings{GradientThreshold: innerGradient, MajorIterations: innerIterations}

		res, err := optimize.Minimize(problem, clone(y), settings, method())
		if res == nil {
			logger.Named("augmented-lagrangian").Debugf("inner solve failed: %v", err)
			return origin.point(y), false
		}
		if err != nil {
			logger.Named("augmented-lagrangian").Debugf("inner solve stopped with %v: %v", res.Status, err)
		}
		next := res.X
		if floats.HasNaN(next) {
			return origin.point(y), false
		}

		x := origin.point(next)
		violation := 0.0
		for i, c := range constraints {
			ci := c(x)
			if math.IsNaN(ci) {
				return origin.point(y), false
			}
			lambda[i] = math.Max(0, lambda[i]-rho*ci)
			violation = math.Max(violation, math.Max(0, -ci))
		}
		moved := floats.Distance(y, next, 2)
		y = next
		logger.Named("augmented-lagrangian").Debugf(
			"outer=%d rho=%g violation=%g moved=%g", outer, rho, violation, moved,
		)

		if violation <= tol && moved <= tol*(1+floats.Norm(y, 2)) {
			return x, true
		}
		if violation > 0.25*lastViolation {
			rho *= defaultPenaltyGrowth
		}
		lastViolation = violation
	}
	return origin.point(y), false
}
