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

	"github.com/antst/sco2bc/internal/logger"
)

// CompassSearch is a derivative-free coordinate pattern search. Poll steps
// are relative to the magnitude of each coordinate, so a step below 1 never
// changes the sign of a non-zero coordinate. Constraints c(x) >= 0 are
// handled by feasibility rules rather than penalties: any feasible point
// beats an infeasible one, feasible points compare by objective and
// infeasible points by total violation.
type CompassSearch struct {
	Step          float64
	Tolerance     float64
	MaxIterations int
}

func NewCompassSearch(step, tolerance float64, maxIterations int) *CompassSearch {
	return &CompassSearch{Step: step, Tolerance: tolerance, MaxIterations: maxIterations}
}

type point struct {
	x         []float64
	f         float64
	violation float64
}

func (p point) feasible() bool { return p.violation == 0 }

func evaluate(objective func([]float64) float64, constraints []func([]float64) float64, x []float64) point {
	p := point{x: x, f: objective(x)}
	if math.IsNaN(p.f) {
		p.f = math.Inf(1)
	}
	for _, c := range constraints {
		v := c(x)
		if math.IsNaN(v) {
			p.violation = math.Inf(1)
			break
		}
		if v < 0 {
			p.violation -= v
		}
	}
	return p
}

// better reports whether a is preferred over b.
func better(a, b point) bool {
	switch {
	case a.feasible() && b.feasible():
		return a.f < b.f
	case a.feasible() != b.feasible():
		return a.feasible()
	}
	return a.violation < b.violation
}

func scale(v float64) float64 {
	if v == 0 {
		return 1
	}
	return math.Abs(v)
}

func (c *CompassSearch) settings() (float64, float64, int) {
	step, tol, maxIter := c.Step, c.Tolerance, c.MaxIterations
	if step <= 0 || step >= 1 {
		step = 0.5
	}
	if tol <= 0 {
		tol = 1e-10
	}
	if maxIter <= 0 {
		maxIter = 100000
	}
	return step, tol, maxIter
}

// Minimize returns the best point found and whether the step collapsed below
// the tolerance at a feasible point.
func (c *CompassSearch) Minimize(objective func([]float64) float64, x0 []float64, constraints []func([]float64) float64) ([]float64, bool) {
	step, tol, maxIter := c.settings()
	best := evaluate(objective, constraints, clone(x0))

	for iter := 0; iter < maxIter; iter++ {
		improved := false
		for i := range best.x {
			for _, dir := range [2]float64{1, -1} {
				y := clone(best.x)
				y[i] += dir * step * scale(best.x[i])
				if cand := evaluate(objective, constraints, y); better(cand, best) {
					best = cand
					improved = true
					break
				}
			}
		}
		if improved {
			continue
		}
		step /= 2
		if step < tol {
			logger.Named("compass").Debugf(
				"stopped after %d iterations: f=%g violation=%g", iter+1, best.f, best.violation,
			)
			return best.x, best.feasible()
		}
	}

	logger.Named("compass").Debugf("exceeded %d iterations: f=%g violation=%g", maxIter, best.f, best.violation)
	return best.x, false
}

func clone(x []float64) []float64 {
	return append([]float64(nil), x...)
}
