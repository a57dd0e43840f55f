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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/optimize"

	"github.com/antst/sco2bc/internal/config"
)

func shiftedBowl(x []float64) float64 {
	return (x[0]-2)*(x[0]-2) + (x[1]-1)*(x[1]-1)
}

func TestCompassSearchUnconstrained(t *testing.T) {
	c := NewCompassSearch(0.5, 1e-10, 100000)

	x, ok := c.Minimize(shiftedBowl, []float64{0, 0}, nil)
	require.True(t, ok)
	assert.InDelta(t, 2, x[0], 1e-6)
	assert.InDelta(t, 1, x[1], 1e-6)
}

func TestCompassSearchActiveBound(t *testing.T) {
	c := NewCompassSearch(0.5, 1e-10, 100000)
	bound := func(x []float64) float64 { return 1.5 - x[0] }

	x, ok := c.Minimize(shiftedBowl, []float64{0, 0}, []func([]float64) float64{bound})
	require.True(t, ok)
	assert.InDelta(t, 1.5, x[0], 1e-6)
	assert.InDelta(t, 1, x[1], 1e-6)
	assert.GreaterOrEqual(t, bound(x), 0.0)
}

func TestCompassSearchRecoversFeasibility(t *testing.T) {
	c := NewCompassSearch(0.5, 1e-10, 100000)
	// Start infeasible: x0 must come down below 1.
	bound := func(x []float64) float64 { return 1 - x[0] }

	x, ok := c.Minimize(shiftedBowl, []float64{10, 1}, []func([]float64) float64{bound})
	require.True(t, ok)
	assert.InDelta(t, 1, x[0], 1e-6)
	assert.GreaterOrEqual(t, bound(x), 0.0)
}

func TestCompassSearchNeverCrossesZero(t *testing.T) {
	c := NewCompassSearch(0.5, 1e-10, 100000)
	var seen []float64
	// 1/x is unbounded below for negative x, so any crossing would be accepted.
	f := func(x []float64) float64 {
		seen = append(seen, x[0])
		return x[0]*x[0] + 1/x[0]
	}

	x, ok := c.Minimize(f, []float64{5}, nil)
	require.True(t, ok)
	assert.InDelta(t, math.Cbrt(0.5), x[0], 1e-6)
	for _, v := range seen {
		require.Greater(t, v, 0.0)
	}
}

func TestCompassSearchInfeasible(t *testing.T) {
	c := NewCompassSearch(0.5, 1e-10, 100000)
	never := func([]float64) float64 { return -1 }

	_, ok := c.Minimize(shiftedBowl, []float64{0, 0}, []func([]float64) float64{never})
	assert.False(t, ok)
}

func TestCompassSearchTreatsNaNAsWorst(t *testing.T) {
	c := NewCompassSearch(0.5, 1e-10, 100000)
	f := func(x []float64) float64 {
		if x[0] > 3 {
			return math.NaN()
		}
		return -x[0]
	}

	x, ok := c.Minimize(f, []float64{1}, nil)
	require.True(t, ok)
	assert.InDelta(t, 3, x[0], 1e-6)
}

func TestCompassSearchIterationLimit(t *testing.T) {
	c := NewCompassSearch(0.5, 1e-10, 1)

	_, ok := c.Minimize(shiftedBowl, []float64{0, 0}, nil)
	assert.False(t, ok)
}

func TestCompassSearchDoesNotModifyStart(t *testing.T) {
	x0 := []float64{0, 0}
	NewCompassSearch(0.5, 1e-10, 100000).Minimize(shiftedBowl, x0, nil)
	assert.Equal(t, []float64{0, 0}, x0)
}

func TestAugmentedLagrangianActiveConstraint(t *testing.T) {
	a := NewAugmentedLagrangian(10, 1e-6, 50, nil)
	c := func(x []float64) float64 { return 1 - x[0] - x[1] }

	x, ok := a.Minimize(shiftedBowl, []float64{0, 0}, []func([]float64) float64{c})
	require.True(t, ok)
	assert.InDelta(t, 1, x[0], 1e-4)
	assert.InDelta(t, 0, x[1], 1e-4)
}

func TestAugmentedLagrangianKeepsSign(t *testing.T) {
	a := NewAugmentedLagrangian(10, 1e-6, 50, nil)
	// -ln(x) is undefined below zero, and the start is far outside x <= 2.
	objective := func(x []float64) float64 { return -math.Log(x[0]) }
	c := func(x []float64) float64 { return 2 - x[0] }

	x, ok := a.Minimize(objective, []float64{100}, []func([]float64) float64{c})
	require.True(t, ok)
	assert.InDelta(t, 2, x[0], 1e-4)
}

func TestAugmentedLagrangianInactiveConstraint(t *testing.T) {
	method, err := InnerMethod("lbfgs")
	require.NoError(t, err)
	a := NewAugmentedLagrangian(10, 1e-6, 50, method)
	c := func(x []float64) float64 { return 10 - x[0] }

	x, ok := a.Minimize(shiftedBowl, []float64{0, 0}, []func([]float64) float64{c})
	require.True(t, ok)
	assert.InDelta(t, 2, x[0], 1e-4)
	assert.InDelta(t, 1, x[1], 1e-4)
}

func TestInnerMethod(t *testing.T) {
	for name, want := range map[string]optimize.Method{
		"":            &optimize.BFGS{},
		"bfgs":        &optimize.BFGS{},
		"lbfgs":       &optimize.LBFGS{},
		"nelder-mead": &optimize.NelderMead{},
		"gradient":    &optimize.GradientDescent{},
	} {
		m, err := InnerMethod(name)
		require.NoError(t, err, name)
		assert.IsType(t, want, m(), name)
	}

	_, err := InnerMethod("newton")
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	opt, err := New(&config.OptimizerConfig{})
	require.NoError(t, err)
	cs, ok := opt.(*CompassSearch)
	require.True(t, ok)
	assert.Equal(t, 0.5, cs.Step)
	assert.Equal(t, 1e-10, cs.Tolerance)

	opt, err = New(&config.OptimizerConfig{Method: config.MethodAugmentedLagrangian})
	require.NoError(t, err)
	al, ok := opt.(*AugmentedLagrangian)
	require.True(t, ok)
	assert.Equal(t, minLagrangianTolerance, al.Tolerance)
	assert.Equal(t, 10.0, al.Penalty)

	_, err = New(&config.OptimizerConfig{Method: "simplex"})
	assert.Error(t, err)

	_, err = New(&config.OptimizerConfig{Method: config.MethodAugmentedLagrangian, Inner: "newton"})
	assert.Error(t, err)
}
