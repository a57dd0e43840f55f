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

package sweep

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antst/sco2bc/internal/cycle"
	"github.com/antst/sco2bc/internal/fluid"
	"github.com/antst/sco2bc/internal/thermo"
)

func baseParameters() cycle.Parameters {
	return cycle.Parameters{
		P1: 7.5e6, T1: 300, P2: 25e6, T3Max: 923,
		CompressorEfficiency: 1, TurbineEfficiency: 1, Fluid: "CO2",
	}
}

func idealCO2(t *testing.T) thermo.PropertyProvider {
	f, err := fluid.Get("CO2")
	require.NoError(t, err)
	return fluid.IdealGasFor(f)
}

func TestValues(t *testing.T) {
	assert.Equal(t, []float64{0, 0.25, 0.5, 0.75, 1}, Spec{From: 0, To: 1, Steps: 5}.Values())
	assert.Equal(t, []float64{3}, Spec{From: 3, To: 9, Steps: 1}.Values())
	assert.Equal(t, []float64{3}, Spec{From: 3, To: 9}.Values())
	assert.Equal(t, []float64{9, 3}, Spec{From: 9, To: 3, Steps: 2}.Values())
}

func TestParseVariable(t *testing.T) {
	v, err := ParseVariable("ETA-C")
	require.NoError(t, err)
	assert.Equal(t, EtaC, v)

	v, err = ParseVariable("t3max")
	require.NoError(t, err)
	assert.Equal(t, T3Max, v)

	_, err = ParseVariable("mass_flow")
	assert.ErrorIs(t, err, errUnknownVariable)
}

func TestRunKeepsOrderAndRecordsFailures(t *testing.T) {
	spec := Spec{Variable: P2, From: 5e6, To: 35e6, Steps: 7, Workers: 3}

	points, err := Run(context.Background(), baseParameters(), spec, idealCO2(t))
	require.NoError(t, err)
	require.Len(t, points, 7)

	assert.Equal(t, 5e6, points[0].Value)
	assert.ErrorIs(t, points[0].Err, thermo.ErrInputValidation)
	assert.Nil(t, points[0].Result)

	prev := 0.0
	for i, p := range points[1:] {
		require.NoError(t, p.Err, "point %d", i+1)
		assert.Equal(t, p.Value, p.Params.P2)
		assert.Equal(t, 7.5e6, p.Params.P1)
		// Ideal machines on a perfect gas: efficiency grows with pressure ratio.
		assert.Greater(t, p.Result.ThermalEfficiency, prev)
		prev = p.Result.ThermalEfficiency
	}
}

func TestRunEachVariable(t *testing.T) {
	for _, tc := range []struct {
		v     Variable
		value float64
		get   func(cycle.Parameters) float64
	}{
		{P1, 5e6, func(p cycle.Parameters) float64 { return p.P1 }},
		{T1, 310, func(p cycle.Parameters) float64 { return p.T1 }},
		{T3Max, 800, func(p cycle.Parameters) float64 { return p.T3Max }},
		{EtaC, 0.8, func(p cycle.Parameters) float64 { return p.CompressorEfficiency }},
		{EtaT, 0.7, func(p cycle.Parameters) float64 { return p.TurbineEfficiency }},
	} {
		points, err := Run(context.Background(), baseParameters(), Spec{Variable: tc.v, From: tc.value, Steps: 1}, idealCO2(t))
		require.NoError(t, err)
		require.Len(t, points, 1)
		assert.Equal(t, tc.value, tc.get(points[0].Params), string(tc.v))
		assert.NoError(t, points[0].Err, string(tc.v))
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, baseParameters(), Spec{Variable: P2, From: 10e6, To: 30e6, Steps: 5}, idealCO2(t))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunUnknownVariable(t *testing.T) {
	_, err := Run(context.Background(), baseParameters(), Spec{Variable: "mass", Steps: 2}, idealCO2(t))
	assert.ErrorIs(t, err, errUnknownVariable)
}
