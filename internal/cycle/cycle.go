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

package cycle

import (
	"math"

	"github.com/pkg/errors"

	"github.com/antst/sco2bc/internal/logger"
	"github.com/antst/sco2bc/internal/thermo"
)

// DefaultFluid is used when Parameters.Fluid is empty.
const DefaultFluid = "CO2"

// Parameters are the boundary conditions of a recuperated Brayton loop.
type Parameters struct {
	P1                   float64 `json:"p1" yaml:"p1"`
	T1                   float64 `json:"t1" yaml:"t1"`
	P2                   float64 `json:"p2" yaml:"p2"`
	T3Max                float64 `json:"t3max" yaml:"t3max"`
	CompressorEfficiency float64 `json:"eta_c" yaml:"eta_c"`
	TurbineEfficiency    float64 `json:"eta_t" yaml:"eta_t"`
	Fluid                string  `json:"fluid,omitempty" yaml:"fluid,omitempty"`
}

// StatePoint is a fluid state along the loop.
type StatePoint struct {
	Pressure    float64 `json:"pressure"`
	Temperature float64 `json:"temperature"`
	Enthalpy    float64 `json:"enthalpy"`
	Entropy     float64 `json:"entropy"`
}

// Result holds the cycle performance and the four state points:
// 1 compressor inlet, 2 compressor outlet, 3 turbine inlet, 4 turbine outlet.
type Result struct {
	ThermalEfficiency float64       `json:"thermal_efficiency"`
	NetWork           float64       `json:"net_work"`
	HeatAdded         float64       `json:"heat_added"`
	HeatRecuperated   float64       `json:"heat_recuperated"`
	States            [4]StatePoint `json:"states"`
	// Isentropic outlet enthalpies of the compressor (h2s) and turbine (h4s).
	CompressorIsentropicEnthalpy float64 `json:"h2s"`
	TurbineIsentropicEnthalpy    float64 `json:"h4s"`
}

// CompressorWork is h2 - h1.
func (r *Result) CompressorWork() float64 { return r.States[1].Enthalpy - r.States[0].Enthalpy }

// TurbineWork is h3 - h4.
func (r *Result) TurbineWork() float64 { return r.States[2].Enthalpy - r.States[3].Enthalpy }

// Validate checks P2 > P1 > 0, T3max > T1 > 0 and efficiencies in (0, 1].
func (p Parameters) Validate() error {
	values := []struct {
		name string
		v    float64
	}{
		{"P1", p.P1}, {"T1", p.T1}, {"P2", p.P2}, {"T3max", p.T3Max},
		{"eta_c", p.CompressorEfficiency}, {"eta_t", p.TurbineEfficiency},
	}
	for _, f := range values {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return thermo.NewValidationError(f.name, f.v, "must be finite")
		}
	}

	switch {
	case p.P1 <= 0:
		return thermo.NewValidationError("P1", p.P1, "must be positive")
	case p.P2 <= p.P1:
		return thermo.NewValidationError("P2", p.P2, "must exceed P1")
	case p.T1 <= 0:
		return thermo.NewValidationError("T1", p.T1, "must be positive")
	case p.T3Max <= p.T1:
		return thermo.NewValidationError("T3max", p.T3Max, "must exceed T1")
	case p.CompressorEfficiency <= 0 || p.CompressorEfficiency > 1:
		return thermo.NewValidationError("eta_c", p.CompressorEfficiency, "must be in (0, 1]")
	case p.TurbineEfficiency <= 0 || p.TurbineEfficiency > 1:
		return thermo.NewValidationError("eta_t", p.TurbineEfficiency, "must be in (0, 1]")
	}
	return nil
}

func (p Parameters) fluid() string {
	if p.Fluid == "" {
		return DefaultFluid
	}
	return p.Fluid
}

type lookup struct {
	props thermo.PropertyProvider
	fluid string
	err   error
}

// get performs one lookup; after the first failure it short-circuits so the
// solver body reads as the plain sequence of balances.
func (l *lookup) get(target, k1 thermo.Property, v1 float64, k2 thermo.Property, v2 float64) float64 {
	if l.err != nil {
		return math.NaN()
	}
	v, err := l.props.Lookup(target, k1, v1, k2, v2, l.fluid)
	if err != nil {
		l.err = wrapLookup(err, target, k1, v1, k2, v2, l.fluid)
		return math.NaN()
	}
	return v
}

func wrapLookup(err error, target, k1 thermo.Property, v1 float64, k2 thermo.Property, v2 float64, fluid string) error {
	var le *thermo.PropertyLookupError
	if errors.As(err, &le) {
		return err
	}
	return &thermo.PropertyLookupError{
		Target: target, Known1: k1, Value1: v1, Known2: k2, Value2: v2, Fluid: fluid, Err: err,
	}
}

// Solve computes the four state points and the cycle performance in a fixed
// sequence: compression, heat addition, expansion, recuperation.
func Solve(params Parameters, props thermo.PropertyProvider) (*Result, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	l := &lookup{props: props, fluid: params.fluid()}
	P, T, H, S, C := thermo.Pressure, thermo.Temperature, thermo.Enthalpy, thermo.Entropy, thermo.SpecificHeat

	// 1-2: compression
	s1 := l.get(S, P, params.P1, T, params.T1)
	h1 := l.get(H, P, params.P1, T, params.T1)
	h2s := l.get(H, P, params.P2, S, s1)
	h2 := h1 + (h2s-h1)/params.CompressorEfficiency
	T2 := l.get(T, P, params.P2, H, h2)
	s2 := l.get(S, P, params.P2, H, h2)

	// 2-3: isobaric heat addition
	h3 := l.get(H, P, params.P2, T, params.T3Max)

	// 3-4: expansion
	s3 := l.get(S, P, params.P2, H, h3)
	h4s := l.get(H, P, params.P1, S, s3)
	h4 := h3 - params.TurbineEfficiency*(h3-h4s)
	T4 := l.get(T, P, params.P1, H, h4)
	s4 := l.get(S, P, params.P1, H, h4)

	// 4-1: recuperation, single-point specific heat at state 4
	cp4 := l.get(C, P, params.P1, T, T4)

	if l.err != nil {
		return nil, l.err
	}

	qAdded := h3 - h2
	logger.L().Debugf(
		"cycle %s: h1=%.2f h2s=%.2f h2=%.2f T2=%.2f h3=%.2f h4s=%.2f h4=%.2f T4=%.2f",
		l.fluid, h1, h2s, h2, T2, h3, h4s, h4, T4,
	)
	if qAdded <= 0 {
		return nil, &thermo.DegenerateCycleError{HeatAdded: qAdded}
	}

	wNet := (h3 - h4) - (h2 - h1)
	return &Result{
		ThermalEfficiency: wNet / qAdded,
		NetWork:           wNet,
		HeatAdded:         qAdded,
		HeatRecuperated:   (T4 - T2) * cp4,
		States: [4]StatePoint{
			{Pressure: params.P1, Temperature: params.T1, Enthalpy: h1, Entropy: s1},
			{Pressure: params.P2, Temperature: T2, Enthalpy: h2, Entropy: s2},
			{Pressure: params.P2, Temperature: params.T3Max, Enthalpy: h3, Entropy: s3},
			{Pressure: params.P1, Temperature: T4, Enthalpy: h4, Entropy: s4},
		},
		CompressorIsentropicEnthalpy: h2s,
		TurbineIsentropicEnthalpy:    h4s,
	}, nil
}
