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
	"math"
	"strings"

	"github.com/pkg/errors"

	"github.com/antst/sco2bc/internal/thermo"
)

// IdealGas is a calorically perfect gas with constant cp:
// h = cp (T - T0), s = cp ln(T/T0) - R ln(P/P0).
type IdealGas struct {
	Fluid string // empty accepts any fluid id
	Cp    float64
	R     float64
}

// NewIdealGas returns a perfect-gas provider with the given specific cp and R.
func NewIdealGas(fluid string, cp, r float64) *IdealGas {
	return &IdealGas{Fluid: fluid, Cp: cp, R: r}
}

// IdealGasFor freezes the fluid's ideal-gas cp at the reference temperature.
func IdealGasFor(f *Fluid) *IdealGas {
	return NewIdealGas(f.Name, f.IdealMolarCp(referenceTemperature)/f.MolarMass, f.SpecificGasConstant())
}

func (g *IdealGas) temperature(P float64, known thermo.Property, v float64) (float64, error) {
	switch known {
	case thermo.Temperature:
		return v, nil
	case thermo.Enthalpy:
		return referenceTemperature + v/g.Cp, nil
	case thermo.Entropy:
		return referenceTemperature * math.Exp((v+g.R*math.Log(P/referencePressure))/g.Cp), nil
	}
	return 0, errors.Wrapf(errUnsupportedPair, "P, %v", known)
}

func (g *IdealGas) Lookup(target thermo.Property, k1 thermo.Property, v1 float64, k2 thermo.Property, v2 float64, fluid string) (float64, error) {
	fail := func(err error) (float64, error) {
		return math.NaN(), lookupError(target, k1, v1, k2, v2, fluid, err)
	}

	if g.Fluid != "" && !strings.EqualFold(g.Fluid, fluid) {
		return fail(errors.Wrapf(errUnknownFluid, "%q", fluid))
	}
	P, known, v, err := splitPressure(k1, v1, k2, v2)
	if err != nil {
		return fail(err)
	}
	if !(P > 0) || math.IsInf(P, 0) || math.IsNaN(v) || math.IsInf(v, 0) {
		return fail(errors.Wrapf(errOutOfEnvelope, "P=%g Pa, %v=%g", P, known, v))
	}
	T, err := g.temperature(P, known, v)
	if err != nil {
		return fail(err)
	}
	if !(T > 0) || math.IsInf(T, 0) {
		return fail(errors.Wrapf(errOutOfEnvelope, "T=%g K", T))
	}

	switch target {
	case thermo.Pressure:
		return P, nil
	case thermo.Temperature:
		return T, nil
	case thermo.Enthalpy:
		return g.Cp * (T - referenceTemperature), nil
	case thermo.Entropy:
		return g.Cp*math.Log(T/referenceTemperature) - g.R*math.Log(P/referencePressure), nil
	case thermo.SpecificHeat:
		return g.Cp, nil
	}
	return fail(errors.Errorf("unsupported target %v", target))
}
