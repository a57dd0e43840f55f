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

const (
	// UniversalGasConstant in J/(mol K).
	UniversalGasConstant = 8.314462618

	referenceTemperature = 298.15
	referencePressure    = 101325.0
)

var (
	errUnknownFluid    = errors.New("unknown fluid")
	errUnsupportedPair = errors.New("unsupported pair of known properties")
	errOutOfEnvelope   = errors.New("state outside valid envelope")
	errNoRoot          = errors.New("no admissible compressibility root")
)

// Fluid is the pure-component data needed by the providers.
type Fluid struct {
	Name                string
	MolarMass           float64 // kg/mol
	CriticalTemperature float64 // K
	CriticalPressure    float64 // Pa
	AcentricFactor      float64
	// Ideal-gas isobaric heat capacity cp/R = a0 + a1 T + a2 T^2 + a3 T^3 + a4 T^4.
	IdealCp        [5]float64
	MinTemperature float64
	MaxTemperature float64
	MaxPressure    float64
}

var fluids = map[string]*Fluid{
	"CO2": {
		Name:                "CO2",
		MolarMass:           0.0440098,
		CriticalTemperature: 304.1282,
		CriticalPressure:    7.3773e6,
		AcentricFactor:      0.22394,
		IdealCp:             [5]float64{3.259, 1.356e-3, 1.502e-5, -2.374e-8, 1.056e-11},
		MinTemperature:      220,
		MaxTemperature:      1500,
		MaxPressure:         100e6,
	},
	"N2": {
		Name:                "N2",
		MolarMass:           0.0280134,
		CriticalTemperature: 126.192,
		CriticalPressure:    3.3958e6,
		AcentricFactor:      0.0372,
		IdealCp:             [5]float64{3.539, -0.261e-3, 0.007e-5, 0.157e-8, -0.099e-11},
		MinTemperature:      70,
		MaxTemperature:      1500,
		MaxPressure:         100e6,
	},
}

// Get returns the data of a registered fluid, matching names case-insensitively.
func Get(name string) (*Fluid, error) {
	if f, ok := fluids[strings.ToUpper(strings.TrimSpace(name))]; ok {
		return f, nil
	}
	return nil, errors.Wrapf(errUnknownFluid, "%q", name)
}

// Names lists the registered fluids.
func Names() []string {
	names := make([]string, 0, len(fluids))
	for n := range fluids {
		names = append(names, n)
	}
	return names
}

// SpecificGasConstant is R/M in J/(kg K).
func (f *Fluid) SpecificGasConstant() float64 {
	return UniversalGasConstant / f.MolarMass
}

// IdealMolarCp is the ideal-gas isobaric heat capacity in J/(mol K).
func (f *Fluid) IdealMolarCp(T float64) float64 {
	a := f.IdealCp
	return UniversalGasConstant * (a[0] + T*(a[1]+T*(a[2]+T*(a[3]+T*a[4]))))
}

// idealEnthalpy is the molar ideal-gas enthalpy relative to the reference temperature.
func (f *Fluid) idealEnthalpy(T float64) float64 {
	a := f.IdealCp
	h := 0.0
	t, t0 := T, referenceTemperature
	for k := 0; k < len(a); k++ {
		h += a[k] * (t - t0) / float64(k+1)
		t *= T
		t0 *= referenceTemperature
	}
	return UniversalGasConstant * h
}

// idealEntropy is the molar ideal-gas entropy relative to the reference state.
func (f *Fluid) idealEntropy(T, P float64) float64 {
	a := f.IdealCp
	s := a[0] * math.Log(T/referenceTemperature)
	t, t0 := T, referenceTemperature
	for k := 1; k < len(a); k++ {
		s += a[k] * (t - t0) / float64(k)
		t *= T
		t0 *= referenceTemperature
	}
	return UniversalGasConstant * (s - math.Log(P/referencePressure))
}

func (f *Fluid) checkPressure(P float64) error {
	if !(P > 0) || P > f.MaxPressure {
		return errors.Wrapf(errOutOfEnvelope, "P=%g Pa", P)
	}
	return nil
}

func (f *Fluid) checkState(T, P float64) error {
	if err := f.checkPressure(P); err != nil {
		return err
	}
	if !(T >= f.MinTemperature && T <= f.MaxTemperature) {
		return errors.Wrapf(errOutOfEnvelope, "T=%g K", T)
	}
	return nil
}

// splitPressure returns the pressure and the other known property of a pair.
func splitPressure(k1 thermo.Property, v1 float64, k2 thermo.Property, v2 float64) (float64, thermo.Property, float64, error) {
	switch {
	case k1 == thermo.Pressure && k2 != thermo.Pressure:
		return v1, k2, v2, nil
	case k2 == thermo.Pressure && k1 != thermo.Pressure:
		return v2, k1, v1, nil
	}
	return 0, 0, 0, errors.Wrapf(errUnsupportedPair, "%v, %v", k1, k2)
}

func lookupError(target, k1 thermo.Property, v1 float64, k2 thermo.Property, v2 float64, fluid string, err error) error {
	return &thermo.PropertyLookupError{
		Target: target, Known1: k1, Value1: v1, Known2: k2, Value2: v2, Fluid: fluid, Err: err,
	}
}
