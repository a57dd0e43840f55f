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

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"

	"github.com/antst/sco2bc/internal/thermo"
)

const (
	prOmegaA = 0.45724
	prOmegaB = 0.07780

	bisectionIterations = 200
	bisectionRelTol     = 1e-12
	cpStep              = 1e-2 // K
	rootImagTol         = 1e-9
)

var sqrt2 = math.Sqrt2

// PengRobinson evaluates real-fluid properties from the Peng-Robinson cubic
// equation of state combined with the ideal-gas heat capacity polynomial of
// the fluid. It holds no mutable state and is safe for concurrent use.
type PengRobinson struct{}

func NewPengRobinson() *PengRobinson {
	return &PengRobinson{}
}

type prState struct {
	z, A, B float64
	a, dadT float64
	b       float64
}

func (pr *PengRobinson) coefficients(f *Fluid, T float64) (a, dadT, b float64) {
	R := UniversalGasConstant
	tc, pc, w := f.CriticalTemperature, f.CriticalPressure, f.AcentricFactor
	ac := prOmegaA * R * R * tc * tc / pc
	b = prOmegaB * R * tc / pc
	kappa := 0.37464 + 1.54226*w - 0.26992*w*w
	sqrtAlpha := 1 + kappa*(1-math.Sqrt(T/tc))
	a = ac * sqrtAlpha * sqrtAlpha
	dadT = -ac * kappa * sqrtAlpha / math.Sqrt(T*tc)
	return a, dadT, b
}

func cubic(z, c2, c1, c0 float64) (p, dp float64) {
	return ((z+c2)*z+c1)*z + c0, (3*z+2*c2)*z + c1
}

// roots returns the real roots of z^3 + c2 z^2 + c1 z + c0 as eigenvalues of
// the companion matrix, polished by Newton steps.
func roots(c2, c1, c0 float64) ([]float64, error) {
	companion := mat.NewDense(3, 3, []float64{
		-c2, -c1, -c0,
		1, 0, 0,
		0, 1, 0,
	})
	var eig mat.Eigen
	if ok := eig.Factorize(companion, mat.EigenNone); !ok {
		return nil, errors.New("eigen decomposition of the cubic failed")
	}

	var out []float64
	for _, v := range eig.Values(nil) {
		if math.Abs(imag(v)) > rootImagTol*(1+math.Abs(real(v))) {
			continue
		}
		z := real(v)
		for i := 0; i < 3; i++ {
			p, dp := cubic(z, c2, c1, c0)
			if dp == 0 {
				break
			}
			z -= p / dp
		}
		out = append(out, z)
	}
	return out, nil
}

func departureLog(z, B float64) float64 {
	return math.Log((z + (1+sqrt2)*B) / (z + (1-sqrt2)*B))
}

func (pr *PengRobinson) solve(f *Fluid, T, P float64) (*prState, error) {
	R := UniversalGasConstant
	a, dadT, b := pr.coefficients(f, T)
	A := a * P / (R * R * T * T)
	B := b * P / (R * T)

	zs, err := roots(-(1 - B), A-3*B*B-2*B, -(A*B - B*B - B*B*B))
	if err != nil {
		return nil, err
	}

	best := math.NaN()
	bestG := math.Inf(1)
	for _, z := range zs {
		if !(z > B) {
			continue
		}
		// Residual Gibbs energy over RT selects the stable phase.
		g := z - 1 - math.Log(z-B) - A/(2*sqrt2*B)*departureLog(z, B)
		if g < bestG {
			best, bestG = z, g
		}
	}
	if math.IsNaN(best) {
		return nil, errors.Wrapf(errNoRoot, "T=%g K, P=%g Pa", T, P)
	}
	return &prState{z: best, A: A, B: B, a: a, dadT: dadT, b: b}, nil
}

// enthalpyEntropy returns specific h and s at (T, P).
func (pr *PengRobinson) enthalpyEntropy(f *Fluid, T, P float64) (float64, float64, error) {
	st, err := pr.solve(f, T, P)
	if err != nil {
		return math.NaN(), math.NaN(), err
	}
	R := UniversalGasConstant
	L := departureLog(st.z, st.B)
	hRes := R*T*(st.z-1) + (T*st.dadT-st.a)/(2*sqrt2*st.b)*L
	sRes := R*math.Log(st.z-st.B) + st.dadT/(2*sqrt2*st.b)*L

	h := (f.idealEnthalpy(T) + hRes) / f.MolarMass
	s := (f.idealEntropy(T, P) + sRes) / f.MolarMass
	return h, s, nil
}

func (pr *PengRobinson) property(f *Fluid, prop thermo.Property, T, P float64) (float64, error) {
	h, s, err := pr.enthalpyEntropy(f, T, P)
	if err != nil {
		return math.NaN(), err
	}
	if prop == thermo.Enthalpy {
		return h, nil
	}
	return s, nil
}

// temperature inverts h(T) or s(T) at fixed pressure by bisection over the
// fluid's temperature envelope. Both are increasing in T.
func (pr *PengRobinson) temperature(f *Fluid, P float64, known thermo.Property, v float64) (float64, error) {
	lo, hi := f.MinTemperature, f.MaxTemperature
	gLo, err := pr.property(f, known, lo, P)
	if err != nil {
		return math.NaN(), err
	}
	gHi, err := pr.property(f, known, hi, P)
	if err != nil {
		return math.NaN(), err
	}
	if v < gLo || v > gHi {
		return math.NaN(), errors.Wrapf(errOutOfEnvelope, "%v=%g not within [%g, %g] at P=%g Pa", known, v, gLo, gHi, P)
	}

	for i := 0; i < bisectionIterations && hi-lo > bisectionRelTol*hi; i++ {
		mid := 0.5 * (lo + hi)
		g, err := pr.property(f, known, mid, P)
		if err != nil {
			return math.NaN(), err
		}
		if g < v {
			lo = mid
		} else {
			hi = mid
		}
	}
	return 0.5 * (lo + hi), nil
}

// specificHeat is the central difference of h(T) at constant pressure.
func (pr *PengRobinson) specificHeat(f *Fluid, T, P float64) (float64, error) {
	var herr error
	h := func(t float64) float64 {
		v, _, err := pr.enthalpyEntropy(f, t, P)
		if err != nil && herr == nil {
			herr = err
		}
		return v
	}
	cp := fd.Derivative(h, T, &fd.Settings{Formula: fd.Central, Step: cpStep})
	if herr != nil {
		return math.NaN(), herr
	}
	return cp, nil
}

func (pr *PengRobinson) Lookup(target thermo.Property, k1 thermo.Property, v1 float64, k2 thermo.Property, v2 float64, fluid string) (float64, error) {
	fail := func(err error) (float64, error) {
		return math.NaN(), lookupError(target, k1, v1, k2, v2, fluid, err)
	}

	f, err := Get(fluid)
	if err != nil {
		return fail(err)
	}
	P, known, v, err := splitPressure(k1, v1, k2, v2)
	if err != nil {
		return fail(err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fail(errors.Wrapf(errOutOfEnvelope, "%v=%g", known, v))
	}
	if err := f.checkPressure(P); err != nil {
		return fail(err)
	}
	if target == known {
		return v, nil
	}

	var T float64
	switch known {
	case thermo.Temperature:
		T = v
	case thermo.Enthalpy, thermo.Entropy:
		if T, err = pr.temperature(f, P, known, v); err != nil {
			return fail(err)
		}
	default:
		return fail(errors.Wrapf(errUnsupportedPair, "P, %v", known))
	}
	if err := f.checkState(T, P); err != nil {
		return fail(err)
	}

	switch target {
	case thermo.Pressure:
		return P, nil
	case thermo.Temperature:
		return T, nil
	case thermo.Enthalpy, thermo.Entropy:
		val, err := pr.property(f, target, T, P)
		if err != nil {
			return fail(err)
		}
		return val, nil
	case thermo.SpecificHeat:
		cp, err := pr.specificHeat(f, T, P)
		if err != nil {
			return fail(err)
		}
		return cp, nil
	}
	return fail(errors.Errorf("unsupported target %v", target))
}
