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

package entropy

import (
	"math"

	"github.com/antst/sco2bc/internal/logger"
	"github.com/antst/sco2bc/internal/thermo"
)

// Vector is the decision vector (T1_in, T2_out, P1_out, P2_out).
type Vector [4]float64

const (
	idxT1In = iota
	idxT2Out
	idxP1Out
	idxP2Out
)

func (v Vector) T1In() float64  { return v[idxT1In] }
func (v Vector) T2Out() float64 { return v[idxT2Out] }
func (v Vector) P1Out() float64 { return v[idxP1Out] }
func (v Vector) P2Out() float64 { return v[idxP2Out] }

// StreamParameters describe the two streams of the exchanger. Both streams
// share one specific heat.
type StreamParameters struct {
	M1 float64 `json:"m1" yaml:"m1"`
	M2 float64 `json:"m2" yaml:"m2"`
	Cp float64 `json:"cp" yaml:"cp"`
	R  float64 `json:"r" yaml:"r"`
}

// Result is the optimizer's chosen point with the entropy generation
// recomputed there.
type Result struct {
	X                       Vector  `json:"x"`
	EntropyGeneration       float64 `json:"s_gen"`
	EntropyGenerationNumber float64 `json:"ns"`
	Converged               bool    `json:"converged"`
}

// ConstrainedOptimizer finds a local minimum of objective starting at x0,
// subject to constraints[i](x) >= 0. Inequality constraints must be handled
// by the method itself.
type ConstrainedOptimizer interface {
	Minimize(objective func([]float64) float64, x0 []float64, constraints []func([]float64) float64) ([]float64, bool)
}

// Validate rejects parameters for which the logarithms or the Ns division
// are undefined.
func (s StreamParameters) Validate() error {
	fields := []struct {
		name string
		v    float64
	}{{"m1", s.M1}, {"m2", s.M2}, {"cp", s.Cp}, {"R", s.R}}
	for _, f := range fields {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) || f.v <= 0 {
			return thermo.NewDomainError(f.name, f.v, "must be positive and finite")
		}
	}
	return nil
}

func checkTemperatures(x Vector) error {
	if !(x.T1In() > 0) || math.IsInf(x.T1In(), 0) {
		return thermo.NewDomainError("T1_in", x.T1In(), "must be positive and finite")
	}
	if !(x.T2Out() > 0) || math.IsInf(x.T2Out(), 0) {
		return thermo.NewDomainError("T2_out", x.T2Out(), "must be positive and finite")
	}
	return nil
}

// Generation evaluates the entropy generation rate at x. The model takes
// T1_out := T1_in and T2_in := T2_out.
func (s StreamParameters) Generation(x Vector) float64 {
	t1In, t2Out := x.T1In(), x.T2Out()
	t1Out := t1In
	t2In := t2Out
	return s.M1*s.Cp*math.Log(t1Out/t1In) +
		s.M2*s.Cp*math.Log(t2Out/t2In) -
		s.M1*s.R*math.Log(x.P1Out()) -
		s.M2*s.R*math.Log(x.P2Out())
}

// GenerationNumber is Ns = s_gen / (m2 cp).
func (s StreamParameters) GenerationNumber(sGen float64) float64 {
	return sGen / (s.M2 * s.Cp)
}

func toVector(x []float64) Vector {
	var v Vector
	copy(v[:], x)
	return v
}

// Minimize searches the decision vector for minimal entropy generation
// subject to s_gen >= 0, P1_out >= 0 and P2_out >= 0.
func Minimize(stream StreamParameters, initial Vector, opt ConstrainedOptimizer) (*Result, error) {
	if err := stream.Validate(); err != nil {
		return nil, err
	}
	if err := checkTemperatures(initial); err != nil {
		return nil, err
	}

	objective := func(x []float64) float64 {
		return stream.Generation(toVector(x))
	}
	constraints := []func([]float64) float64{
		objective,
		func(x []float64) float64 { return x[idxP1Out] },
		func(x []float64) float64 { return x[idxP2Out] },
	}

	x0 := make([]float64, len(initial))
	copy(x0, initial[:])
	xOpt, converged := opt.Minimize(objective, x0, constraints)
	if !converged || len(xOpt) != len(initial) {
		return nil, &thermo.DivergedError{X: xOpt}
	}

	x := toVector(xOpt)
	if err := checkTemperatures(x); err != nil {
		return nil, err
	}
	sGen := stream.Generation(x)
	if math.IsNaN(sGen) || math.IsInf(sGen, 0) {
		return nil, thermo.NewDomainError("s_gen", sGen, "is not finite at the optimum")
	}

	res := &Result{
		X:                       x,
		EntropyGeneration:       sGen,
		EntropyGenerationNumber: stream.GenerationNumber(sGen),
		Converged:               converged,
	}
	logger.L().Debugf("entropy optimum x=%v s_gen=%.6g Ns=%.6g", res.X, res.EntropyGeneration, res.EntropyGenerationNumber)
	return res, nil
}
