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

package config

import (
	"github.com/pkg/errors"

	"github.com/antst/sco2bc/internal/entropy"
)

const (
	MethodCompass             = "compass"
	MethodAugmentedLagrangian = "augmented-lagrangian"

	defaultInnerMethod   = "bfgs"
	defaultStep          = 0.5
	defaultTolerance     = 1e-10
	defaultMaxIterations = 100000
	defaultPenalty       = 10.0
)

var defaultInitialGuess = []float64{300, 400, 101325, 101325}

// StreamConfig describes the two exchanger streams and the starting point.
type StreamConfig struct {
	M1           *float64  `yaml:"m1"`
	M2           *float64  `yaml:"m2"`
	Cp           *float64  `yaml:"cp"`
	R            *float64  `yaml:"r"`
	InitialGuess []float64 `yaml:"initial_guess,flow"`
}

func NewStreamConfig() *StreamConfig {
	cfg := &StreamConfig{}
	cfg.FillDefaults()
	return cfg
}

func (s *StreamConfig) FillDefaults() {
	if s.M1 == nil {
		s.M1 = GetPTR(1.0)
	}
	if s.M2 == nil {
		s.M2 = GetPTR(1.0)
	}
	if s.Cp == nil {
		s.Cp = GetPTR(1005.0)
	}
	if s.R == nil {
		s.R = GetPTR(287.05)
	}
	if len(s.InitialGuess) == 0 {
		s.InitialGuess = append([]float64(nil), defaultInitialGuess...)
	}
}

// Validate rejects an initial guess that is not a full decision vector.
func (s *StreamConfig) Validate() error {
	if n := len(entropy.Vector{}); len(s.InitialGuess) != n {
		return errors.Errorf(
			"stream.initial_guess: want %d values (T1_in, T2_out, P1_out, P2_out), got %d", n, len(s.InitialGuess),
		)
	}
	return nil
}

func (s *StreamConfig) Params() (entropy.StreamParameters, entropy.Vector) {
	s.FillDefaults()
	var guess entropy.Vector
	copy(guess[:], s.InitialGuess)
	return entropy.StreamParameters{M1: *s.M1, M2: *s.M2, Cp: *s.Cp, R: *s.R}, guess
}

// OptimizerConfig selects and tunes the constrained optimizer.
type OptimizerConfig struct {
	Method        string  `yaml:"method"`
	Inner         string  `yaml:"inner,omitempty"`
	Step          float64 `yaml:"step"`
	Tolerance     float64 `yaml:"tolerance"`
	MaxIterations int     `yaml:"max_iterations"`
	Penalty       float64 `yaml:"penalty,omitempty"`
}

func NewOptimizerConfig() *OptimizerConfig {
	cfg := &OptimizerConfig{}
	cfg.FillDefaults()
	return cfg
}

func (o *OptimizerConfig) FillDefaults() {
	if o.Method == "" {
		o.Method = MethodCompass
	}
	if o.Inner == "" {
		o.Inner = defaultInnerMethod
	}
	if o.Step <= 0 || o.Step >= 1 {
		o.Step = defaultStep
	}
	if o.Tolerance <= 0 {
		o.Tolerance = defaultTolerance
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = defaultMaxIterations
	}
	if o.Penalty <= 0 {
		o.Penalty = defaultPenalty
	}
}
