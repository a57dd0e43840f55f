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
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/antst/sco2bc/internal/cycle"
	"github.com/antst/sco2bc/internal/logger"
	"github.com/antst/sco2bc/internal/thermo"
)

// Variable names a sweepable cycle parameter.
type Variable string

const (
	P1    Variable = "p1"
	P2    Variable = "p2"
	T1    Variable = "t1"
	T3Max Variable = "t3max"
	EtaC  Variable = "eta_c"
	EtaT  Variable = "eta_t"
)

var errUnknownVariable = errors.New("unknown sweep variable")

// ParseVariable accepts the config spelling of a variable.
func ParseVariable(s string) (Variable, error) {
	v := Variable(strings.ToLower(strings.ReplaceAll(s, "-", "_")))
	switch v {
	case P1, P2, T1, T3Max, EtaC, EtaT:
		return v, nil
	}
	return "", errors.Wrapf(errUnknownVariable, "%q", s)
}

func (v Variable) apply(p cycle.Parameters, value float64) cycle.Parameters {
	switch v {
	case P1:
		p.P1 = value
	case P2:
		p.P2 = value
	case T1:
		p.T1 = value
	case T3Max:
		p.T3Max = value
	case EtaC:
		p.CompressorEfficiency = value
	case EtaT:
		p.TurbineEfficiency = value
	}
	return p
}

// Spec describes a linear sweep of one variable.
type Spec struct {
	Variable Variable
	From     float64
	To       float64
	Steps    int
	Workers  int
}

// Point is one solved sweep sample. Err is set instead of Result when the
// solver rejected that sample.
type Point struct {
	Value  float64
	Params cycle.Parameters
	Result *cycle.Result
	Err    error
}

// Values returns the sample values of the sweep, From and To included.
func (s Spec) Values() []float64 {
	if s.Steps <= 1 {
		return []float64{s.From}
	}
	out := make([]float64, s.Steps)
	delta := (s.To - s.From) / float64(s.Steps-1)
	for i := range out {
		out[i] = s.From + float64(i)*delta
	}
	out[len(out)-1] = s.To
	return out
}

// Run solves the cycle at every sample concurrently. Per-sample solver errors
// are recorded on the point; only context cancellation aborts the sweep.
func Run(ctx context.Context, base cycle.Parameters, spec Spec, props thermo.PropertyProvider) ([]Point, error) {
	if _, err := ParseVariable(string(spec.Variable)); err != nil {
		return nil, err
	}

	values := spec.Values()
	points := make([]Point, len(values))

	g, ctx := errgroup.WithContext(ctx)
	if spec.Workers > 0 {
		g.SetLimit(spec.Workers)
	}

	for i, value := range values {
		i, value := i, value
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			params := spec.Variable.apply(base, value)
			res, err := cycle.Solve(params, props)
			points[i] = Point{Value: value, Params: params, Result: res, Err: err}
			if err != nil {
				logger.Named("sweep").Debugf("%s=%g: %v", spec.Variable, value, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "sweep aborted")
	}
	return points, nil
}
