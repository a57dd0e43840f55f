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

package thermo

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrInputValidation      = errors.New("input validation failed")
	ErrInvalidDomain        = errors.New("invalid domain")
	ErrPropertyLookup       = errors.New("property lookup failed")
	ErrDegenerateCycle      = errors.New("degenerate cycle")
	ErrOptimizationDiverged = errors.New("optimization diverged")
)

// ValidationError reports a non-physical input parameter. Domain errors
// (logarithm or division undefined) match both ErrInputValidation and
// ErrInvalidDomain.
type ValidationError struct {
	Field  string
	Value  float64
	Reason string
	Domain bool
}

func (e *ValidationError) Error() string {
	kind := ErrInputValidation
	if e.Domain {
		kind = ErrInvalidDomain
	}
	return fmt.Sprintf("%v: %s=%g %s", kind, e.Field, e.Value, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	if target == ErrInputValidation {
		return true
	}
	return e.Domain && target == ErrInvalidDomain
}

// NewValidationError returns a plain input validation error.
func NewValidationError(field string, value float64, reason string) error {
	return &ValidationError{Field: field, Value: value, Reason: reason}
}

// NewDomainError returns a validation error that also matches ErrInvalidDomain.
func NewDomainError(field string, value float64, reason string) error {
	return &ValidationError{Field: field, Value: value, Reason: reason, Domain: true}
}

// PropertyLookupError is returned when a provider cannot resolve a state.
type PropertyLookupError struct {
	Target Property
	Known1 Property
	Value1 float64
	Known2 Property
	Value2 float64
	Fluid  string
	Err    error
}

func (e *PropertyLookupError) Error() string {
	msg := fmt.Sprintf(
		"%v: %v(%v=%g, %v=%g) for %s", ErrPropertyLookup,
		e.Target, e.Known1, e.Value1, e.Known2, e.Value2, e.Fluid,
	)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *PropertyLookupError) Unwrap() error { return e.Err }

func (e *PropertyLookupError) Is(target error) bool { return target == ErrPropertyLookup }

// DegenerateCycleError is returned when the heat added is not positive.
type DegenerateCycleError struct {
	HeatAdded float64
}

func (e *DegenerateCycleError) Error() string {
	return fmt.Sprintf("%v: heat added %g J/kg is not positive", ErrDegenerateCycle, e.HeatAdded)
}

func (e *DegenerateCycleError) Is(target error) bool { return target == ErrDegenerateCycle }

// DivergedError carries whatever vector the optimizer returned without converging.
type DivergedError struct {
	X []float64
}

func (e *DivergedError) Error() string {
	return fmt.Sprintf("%v: last point %v", ErrOptimizationDiverged, e.X)
}

func (e *DivergedError) Is(target error) bool { return target == ErrOptimizationDiverged }
