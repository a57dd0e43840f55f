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

import "fmt"

// Property identifies a thermodynamic quantity understood by a PropertyProvider.
type Property int

const (
	Pressure Property = iota
	Temperature
	Enthalpy
	Entropy
	SpecificHeat
)

var propertyNames = map[Property]string{
	Pressure:     "P",
	Temperature:  "T",
	Enthalpy:     "H",
	Entropy:      "S",
	SpecificHeat: "C",
}

func (p Property) String() string {
	if n, ok := propertyNames[p]; ok {
		return n
	}
	return fmt.Sprintf("Property(%d)", int(p))
}

// PropertyProvider resolves a third property of a fluid from two known ones.
// All values are SI and specific (per kg). Implementations must be
// deterministic for fixed inputs and must be safe for concurrent use when
// shared between concurrent solver invocations.
type PropertyProvider interface {
	Lookup(target Property, known1 Property, value1 float64, known2 Property, value2 float64, fluid string) (float64, error)
}

// ProviderFunc adapts a plain function to PropertyProvider.
type ProviderFunc func(target Property, known1 Property, value1 float64, known2 Property, value2 float64, fluid string) (float64, error)

func (f ProviderFunc) Lookup(target Property, known1 Property, value1 float64, known2 Property, value2 float64, fluid string) (float64, error) {
	return f(target, known1, value1, known2, value2, fluid)
}
