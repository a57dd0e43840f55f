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

package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/antst/sco2bc/internal/cycle"
	"github.com/antst/sco2bc/internal/entropy"
	"github.com/antst/sco2bc/internal/store"
	"github.com/antst/sco2bc/internal/sweep"
)

func TestCycleLines(t *testing.T) {
	var buf bytes.Buffer
	Cycle(&buf, &cycle.Result{
		ThermalEfficiency: 0.41234,
		NetWork:           123456.789,
		HeatAdded:         299401.5,
		HeatRecuperated:   51234.004,
	})

	lines := strings.Split(buf.String(), "\n")
	assert.Equal(t, "Cycle efficiency: 41.23%", lines[0])
	assert.Equal(t, "Net work: 123456.79 J/kg", lines[1])
	assert.Equal(t, "Heat added: 299401.50 J/kg", lines[2])
	assert.Equal(t, "Heat recuperated: 51234.00 J/kg", lines[3])
	assert.Contains(t, buf.String(), "turbine outlet")
}

func TestEntropyLines(t *testing.T) {
	var buf bytes.Buffer
	Entropy(&buf, &entropy.Result{
		X:                       entropy.Vector{300, 400, 101325, 0.987654},
		EntropyGeneration:       0.004,
		EntropyGenerationNumber: 0.000004,
	})

	assert.Equal(t,
		"Optimal parameters: T1_in=300.00K, T2_out=400.00K, P1_out=101325.00Pa, P2_out=0.99Pa\n"+
			"Optimal entropy generation: 0.00 J/K\n"+
			"Optimal entropy generation number: 0.00\n",
		buf.String())
}

func TestSweepShowsErrors(t *testing.T) {
	var buf bytes.Buffer
	Sweep(&buf, sweep.P2, []sweep.Point{
		{Value: 20e6, Result: &cycle.Result{ThermalEfficiency: 0.3, NetWork: 1, HeatAdded: 2, HeatRecuperated: 3}},
		{Value: 7e6, Err: errors.New("P2=7e+06 must exceed P1")},
	})

	out := buf.String()
	assert.Contains(t, out, "p2")
	assert.Contains(t, out, "30.00")
	assert.Contains(t, out, "must exceed P1")
}

func TestHistoryTables(t *testing.T) {
	var buf bytes.Buffer
	ts := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	CycleHistory(&buf, []store.CycleRun{{ID: "abc", CreatedAt: ts, Source: "cli", ThermalEfficiency: 0.25}})
	EntropyHistory(&buf, []store.EntropyRun{{ID: "def", CreatedAt: ts, T1In: 300}})

	out := buf.String()
	assert.Contains(t, out, "abc")
	assert.Contains(t, out, "2024-03-01 12:30:00")
	assert.Contains(t, out, "25.00")
	assert.Contains(t, out, "def")
	assert.Contains(t, out, "300.00")
}
