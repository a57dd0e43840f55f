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

package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antst/sco2bc/internal/cycle"
	"github.com/antst/sco2bc/internal/entropy"
)

func openMemory(t *testing.T) *Store {
	st, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func fixedClock(start time.Time) func() time.Time {
	n := 0
	return func() time.Time {
		n++
		return start.Add(time.Duration(n) * time.Minute)
	}
}

func TestCycleRuns(t *testing.T) {
	st := openMemory(t)
	start := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	st.now = fixedClock(start)
	ctx := context.Background()

	params := cycle.Parameters{P1: 7.5e6, T1: 300, P2: 25e6, T3Max: 923, CompressorEfficiency: 0.85, TurbineEfficiency: 0.9}
	res := &cycle.Result{ThermalEfficiency: 0.2, NetWork: 1.5e5, HeatAdded: 7.5e5, HeatRecuperated: 5e5}

	first, err := st.SaveCycleRun(ctx, "cli", params, res)
	require.NoError(t, err)
	_, err = uuid.Parse(first)
	require.NoError(t, err)

	params.P2 = 30e6
	second, err := st.SaveCycleRun(ctx, "controller", params, res)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	runs, err := st.CycleRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, second, runs[0].ID)
	assert.Equal(t, "controller", runs[0].Source)
	assert.Equal(t, 30e6, runs[0].P2)
	assert.Equal(t, first, runs[1].ID)
	assert.Equal(t, cycle.DefaultFluid, runs[1].Fluid)
	assert.Equal(t, 0.2, runs[1].ThermalEfficiency)
	assert.True(t, start.Add(time.Minute).Equal(runs[1].CreatedAt), runs[1].CreatedAt)

	runs, err = st.CycleRuns(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, runs, 1)

	run, err := st.CycleRun(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, 25e6, run.P2)
	assert.Equal(t, 0.85, run.EtaC)

	_, err = st.CycleRun(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEntropyRuns(t *testing.T) {
	st := openMemory(t)
	ctx := context.Background()

	stream := entropy.StreamParameters{M1: 1, M2: 2, Cp: 1005, R: 287.05}
	res := &entropy.Result{X: entropy.Vector{300, 400, 0.5, 2}, EntropyGeneration: 1e-9, EntropyGenerationNumber: 5e-13}
	id, err := st.SaveEntropyRun(ctx, stream, res)
	require.NoError(t, err)

	runs, err := st.EntropyRuns(ctx, 5)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, id, runs[0].ID)
	assert.Equal(t, 2.0, runs[0].M2)
	assert.Equal(t, 300.0, runs[0].T1In)
	assert.Equal(t, 2.0, runs[0].P2Out)
	assert.Equal(t, 1e-9, runs[0].SGen)
}

func TestControllerValues(t *testing.T) {
	st := openMemory(t)
	ctx := context.Background()

	_, err := st.GetControllerValue(ctx, "p2")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, st.UpsertControllerValue(ctx, "p2", "2e+07"))
	require.NoError(t, st.UpsertControllerValue(ctx, "p2", "3e+07"))

	v, err := st.GetControllerValue(ctx, "p2")
	require.NoError(t, err)
	assert.Equal(t, "3e+07", v)
}

func TestOpenIsIdempotent(t *testing.T) {
	path := t.TempDir() + "/runs.db"

	st, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, st.UpsertControllerValue(context.Background(), "t1", "305"))
	require.NoError(t, st.Close())

	st, err = Open(path)
	require.NoError(t, err)
	defer st.Close()
	v, err := st.GetControllerValue(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, "305", v)
}
