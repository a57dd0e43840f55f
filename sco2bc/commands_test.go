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

package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antst/sco2bc/internal/config"
	"github.com/antst/sco2bc/internal/thermo"
)

func testConfig(t *testing.T, command string) *config.Config {
	cfg := &config.Config{Command: command, HistoryLimit: 10, DBFile: filepath.Join(t.TempDir(), "runs.db")}
	cfg.FillDefaults()
	cfg.Fluid.Provider = config.ProviderIdealGas
	return cfg
}

func TestRunCycleStoresHistory(t *testing.T) {
	cfg := testConfig(t, "cycle")
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), cfg, &out))
	assert.Contains(t, out.String(), "Cycle efficiency: ")
	assert.Contains(t, out.String(), "Heat recuperated: ")

	cfg.Command = "history"
	out.Reset()
	require.NoError(t, run(context.Background(), cfg, &out))
	assert.Contains(t, out.String(), cliSource)
}

func TestRunEntropy(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), testConfig(t, "entropy"), &out))
	assert.Contains(t, out.String(), "Optimal parameters: T1_in=300.00K, T2_out=400.00K")
	assert.Contains(t, out.String(), "Optimal entropy generation number: 0.00")
}

func TestRunSweep(t *testing.T) {
	cfg := testConfig(t, "sweep")
	cfg.Sweep.Steps = 3

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), cfg, &out))
	assert.Contains(t, out.String(), "1.5e+07")
	assert.Contains(t, out.String(), "3.5e+07")
}

func TestRunCycleValidationError(t *testing.T) {
	cfg := testConfig(t, "cycle")
	*cfg.Cycle.P2 = 1e6

	err := run(context.Background(), cfg, &bytes.Buffer{})
	assert.ErrorIs(t, err, thermo.ErrInputValidation)
}

func TestRunUnknownCommand(t *testing.T) {
	err := run(context.Background(), testConfig(t, "plot"), &bytes.Buffer{})
	assert.ErrorIs(t, err, errUnknownCommand)
}
