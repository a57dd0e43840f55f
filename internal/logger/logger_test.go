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

package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func captureOutput(t *testing.T) *bytes.Buffer {
	var buf bytes.Buffer
	level := Level()
	SetOutput(&buf)
	t.Cleanup(func() {
		SetOutput(os.Stderr)
		SetLogLevel(level)
	})
	return &buf
}

func TestSetOutputAndLevel(t *testing.T) {
	buf := captureOutput(t)

	SetLogLevel(zapcore.WarnLevel)
	assert.Equal(t, zapcore.WarnLevel, Level())
	L().Info("solved cycle")
	L().Warn("degenerate cycle")

	assert.NotContains(t, buf.String(), "solved cycle")
	assert.Contains(t, buf.String(), "degenerate cycle")
	assert.Contains(t, buf.String(), "WARN")
}

func TestNamed(t *testing.T) {
	buf := captureOutput(t)
	SetLogLevel(zapcore.DebugLevel)

	Named("compass").Debugf("stopped after %d iterations", 12)

	assert.Contains(t, buf.String(), "compass")
	assert.Contains(t, buf.String(), "stopped after 12 iterations")
}

func TestCloseOnBuffer(t *testing.T) {
	buf := captureOutput(t)
	Close()
	assert.Empty(t, buf.String())
}
