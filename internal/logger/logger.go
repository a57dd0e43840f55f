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
	"io"
	"os"
	"sync/atomic"
	"syscall"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logger atomic.Pointer[zap.SugaredLogger]
	dlevel = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

func init() {
	// stdout carries the solver reports
	SetOutput(os.Stderr)
	L().Debugf("Logger initialized")
}

func build(w zapcore.WriteSyncer) *zap.SugaredLogger {
	enc := zap.NewDevelopmentEncoderConfig()
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), w, dlevel)
	return zap.New(core, zap.ErrorOutput(w)).Sugar()
}

// SetOutput sends all further log lines to w, keeping the current level.
func SetOutput(w io.Writer) {
	if f, ok := w.(*os.File); ok {
		logger.Store(build(zapcore.Lock(f)))
		return
	}
	logger.Store(build(zapcore.Lock(zapcore.AddSync(w))))
}

func L() *zap.SugaredLogger {
	l := logger.Load()
	if l == nil {
		panic("Logger is not initialized")
	}
	return l
}

// Named returns a logger whose lines are tagged with a solver component.
func Named(component string) *zap.SugaredLogger {
	return L().Named(component)
}

func Close() {
	err := L().Sync()
	// terminals and pipes cannot be fsynced
	if err == nil || errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.ENOTTY) {
		return
	}
	L().Error(errors.WithMessage(err, "failed to close logger"))
}

func SetLogLevel(level zapcore.Level) {
	dlevel.SetLevel(level)
}

func Level() zapcore.Level {
	return dlevel.Level()
}
