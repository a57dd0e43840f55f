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
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/antst/sco2bc/internal/config"
	"github.com/antst/sco2bc/internal/controller"
	"github.com/antst/sco2bc/internal/cycle"
	"github.com/antst/sco2bc/internal/entropy"
	"github.com/antst/sco2bc/internal/fluid"
	"github.com/antst/sco2bc/internal/logger"
	"github.com/antst/sco2bc/internal/metrics"
	"github.com/antst/sco2bc/internal/optimizer"
	"github.com/antst/sco2bc/internal/report"
	"github.com/antst/sco2bc/internal/safe_mqtt"
	"github.com/antst/sco2bc/internal/store"
	"github.com/antst/sco2bc/internal/sweep"
)

const cliSource = "cli"

var errUnknownCommand = errors.New("unknown command")

func run(ctx context.Context, cfg *config.Config, out io.Writer) error {
	switch cfg.Command {
	case "cycle":
		return runCycle(ctx, cfg, out)
	case "entropy":
		return runEntropy(ctx, cfg, out)
	case "sweep":
		return runSweep(ctx, cfg, out)
	case "serve":
		return runServe(ctx, cfg)
	case "history":
		return runHistory(ctx, cfg, out)
	}
	return errors.Wrapf(errUnknownCommand, "`%s`", cfg.Command)
}

// optionalStore opens the history DB for commands that work without it.
func optionalStore(cfg *config.Config) *store.Store {
	st, err := store.Open(cfg.DBFile)
	if err != nil {
		logger.L().Warnf("Run history disabled: %v", err)
		return nil
	}
	return st
}

func runCycle(ctx context.Context, cfg *config.Config, out io.Writer) error {
	props, err := fluid.NewProvider(cfg.Fluid)
	if err != nil {
		return err
	}
	params := cfg.Cycle.Params(cfg.Fluid.Name)

	start := time.Now()
	res, err := cycle.Solve(params, props)
	metrics.Observe(metrics.SolverCycle, start, err)
	if err != nil {
		return err
	}
	report.Cycle(out, res)

	if st := optionalStore(cfg); st != nil {
		defer st.Close()
		if _, err := st.SaveCycleRun(ctx, cliSource, params, res); err != nil {
			logger.L().Warnf("Failed to store cycle run: %v", err)
		}
	}
	return nil
}

func runEntropy(ctx context.Context, cfg *config.Config, out io.Writer) error {
	opt, err := optimizer.New(cfg.Optimizer)
	if err != nil {
		return err
	}
	stream, guess := cfg.Stream.Params()

	start := time.Now()
	res, err := entropy.Minimize(stream, guess, opt)
	metrics.Observe(metrics.SolverEntropy, start, err)
	if err != nil {
		return err
	}
	report.Entropy(out, res)

	if st := optionalStore(cfg); st != nil {
		defer st.Close()
		if _, err := st.SaveEntropyRun(ctx, stream, res); err != nil {
			logger.L().Warnf("Failed to store entropy run: %v", err)
		}
	}
	return nil
}

func runSweep(ctx context.Context, cfg *config.Config, out io.Writer) error {
	props, err := fluid.NewProvider(cfg.Fluid)
	if err != nil {
		return err
	}
	variable, err := sweep.ParseVariable(cfg.Sweep.Variable)
	if err != nil {
		return err
	}
	spec := sweep.Spec{
		Variable: variable,
		From:     *cfg.Sweep.From,
		To:       *cfg.Sweep.To,
		Steps:    cfg.Sweep.Steps,
		Workers:  cfg.Sweep.Workers,
	}

	start := time.Now()
	points, err := sweep.Run(ctx, cfg.Cycle.Params(cfg.Fluid.Name), spec, props)
	metrics.Observe(metrics.SolverSweep, start, err)
	if err != nil {
		return err
	}
	report.Sweep(out, variable, points)
	return nil
}

func runServe(ctx context.Context, cfg *config.Config) error {
	props, err := fluid.NewProvider(cfg.Fluid)
	if err != nil {
		return err
	}
	st, err := store.Open(cfg.DBFile)
	if err != nil {
		return err
	}
	defer st.Close()

	if cfg.MetricsAddr != "" {
		go func() {
			if err := metrics.Serve(cfg.MetricsAddr); err != nil {
				logger.L().Errorf("Metrics endpoint stopped: %v", err)
			}
		}()
	}

	client := safe_mqtt.InitMQTTClient(cfg.MQTTConfig.URL, "sco2bc-"+uuid.New().String())
	defer client.Disconnect()

	c, err := controller.NewCycleController(cfg, client, st, props)
	if err != nil {
		return err
	}
	c.Run(ctx)
	return nil
}

func runHistory(ctx context.Context, cfg *config.Config, out io.Writer) error {
	st, err := store.Open(cfg.DBFile)
	if err != nil {
		return err
	}
	defer st.Close()

	cycles, err := st.CycleRuns(ctx, cfg.HistoryLimit)
	if err != nil {
		return err
	}
	report.CycleHistory(out, cycles)

	entropies, err := st.EntropyRuns(ctx, cfg.HistoryLimit)
	if err != nil {
		return err
	}
	report.EntropyHistory(out, entropies)
	return nil
}
