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

package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/antst/sco2bc/internal/logger"
)

const (
	SolverCycle   = "cycle"
	SolverEntropy = "entropy"
	SolverSweep   = "sweep"

	OutcomeOK    = "ok"
	OutcomeError = "error"
)

var (
	SolverRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sco2bc_solver_runs_total",
		Help: "Number of solver invocations by outcome.",
	}, []string{"solver", "outcome"})

	SolverDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sco2bc_solver_duration_seconds",
		Help:    "Wall time of solver invocations.",
		Buckets: prometheus.ExponentialBuckets(1e-4, 4, 10),
	}, []string{"solver"})
)

// Observe records one solver run that started at start.
func Observe(solver string, start time.Time, err error) {
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	SolverRuns.WithLabelValues(solver, outcome).Inc()
	SolverDuration.WithLabelValues(solver).Observe(time.Since(start).Seconds())
}

// Serve exposes /metrics on addr until the listener fails.
func Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	logger.L().Infof("Serving metrics on %s/metrics", addr)
	return http.ListenAndServe(addr, mux)
}
