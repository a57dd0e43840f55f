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
	"database/sql"
	_ "embed"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/antst/sco2bc/internal/cycle"
	"github.com/antst/sco2bc/internal/entropy"
	"github.com/antst/sco2bc/internal/logger"
)

//go:embed schema.sql
var schema string

// ErrNotFound is returned when a controller value is absent.
var ErrNotFound = errors.New("not found")

// Store persists solver runs and controller state in sqlite.
type Store struct {
	db  *sqlx.DB
	now func() time.Time
}

// CycleRun is one stored cycle solution.
type CycleRun struct {
	ID                string    `db:"id"`
	CreatedAt         time.Time `db:"created_at"`
	Source            string    `db:"source"`
	Fluid             string    `db:"fluid"`
	P1                float64   `db:"p1"`
	T1                float64   `db:"t1"`
	P2                float64   `db:"p2"`
	T3Max             float64   `db:"t3max"`
	EtaC              float64   `db:"eta_c"`
	EtaT              float64   `db:"eta_t"`
	ThermalEfficiency float64   `db:"thermal_efficiency"`
	NetWork           float64   `db:"net_work"`
	HeatAdded         float64   `db:"heat_added"`
	HeatRecuperated   float64   `db:"heat_recuperated"`
}

// EntropyRun is one stored optimization.
type EntropyRun struct {
	ID        string    `db:"id"`
	CreatedAt time.Time `db:"created_at"`
	M1        float64   `db:"m1"`
	M2        float64   `db:"m2"`
	Cp        float64   `db:"cp"`
	R         float64   `db:"r"`
	T1In      float64   `db:"t1_in"`
	T2Out     float64   `db:"t2_out"`
	P1Out     float64   `db:"p1_out"`
	P2Out     float64   `db:"p2_out"`
	SGen      float64   `db:"s_gen"`
	Ns        float64   `db:"ns"`
}

func isMemory(dbFile string) bool {
	return dbFile == ":memory:" || strings.Contains(dbFile, "mode=memory")
}

// Open opens (creating if needed) the sqlite database and its tables.
func Open(dbFile string) (*Store, error) {
	db, err := sqlx.Open("sqlite3", dbFile)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", dbFile)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "ping %s", dbFile)
	}

	if isMemory(dbFile) {
		// every connection of an in-memory database is a separate database
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(100)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create tables")
	}
	logger.L().Debugf("Using DB file `%v`", dbFile)

	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveCycleRun stores a solved cycle and returns its id.
func (s *Store) SaveCycleRun(ctx context.Context, source string, params cycle.Parameters, res *cycle.Result) (string, error) {
	run := CycleRun{
		ID:                uuid.New().String(),
		CreatedAt:         s.now().UTC(),
		Source:            source,
		Fluid:             params.Fluid,
		P1:                params.P1,
		T1:                params.T1,
		P2:                params.P2,
		T3Max:             params.T3Max,
		EtaC:              params.CompressorEfficiency,
		EtaT:              params.TurbineEfficiency,
		ThermalEfficiency: res.ThermalEfficiency,
		NetWork:           res.NetWork,
		HeatAdded:         res.HeatAdded,
		HeatRecuperated:   res.HeatRecuperated,
	}
	if run.Fluid == "" {
		run.Fluid = cycle.DefaultFluid
	}

	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO cycle_runs (
			id, created_at, source, fluid, p1, t1, p2, t3max, eta_c, eta_t,
			thermal_efficiency, net_work, heat_added, heat_recuperated
		) VALUES (
			:id, :created_at, :source, :fluid, :p1, :t1, :p2, :t3max, :eta_c, :eta_t,
			:thermal_efficiency, :net_work, :heat_added, :heat_recuperated
		)`, run)
	if err != nil {
		return "", errors.Wrap(err, "insert cycle run")
	}
	return run.ID, nil
}

// SaveEntropyRun stores an optimization result and returns its id.
func (s *Store) SaveEntropyRun(ctx context.Context, stream entropy.StreamParameters, res *entropy.Result) (string, error) {
	run := EntropyRun{
		ID:        uuid.New().String(),
		CreatedAt: s.now().UTC(),
		M1:        stream.M1,
		M2:        stream.M2,
		Cp:        stream.Cp,
		R:         stream.R,
		T1In:      res.X.T1In(),
		T2Out:     res.X.T2Out(),
		P1Out:     res.X.P1Out(),
		P2Out:     res.X.P2Out(),
		SGen:      res.EntropyGeneration,
		Ns:        res.EntropyGenerationNumber,
	}

	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO entropy_runs (
			id, created_at, m1, m2, cp, r, t1_in, t2_out, p1_out, p2_out, s_gen, ns
		) VALUES (
			:id, :created_at, :m1, :m2, :cp, :r, :t1_in, :t2_out, :p1_out, :p2_out, :s_gen, :ns
		)`, run)
	if err != nil {
		return "", errors.Wrap(err, "insert entropy run")
	}
	return run.ID, nil
}

// CycleRuns lists the latest cycle runs, newest first.
func (s *Store) CycleRuns(ctx context.Context, limit int) ([]CycleRun, error) {
	var runs []CycleRun
	err := s.db.SelectContext(ctx, &runs, `SELECT * FROM cycle_runs ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "select cycle runs")
	}
	return runs, nil
}

// CycleRun fetches one cycle run by id.
func (s *Store) CycleRun(ctx context.Context, id string) (*CycleRun, error) {
	var run CycleRun
	err := s.db.GetContext(ctx, &run, `SELECT * FROM cycle_runs WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Wrapf(ErrNotFound, "cycle run %s", id)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get cycle run %s", id)
	}
	return &run, nil
}

// EntropyRuns lists the latest optimizations, newest first.
func (s *Store) EntropyRuns(ctx context.Context, limit int) ([]EntropyRun, error) {
	var runs []EntropyRun
	err := s.db.SelectContext(ctx, &runs, `SELECT * FROM entropy_runs ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "select entropy runs")
	}
	return runs, nil
}

func (s *Store) UpsertControllerValue(ctx context.Context, name, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO controller_values (name, value) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET value = excluded.value`, name, value)
	return errors.Wrapf(err, "upsert controller value %s", name)
}

func (s *Store) GetControllerValue(ctx context.Context, name string) (string, error) {
	var value string
	err := s.db.GetContext(ctx, &value, `SELECT value FROM controller_values WHERE name = ?`, name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", errors.Wrapf(ErrNotFound, "controller value %s", name)
	}
	if err != nil {
		return "", errors.Wrapf(err, "get controller value %s", name)
	}
	return value, nil
}
