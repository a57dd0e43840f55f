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
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/antst/sco2bc/internal/cycle"
	"github.com/antst/sco2bc/internal/entropy"
	"github.com/antst/sco2bc/internal/store"
	"github.com/antst/sco2bc/internal/sweep"
)

var stateNames = [4]string{"compressor inlet", "compressor outlet", "turbine inlet", "turbine outlet"}

func newTable(w io.Writer, header table.Row) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(header)
	return tw
}

// Cycle prints the performance summary followed by the state point table.
func Cycle(w io.Writer, res *cycle.Result) {
	fmt.Fprintf(w, "Cycle efficiency: %.2f%%\n", res.ThermalEfficiency*100)
	fmt.Fprintf(w, "Net work: %.2f J/kg\n", res.NetWork)
	fmt.Fprintf(w, "Heat added: %.2f J/kg\n", res.HeatAdded)
	fmt.Fprintf(w, "Heat recuperated: %.2f J/kg\n", res.HeatRecuperated)

	tw := newTable(w, table.Row{"#", "State", "P [Pa]", "T [K]", "h [J/kg]", "s [J/(kg K)]"})
	for i, st := range res.States {
		tw.AppendRow(table.Row{
			i + 1, stateNames[i],
			fmt.Sprintf("%.0f", st.Pressure),
			fmt.Sprintf("%.2f", st.Temperature),
			fmt.Sprintf("%.2f", st.Enthalpy),
			fmt.Sprintf("%.4f", st.Entropy),
		})
	}
	tw.Render()
}

// Entropy prints the optimum of the entropy generation minimization.
func Entropy(w io.Writer, res *entropy.Result) {
	fmt.Fprintf(w, "Optimal parameters: T1_in=%.2fK, T2_out=%.2fK, P1_out=%.2fPa, P2_out=%.2fPa\n",
		res.X.T1In(), res.X.T2Out(), res.X.P1Out(), res.X.P2Out())
	fmt.Fprintf(w, "Optimal entropy generation: %.2f J/K\n", res.EntropyGeneration)
	fmt.Fprintf(w, "Optimal entropy generation number: %.2f\n", res.EntropyGenerationNumber)
}

// Sweep prints one row per sweep point. Failed points show the error instead
// of the performance figures.
func Sweep(w io.Writer, variable sweep.Variable, points []sweep.Point) {
	tw := newTable(w, table.Row{string(variable), "efficiency [%]", "w_net [J/kg]", "q_added [J/kg]", "q_rec [J/kg]"})
	for _, p := range points {
		if p.Err != nil {
			tw.AppendRow(table.Row{fmt.Sprintf("%g", p.Value), p.Err.Error(), "", "", ""})
			continue
		}
		tw.AppendRow(table.Row{
			fmt.Sprintf("%g", p.Value),
			fmt.Sprintf("%.2f", p.Result.ThermalEfficiency*100),
			fmt.Sprintf("%.2f", p.Result.NetWork),
			fmt.Sprintf("%.2f", p.Result.HeatAdded),
			fmt.Sprintf("%.2f", p.Result.HeatRecuperated),
		})
	}
	tw.Render()
}

// CycleHistory lists stored cycle runs.
func CycleHistory(w io.Writer, runs []store.CycleRun) {
	tw := newTable(w, table.Row{"ID", "Time", "Source", "P1 [Pa]", "P2 [Pa]", "T3max [K]", "efficiency [%]", "w_net [J/kg]"})
	for _, r := range runs {
		tw.AppendRow(table.Row{
			r.ID, r.CreatedAt.Format("2006-01-02 15:04:05"), r.Source,
			fmt.Sprintf("%.0f", r.P1), fmt.Sprintf("%.0f", r.P2), fmt.Sprintf("%.2f", r.T3Max),
			fmt.Sprintf("%.2f", r.ThermalEfficiency*100), fmt.Sprintf("%.2f", r.NetWork),
		})
	}
	tw.Render()
}

// EntropyHistory lists stored optimizations.
func EntropyHistory(w io.Writer, runs []store.EntropyRun) {
	tw := newTable(w, table.Row{"ID", "Time", "T1_in [K]", "T2_out [K]", "P1_out [Pa]", "P2_out [Pa]", "s_gen [J/K]", "Ns"})
	for _, r := range runs {
		tw.AppendRow(table.Row{
			r.ID, r.CreatedAt.Format("2006-01-02 15:04:05"),
			fmt.Sprintf("%.2f", r.T1In), fmt.Sprintf("%.2f", r.T2Out),
			fmt.Sprintf("%.2f", r.P1Out), fmt.Sprintf("%.2f", r.P2Out),
			fmt.Sprintf("%.4g", r.SGen), fmt.Sprintf("%.4g", r.Ns),
		})
	}
	tw.Render()
}
