/*******************************************************************************
 * Copyright (c) 2026 Genome Research Ltd.
 *
 * Permission is hereby granted, free of charge, to any person obtaining
 * a copy of this software and associated documentation files (the
 * "Software"), to deal in the Software without restriction, including
 * without limitation the rights to use, copy, modify, merge, publish,
 * distribute, sublicense, and/or sell copies of the Software, and to
 * permit persons to whom the Software is furnished to do so, subject to
 * the following conditions:
 *
 * The above copyright notice and this permission notice shall be included
 * in all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND,
 * EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF
 * MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.
 * IN NO EVENT SHALL THE AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY
 * CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER IN AN ACTION OF CONTRACT,
 * TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN CONNECTION WITH THE
 * SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
 ******************************************************************************/

package cmd

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/dentflow/clinicsync/summary"
	"github.com/spf13/cobra"
)

var expiryWindow time.Duration

// dashboardCmd represents the dashboard command.
var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show an overview of the clinic",
	Long: `Show an overview of the clinic.

Shows patient numbers, today's appointments, how many appointments are coming
up in the next week, appointments and treatment plans by status, session
progress, and stock that is low or will have expired within --expiry (30 days
by default).
`,
	Run: func(_ *cobra.Command, _ []string) {
		run(func(a *app) error {
			printDashboard(summary.Build(a.clinic, a.inventory, time.Now(), expiryWindow))

			return nil
		})
	},
}

func printDashboard(d *summary.Dashboard) {
	cliPrint("Clinic overview, %s\n\n", d.Generated.Format(time.DateTime))

	table := newTable("Figure", "Value")
	table.Append([]string{"Patients", count(d.TotalPatients)})
	table.Append([]string{"New patients this month", count(d.NewPatients)})
	table.Append([]string{"Appointments today", count(len(d.Today))})
	table.Append([]string{"Scheduled in the next week", count(d.Upcoming)})
	table.Append([]string{"Active treatment plans", count(d.ActivePlans())})
	table.Append([]string{"Sessions completed", fmt.Sprintf("%s/%s",
		count(d.SessionsDone), count(d.SessionsTotal))})
	table.Append([]string{"Items low on stock", count(len(d.LowStock))})
	table.Append([]string{fmt.Sprintf("Lots expiring within %d days", d.ExpiryWindowDays),
		count(len(d.Expiring))})
	table.Render()

	if len(d.Today) > 0 {
		cliPrint("\nToday:\n")
		printAppointments(d.Today)
	}

	if len(d.ByStatus) > 0 {
		cliPrint("\nAppointments by status:\n")

		table = newTable("Status", "Count")

		for _, status := range slices.Sorted(maps.Keys(d.ByStatus)) {
			table.Append([]string{string(status), count(d.ByStatus[status])})
		}

		table.Render()
	}

	if len(d.Plans) > 0 {
		cliPrint("\nTreatment plans by status:\n")

		table = newTable("Status", "Count", "Value")

		for _, status := range slices.Sorted(maps.Keys(d.Plans)) {
			t := d.Plans[status]
			table.Append([]string{string(status), count(t.Count), money(t.Amount)})
		}

		table.Render()
	}

	if len(d.LowStock) > 0 {
		cliPrint("\nLow on stock:\n")
		printInventory(d.LowStock)
	}

	if len(d.Expiring) > 0 {
		cliPrint("\nExpiring:\n")
		printExpiring(d.Expiring)
	}
}

func init() {
	RootCmd.AddCommand(dashboardCmd)

	dashboardCmd.Flags().DurationVar(&expiryWindow, "expiry", summary.DefaultExpiryWindow,
		"count lots that will have expired within this long")
}
