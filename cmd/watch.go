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
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dentflow/clinicsync/summary"
	"github.com/dentflow/clinicsync/watch"
	"github.com/spf13/cobra"
)

var (
	watchInterval string
	watchDuration time.Duration
)

// watchCmd represents the watch command.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Keep the dashboard up to date",
	Long: `Keep the dashboard up to date.

Shows the dashboard, then every --interval (1m by default, or
$CLINIC_POLL_INTERVAL) refetches patients, appointments, treatment plans,
inventory and staff, showing the dashboard again once they have all come back.

Runs until interrupted, or for --duration if given.
`,
	Run: func(_ *cobra.Command, _ []string) {
		interval, err := pollIntervalFromFlagOrEnv(watchInterval)
		if err != nil {
			die("%s", err)
		}

		run(func(a *app) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if watchDuration > 0 {
				var cancel context.CancelFunc

				ctx, cancel = context.WithTimeout(ctx, watchDuration)
				defer cancel()
			}

			return watchDashboard(ctx, a, interval)
		})
	},
}

func watchDashboard(ctx context.Context, a *app, interval time.Duration) error {
	show := func() {
		printDashboard(summary.Build(a.clinic, a.inventory, time.Now(), expiryWindow))
	}

	show()

	info("refreshing every %s", interval)

	return watch.Watch(ctx, watch.Config{
		Interval: interval,
		Session:  a.sess,
		Logger:   appLogger,
		Settled: func() {
			a.wait()
			show()
		},
	},
		watch.Flag("patients", a.clinic.SetChanged),
		watch.Flag("appointments", a.clinic.SetAppointChanged),
		watch.Flag("treatments", a.clinic.SetTreatmentChanged),
		watch.Flag("inventory", a.inventory.SetChanged),
		watch.Flag("staff", a.staff.SetChanged),
	)
}

func init() {
	RootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVarP(&watchInterval, "interval", "i", "", "time between refreshes [$"+envPollInterval+"]")
	watchCmd.Flags().DurationVar(&watchDuration, "duration", 0, "stop after this long")
	watchCmd.Flags().DurationVar(&expiryWindow, "expiry", summary.DefaultExpiryWindow,
		"count lots that will have expired within this long")
}
