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
	"maps"
	"slices"
	"time"

	"github.com/dentflow/clinicsync/analytics"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
)

var (
	synclogSince  time.Duration
	synclogRecent int
)

// synclogCmd represents the synclog command.
var synclogCmd = &cobra.Command{
	Use:   "synclog",
	Short: "Summarise the sync journal",
	Long: `Summarise the sync journal.

When --journal (or $CLINIC_JOURNAL) is set, every command records each fetch of
each collection, and whether it succeeded, failed, or was discarded because the
session moved on, in that sqlite database.

This shows, per collection, those counts over the last --since (default 24h),
along with the last success and last error. With --recent N, it instead lists
the N most recent events.
`,
	Run: func(_ *cobra.Command, _ []string) {
		path := journalPath()
		if path == "" {
			die("no journal: use --journal or set %s", envJournal)
		}

		j, err := analytics.Open(path, appLogger)
		if err != nil {
			die("%s", err)
		}

		if synclogRecent > 0 {
			err = printRecent(j, synclogRecent)
		} else {
			err = printJournalSummary(j, time.Now().Add(-synclogSince))
		}

		if errc := j.Close(); errc != nil {
			err = multierror.Append(err, errc)
		}

		if err != nil {
			die("%s", err)
		}
	},
}

func printJournalSummary(j *analytics.Journal, start time.Time) error {
	s, err := j.Summary(start, time.Time{})
	if err != nil {
		return err
	}

	cliPrint("%s runs since %s\n", count(len(s.Runs)), start.Format(time.DateTime))

	table := newTable("Collection", "Fetches", "OK", "Failed", "Discarded", "Resets",
		"Last success", "Items", "Last error")

	for _, name := range slices.Sorted(maps.Keys(s.Resources)) {
		rs := s.Resources[name]
		table.Append([]string{
			name,
			count(int(rs.Fetches)),
			count(int(rs.Successes)),
			count(int(rs.Failures)),
			count(int(rs.Discards)),
			count(int(rs.Resets)),
			relativeTime(rs.LastSuccess),
			count(rs.LastItems),
			rs.LastError,
		})
	}

	table.Render()

	return nil
}

func printRecent(j *analytics.Journal, limit int) error {
	entries, err := j.Recent(limit)
	if err != nil {
		return err
	}

	table := newTable("Time", "Run", "Collection", "Event", "Items", "Error")

	for _, e := range entries {
		table.Append([]string{
			e.Time.Format(time.DateTime),
			shortRun(e.Run),
			e.Resource,
			string(e.Kind),
			count(e.Items),
			e.Error,
		})
	}

	table.Render()

	return nil
}

const shortRunLen = 8

func shortRun(run string) string {
	if len(run) > shortRunLen {
		return run[:shortRunLen]
	}

	return run
}

func init() {
	RootCmd.AddCommand(synclogCmd)

	synclogCmd.Flags().DurationVar(&synclogSince, "since", 24*time.Hour, "summarise events this far back") //nolint:mnd
	synclogCmd.Flags().IntVarP(&synclogRecent, "recent", "n", 0, "list this many of the most recent events instead")
}
