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
	"os"
	"slices"
	"strconv"
	"time"

	"github.com/dentflow/clinicsync/api"
	"github.com/dustin/go-humanize" //nolint:misspell
	"github.com/olekukonko/tablewriter"
)

const (
	moneyDecimals = 2
	dateLayout    = "2006-01-02"
)

// newTable creates a table with the given header that outputs to STDOUT.
func newTable(header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader(header)
	table.SetAutoWrapText(false)

	return table
}

// date formats a timestamp as a plain date, falling back to the raw value if
// it can't be parsed.
func date(ts api.Timestamp) string {
	t, ok := ts.Time()
	if !ok {
		return string(ts)
	}

	return t.Format(dateLayout)
}

// relative formats a timestamp as eg. "3 days ago" or "2 weeks from now".
func relative(ts api.Timestamp) string {
	t, ok := ts.Time()
	if !ok {
		return string(ts)
	}

	return humanize.Time(t)
}

func relativeTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}

	return humanize.Time(t)
}

func money(amount float64) string {
	return "$" + humanize.CommafWithDigits(amount, moneyDecimals)
}

func count(n int) string {
	return humanize.Comma(int64(n))
}

func yesNo(b bool) string {
	return strconv.FormatBool(b)
}

// parseDate checks the given value is a YYYY-MM-DD date, returning it as a
// Timestamp.
func parseDate(flag, value string) (api.Timestamp, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return "", Error(fmt.Sprintf("--%s must be a date like 2026-01-31, not %q", flag, value))
	}

	return api.NewDate(t), nil
}

// requireFlags returns an error naming a flag that was not given.
func requireFlags(values map[string]string) error {
	for _, name := range slices.Sorted(maps.Keys(values)) {
		if values[name] == "" {
			return Error(fmt.Sprintf("--%s is required", name))
		}
	}

	return nil
}
