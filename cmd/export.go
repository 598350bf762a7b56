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
	"os"

	"code.cloudfoundry.org/bytefmt"
	"github.com/dentflow/clinicsync/export"
	"github.com/spf13/cobra"
)

var (
	exportDir     string
	exportGzipped bool
)

// exportCmd represents the export command.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write every collection to CSV files",
	Long: `Write every collection to CSV files.

Writes patients.csv, appointments.csv, treatments.csv, inventory.csv (one row
per lot), dentists.csv and staff.csv to the --output directory, creating it if
necessary. With --gz the files are gzip compressed and end in .csv.gz.

Prints each file written along with its size.
`,
	Run: func(_ *cobra.Command, _ []string) {
		if exportDir == "" {
			die("--output is required")
		}

		run(func(a *app) error {
			paths, err := export.WriteDir(exportDir, exportGzipped,
				export.Patients(a.clinic.Patients()),
				export.Appointments(a.clinic.Appointments()),
				export.TreatmentPlans(a.clinic.TreatmentPlans()),
				export.Inventory(a.inventory.Inventories()),
				export.Dentists(a.dentists.Dentists()),
				export.Staff(a.staff.Members()),
			)
			if err != nil {
				return err
			}

			for _, path := range paths {
				fi, err := os.Stat(path)
				if err != nil {
					return err
				}

				cliPrint("%s\t%s\n", path, bytefmt.ByteSize(uint64(fi.Size()))) //nolint:gosec
			}

			return nil
		})
	},
}

func init() {
	RootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportDir, "output", "o", "", "directory to write the CSV files to")
	exportCmd.Flags().BoolVar(&exportGzipped, "gz", false, "gzip the CSV files")
}
