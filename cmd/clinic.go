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

	"github.com/dentflow/clinicsync/api"
	"github.com/spf13/cobra"
)

// options for the clinic cmds.
var clinicChanges api.ClinicInfo

// clinicCmd represents the clinic command.
var clinicCmd = &cobra.Command{
	Use:   "clinic",
	Short: "Show or set your clinic's details",
	Long: `Show or set your clinic's details.

With no sub-command, shows your clinic's name, address and contact details.
`,
	Run: func(_ *cobra.Command, _ []string) {
		run(func(a *app) error {
			return printClinicInfo(a.details.Info())
		})
	},
}

// clinicSetCmd represents the clinic set command.
var clinicSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set your clinic's details",
	Long: `Set your clinic's details.

Any of the flags you supply replace the current value; the rest are kept. If
your clinic has no details yet, --name is required.
`,
	Run: func(_ *cobra.Command, _ []string) {
		run(func(a *app) error {
			if clinicChanges == (api.ClinicInfo{}) {
				return Error("nothing to update")
			}

			if err := a.details.Save(context.Background(), clinicChanges); err != nil {
				return err
			}

			a.wait()
			info("clinic details saved")

			return printClinicInfo(a.details.Info())
		})
	},
}

func printClinicInfo(ci *api.ClinicInfo) error {
	if ci == nil {
		return Error("your clinic has no details yet: use 'clinicsync clinic set'")
	}

	table := newTable("Detail", "Value")
	table.AppendBulk([][]string{
		{"Name", ci.Name},
		{"Country", ci.Country},
		{"City", ci.City},
		{"State", ci.State},
		{"Postal code", ci.PostalCode},
		{"Phone", ci.ClinicPhone},
		{"Email", ci.ClinicEmail},
		{"Working days", ci.WorkingDate},
	})
	table.Render()

	return nil
}

func init() {
	RootCmd.AddCommand(clinicCmd)
	clinicCmd.AddCommand(clinicSetCmd)

	f := clinicSetCmd.Flags()
	f.StringVar(&clinicChanges.Name, "name", "", "clinic name")
	f.StringVar(&clinicChanges.Country, "country", "", "country")
	f.StringVar(&clinicChanges.City, "city", "", "city")
	f.StringVar(&clinicChanges.State, "state", "", "state")
	f.StringVar(&clinicChanges.PostalCode, "postal", "", "postal code")
	f.StringVar(&clinicChanges.ClinicPhone, "phone", "", "phone number")
	f.StringVar(&clinicChanges.ClinicEmail, "email", "", "email address")
	f.StringVar(&clinicChanges.WorkingDate, "working", "", "working days, eg. Mon-Fri")
}
