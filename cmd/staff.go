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

// options for the staff cmds.
var (
	staffFirstName      string
	staffLastName       string
	staffEmail          string
	staffPhone          string
	staffRole           string
	staffSpecialization string
)

// dentistsCmd represents the dentists command.
var dentistsCmd = &cobra.Command{
	Use:   "dentists",
	Short: "List the clinic's dentists",
	Long: `List the clinic's dentists.

Use the ids shown here when booking appointments and creating treatment plans.
`,
	Run: func(_ *cobra.Command, _ []string) {
		run(func(a *app) error {
			table := newTable("ID", "Name", "Specialization", "License", "Email", "Phone")

			for _, d := range a.dentists.Dentists() {
				table.Append([]string{
					d.ID.String(),
					d.Name(),
					d.Specialization,
					d.LicenseNumber,
					d.Email,
					d.Phone,
				})
			}

			table.Render()

			return nil
		})
	},
}

// staffCmd represents the staff command.
var staffCmd = &cobra.Command{
	Use:   "staff",
	Short: "List, add or update team members",
	Run: func(_ *cobra.Command, _ []string) {
		run(func(a *app) error {
			printStaff(a.staff.Members())

			return nil
		})
	},
}

// staffAddCmd represents the staff add command.
var staffAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a team member",
	Long: `Add a team member.

--first, --last, --email and --role are required.
`,
	Run: func(_ *cobra.Command, _ []string) {
		run(func(a *app) error {
			m := staffInput("")

			return staffChange(a, "added "+m.FirstName+" "+m.LastName, a.staff.Add(context.Background(), m))
		})
	},
}

// staffUpdateCmd represents the staff update command.
var staffUpdateCmd = &cobra.Command{
	Use:   "update <member id>",
	Short: "Replace a team member's details",
	Long: `Replace a team member's details.

All details are replaced, so give every flag you would for 'staff add'.
`,
	Args: cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		run(func(a *app) error {
			m := staffInput(api.ID(args[0]))

			return staffChange(a, "updated team member "+args[0], a.staff.Update(context.Background(), m))
		})
	},
}

func staffInput(id api.ID) api.StaffInput {
	return api.StaffInput{
		ID:             id,
		FirstName:      staffFirstName,
		LastName:       staffLastName,
		Email:          staffEmail,
		Phone:          staffPhone,
		Role:           staffRole,
		Specialization: staffSpecialization,
	}
}

func staffChange(a *app, done string, err error) error {
	if err != nil {
		return err
	}

	a.wait()
	info("%s", done)
	printStaff(a.staff.Members())

	return nil
}

func printStaff(members []api.StaffMember) {
	table := newTable("ID", "Name", "Role", "Specialization", "Email", "Phone")

	for _, m := range members {
		table.Append([]string{
			m.ID.String(),
			m.FirstName + " " + m.LastName,
			m.Role,
			m.Specialization,
			m.Email,
			m.Phone,
		})
	}

	table.Render()
}

func init() {
	RootCmd.AddCommand(dentistsCmd, staffCmd)
	staffCmd.AddCommand(staffAddCmd, staffUpdateCmd)

	for _, c := range []*cobra.Command{staffAddCmd, staffUpdateCmd} {
		f := c.Flags()
		f.StringVar(&staffFirstName, "first", "", "first name")
		f.StringVar(&staffLastName, "last", "", "last name")
		f.StringVar(&staffEmail, "email", "", "email address")
		f.StringVar(&staffPhone, "phone", "", "phone number")
		f.StringVar(&staffRole, "role", "", "role, eg. Hygienist")
		f.StringVar(&staffSpecialization, "specialization", "", "specialization")
	}
}
