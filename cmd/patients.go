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

// options for the patients cmds.
var (
	patientSearch    string
	patientFirstName string
	patientLastName  string
	patientEmail     string
	patientPhone     string
	patientDOB       string
	patientGender    string
	patientCity      string
	patientCountry   string
	patientHistory   string
	patientAllergies string
)

// patientsCmd represents the patients command.
var patientsCmd = &cobra.Command{
	Use:   "patients",
	Short: "List or add patients",
	Long: `List or add patients.

With no sub-command, lists all your patients. Use --search to only show those
whose name, email or phone contains the given text (case insensitive).
`,
	Run: func(_ *cobra.Command, _ []string) {
		run(func(a *app) error {
			patients := a.clinic.Patients()
			if patientSearch != "" {
				patients = a.clinic.FindPatients(patientSearch)
			}

			printPatients(a, patients)

			return nil
		})
	},
}

// patientsAddCmd represents the patients add command.
var patientsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a patient",
	Long: `Add a patient.

--first and --last are required. --dob must be given as YYYY-MM-DD.
`,
	Run: func(_ *cobra.Command, _ []string) {
		run(func(a *app) error {
			p := api.NewPatient{
				FirstName:      patientFirstName,
				LastName:       patientLastName,
				Email:          patientEmail,
				Phone:          patientPhone,
				Gender:         patientGender,
				City:           patientCity,
				Country:        patientCountry,
				MedicalHistory: patientHistory,
				Allergies:      patientAllergies,
			}

			if patientDOB != "" {
				dob, err := parseDate("dob", patientDOB)
				if err != nil {
					return err
				}

				p.DateOfBirth = dob
			}

			if err := a.clinic.AddPatient(context.Background(), p); err != nil {
				return err
			}

			a.wait()
			info("added patient %s %s", p.FirstName, p.LastName)
			printPatients(a, a.clinic.Patients())

			return nil
		})
	},
}

// patientsRecordsCmd represents the patients records command.
var patientsRecordsCmd = &cobra.Command{
	Use:   "records <patient id>",
	Short: "List a patient's medical records",
	Long: `List a patient's medical records.

Records are fetched fresh each time, and are not kept.
`,
	Args: cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		run(func(a *app) error {
			records, err := a.clinic.MedicalRecords(context.Background(), api.ID(args[0]))
			if err != nil {
				return err
			}

			table := newTable("ID", "Title", "Type", "Description", "File", "Doctor", "Added")

			for _, r := range records {
				table.Append([]string{
					r.ID.String(),
					r.Title,
					r.Type,
					r.Description,
					r.FileName,
					r.Doctor,
					date(r.CreatedAt),
				})
			}

			table.Render()

			return nil
		})
	},
}

func printPatients(a *app, patients []api.Patient) {
	table := newTable("ID", "Name", "Email", "Phone", "Status", "Appointments", "Last visit", "Added")

	for _, p := range patients {
		table.Append([]string{
			p.ID.String(),
			p.Name(),
			p.Email,
			p.Phone,
			p.Status,
			count(a.clinic.AppointmentCount(p.ID)),
			relative(p.LastVisit),
			date(p.CreatedAt),
		})
	}

	table.Render()
}

func init() {
	RootCmd.AddCommand(patientsCmd)
	patientsCmd.AddCommand(patientsAddCmd, patientsRecordsCmd)

	patientsCmd.Flags().StringVarP(&patientSearch, "search", "s", "", "only show patients matching this")

	f := patientsAddCmd.Flags()
	f.StringVar(&patientFirstName, "first", "", "first name")
	f.StringVar(&patientLastName, "last", "", "last name")
	f.StringVar(&patientEmail, "email", "", "email address")
	f.StringVar(&patientPhone, "phone", "", "phone number")
	f.StringVar(&patientDOB, "dob", "", "date of birth, YYYY-MM-DD")
	f.StringVar(&patientGender, "gender", "", "gender")
	f.StringVar(&patientCity, "city", "", "city")
	f.StringVar(&patientCountry, "country", "", "country")
	f.StringVar(&patientHistory, "history", "", "medical history")
	f.StringVar(&patientAllergies, "allergies", "", "allergies")
}
