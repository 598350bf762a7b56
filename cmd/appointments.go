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
	"fmt"
	"slices"
	"strings"

	"github.com/dentflow/clinicsync/api"
	"github.com/spf13/cobra"
)

// options for the appointments cmds.
var (
	apptPatient string
	apptDentist string
	apptDate    string
	apptStart   string
	apptEnd     string
	apptType    string
	apptNotes   string
	apptStatus  string
)

var appointmentStatuses = []api.AppointmentStatus{ //nolint:gochecknoglobals
	api.AppointmentScheduled,
	api.AppointmentInProgress,
	api.AppointmentCompleted,
	api.AppointmentCancelled,
	api.AppointmentNoShow,
}

// appointmentsCmd represents the appointments command.
var appointmentsCmd = &cobra.Command{
	Use:     "appointments",
	Aliases: []string{"appts"},
	Short:   "List, book or update appointments",
	Long: `List, book or update appointments.

With no sub-command, lists all appointments, optionally only those with the
given --status.
`,
	Run: func(_ *cobra.Command, _ []string) {
		run(func(a *app) error {
			appts := a.clinic.Appointments()

			if apptStatus != "" {
				status, err := parseAppointmentStatus(apptStatus)
				if err != nil {
					return err
				}

				appts = slices.DeleteFunc(appts, func(ap api.Appointment) bool {
					return ap.Status != status
				})
			}

			printAppointments(appts)

			return nil
		})
	},
}

// appointmentsAddCmd represents the appointments add command.
var appointmentsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Book an appointment",
	Long: `Book an appointment.

--patient and --dentist take the ids shown by 'patients' and 'dentists'.
--date is YYYY-MM-DD and --start and --end are times like 09:30.
`,
	Run: func(_ *cobra.Command, _ []string) {
		run(func(a *app) error {
			if err := requireFlags(map[string]string{
				"patient": apptPatient, "dentist": apptDentist, "date": apptDate,
				"start": apptStart, "end": apptEnd, "type": apptType,
			}); err != nil {
				return err
			}

			if _, ok := a.dentists.Find(api.ID(apptDentist)); !ok {
				warn("dentist %s is not one we know of", apptDentist)
			}

			day, err := parseDate("date", apptDate)
			if err != nil {
				return err
			}

			if err = a.clinic.CreateAppointment(context.Background(), api.NewAppointment{
				PatientID:     api.ID(apptPatient),
				DentistID:     api.ID(apptDentist),
				Date:          day,
				StartTime:     apptStart,
				EndTime:       apptEnd,
				TreatmentType: apptType,
				Notes:         apptNotes,
			}); err != nil {
				return err
			}

			a.wait()
			info("booked %s on %s", apptType, apptDate)
			printAppointments(a.clinic.Appointments())

			return nil
		})
	},
}

// appointmentsStatusCmd represents the appointments status command.
var appointmentsStatusCmd = &cobra.Command{
	Use:   "status <appointment id> <status>",
	Short: "Change an appointment's status",
	Long: `Change an appointment's status.

The status must be one of scheduled, in_progress, completed, cancelled or
no-show.
`,
	Args: cobra.ExactArgs(2), //nolint:mnd
	Run: func(_ *cobra.Command, args []string) {
		run(func(a *app) error {
			status, err := parseAppointmentStatus(args[1])
			if err != nil {
				return err
			}

			if err = a.clinic.UpdateAppointmentStatus(context.Background(), api.ID(args[0]), status); err != nil {
				return err
			}

			a.wait()
			info("appointment %s is now %s", args[0], status)

			return nil
		})
	},
}

func parseAppointmentStatus(s string) (api.AppointmentStatus, error) {
	status := api.AppointmentStatus(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(appointmentStatuses, status) {
		return status, nil
	}

	names := make([]string, len(appointmentStatuses))
	for i, st := range appointmentStatuses {
		names[i] = string(st)
	}

	return "", Error(fmt.Sprintf("unknown status %q; use one of %s", s, strings.Join(names, ", ")))
}

func printAppointments(appts []api.Appointment) {
	table := newTable("ID", "Date", "Time", "Patient", "Dentist", "Treatment", "Status", "Notes")

	for _, ap := range appts {
		table.Append([]string{
			ap.ID.String(),
			date(ap.Date),
			ap.StartTime + "-" + ap.EndTime,
			ap.PatientName,
			ap.DentistName,
			ap.TreatmentType,
			string(ap.Status),
			ap.Notes,
		})
	}

	table.Render()
}

func init() {
	RootCmd.AddCommand(appointmentsCmd)
	appointmentsCmd.AddCommand(appointmentsAddCmd, appointmentsStatusCmd)

	appointmentsCmd.Flags().StringVar(&apptStatus, "status", "", "only show appointments with this status")

	f := appointmentsAddCmd.Flags()
	f.StringVar(&apptPatient, "patient", "", "patient id")
	f.StringVar(&apptDentist, "dentist", "", "dentist id")
	f.StringVar(&apptDate, "date", "", "date, YYYY-MM-DD")
	f.StringVar(&apptStart, "start", "", "start time, eg. 09:30")
	f.StringVar(&apptEnd, "end", "", "end time, eg. 10:00")
	f.StringVar(&apptType, "type", "", "treatment type")
	f.StringVar(&apptNotes, "notes", "", "notes")
}
