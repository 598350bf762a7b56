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

	"github.com/dentflow/clinicsync/api"
	"github.com/spf13/cobra"
)

// options for the treatments cmds.
var (
	planPatient     string
	planDentist     string
	planType        string
	planDescription string
	planStart       string
	planCost        float64
	planNotes       string
	planSessions    bool
	sessionDate     string
	sessionNotes    string
)

// treatmentsCmd represents the treatments command.
var treatmentsCmd = &cobra.Command{
	Use:   "treatments",
	Short: "List or change treatment plans and their sessions",
	Long: `List or change treatment plans and their sessions.

With no sub-command, lists all treatment plans with how many of their sessions
are complete. Add --sessions to list every session as well.
`,
	Run: func(_ *cobra.Command, _ []string) {
		run(func(a *app) error {
			plans := a.clinic.TreatmentPlans()
			printPlans(plans)

			if planSessions {
				printSessions(plans)
			}

			return nil
		})
	},
}

// treatmentsAddCmd represents the treatments add command.
var treatmentsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a treatment plan",
	Run: func(_ *cobra.Command, _ []string) {
		run(func(a *app) error {
			if err := requireFlags(map[string]string{
				"patient": planPatient, "dentist": planDentist, "type": planType, "start": planStart,
			}); err != nil {
				return err
			}

			start, err := parseDate("start", planStart)
			if err != nil {
				return err
			}

			if err = a.clinic.AddTreatmentPlan(context.Background(), api.NewTreatmentPlan{
				PatientID:     api.ID(planPatient),
				DentistID:     api.ID(planDentist),
				TreatmentType: planType,
				Description:   planDescription,
				StartDate:     start,
				Cost:          planCost,
				Notes:         planNotes,
			}); err != nil {
				return err
			}

			a.wait()
			info("created %s plan costing %s", planType, money(planCost))
			printPlans(a.clinic.TreatmentPlans())

			return nil
		})
	},
}

// treatmentsSessionAddCmd represents the treatments session-add command.
var treatmentsSessionAddCmd = &cobra.Command{
	Use:   "session-add <plan id>",
	Short: "Add a session to a treatment plan",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		run(func(a *app) error {
			s, err := sessionInput()
			if err != nil {
				return err
			}

			return sessionChange(a, "added session to plan "+args[0],
				a.clinic.AddSession(context.Background(), api.ID(args[0]), s))
		})
	},
}

// treatmentsSessionUpdateCmd represents the treatments session-update command.
var treatmentsSessionUpdateCmd = &cobra.Command{
	Use:   "session-update <session id>",
	Short: "Change a session's date and notes",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		run(func(a *app) error {
			s, err := sessionInput()
			if err != nil {
				return err
			}

			return sessionChange(a, "updated session "+args[0],
				a.clinic.UpdateSession(context.Background(), api.ID(args[0]), s))
		})
	},
}

// treatmentsSessionCompleteCmd represents the treatments session-complete
// command.
var treatmentsSessionCompleteCmd = &cobra.Command{
	Use:   "session-complete <session id>",
	Short: "Mark a session completed",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		run(func(a *app) error {
			return sessionChange(a, "completed session "+args[0],
				a.clinic.CompleteSession(context.Background(), api.ID(args[0])))
		})
	},
}

// treatmentsSessionDeleteCmd represents the treatments session-delete command.
var treatmentsSessionDeleteCmd = &cobra.Command{
	Use:   "session-delete <session id>",
	Short: "Remove a session",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		run(func(a *app) error {
			return sessionChange(a, "deleted session "+args[0],
				a.clinic.DeleteSession(context.Background(), api.ID(args[0])))
		})
	},
}

func sessionInput() (api.SessionInput, error) {
	if err := requireFlags(map[string]string{"date": sessionDate}); err != nil {
		return api.SessionInput{}, err
	}

	d, err := parseDate("date", sessionDate)
	if err != nil {
		return api.SessionInput{}, err
	}

	return api.SessionInput{Date: d, Notes: sessionNotes}, nil
}

// sessionChange reports the result of a session change, waiting for the
// treatment plans to be refetched and showing their sessions on success.
func sessionChange(a *app, done string, err error) error {
	if err != nil {
		return err
	}

	a.wait()
	info("%s", done)
	printSessions(a.clinic.TreatmentPlans())

	return nil
}

func printPlans(plans []api.TreatmentPlan) {
	table := newTable("ID", "Patient", "Dentist", "Treatment", "Start", "End", "Cost", "Status", "Sessions")

	for _, p := range plans {
		table.Append([]string{
			p.ID.String(),
			p.PatientName,
			p.DentistName,
			p.TreatmentType,
			date(p.StartDate),
			date(p.EndDate),
			money(p.Cost),
			string(p.Status),
			fmt.Sprintf("%d/%d", p.CompletedSessions(), len(p.Sessions)),
		})
	}

	table.Render()
}

func printSessions(plans []api.TreatmentPlan) {
	table := newTable("Plan", "Session", "Date", "Completed", "Notes")

	for _, p := range plans {
		for _, s := range p.Sessions {
			table.Append([]string{
				p.ID.String(),
				s.ID.String(),
				date(s.Date),
				yesNo(s.Completed),
				s.Notes,
			})
		}
	}

	table.Render()
}

func init() {
	RootCmd.AddCommand(treatmentsCmd)
	treatmentsCmd.AddCommand(treatmentsAddCmd, treatmentsSessionAddCmd, treatmentsSessionUpdateCmd,
		treatmentsSessionCompleteCmd, treatmentsSessionDeleteCmd)

	treatmentsCmd.Flags().BoolVar(&planSessions, "sessions", false, "also list every session")

	f := treatmentsAddCmd.Flags()
	f.StringVar(&planPatient, "patient", "", "patient id")
	f.StringVar(&planDentist, "dentist", "", "dentist id")
	f.StringVar(&planType, "type", "", "treatment type")
	f.StringVar(&planDescription, "description", "", "description")
	f.StringVar(&planStart, "start", "", "start date, YYYY-MM-DD")
	f.Float64Var(&planCost, "cost", 0, "cost")
	f.StringVar(&planNotes, "notes", "", "notes")

	for _, c := range []*cobra.Command{treatmentsSessionAddCmd, treatmentsSessionUpdateCmd} {
		c.Flags().StringVar(&sessionDate, "date", "", "session date, YYYY-MM-DD")
		c.Flags().StringVar(&sessionNotes, "notes", "", "notes")
	}
}
