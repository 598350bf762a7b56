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

package provider

import (
	"context"
	"slices"
	"strings"

	"github.com/dentflow/clinicsync/api"
	"github.com/dentflow/clinicsync/synced"
)

// ClinicAPI is the part of the API the Clinic provider uses.
type ClinicAPI interface {
	Patients(ctx context.Context, token string) ([]api.Patient, error)
	Appointments(ctx context.Context, token string) ([]api.Appointment, error)
	TreatmentPlans(ctx context.Context, token string) ([]api.TreatmentPlan, error)
	MedicalRecords(ctx context.Context, token string, patientID api.ID) ([]api.MedicalRecord, error)

	AddPatient(ctx context.Context, token string, p api.NewPatient) error
	CreateAppointment(ctx context.Context, token string, a api.NewAppointment) error
	UpdateAppointmentStatus(ctx context.Context, token string, u api.AppointmentStatusUpdate) error
	AddTreatmentPlan(ctx context.Context, token string, p api.NewTreatmentPlan) error
	AddSession(ctx context.Context, token string, treatmentID api.ID, s api.SessionInput) error
	UpdateSession(ctx context.Context, token string, sessionID api.ID, s api.SessionInput) error
	CompleteSession(ctx context.Context, token string, sessionID api.ID) error
	DeleteSession(ctx context.Context, token string, sessionID api.ID) error
}

// Clinic holds patients, appointments and treatment plans.
//
// Appointments refetch every time the session announces a token, even an
// unchanged one; patients and treatment plans only when the token changes or
// their flag is raised.
type Clinic struct {
	group

	api ClinicAPI
	src synced.TokenSource

	patients     *synced.Resource[[]api.Patient]
	appointments *synced.Resource[[]api.Appointment]
	treatments   *synced.Resource[[]api.TreatmentPlan]
}

// NewClinic returns a Clinic bound to the given session.
func NewClinic(c ClinicAPI, src synced.TokenSource, cfg Config) *Clinic {
	cl := &Clinic{
		api:          c,
		src:          src,
		patients:     synced.New(c.Patients, cfg.options("patients", false)),
		appointments: synced.New(c.Appointments, cfg.options("appointments", true)),
		treatments:   synced.New(c.TreatmentPlans, cfg.options("treatments", false)),
	}

	cl.group = group{cl.patients, cl.appointments, cl.treatments}

	cl.patients.Bind(src)
	cl.appointments.Bind(src)
	cl.treatments.Bind(src)

	return cl
}

// Patients returns a copy of the most recently fetched patients.
func (c *Clinic) Patients() []api.Patient {
	return slices.Clone(c.patients.Data())
}

// Appointments returns a copy of the most recently fetched appointments.
func (c *Clinic) Appointments() []api.Appointment {
	return slices.Clone(c.appointments.Data())
}

// TreatmentPlans returns a copy of the most recently fetched treatment plans.
func (c *Clinic) TreatmentPlans() []api.TreatmentPlan {
	return slices.Clone(c.treatments.Data())
}

// Changed is the patients flag.
func (c *Clinic) Changed() bool { return c.patients.Changed() }

// SetChanged sets the patients flag; raising it refetches patients.
func (c *Clinic) SetChanged(changed bool) { c.patients.SetChanged(changed) }

// AppointChanged is the appointments flag.
func (c *Clinic) AppointChanged() bool { return c.appointments.Changed() }

// SetAppointChanged sets the appointments flag; raising it refetches
// appointments.
func (c *Clinic) SetAppointChanged(changed bool) { c.appointments.SetChanged(changed) }

// TreatmentChanged is the treatment plans flag.
func (c *Clinic) TreatmentChanged() bool { return c.treatments.Changed() }

// SetTreatmentChanged sets the treatment plans flag; raising it refetches
// treatment plans.
func (c *Clinic) SetTreatmentChanged(changed bool) { c.treatments.SetChanged(changed) }

// AppointmentCount returns how many of the held appointments are for the given
// patient.
func (c *Clinic) AppointmentCount(patientID api.ID) int {
	n := 0

	for _, a := range c.appointments.Data() {
		if a.PatientID == patientID {
			n++
		}
	}

	return n
}

// FindPatients returns the held patients whose name, email or phone contain the
// query, ignoring case. An empty query matches everyone.
func (c *Clinic) FindPatients(query string) []api.Patient {
	query = strings.ToLower(strings.TrimSpace(query))

	var found []api.Patient

	for _, p := range c.patients.Data() {
		if query == "" ||
			strings.Contains(strings.ToLower(p.Name()), query) ||
			strings.Contains(strings.ToLower(p.Email), query) ||
			strings.Contains(p.Phone, query) {
			found = append(found, p)
		}
	}

	return found
}

// MedicalRecords fetches the given patient's medical records. They are not
// held.
func (c *Clinic) MedicalRecords(ctx context.Context, patientID api.ID) ([]api.MedicalRecord, error) {
	token := c.src.Token()
	if token == "" {
		return nil, api.ErrNotLoggedIn
	}

	return c.api.MedicalRecords(ctx, token, patientID)
}

// AddPatient creates a patient, then refetches patients.
func (c *Clinic) AddPatient(ctx context.Context, p api.NewPatient) error {
	return write(c.src, func(token string) error {
		return c.api.AddPatient(ctx, token, p)
	}, c.patients)
}

// CreateAppointment books an appointment, then refetches patients (whose next
// appointment may have changed) and appointments.
func (c *Clinic) CreateAppointment(ctx context.Context, a api.NewAppointment) error {
	return write(c.src, func(token string) error {
		return c.api.CreateAppointment(ctx, token, a)
	}, c.patients, c.appointments)
}

// UpdateAppointmentStatus changes an appointment's status, then refetches
// appointments.
func (c *Clinic) UpdateAppointmentStatus(ctx context.Context, id api.ID, status api.AppointmentStatus) error {
	return write(c.src, func(token string) error {
		return c.api.UpdateAppointmentStatus(ctx, token, api.AppointmentStatusUpdate{
			AppointmentID: id,
			Status:        status,
		})
	}, c.appointments)
}

// AddTreatmentPlan creates a treatment plan, then refetches treatment plans.
func (c *Clinic) AddTreatmentPlan(ctx context.Context, p api.NewTreatmentPlan) error {
	return write(c.src, func(token string) error {
		return c.api.AddTreatmentPlan(ctx, token, p)
	}, c.treatments)
}

// AddSession adds a session to a treatment plan, then refetches treatment
// plans.
func (c *Clinic) AddSession(ctx context.Context, treatmentID api.ID, s api.SessionInput) error {
	return write(c.src, func(token string) error {
		return c.api.AddSession(ctx, token, treatmentID, s)
	}, c.treatments)
}

// UpdateSession changes a session's date and notes, then refetches treatment
// plans.
func (c *Clinic) UpdateSession(ctx context.Context, sessionID api.ID, s api.SessionInput) error {
	return write(c.src, func(token string) error {
		return c.api.UpdateSession(ctx, token, sessionID, s)
	}, c.treatments)
}

// CompleteSession marks a session completed, then refetches treatment plans.
func (c *Clinic) CompleteSession(ctx context.Context, sessionID api.ID) error {
	return write(c.src, func(token string) error {
		return c.api.CompleteSession(ctx, token, sessionID)
	}, c.treatments)
}

// DeleteSession removes a session, then refetches treatment plans.
func (c *Clinic) DeleteSession(ctx context.Context, sessionID api.ID) error {
	return write(c.src, func(token string) error {
		return c.api.DeleteSession(ctx, token, sessionID)
	}, c.treatments)
}
