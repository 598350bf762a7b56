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

// Package summary derives dashboard figures from provider snapshots.
package summary

import (
	"slices"
	"time"

	"github.com/dentflow/clinicsync/api"
	"github.com/dentflow/clinicsync/provider"
)

const (
	DefaultExpiryWindow = 30 * 24 * time.Hour
	upcomingDays        = 7
)

// Tally holds a count and an amount and lets you accumulate both as you add
// more things with an amount.
type Tally struct {
	Count  int
	Amount float64
}

// Add increments our count and adds the given amount to our amount.
func (t *Tally) Add(amount float64) {
	t.Count++
	t.Amount += amount
}

// ClinicSource supplies the clinic collections a Dashboard summarises.
type ClinicSource interface {
	Patients() []api.Patient
	Appointments() []api.Appointment
	TreatmentPlans() []api.TreatmentPlan
}

// InventorySource supplies the stock figures a Dashboard summarises.
type InventorySource interface {
	LowStock() []api.InventoryItem
	ExpiringWithin(d time.Duration, now time.Time) []provider.ExpiringLot
}

// Dashboard is a point-in-time overview of the clinic.
type Dashboard struct {
	Generated time.Time

	TotalPatients    int
	NewPatients      int // created this calendar month
	Today            []api.Appointment
	Upcoming         int // scheduled in the next week, excluding today
	ByStatus         map[api.AppointmentStatus]int
	Plans            map[api.TreatmentStatus]*Tally
	SessionsDone     int
	SessionsTotal    int
	LowStock         []api.InventoryItem
	Expiring         []provider.ExpiringLot
	ExpiryWindowDays int
}

// Build summarises the given sources as of now. Expiring lots are those that
// will have expired within the given window.
func Build(clinic ClinicSource, inv InventorySource, now time.Time, window time.Duration) *Dashboard {
	d := &Dashboard{
		Generated:        now,
		ByStatus:         make(map[api.AppointmentStatus]int),
		Plans:            make(map[api.TreatmentStatus]*Tally),
		LowStock:         inv.LowStock(),
		Expiring:         inv.ExpiringWithin(window, now),
		ExpiryWindowDays: int(window / (24 * time.Hour)),
	}

	d.addPatients(clinic.Patients(), now)
	d.addAppointments(clinic.Appointments(), now)
	d.addPlans(clinic.TreatmentPlans())

	return d
}

func (d *Dashboard) addPatients(patients []api.Patient, now time.Time) {
	d.TotalPatients = len(patients)

	month := startOfMonth(now)

	for _, p := range patients {
		created, ok := p.CreatedAt.Time()
		if ok && startOfMonth(created).Equal(month) {
			d.NewPatients++
		}
	}
}

func (d *Dashboard) addAppointments(appointments []api.Appointment, now time.Time) {
	today := startOfDay(now)
	tomorrow := today.AddDate(0, 0, 1)
	weekEnd := today.AddDate(0, 0, upcomingDays+1)

	for _, a := range appointments {
		d.ByStatus[a.Status]++

		date, ok := a.Date.Time()
		if !ok {
			continue
		}

		date = startOfDay(date)

		switch {
		case date.Equal(today):
			d.Today = append(d.Today, a)
		case a.Status == api.AppointmentScheduled && !date.Before(tomorrow) && date.Before(weekEnd):
			d.Upcoming++
		}
	}

	slices.SortStableFunc(d.Today, func(a, b api.Appointment) int {
		switch {
		case a.StartTime < b.StartTime:
			return -1
		case a.StartTime > b.StartTime:
			return 1
		}

		return 0
	})
}

func (d *Dashboard) addPlans(plans []api.TreatmentPlan) {
	for _, p := range plans {
		t, ok := d.Plans[p.Status]
		if !ok {
			t = &Tally{}
			d.Plans[p.Status] = t
		}

		t.Add(p.Cost)

		if p.Status == api.TreatmentCancelled {
			continue
		}

		d.SessionsTotal += len(p.Sessions)
		d.SessionsDone += p.CompletedSessions()
	}
}

// ActivePlans returns how many plans are planned or in progress.
func (d *Dashboard) ActivePlans() int {
	n := 0

	for _, status := range [...]api.TreatmentStatus{api.TreatmentPlanned, api.TreatmentInProgress} {
		if t, ok := d.Plans[status]; ok {
			n += t.Count
		}
	}

	return n
}

// startOfDay returns midnight at the start of t's day, in UTC. Appointment
// dates are zoneless, so are compared as UTC calendar days.
func startOfDay(t time.Time) time.Time {
	y, m, day := t.UTC().Date()

	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func startOfMonth(t time.Time) time.Time {
	y, m, _ := t.UTC().Date()

	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}
