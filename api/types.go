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

package api

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// ID is an entity identifier. The API is not consistent about sending ids as
// strings or numbers, so both are accepted.
type ID string

// UnmarshalJSON accepts a JSON string, number or null.
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)

	if bytes.Equal(b, []byte("null")) {
		*id = ""

		return nil
	}

	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}

		*id = ID(s)

		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}

	*id = ID(n.String())

	return nil
}

func (id ID) String() string { return string(id) }

// Timestamp is a date or date-time exactly as the server sent it.
type Timestamp string

var timestampLayouts = [...]string{ //nolint:gochecknoglobals
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Time parses the timestamp, returning false if it is empty or in a format we
// don't understand. Zoneless values are taken to be UTC.
func (t Timestamp) Time() (time.Time, bool) {
	s := strings.TrimSpace(string(t))
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed, true
		}
	}

	return time.Time{}, false
}

// NewTimestamp formats t as an RFC 3339 Timestamp.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp(t.Format(time.RFC3339))
}

// NewDate formats t as a date-only Timestamp.
func NewDate(t time.Time) Timestamp {
	return Timestamp(t.Format(time.DateOnly))
}

// Profile is the currently logged in user.
type Profile struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	Bio        string `json:"bio"`
	Phone      string `json:"phone"`
	ImageURL   string `json:"imageUrl"`
	Permission string `json:"permission"`
}

// Name returns the user's full name.
func (p *Profile) Name() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

type Patient struct {
	ID              ID        `json:"id"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone"`
	DateOfBirth     Timestamp `json:"dateOfBirth"`
	Gender          string    `json:"gender"`
	Country         string    `json:"country"`
	City            string    `json:"city"`
	State           string    `json:"state"`
	ZipCode         string    `json:"zipCode"`
	MedicalHistory  string    `json:"medicalHistory"`
	Allergies       string    `json:"allergies"`
	ImageURL        string    `json:"imageUrl"`
	LastVisit       Timestamp `json:"lastVisit"`
	NextAppointment Timestamp `json:"nextAppointment"`
	Status          string    `json:"status"`
	CreatedAt       Timestamp `json:"createAt"`
}

// Name returns the patient's full name.
func (p Patient) Name() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// AppointmentStatus is the lifecycle state of an appointment.
type AppointmentStatus string

const (
	AppointmentScheduled  AppointmentStatus = "scheduled"
	AppointmentInProgress AppointmentStatus = "in_progress"
	AppointmentCompleted  AppointmentStatus = "completed"
	AppointmentCancelled  AppointmentStatus = "cancelled"
	AppointmentNoShow     AppointmentStatus = "no-show"
)

type Appointment struct {
	ID            ID                `json:"id"`
	PatientID     ID                `json:"patientId"`
	PatientName   string            `json:"patientName"`
	DentistID     ID                `json:"dentistId"`
	DentistName   string            `json:"dentistName"`
	Date          Timestamp         `json:"date"`
	StartTime     string            `json:"startTime"`
	EndTime       string            `json:"endTime"`
	TreatmentType string            `json:"treatmentType"`
	Status        AppointmentStatus `json:"status"`
	Notes         string            `json:"notes,omitempty"`
}

// TreatmentStatus is the lifecycle state of a treatment plan.
type TreatmentStatus string

const (
	TreatmentPlanned    TreatmentStatus = "planned"
	TreatmentInProgress TreatmentStatus = "in-progress"
	TreatmentCompleted  TreatmentStatus = "completed"
	TreatmentCancelled  TreatmentStatus = "cancelled"
)

// TreatmentSession is one visit within a TreatmentPlan.
type TreatmentSession struct {
	ID        ID        `json:"id"`
	Date      Timestamp `json:"date"`
	Notes     string    `json:"notes"`
	Completed bool      `json:"completed"`
}

type TreatmentPlan struct {
	ID            ID                 `json:"id"`
	PatientID     ID                 `json:"patientId"`
	PatientName   string             `json:"patientName"`
	DentistName   string             `json:"dentistName"`
	TreatmentType string             `json:"treatmentType"`
	StartDate     Timestamp          `json:"startDate"`
	EndDate       Timestamp          `json:"endDate"`
	Cost          float64            `json:"cost"`
	Status        TreatmentStatus    `json:"status"`
	Sessions      []TreatmentSession `json:"sessions"`
	Notes         string             `json:"notes"`
}

// CompletedSessions returns how many of the plan's sessions are completed.
func (t TreatmentPlan) CompletedSessions() int {
	n := 0

	for _, s := range t.Sessions {
		if s.Completed {
			n++
		}
	}

	return n
}

// Stock is one delivered lot of an InventoryItem.
type Stock struct {
	ID         ID        `json:"id"`
	Quantity   int       `json:"quantity"`
	ExpiryDate Timestamp `json:"expiryDate"`
	CreatedAt  Timestamp `json:"createdAt"`
}

type InventoryItem struct {
	ID                ID        `json:"id"`
	Name              string    `json:"name"`
	Category          string    `json:"category"`
	TotalQuantity     int       `json:"totalQuantity"`
	CloselyExpiryDate Timestamp `json:"closelyExpiryDate"`
	Unit              string    `json:"unit"`
	MinimumLevel      int       `json:"minimumLevel"`
	Supplier          string    `json:"supplier"`
	LastReStockedDate Timestamp `json:"lastReStockedDate"`
	Stocks            []Stock   `json:"stocks"`
	CreatedAt         Timestamp `json:"createdAt"`
}

// IsLowStock returns true if the item's total quantity has fallen below its
// minimum level.
func (i InventoryItem) IsLowStock() bool {
	return i.TotalQuantity < i.MinimumLevel
}

type Dentist struct {
	ID             ID     `json:"id"`
	UserID         ID     `json:"userId"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Specialization string `json:"specialization"`
	LicenseNumber  string `json:"licenseNumber"`
	Phone          string `json:"phone"`
	Email          string `json:"email"`
}

// Name returns the dentist's full name.
func (d Dentist) Name() string {
	return strings.TrimSpace(d.FirstName + " " + d.LastName)
}

// StaffMember is a member of the clinic's team.
type StaffMember struct {
	ID             ID     `json:"id"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Role           string `json:"role"`
	Specialization string `json:"specialization"`
}

// MedicalRecord is a test, scan or examination result on a patient's file.
type MedicalRecord struct {
	ID          ID        `json:"id"`
	PatientID   ID        `json:"patientId"`
	Title       string    `json:"title"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	FileName    string    `json:"fileName"`
	Doctor      string    `json:"doctor"`
	CreatedAt   Timestamp `json:"createdAt"`
}

// PostAuthor is who wrote a Post.
type PostAuthor struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	Role   string `json:"role"`
}

// Post is an entry in the professional network feed.
type Post struct {
	ID       ID         `json:"id"`
	Author   PostAuthor `json:"author"`
	Title    string     `json:"title"`
	Content  string     `json:"content"`
	Image    string     `json:"image"`
	Date     string     `json:"date"`
	Likes    int        `json:"likes"`
	Comments int        `json:"comments"`
	IsLiked  bool       `json:"isLiked"`
}

// ToggleLike flips whether the user likes the post, adjusting its like count.
func (p *Post) ToggleLike() {
	if p.IsLiked {
		p.Likes--
	} else {
		p.Likes++
	}

	p.IsLiked = !p.IsLiked
}

// ClinicInfo is the clinic's own details: its name, address and contacts.
type ClinicInfo struct {
	Name        string `json:"name"        validate:"required"`
	Country     string `json:"country"`
	City        string `json:"city"`
	State       string `json:"state"`
	PostalCode  string `json:"postalCode"`
	ClinicPhone string `json:"clinicPhone"`
	ClinicEmail string `json:"clinicEmail" validate:"omitempty,email"`
	WorkingDate string `json:"workingDate"`
}

// Merge returns a copy of these details with every non-empty field of changes
// applied.
func (c ClinicInfo) Merge(changes ClinicInfo) ClinicInfo {
	for dst, src := range map[*string]string{
		&c.Name:        changes.Name,
		&c.Country:     changes.Country,
		&c.City:        changes.City,
		&c.State:       changes.State,
		&c.PostalCode:  changes.PostalCode,
		&c.ClinicPhone: changes.ClinicPhone,
		&c.ClinicEmail: changes.ClinicEmail,
		&c.WorkingDate: changes.WorkingDate,
	} {
		if src != "" {
			*dst = src
		}
	}

	return c
}
