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

// Credentials are posted to EndPointSignIn.
type Credentials struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Registration is posted to EndPointSignUp.
type Registration struct {
	FirstName string `json:"firstName" validate:"required,min=3,max=15"`
	LastName  string `json:"lastName"  validate:"required,min=3,max=15"`
	Email     string `json:"email"     validate:"required,email"`
	Password  string `json:"password"  validate:"required,min=6"`
	Role      string `json:"role"      validate:"required"`
	Gender    string `json:"gender"`
}

// AuthResponse is the reply to a successful sign in or sign up.
type AuthResponse struct {
	Token string `json:"token"`
}

// ProfileUpdate is posted to EndPointUpdateUser. The server replaces the whole
// profile with it, so every field must be given.
type ProfileUpdate struct {
	FirstName  string `json:"firstName"  validate:"omitempty,min=3,max=15"`
	LastName   string `json:"lastName"   validate:"omitempty,min=3,max=15"`
	Email      string `json:"email"      validate:"required,email"`
	Phone      string `json:"phone"`
	Permission string `json:"permission"`
	ImageURL   string `json:"imageUrl"`
	Bio        string `json:"bio"`
}

// ProfileChanges are the profile fields a user wants to change. Empty fields
// are left as they are.
type ProfileChanges struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Bio       string
}

// IsZero returns true if no change is asked for.
func (c ProfileChanges) IsZero() bool {
	return c == ProfileChanges{}
}

// Apply returns the complete ProfileUpdate that makes the given changes to
// this profile.
func (p *Profile) Apply(c ProfileChanges) ProfileUpdate {
	u := ProfileUpdate{
		FirstName:  p.FirstName,
		LastName:   p.LastName,
		Email:      p.Email,
		Phone:      p.Phone,
		Permission: p.Permission,
		ImageURL:   p.ImageURL,
		Bio:        p.Bio,
	}

	for dst, src := range map[*string]string{
		&u.FirstName: c.FirstName,
		&u.LastName:  c.LastName,
		&u.Email:     c.Email,
		&u.Phone:     c.Phone,
		&u.Bio:       c.Bio,
	} {
		if src != "" {
			*dst = src
		}
	}

	return u
}

// PasswordChange is put to EndPointPassword.
type PasswordChange struct {
	Password        string `json:"password"        validate:"required,min=6"`
	NewPassword     string `json:"newPassword"     validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=NewPassword"`
}

// NewPost is posted as a multipart form to EndPointPosts. ImagePath, if set, is
// a local file uploaded with it.
type NewPost struct {
	Title     string `json:"title"   validate:"required"`
	Content   string `json:"content" validate:"required"`
	ImagePath string `json:"image"   validate:"omitempty,file"`
}

type NewPatient struct {
	FirstName      string    `json:"firstName"      validate:"required"`
	LastName       string    `json:"lastName"       validate:"required"`
	Email          string    `json:"email"          validate:"omitempty,email"`
	Phone          string    `json:"phone"`
	DateOfBirth    Timestamp `json:"dateOfBirth"`
	Gender         string    `json:"gender"`
	Country        string    `json:"country"`
	City           string    `json:"city"`
	State          string    `json:"state"`
	ZipCode        string    `json:"zipCode"`
	MedicalHistory string    `json:"medicalHistory"`
	Allergies      string    `json:"allergies"`
}

type NewAppointment struct {
	PatientID     ID        `json:"patientId"     validate:"required"`
	DentistID     ID        `json:"dentistId"     validate:"required"`
	Date          Timestamp `json:"date"          validate:"required"`
	StartTime     string    `json:"startTime"     validate:"required"`
	EndTime       string    `json:"endTime"       validate:"required"`
	TreatmentType string    `json:"treatmentType" validate:"required"`
	Notes         string    `json:"notes"`
}

// AppointmentStatusUpdate is put to EndPointAppointmentStatus.
type AppointmentStatusUpdate struct {
	AppointmentID ID                `json:"appointmentId"     validate:"required"`
	Status        AppointmentStatus `json:"appointmentStatus" validate:"required,oneof=scheduled in_progress completed cancelled no-show"` //nolint:lll
}

type NewTreatmentPlan struct {
	PatientID     ID        `json:"patientId"     validate:"required"`
	DentistID     ID        `json:"dentistId"     validate:"required"`
	TreatmentType string    `json:"treatmentType" validate:"required"`
	Description   string    `json:"description"`
	StartDate     Timestamp `json:"startDate"     validate:"required"`
	Cost          float64   `json:"cost"          validate:"gte=0"`
	Notes         string    `json:"notes"`
}

// SessionInput is the body for adding or updating a TreatmentSession.
type SessionInput struct {
	Date  Timestamp `json:"date"  validate:"required"`
	Notes string    `json:"notes"`
}

// SessionCompletion is the body for completing a TreatmentSession.
type SessionCompletion struct {
	Completed bool `json:"completed"`
}

type NewInventoryItem struct {
	Name         string    `json:"name"         validate:"required,min=3"`
	Category     string    `json:"category"     validate:"required,min=3"`
	Quantity     int       `json:"quantity"     validate:"gt=0"`
	Unit         string    `json:"unit"`
	MinimumLevel int       `json:"minimumLevel" validate:"gte=0"`
	Supplier     string    `json:"supplier"     validate:"required,min=3"`
	ExpiryDate   Timestamp `json:"expiryDate"   validate:"required"`
}

// Restock adds a new Stock lot to an existing InventoryItem.
type Restock struct {
	Quantity   int       `json:"quantity"   validate:"gt=0"`
	ExpiryDate Timestamp `json:"expiryDate" validate:"required"`
}

// StaffInput is the body for adding or updating a StaffMember.
type StaffInput struct {
	ID             ID     `json:"id"`
	FirstName      string `json:"firstName"      validate:"required,min=3"`
	LastName       string `json:"lastName"       validate:"required,min=3"`
	Email          string `json:"email"          validate:"required,email"`
	Phone          string `json:"phone"`
	Role           string `json:"role"           validate:"required"`
	Specialization string `json:"specialization"`
}
