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

// Package api is a client for the clinic's REST API.
//
// Every authenticated call takes the bearer token explicitly; the client holds
// no session state of its own.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

const (
	DefaultTimeout  = 30 * time.Second
	requestIDHeader = "X-Request-ID"
)

// Client talks to a clinic API server.
type Client struct {
	rc *resty.Client
}

// New returns a Client for the API at the given base URL (eg.
// https://clinic.example.com). A timeout <= 0 means DefaultTimeout.
func New(baseURL string, timeout time.Duration) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, ErrNoBaseURL
	}

	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	rc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &Client{rc: rc}, nil
}

// BaseURL returns the base URL this client was created with.
func (c *Client) BaseURL() string {
	return c.rc.BaseURL
}

func (c *Client) do(ctx context.Context, method, endpoint, token string,
	query map[string]string, body, result any,
) error {
	r := c.request(ctx, token)

	if query != nil {
		r.SetQueryParams(query)
	}

	if body != nil {
		r.SetHeader("Content-Type", "application/json").SetBody(body)
	}

	if result != nil {
		r.SetResult(result)
	}

	return execute(r, method, endpoint)
}

func (c *Client) request(ctx context.Context, token string) *resty.Request {
	r := c.rc.R().
		SetContext(ctx).
		SetHeader(requestIDHeader, uuid.NewString())

	if token != "" {
		r.SetAuthToken(token)
	}

	return r
}

func execute(r *resty.Request, method, endpoint string) error {
	resp, err := r.Execute(method, endpoint)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, endpoint, err)
	}

	if resp.IsError() {
		return &StatusError{
			Method:   method,
			Endpoint: endpoint,
			Code:     resp.StatusCode(),
			Body:     strings.TrimSpace(resp.String()),
		}
	}

	return nil
}

// getList GETs a JSON array from the given endpoint.
func getList[T any](ctx context.Context, c *Client, token, endpoint string) ([]T, error) {
	if token == "" {
		return nil, ErrNotLoggedIn
	}

	var out []T

	if err := c.do(ctx, resty.MethodGet, endpoint, token, nil, nil, &out); err != nil {
		return nil, err
	}

	return out, nil
}

// mutate validates the payload (if any), then sends it to the endpoint.
func (c *Client) mutate(ctx context.Context, method, endpoint, token string,
	query map[string]string, payload any,
) error {
	if token == "" {
		return ErrNotLoggedIn
	}

	if payload != nil {
		if err := Validate(payload); err != nil {
			return err
		}
	}

	return c.do(ctx, method, endpoint, token, query, payload, nil)
}

func (c *Client) authenticate(ctx context.Context, endpoint string, payload any) (string, error) {
	if err := Validate(payload); err != nil {
		return "", err
	}

	var ar AuthResponse

	if err := c.do(ctx, resty.MethodPost, endpoint, "", nil, payload, &ar); err != nil {
		return "", err
	}

	if ar.Token == "" {
		return "", ErrNoToken
	}

	return ar.Token, nil
}

// SignIn posts the credentials and returns the bearer token the server issues.
func (c *Client) SignIn(ctx context.Context, creds Credentials) (string, error) {
	return c.authenticate(ctx, EndPointSignIn, creds)
}

// SignUp registers a new user and returns the bearer token the server issues.
func (c *Client) SignUp(ctx context.Context, reg Registration) (string, error) {
	return c.authenticate(ctx, EndPointSignUp, reg)
}

// UserDetails returns the profile of the user the token belongs to.
func (c *Client) UserDetails(ctx context.Context, token string) (*Profile, error) {
	if token == "" {
		return nil, ErrNotLoggedIn
	}

	p := &Profile{}

	if err := c.do(ctx, resty.MethodGet, EndPointUserDetails, token, nil, nil, p); err != nil {
		return nil, err
	}

	return p, nil
}

// UpdateUser replaces the profile of the user the token belongs to.
func (c *Client) UpdateUser(ctx context.Context, token string, u ProfileUpdate) error {
	return c.mutate(ctx, resty.MethodPost, EndPointUpdateUser, token, nil, u)
}

// ChangePassword changes the password of the user the token belongs to.
func (c *Client) ChangePassword(ctx context.Context, token string, pc PasswordChange) error {
	return c.mutate(ctx, resty.MethodPut, EndPointPassword, token, nil, pc)
}

func (c *Client) Patients(ctx context.Context, token string) ([]Patient, error) {
	return getList[Patient](ctx, c, token, EndPointPatients)
}

func (c *Client) Appointments(ctx context.Context, token string) ([]Appointment, error) {
	return getList[Appointment](ctx, c, token, EndPointAppointments)
}

func (c *Client) TreatmentPlans(ctx context.Context, token string) ([]TreatmentPlan, error) {
	return getList[TreatmentPlan](ctx, c, token, EndPointTreatmentPlans)
}

func (c *Client) Inventory(ctx context.Context, token string) ([]InventoryItem, error) {
	return getList[InventoryItem](ctx, c, token, EndPointInventory)
}

func (c *Client) Dentists(ctx context.Context, token string) ([]Dentist, error) {
	return getList[Dentist](ctx, c, token, EndPointDentists)
}

func (c *Client) TeamMembers(ctx context.Context, token string) ([]StaffMember, error) {
	return getList[StaffMember](ctx, c, token, EndPointTeamMembers)
}

func (c *Client) AddPatient(ctx context.Context, token string, p NewPatient) error {
	return c.mutate(ctx, resty.MethodPost, EndPointAddPatient, token, nil, p)
}

func (c *Client) CreateAppointment(ctx context.Context, token string, a NewAppointment) error {
	return c.mutate(ctx, resty.MethodPost, EndPointCreateAppointment, token, nil, a)
}

func (c *Client) UpdateAppointmentStatus(ctx context.Context, token string, u AppointmentStatusUpdate) error {
	return c.mutate(ctx, resty.MethodPut, EndPointAppointmentStatus, token, nil, u)
}

func (c *Client) AddTreatmentPlan(ctx context.Context, token string, p NewTreatmentPlan) error {
	return c.mutate(ctx, resty.MethodPost, EndPointAddPlan, token, nil, p)
}

func (c *Client) AddSession(ctx context.Context, token string, treatmentID ID, s SessionInput) error {
	return c.mutate(ctx, resty.MethodPut, EndPointAddSession, token,
		map[string]string{ParamTreatmentID: treatmentID.String()}, s)
}

func (c *Client) UpdateSession(ctx context.Context, token string, sessionID ID, s SessionInput) error {
	return c.mutate(ctx, resty.MethodPut, EndPointUpdateSession, token,
		map[string]string{ParamSessionID: sessionID.String()}, s)
}

func (c *Client) CompleteSession(ctx context.Context, token string, sessionID ID) error {
	return c.mutate(ctx, resty.MethodPut, EndPointCompleteSession, token,
		map[string]string{ParamSessionID: sessionID.String()}, SessionCompletion{Completed: true})
}

func (c *Client) DeleteSession(ctx context.Context, token string, sessionID ID) error {
	return c.mutate(ctx, resty.MethodDelete, EndPointDeleteSession, token,
		map[string]string{ParamSessionID: sessionID.String()}, nil)
}

func (c *Client) AddInventoryItem(ctx context.Context, token string, item NewInventoryItem) error {
	return c.mutate(ctx, resty.MethodPost, EndPointInventory, token, nil, item)
}

func (c *Client) Restock(ctx context.Context, token string, inventoryID ID, r Restock) error {
	return c.mutate(ctx, resty.MethodPut, EndPointRestock, token,
		map[string]string{ParamInventoryID: inventoryID.String()}, r)
}

func (c *Client) AddMember(ctx context.Context, token string, s StaffInput) error {
	return c.mutate(ctx, resty.MethodPost, EndPointAddMember, token, nil, s)
}

func (c *Client) UpdateMember(ctx context.Context, token string, s StaffInput) error {
	return c.mutate(ctx, resty.MethodPut, EndPointUpdateMember, token, nil, s)
}

// MedicalRecords returns the given patient's medical records.
func (c *Client) MedicalRecords(ctx context.Context, token string, patientID ID) ([]MedicalRecord, error) {
	if token == "" {
		return nil, ErrNotLoggedIn
	}

	var out []MedicalRecord

	if err := c.do(ctx, resty.MethodGet, EndPointMedicalRecords, token,
		map[string]string{ParamPatientID: patientID.String()}, nil, &out); err != nil {
		return nil, err
	}

	return out, nil
}

// ClinicInfo returns the clinic's details, or nil if none have been saved
// yet.
func (c *Client) ClinicInfo(ctx context.Context, token string) (*ClinicInfo, error) {
	if token == "" {
		return nil, ErrNotLoggedIn
	}

	info := &ClinicInfo{}

	err := c.do(ctx, resty.MethodGet, EndPointClinicInfo, token, nil, nil, info)

	var serr *StatusError
	if errors.As(err, &serr) && serr.Code == http.StatusNotFound {
		return nil, nil //nolint:nilnil
	}

	if err != nil {
		return nil, err
	}

	return info, nil
}

// CreateClinicInfo saves the clinic's details for the first time.
func (c *Client) CreateClinicInfo(ctx context.Context, token string, info ClinicInfo) error {
	return c.mutate(ctx, resty.MethodPost, EndPointClinicInfo, token, nil, info)
}

// UpdateClinicInfo replaces the clinic's saved details.
func (c *Client) UpdateClinicInfo(ctx context.Context, token string, info ClinicInfo) error {
	return c.mutate(ctx, resty.MethodPut, EndPointClinicInfo, token, nil, info)
}

// Feed returns every user's posts, newest first.
func (c *Client) Feed(ctx context.Context, token string) ([]Post, error) {
	return getList[Post](ctx, c, token, EndPointFeed)
}

// MyPosts returns the posts of the user the token belongs to.
func (c *Client) MyPosts(ctx context.Context, token string) ([]Post, error) {
	return getList[Post](ctx, c, token, EndPointPosts)
}

// CreatePost uploads a new post, with its image if it has one.
func (c *Client) CreatePost(ctx context.Context, token string, p NewPost) error {
	if token == "" {
		return ErrNotLoggedIn
	}

	if err := Validate(p); err != nil {
		return err
	}

	r := c.request(ctx, token).SetMultipartFormData(map[string]string{
		"title":   p.Title,
		"content": p.Content,
	})

	if p.ImagePath != "" {
		r.SetFile("image", p.ImagePath)
	}

	return execute(r, resty.MethodPost, EndPointPosts)
}

// LikePost toggles whether the user likes the given post.
func (c *Client) LikePost(ctx context.Context, token string, postID ID) error {
	return c.mutate(ctx, resty.MethodGet, EndPointAddLike, token,
		map[string]string{ParamPostID: postID.String()}, nil)
}
