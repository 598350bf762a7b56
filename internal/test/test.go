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

// Package test provides an in-memory fake of the clinic REST API, for use in
// tests.
package test

import (
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dentflow/clinicsync/api"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	signingKey  = "fake-clinic-api"
	tokenExpiry = 24 * time.Hour
	userKey     = "user"
)

// ClinicData is everything one user's clinic holds.
type ClinicData struct {
	Patients     []api.Patient
	Appointments []api.Appointment
	Plans        []api.TreatmentPlan
	Inventory    []api.InventoryItem
	Staff        []api.StaffMember
	Records      []api.MedicalRecord
	Info         *api.ClinicInfo
}

// post is a feed entry, with who wrote it and who likes it.
type post struct {
	api.Post

	owner   string
	likedBy map[string]bool
}

type user struct {
	password string
	token    string
	profile  api.Profile
	clinic   *ClinicData
}

// FakeAPI is a running fake clinic API server. Every user gets their own
// clinic; dentists are shared.
type FakeAPI struct {
	server *httptest.Server

	mu       sync.Mutex
	users    map[string]*user
	byToken  map[string]*user
	dentists []api.Dentist
	posts    []*post
	hits     map[string]int
	failures map[string]int
	nextID   int
}

// NewFakeAPI starts a FakeAPI listening on a random local port. Call Close()
// when done.
func NewFakeAPI() *FakeAPI {
	gin.SetMode(gin.TestMode)

	f := &FakeAPI{
		users:    make(map[string]*user),
		byToken:  make(map[string]*user),
		hits:     make(map[string]int),
		failures: make(map[string]int),
	}

	f.server = httptest.NewServer(f.router())

	return f
}

// URL returns the base URL of the running server.
func (f *FakeAPI) URL() string {
	return f.server.URL
}

// Close shuts the server down.
func (f *FakeAPI) Close() {
	f.server.Close()
}

// AddUser creates a user that can sign in with the given email and password,
// returning the token they will be issued.
func (f *FakeAPI) AddUser(email, password string, profile api.Profile) string {
	f.mu.Lock()
	defer f.mu.Unlock()

	profile.Email = email

	return f.addUserLocked(email, password, profile)
}

func (f *FakeAPI) addUserLocked(email, password string, profile api.Profile) string {
	id := f.newIDLocked()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   id.String(),
		"email": email,
		"role":  profile.Permission,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(tokenExpiry).Unix(),
	}).SignedString([]byte(signingKey))
	if err != nil {
		panic(err)
	}

	u := &user{
		password: password,
		token:    token,
		profile:  profile,
		clinic:   &ClinicData{},
	}

	f.users[email] = u
	f.byToken[token] = u

	return token
}

// Token returns the token issued to the given user, or "" for an unknown user.
func (f *FakeAPI) Token(email string) string {
	f.mu.Lock()
	defer f.mu.Unlock()

	if u, ok := f.users[email]; ok {
		return u.token
	}

	return ""
}

// Update lets you modify the given user's clinic data directly.
func (f *FakeAPI) Update(email string, cb func(*ClinicData)) {
	f.mu.Lock()
	defer f.mu.Unlock()

	cb(f.users[email].clinic)
}

// Profile returns the given user's profile as the server has it.
func (f *FakeAPI) Profile(email string) api.Profile {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.users[email].profile
}

// AddPost adds a post by the given user to the feed, returning its id.
func (f *FakeAPI) AddPost(email, title, content string) api.ID {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.addPostLocked(f.users[email], title, content, "")
}

func (f *FakeAPI) addPostLocked(u *user, title, content, image string) api.ID {
	p := &post{
		Post: api.Post{
			ID: f.newIDLocked(),
			Author: api.PostAuthor{
				Name:   u.profile.Name(),
				Avatar: u.profile.ImageURL,
				Role:   u.profile.Permission,
			},
			Title:   title,
			Content: content,
			Image:   image,
			Date:    string(now()),
		},
		owner:   u.profile.Email,
		likedBy: make(map[string]bool),
	}

	f.posts = append([]*post{p}, f.posts...)

	return p.ID
}

// SetDentists replaces the shared dentist roster.
func (f *FakeAPI) SetDentists(dentists ...api.Dentist) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.dentists = dentists
}

// NewID returns a fresh id, unique within this FakeAPI.
func (f *FakeAPI) NewID() api.ID {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.newIDLocked()
}

func (f *FakeAPI) newIDLocked() api.ID {
	f.nextID++

	return api.ID(strconv.Itoa(f.nextID))
}

// Hits returns how many requests have been made with the given method to the
// given path, whatever their outcome.
func (f *FakeAPI) Hits(method, path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.hits[method+" "+path]
}

// Fail makes every request to the given path fail with the given status code,
// until ClearFailures() is called.
func (f *FakeAPI) Fail(path string, code int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.failures[path] = code
}

// ClearFailures undoes all previous Fail() calls.
func (f *FakeAPI) ClearFailures() {
	f.mu.Lock()
	defer f.mu.Unlock()

	clear(f.failures)
}

func (f *FakeAPI) router() *gin.Engine {
	r := gin.New()
	r.Use(f.countAndFail)

	r.POST(api.EndPointSignIn, f.signIn)
	r.POST(api.EndPointSignUp, f.signUp)

	authed := r.Group("/", f.authenticate)

	authed.GET(api.EndPointUserDetails, f.userDetails)
	authed.POST(api.EndPointUpdateUser, f.updateUser)
	authed.PUT(api.EndPointPassword, f.changePassword)

	authed.GET(api.EndPointPatients, list(f, func(c *ClinicData) []api.Patient { return c.Patients }))
	authed.GET(api.EndPointAppointments, list(f, func(c *ClinicData) []api.Appointment { return c.Appointments }))
	authed.GET(api.EndPointTreatmentPlans, list(f, func(c *ClinicData) []api.TreatmentPlan { return c.Plans }))
	authed.GET(api.EndPointInventory, list(f, func(c *ClinicData) []api.InventoryItem { return c.Inventory }))
	authed.GET(api.EndPointTeamMembers, list(f, func(c *ClinicData) []api.StaffMember { return c.Staff }))
	authed.GET(api.EndPointDentists, f.listDentists)
	authed.GET(api.EndPointMedicalRecords, f.medicalRecords)

	authed.GET(api.EndPointClinicInfo, f.clinicInfo)
	authed.POST(api.EndPointClinicInfo, handle(f, createClinicInfo))
	authed.PUT(api.EndPointClinicInfo, handle(f, updateClinicInfo))

	authed.GET(api.EndPointFeed, f.listPosts(false))
	authed.GET(api.EndPointPosts, f.listPosts(true))
	authed.POST(api.EndPointPosts, f.createPost)
	authed.GET(api.EndPointAddLike, f.addLike)

	authed.POST(api.EndPointAddPatient, handle(f, addPatient))
	authed.POST(api.EndPointCreateAppointment, handle(f, createAppointment))
	authed.PUT(api.EndPointAppointmentStatus, handle(f, updateAppointmentStatus))
	authed.POST(api.EndPointAddPlan, handle(f, addPlan))
	authed.PUT(api.EndPointAddSession, handle(f, addSession))
	authed.PUT(api.EndPointUpdateSession, handle(f, updateSession))
	authed.PUT(api.EndPointCompleteSession, handle(f, completeSession))
	authed.DELETE(api.EndPointDeleteSession, f.deleteSession)
	authed.POST(api.EndPointInventory, handle(f, addInventoryItem))
	authed.PUT(api.EndPointRestock, handle(f, restock))
	authed.POST(api.EndPointAddMember, handle(f, addMember))
	authed.PUT(api.EndPointUpdateMember, handle(f, updateMember))

	return r
}

func (f *FakeAPI) countAndFail(c *gin.Context) {
	f.mu.Lock()
	f.hits[c.Request.Method+" "+c.Request.URL.Path]++
	code := f.failures[c.Request.URL.Path]
	f.mu.Unlock()

	if code != 0 {
		c.AbortWithStatusJSON(code, gin.H{"message": "injected failure"})
	}
}

func (f *FakeAPI) authenticate(c *gin.Context) {
	token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")

	f.mu.Lock()
	u := f.byToken[token]
	f.mu.Unlock()

	if !ok || u == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})

		return
	}

	c.Set(userKey, u)
}

func currentUser(c *gin.Context) *user {
	u, _ := c.MustGet(userKey).(*user) //nolint:errcheck,forcetypeassert

	return u
}

func (f *FakeAPI) signIn(c *gin.Context) {
	var creds api.Credentials

	if err := c.ShouldBindJSON(&creds); err != nil {
		c.AbortWithStatus(http.StatusBadRequest)

		return
	}

	f.mu.Lock()
	u, ok := f.users[creds.Email]
	f.mu.Unlock()

	if !ok || u.password != creds.Password {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid email or password"})

		return
	}

	c.JSON(http.StatusOK, api.AuthResponse{Token: u.token})
}

func (f *FakeAPI) signUp(c *gin.Context) {
	var reg api.Registration

	if err := c.ShouldBindJSON(&reg); err != nil {
		c.AbortWithStatus(http.StatusBadRequest)

		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if _, exists := f.users[reg.Email]; exists {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"message": "email already registered"})

		return
	}

	token := f.addUserLocked(reg.Email, reg.Password, api.Profile{
		FirstName:  reg.FirstName,
		LastName:   reg.LastName,
		Email:      reg.Email,
		Permission: reg.Role,
	})

	c.JSON(http.StatusOK, api.AuthResponse{Token: token})
}

func (f *FakeAPI) userDetails(c *gin.Context) {
	f.mu.Lock()
	p := currentUser(c).profile
	f.mu.Unlock()

	c.JSON(http.StatusOK, p)
}

func (f *FakeAPI) updateUser(c *gin.Context) {
	var u api.ProfileUpdate

	if err := c.ShouldBindJSON(&u); err != nil {
		c.AbortWithStatus(http.StatusBadRequest)

		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	currentUser(c).profile = api.Profile{
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Email:      u.Email,
		Bio:        u.Bio,
		Phone:      u.Phone,
		ImageURL:   u.ImageURL,
		Permission: u.Permission,
	}

	c.Status(http.StatusOK)
}

func (f *FakeAPI) changePassword(c *gin.Context) {
	var pc api.PasswordChange

	if err := c.ShouldBindJSON(&pc); err != nil {
		c.AbortWithStatus(http.StatusBadRequest)

		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	u := currentUser(c)

	if pc.Password != u.password {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "current password is wrong"})

		return
	}

	u.password = pc.NewPassword

	c.Status(http.StatusOK)
}

func (f *FakeAPI) medicalRecords(c *gin.Context) {
	id := api.ID(c.Query(api.ParamPatientID))

	f.mu.Lock()
	defer f.mu.Unlock()

	var records []api.MedicalRecord

	for _, r := range currentUser(c).clinic.Records {
		if r.PatientID == id {
			records = append(records, r)
		}
	}

	c.JSON(http.StatusOK, nonNil(records))
}

func (f *FakeAPI) clinicInfo(c *gin.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()

	info := currentUser(c).clinic.Info
	if info == nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "no clinic"})

		return
	}

	c.JSON(http.StatusOK, info)
}

func createClinicInfo(_ *FakeAPI, _ *gin.Context, clinic *ClinicData, info api.ClinicInfo) int {
	if clinic.Info != nil {
		return http.StatusConflict
	}

	clinic.Info = &info

	return http.StatusCreated
}

func updateClinicInfo(_ *FakeAPI, _ *gin.Context, clinic *ClinicData, info api.ClinicInfo) int {
	if clinic.Info == nil {
		return http.StatusNotFound
	}

	clinic.Info = &info

	return http.StatusOK
}

func (f *FakeAPI) listPosts(mine bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		f.mu.Lock()
		defer f.mu.Unlock()

		me := currentUser(c).profile.Email
		posts := []api.Post{}

		for _, p := range f.posts {
			if mine && p.owner != me {
				continue
			}

			ap := p.Post
			ap.Likes = len(p.likedBy)
			ap.IsLiked = p.likedBy[me]
			posts = append(posts, ap)
		}

		c.JSON(http.StatusOK, posts)
	}
}

func (f *FakeAPI) createPost(c *gin.Context) {
	title, content := c.PostForm("title"), c.PostForm("content")
	if content == "" {
		c.AbortWithStatus(http.StatusBadRequest)

		return
	}

	var image string

	if fh, err := c.FormFile("image"); err == nil {
		image = fh.Filename
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.addPostLocked(currentUser(c), title, content, image)

	c.String(http.StatusOK, image)
}

func (f *FakeAPI) addLike(c *gin.Context) {
	id := api.ID(c.Query(api.ParamPostID))

	f.mu.Lock()
	defer f.mu.Unlock()

	i := slices.IndexFunc(f.posts, func(p *post) bool { return p.ID == id })
	if i < 0 {
		c.Status(http.StatusNotFound)

		return
	}

	me := currentUser(c).profile.Email

	if f.posts[i].likedBy[me] {
		delete(f.posts[i].likedBy, me)
	} else {
		f.posts[i].likedBy[me] = true
	}

	c.Status(http.StatusOK)
}

func (f *FakeAPI) listDentists(c *gin.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()

	c.JSON(http.StatusOK, nonNil(f.dentists))
}

func list[T any](f *FakeAPI, get func(*ClinicData) []T) gin.HandlerFunc {
	return func(c *gin.Context) {
		f.mu.Lock()
		defer f.mu.Unlock()

		c.JSON(http.StatusOK, nonNil(get(currentUser(c).clinic)))
	}
}

// mutation is a handler body that runs with the FakeAPI locked. It returns an
// HTTP status code.
type mutation[T any] func(f *FakeAPI, c *gin.Context, clinic *ClinicData, body T) int

func handle[T any](f *FakeAPI, m mutation[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body T

		if err := c.ShouldBindJSON(&body); err != nil {
			c.AbortWithStatus(http.StatusBadRequest)

			return
		}

		f.mu.Lock()
		code := m(f, c, currentUser(c).clinic, body)
		f.mu.Unlock()

		c.Status(code)
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}

	return s
}

func now() api.Timestamp {
	return api.NewTimestamp(time.Now())
}

func addPatient(f *FakeAPI, _ *gin.Context, clinic *ClinicData, p api.NewPatient) int {
	clinic.Patients = append(clinic.Patients, api.Patient{
		ID:             f.newIDLocked(),
		FirstName:      p.FirstName,
		LastName:       p.LastName,
		Email:          p.Email,
		Phone:          p.Phone,
		DateOfBirth:    p.DateOfBirth,
		Gender:         p.Gender,
		Country:        p.Country,
		City:           p.City,
		State:          p.State,
		ZipCode:        p.ZipCode,
		MedicalHistory: p.MedicalHistory,
		Allergies:      p.Allergies,
		Status:         "active",
		CreatedAt:      now(),
	})

	return http.StatusCreated
}

func createAppointment(f *FakeAPI, _ *gin.Context, clinic *ClinicData, a api.NewAppointment) int {
	pi := slices.IndexFunc(clinic.Patients, func(p api.Patient) bool { return p.ID == a.PatientID })
	if pi < 0 {
		return http.StatusNotFound
	}

	var dentistName string

	if di := slices.IndexFunc(f.dentists, func(d api.Dentist) bool { return d.ID == a.DentistID }); di >= 0 {
		dentistName = f.dentists[di].Name()
	}

	clinic.Appointments = append(clinic.Appointments, api.Appointment{
		ID:            f.newIDLocked(),
		PatientID:     a.PatientID,
		PatientName:   clinic.Patients[pi].Name(),
		DentistID:     a.DentistID,
		DentistName:   dentistName,
		Date:          a.Date,
		StartTime:     a.StartTime,
		EndTime:       a.EndTime,
		TreatmentType: a.TreatmentType,
		Status:        api.AppointmentScheduled,
		Notes:         a.Notes,
	})

	clinic.Patients[pi].NextAppointment = a.Date

	return http.StatusCreated
}

func updateAppointmentStatus(_ *FakeAPI, _ *gin.Context, clinic *ClinicData, u api.AppointmentStatusUpdate) int {
	i := slices.IndexFunc(clinic.Appointments, func(a api.Appointment) bool { return a.ID == u.AppointmentID })
	if i < 0 {
		return http.StatusNotFound
	}

	clinic.Appointments[i].Status = u.Status

	if u.Status == api.AppointmentCompleted {
		pid := clinic.Appointments[i].PatientID

		if pi := slices.IndexFunc(clinic.Patients, func(p api.Patient) bool { return p.ID == pid }); pi >= 0 {
			clinic.Patients[pi].LastVisit = clinic.Appointments[i].Date
		}
	}

	return http.StatusOK
}

func addPlan(f *FakeAPI, _ *gin.Context, clinic *ClinicData, p api.NewTreatmentPlan) int {
	plan := api.TreatmentPlan{
		ID:            f.newIDLocked(),
		PatientID:     p.PatientID,
		TreatmentType: p.TreatmentType,
		StartDate:     p.StartDate,
		Cost:          p.Cost,
		Status:        api.TreatmentPlanned,
		Sessions:      []api.TreatmentSession{},
		Notes:         p.Notes,
	}

	if pi := slices.IndexFunc(clinic.Patients, func(pt api.Patient) bool { return pt.ID == p.PatientID }); pi >= 0 {
		plan.PatientName = clinic.Patients[pi].Name()
	}

	if di := slices.IndexFunc(f.dentists, func(d api.Dentist) bool { return d.ID == p.DentistID }); di >= 0 {
		plan.DentistName = f.dentists[di].Name()
	}

	clinic.Plans = append(clinic.Plans, plan)

	return http.StatusCreated
}

func addSession(f *FakeAPI, c *gin.Context, clinic *ClinicData, s api.SessionInput) int {
	id := api.ID(c.Query(api.ParamTreatmentID))

	i := slices.IndexFunc(clinic.Plans, func(p api.TreatmentPlan) bool { return p.ID == id })
	if i < 0 {
		return http.StatusNotFound
	}

	plan := &clinic.Plans[i]
	plan.Sessions = append(plan.Sessions, api.TreatmentSession{
		ID:    f.newIDLocked(),
		Date:  s.Date,
		Notes: s.Notes,
	})

	if plan.Status == api.TreatmentPlanned {
		plan.Status = api.TreatmentInProgress
	}

	return http.StatusOK
}

// findSession returns the plan and index of the session with the given id.
func findSession(clinic *ClinicData, id api.ID) (*api.TreatmentPlan, int) {
	for pi := range clinic.Plans {
		plan := &clinic.Plans[pi]

		if si := slices.IndexFunc(plan.Sessions, func(s api.TreatmentSession) bool { return s.ID == id }); si >= 0 {
			return plan, si
		}
	}

	return nil, -1
}

func updateSession(_ *FakeAPI, c *gin.Context, clinic *ClinicData, s api.SessionInput) int {
	plan, si := findSession(clinic, api.ID(c.Query(api.ParamSessionID)))
	if plan == nil {
		return http.StatusNotFound
	}

	plan.Sessions[si].Date = s.Date
	plan.Sessions[si].Notes = s.Notes

	return http.StatusOK
}

func completeSession(_ *FakeAPI, c *gin.Context, clinic *ClinicData, s api.SessionCompletion) int {
	plan, si := findSession(clinic, api.ID(c.Query(api.ParamSessionID)))
	if plan == nil {
		return http.StatusNotFound
	}

	plan.Sessions[si].Completed = s.Completed

	if plan.CompletedSessions() == len(plan.Sessions) {
		plan.Status = api.TreatmentCompleted
		plan.EndDate = now()
	}

	return http.StatusOK
}

func (f *FakeAPI) deleteSession(c *gin.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()

	plan, si := findSession(currentUser(c).clinic, api.ID(c.Query(api.ParamSessionID)))
	if plan == nil {
		c.Status(http.StatusNotFound)

		return
	}

	plan.Sessions = slices.Delete(plan.Sessions, si, si+1)

	c.Status(http.StatusOK)
}

func addInventoryItem(f *FakeAPI, _ *gin.Context, clinic *ClinicData, n api.NewInventoryItem) int {
	clinic.Inventory = append(clinic.Inventory, api.InventoryItem{
		ID:                f.newIDLocked(),
		Name:              n.Name,
		Category:          n.Category,
		TotalQuantity:     n.Quantity,
		CloselyExpiryDate: n.ExpiryDate,
		Unit:              n.Unit,
		MinimumLevel:      n.MinimumLevel,
		Supplier:          n.Supplier,
		LastReStockedDate: now(),
		Stocks: []api.Stock{{
			ID:         f.newIDLocked(),
			Quantity:   n.Quantity,
			ExpiryDate: n.ExpiryDate,
			CreatedAt:  now(),
		}},
		CreatedAt: now(),
	})

	return http.StatusCreated
}

func restock(f *FakeAPI, c *gin.Context, clinic *ClinicData, r api.Restock) int {
	id := api.ID(c.Query(api.ParamInventoryID))

	i := slices.IndexFunc(clinic.Inventory, func(item api.InventoryItem) bool { return item.ID == id })
	if i < 0 {
		return http.StatusNotFound
	}

	item := &clinic.Inventory[i]
	item.Stocks = append(item.Stocks, api.Stock{
		ID:         f.newIDLocked(),
		Quantity:   r.Quantity,
		ExpiryDate: r.ExpiryDate,
		CreatedAt:  now(),
	})
	item.TotalQuantity += r.Quantity
	item.LastReStockedDate = now()

	if cur, ok := item.CloselyExpiryDate.Time(); !ok {
		item.CloselyExpiryDate = r.ExpiryDate
	} else if exp, ok := r.ExpiryDate.Time(); ok && exp.Before(cur) {
		item.CloselyExpiryDate = r.ExpiryDate
	}

	return http.StatusOK
}

func addMember(f *FakeAPI, _ *gin.Context, clinic *ClinicData, s api.StaffInput) int {
	clinic.Staff = append(clinic.Staff, api.StaffMember{
		ID:             f.newIDLocked(),
		FirstName:      s.FirstName,
		LastName:       s.LastName,
		Email:          s.Email,
		Phone:          s.Phone,
		Role:           s.Role,
		Specialization: s.Specialization,
	})

	return http.StatusCreated
}

func updateMember(_ *FakeAPI, _ *gin.Context, clinic *ClinicData, s api.StaffInput) int {
	i := slices.IndexFunc(clinic.Staff, func(m api.StaffMember) bool { return m.ID == s.ID })
	if i < 0 {
		return http.StatusNotFound
	}

	clinic.Staff[i] = api.StaffMember{
		ID:             s.ID,
		FirstName:      s.FirstName,
		LastName:       s.LastName,
		Email:          s.Email,
		Phone:          s.Phone,
		Role:           s.Role,
		Specialization: s.Specialization,
	}

	return http.StatusOK
}
