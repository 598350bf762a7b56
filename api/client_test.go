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

package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dentflow/clinicsync/api"
	internaltest "github.com/dentflow/clinicsync/internal/test"
	. "github.com/smartystreets/goconvey/convey"
)

func TestTypes(t *testing.T) {
	Convey("IDs can be unmarshalled from strings, numbers and null", t, func() {
		var ids struct {
			A api.ID `json:"a"`
			B api.ID `json:"b"`
			C api.ID `json:"c"`
		}

		err := json.Unmarshal([]byte(`{"a":"x1","b":42,"c":null}`), &ids)
		So(err, ShouldBeNil)
		So(ids.A, ShouldEqual, api.ID("x1"))
		So(ids.B, ShouldEqual, api.ID("42"))
		So(ids.C, ShouldEqual, api.ID(""))
	})

	Convey("Timestamps parse the formats the server sends", t, func() {
		for _, ts := range []api.Timestamp{
			"2026-03-04T05:06:07Z",
			"2026-03-04T05:06:07.123",
			"2026-03-04T05:06:07",
			"2026-03-04",
		} {
			parsed, ok := ts.Time()
			So(ok, ShouldBeTrue)
			So(parsed.Format(time.DateOnly), ShouldEqual, "2026-03-04")
		}

		_, ok := api.Timestamp("").Time()
		So(ok, ShouldBeFalse)

		_, ok = api.Timestamp("next tuesday").Time()
		So(ok, ShouldBeFalse)

		day := time.Date(2026, 1, 31, 15, 0, 0, 0, time.UTC)
		So(api.NewDate(day), ShouldEqual, api.Timestamp("2026-01-31"))
		So(api.NewTimestamp(day), ShouldEqual, api.Timestamp("2026-01-31T15:00:00Z"))
	})

	Convey("Items are low on stock below their minimum level", t, func() {
		So(api.InventoryItem{TotalQuantity: 4, MinimumLevel: 5}.IsLowStock(), ShouldBeTrue)
		So(api.InventoryItem{TotalQuantity: 5, MinimumLevel: 5}.IsLowStock(), ShouldBeFalse)
	})

	Convey("Treatment plans count their completed sessions", t, func() {
		p := api.TreatmentPlan{Sessions: []api.TreatmentSession{{Completed: true}, {}, {Completed: true}}}
		So(p.CompletedSessions(), ShouldEqual, 2)
	})
}

func TestValidate(t *testing.T) {
	Convey("Validate names each bad field by its JSON name", t, func() {
		err := api.Validate(api.Registration{
			FirstName: "Al",
			LastName:  "Smith",
			Email:     "not-an-email",
			Password:  "secret",
		})
		So(errors.Is(err, api.ErrInvalidInput), ShouldBeTrue)
		So(err.Error(), ShouldContainSubstring, "firstName must be at least 3 characters")
		So(err.Error(), ShouldContainSubstring, "email must be a valid email address")
		So(err.Error(), ShouldContainSubstring, "role is required")
		So(err.Error(), ShouldNotContainSubstring, "lastName")

		err = api.Validate(api.AppointmentStatusUpdate{AppointmentID: "1", Status: "done"})
		So(err, ShouldNotBeNil)
		So(err.Error(), ShouldContainSubstring, "appointmentStatus must be one of")

		err = api.Validate(api.ProfileUpdate{Bio: "hi"})
		So(err, ShouldNotBeNil)
		So(err.Error(), ShouldContainSubstring, "email is required")

		err = api.Validate(api.PasswordChange{Password: "secret", NewPassword: "secret2", ConfirmPassword: "secret3"})
		So(err, ShouldNotBeNil)
		So(err.Error(), ShouldContainSubstring, "confirmPassword does not match")

		err = api.Validate(api.NewPost{Title: "t", Content: "c", ImagePath: "/no/such/image.png"})
		So(err, ShouldNotBeNil)
		So(err.Error(), ShouldContainSubstring, `image "/no/such/image.png" is not a file`)
	})

	Convey("Applying profile changes keeps every field not being changed", t, func() {
		p := &api.Profile{
			FirstName: "Ann", LastName: "Lee", Email: "ann@example.com", Bio: "old",
			Phone: "0123", ImageURL: "ann.png", Permission: "Admin",
		}

		So(p.Apply(api.ProfileChanges{Bio: "new", Phone: "999"}), ShouldResemble, api.ProfileUpdate{
			FirstName: "Ann", LastName: "Lee", Email: "ann@example.com", Bio: "new",
			Phone: "999", ImageURL: "ann.png", Permission: "Admin",
		})

		So(api.ProfileChanges{}.IsZero(), ShouldBeTrue)
		So(api.ProfileChanges{Bio: "x"}.IsZero(), ShouldBeFalse)
	})

	Convey("Merging clinic details only replaces the given fields", t, func() {
		info := api.ClinicInfo{Name: "Smile", City: "Leeds", ClinicPhone: "0113"}

		So(info.Merge(api.ClinicInfo{City: "York"}), ShouldResemble,
			api.ClinicInfo{Name: "Smile", City: "York", ClinicPhone: "0113"})
	})

	Convey("Toggling a like flips it and adjusts the count", t, func() {
		p := api.Post{Likes: 3}

		p.ToggleLike()
		So(p.IsLiked, ShouldBeTrue)
		So(p.Likes, ShouldEqual, 4)

		p.ToggleLike()
		So(p.IsLiked, ShouldBeFalse)
		So(p.Likes, ShouldEqual, 3)
	})
}

func TestClient(t *testing.T) {
	Convey("New needs a base URL", t, func() {
		_, err := api.New("  ", 0)
		So(err, ShouldEqual, api.ErrNoBaseURL)

		c, err := api.New("http://example.com/", 0)
		So(err, ShouldBeNil)
		So(c.BaseURL(), ShouldEqual, "http://example.com")
	})

	Convey("Profile updates are posted with every field", t, func() {
		var (
			method string
			body   map[string]string
		)

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			method = r.Method
			json.NewDecoder(r.Body).Decode(&body) //nolint:errcheck
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		c, err := api.New(server.URL, time.Second)
		So(err, ShouldBeNil)

		p := &api.Profile{FirstName: "Ann", LastName: "Lee", Email: "ann@example.com", Permission: "Admin"}

		err = c.UpdateUser(context.Background(), "tok", p.Apply(api.ProfileChanges{Bio: "hi"}))
		So(err, ShouldBeNil)
		So(method, ShouldEqual, http.MethodPost)
		So(body, ShouldResemble, map[string]string{
			"firstName": "Ann", "lastName": "Lee", "email": "ann@example.com", "phone": "",
			"permission": "Admin", "imageUrl": "", "bio": "hi",
		})
	})

	Convey("Given a client for a fake API", t, func() {
		fake := internaltest.NewFakeAPI()
		defer fake.Close()

		token := fake.AddUser("ann@example.com", "secret1", api.Profile{FirstName: "Ann"})

		c, err := api.New(fake.URL(), time.Second)
		So(err, ShouldBeNil)

		ctx := context.Background()

		Convey("you can sign in and get your details", func() {
			got, err := c.SignIn(ctx, api.Credentials{Email: "ann@example.com", Password: "secret1"})
			So(err, ShouldBeNil)
			So(got, ShouldEqual, token)

			p, err := c.UserDetails(ctx, got)
			So(err, ShouldBeNil)
			So(p.FirstName, ShouldEqual, "Ann")
			So(p.Email, ShouldEqual, "ann@example.com")
		})

		Convey("bad credentials give an unauthorized StatusError", func() {
			_, err := c.SignIn(ctx, api.Credentials{Email: "ann@example.com", Password: "nope"})

			var se *api.StatusError
			So(errors.As(err, &se), ShouldBeTrue)
			So(se.Code, ShouldEqual, http.StatusUnauthorized)
			So(se.Endpoint, ShouldEqual, api.EndPointSignIn)
			So(api.IsUnauthorized(err), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "invalid email or password")
		})

		Convey("invalid payloads are rejected without a request", func() {
			_, err := c.SignIn(ctx, api.Credentials{Email: "ann"})
			So(errors.Is(err, api.ErrInvalidInput), ShouldBeTrue)
			So(fake.Hits(http.MethodPost, api.EndPointSignIn), ShouldEqual, 0)

			err = c.AddPatient(ctx, token, api.NewPatient{FirstName: "Pat"})
			So(errors.Is(err, api.ErrInvalidInput), ShouldBeTrue)
			So(fake.Hits(http.MethodPost, api.EndPointAddPatient), ShouldEqual, 0)
		})

		Convey("authenticated calls need a token", func() {
			_, err := c.Patients(ctx, "")
			So(err, ShouldEqual, api.ErrNotLoggedIn)

			err = c.AddPatient(ctx, "", api.NewPatient{FirstName: "Pat", LastName: "Jones"})
			So(err, ShouldEqual, api.ErrNotLoggedIn)

			_, err = c.Patients(ctx, "bogus")
			So(api.IsUnauthorized(err), ShouldBeTrue)
		})

		Convey("empty collections are returned as empty", func() {
			patients, err := c.Patients(ctx, token)
			So(err, ShouldBeNil)
			So(patients, ShouldBeEmpty)
		})

		Convey("you can write and read back each collection", func() {
			err := c.AddPatient(ctx, token, api.NewPatient{FirstName: "Pat", LastName: "Jones"})
			So(err, ShouldBeNil)

			patients, err := c.Patients(ctx, token)
			So(err, ShouldBeNil)
			So(len(patients), ShouldEqual, 1)
			So(patients[0].Name(), ShouldEqual, "Pat Jones")

			err = c.AddTreatmentPlan(ctx, token, api.NewTreatmentPlan{
				PatientID: patients[0].ID, DentistID: "d1", TreatmentType: "Filling",
				StartDate: "2026-01-01", Cost: 80,
			})
			So(err, ShouldBeNil)

			plans, err := c.TreatmentPlans(ctx, token)
			So(err, ShouldBeNil)
			So(len(plans), ShouldEqual, 1)
			So(plans[0].Status, ShouldEqual, api.TreatmentPlanned)

			err = c.AddSession(ctx, token, plans[0].ID, api.SessionInput{Date: "2026-01-08", Notes: "drill"})
			So(err, ShouldBeNil)

			plans, err = c.TreatmentPlans(ctx, token)
			So(err, ShouldBeNil)
			So(len(plans[0].Sessions), ShouldEqual, 1)

			err = c.CompleteSession(ctx, token, plans[0].Sessions[0].ID)
			So(err, ShouldBeNil)

			plans, err = c.TreatmentPlans(ctx, token)
			So(err, ShouldBeNil)
			So(plans[0].CompletedSessions(), ShouldEqual, 1)

			err = c.DeleteSession(ctx, token, plans[0].Sessions[0].ID)
			So(err, ShouldBeNil)

			plans, err = c.TreatmentPlans(ctx, token)
			So(err, ShouldBeNil)
			So(plans[0].Sessions, ShouldBeEmpty)

			err = c.DeleteSession(ctx, token, "missing")

			var se *api.StatusError
			So(errors.As(err, &se), ShouldBeTrue)
			So(se.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("a profile update replaces the profile", func() {
			p, err := c.UserDetails(ctx, token)
			So(err, ShouldBeNil)

			err = c.UpdateUser(ctx, token, p.Apply(api.ProfileChanges{Bio: "hi"}))
			So(err, ShouldBeNil)
			So(fake.Hits(http.MethodPost, api.EndPointUpdateUser), ShouldEqual, 1)

			got := fake.Profile("ann@example.com")
			So(got.Bio, ShouldEqual, "hi")
			So(got.FirstName, ShouldEqual, "Ann")
			So(got.Email, ShouldEqual, "ann@example.com")
		})

		Convey("you can change your password", func() {
			err := c.ChangePassword(ctx, token, api.PasswordChange{
				Password: "secret1", NewPassword: "secret2", ConfirmPassword: "secret2",
			})
			So(err, ShouldBeNil)

			_, err = c.SignIn(ctx, api.Credentials{Email: "ann@example.com", Password: "secret2"})
			So(err, ShouldBeNil)

			err = c.ChangePassword(ctx, token, api.PasswordChange{
				Password: "secret1", NewPassword: "secret3", ConfirmPassword: "secret3",
			})
			So(err, ShouldNotBeNil)
		})

		Convey("clinic details are nil until created, then can be updated", func() {
			info, err := c.ClinicInfo(ctx, token)
			So(err, ShouldBeNil)
			So(info, ShouldBeNil)

			So(c.UpdateClinicInfo(ctx, token, api.ClinicInfo{Name: "Smile"}), ShouldNotBeNil)
			So(c.CreateClinicInfo(ctx, token, api.ClinicInfo{Name: "Smile", City: "Leeds"}), ShouldBeNil)
			So(c.UpdateClinicInfo(ctx, token, api.ClinicInfo{Name: "Smile", City: "York"}), ShouldBeNil)

			info, err = c.ClinicInfo(ctx, token)
			So(err, ShouldBeNil)
			So(info, ShouldResemble, &api.ClinicInfo{Name: "Smile", City: "York"})
		})

		Convey("you can post with an image, see the feed and like posts", func() {
			image := filepath.Join(t.TempDir(), "xray.png")
			So(os.WriteFile(image, []byte("png"), 0o600), ShouldBeNil)

			err := c.CreatePost(ctx, token, api.NewPost{Title: "Hello", Content: "First post", ImagePath: image})
			So(err, ShouldBeNil)

			feed, err := c.Feed(ctx, token)
			So(err, ShouldBeNil)
			So(len(feed), ShouldEqual, 1)
			So(feed[0].Content, ShouldEqual, "First post")
			So(feed[0].Image, ShouldEqual, "xray.png")
			So(feed[0].Author.Name, ShouldEqual, "Ann")

			So(c.LikePost(ctx, token, feed[0].ID), ShouldBeNil)
			So(fake.Hits(http.MethodGet, api.EndPointAddLike), ShouldEqual, 1)

			mine, err := c.MyPosts(ctx, token)
			So(err, ShouldBeNil)
			So(len(mine), ShouldEqual, 1)
			So(mine[0].Likes, ShouldEqual, 1)
			So(mine[0].IsLiked, ShouldBeTrue)
		})

		Convey("you can read a patient's medical records", func() {
			fake.Update("ann@example.com", func(cd *internaltest.ClinicData) {
				cd.Records = []api.MedicalRecord{
					{ID: "m1", PatientID: "p1", Title: "X-ray"},
					{ID: "m2", PatientID: "p2", Title: "Scan"},
				}
			})

			records, err := c.MedicalRecords(ctx, token, "p1")
			So(err, ShouldBeNil)
			So(len(records), ShouldEqual, 1)
			So(records[0].Title, ShouldEqual, "X-ray")
		})

		Convey("server failures are returned as StatusErrors", func() {
			fake.Fail(api.EndPointInventory, http.StatusInternalServerError)

			_, err := c.Inventory(ctx, token)

			var se *api.StatusError
			So(errors.As(err, &se), ShouldBeTrue)
			So(se.Code, ShouldEqual, http.StatusInternalServerError)
			So(api.IsUnauthorized(err), ShouldBeFalse)

			fake.ClearFailures()

			_, err = c.Inventory(ctx, token)
			So(err, ShouldBeNil)
		})
	})
}
