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
	"errors"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/dentflow/clinicsync/api"
	"github.com/dentflow/clinicsync/internal/test"
	"github.com/dentflow/clinicsync/session"
	"github.com/inconshreveable/log15"
	. "github.com/smartystreets/goconvey/convey"
)

const (
	annEmail = "ann@example.com"
	bobEmail = "bob@example.com"
	password = "secret1"
)

type clinicEnv struct {
	fake      *test.FakeAPI
	client    *api.Client
	sess      *session.Store
	clinic    *Clinic
	inventory *Inventory
	dentists  *Dentists
	staff     *Staff
	posts     *Posts
	details   *ClinicDetails
}

func (e *clinicEnv) wait() {
	e.sess.Wait()
	e.clinic.Wait()
	e.inventory.Wait()
	e.dentists.Wait()
	e.staff.Wait()
	e.posts.Wait()
	e.details.Wait()
}

func (e *clinicEnv) close() {
	e.clinic.Close()
	e.inventory.Close()
	e.dentists.Close()
	e.staff.Close()
	e.posts.Close()
	e.details.Close()
	e.sess.Close() //nolint:errcheck
	e.fake.Close()
}

func (e *clinicEnv) login(email string) {
	err := e.sess.Login(context.Background(), api.Credentials{Email: email, Password: password})
	So(err, ShouldBeNil)

	e.wait()
}

func discardLogger() log15.Logger {
	l := log15.New()
	l.SetHandler(log15.DiscardHandler())

	return l
}

func newClinicEnv(t *testing.T) *clinicEnv {
	t.Helper()

	fake := test.NewFakeAPI()
	fake.AddUser(annEmail, password, api.Profile{FirstName: "Ann", LastName: "Lee", Permission: "Admin"})
	fake.AddUser(bobEmail, password, api.Profile{FirstName: "Bob", LastName: "Ray", Permission: "Dentist"})
	fake.SetDentists(api.Dentist{ID: "d1", FirstName: "Dee", LastName: "Smith", Specialization: "Orthodontics"})

	client, err := api.New(fake.URL(), time.Second)
	So(err, ShouldBeNil)

	ts, err := session.OpenBoltTokenStore(filepath.Join(t.TempDir(), "tokens.db"))
	So(err, ShouldBeNil)

	sess, err := session.New(client, ts, discardLogger())
	So(err, ShouldBeNil)

	cfg := Config{Logger: discardLogger()}

	return &clinicEnv{
		fake:      fake,
		client:    client,
		sess:      sess,
		clinic:    NewClinic(client, sess, cfg),
		inventory: NewInventory(client, sess, cfg),
		dentists:  NewDentists(client, sess, cfg),
		staff:     NewStaff(client, sess, cfg),
		posts:     NewPosts(client, sess, cfg),
		details:   NewClinicDetails(client, sess, cfg),
	}
}

func seedAnn(fake *test.FakeAPI) {
	fake.Update(annEmail, func(c *test.ClinicData) {
		c.Patients = []api.Patient{{ID: "1", FirstName: "A", LastName: "Patient", Email: "a@example.com", Phone: "0123"}}
		c.Appointments = []api.Appointment{{ID: "10", PatientID: "1", DentistID: "d1", Status: api.AppointmentScheduled}}
		c.Plans = []api.TreatmentPlan{{ID: "20", PatientID: "1", TreatmentType: "Braces", Status: api.TreatmentPlanned}}
		c.Inventory = []api.InventoryItem{{
			ID: "30", Name: "Gloves", TotalQuantity: 5, MinimumLevel: 10,
			Stocks: []api.Stock{{ID: "31", Quantity: 5, ExpiryDate: "2026-01-10"}},
		}}
		c.Records = []api.MedicalRecord{{ID: "40", PatientID: "1", Title: "X-ray", Type: "scan"}}
	})

	fake.AddPost(bobEmail, "Hello", "Bob's first post")
}

func TestProviders(t *testing.T) {
	ctx := context.Background()

	Convey("Given providers bound to a logged out session", t, func() {
		env := newClinicEnv(t)
		seedAnn(env.fake)

		Reset(env.close)

		Convey("nothing is fetched and every collection is empty", func() {
			env.clinic.SetChanged(true)
			env.inventory.SetChanged(true)
			env.wait()

			So(env.clinic.Patients(), ShouldBeEmpty)
			So(env.clinic.Appointments(), ShouldBeEmpty)
			So(env.inventory.Inventories(), ShouldBeEmpty)
			So(env.dentists.Dentists(), ShouldBeEmpty)

			for _, path := range []string{
				api.EndPointPatients, api.EndPointAppointments, api.EndPointTreatmentPlans,
				api.EndPointInventory, api.EndPointDentists, api.EndPointTeamMembers,
			} {
				So(env.fake.Hits(http.MethodGet, path), ShouldEqual, 0)
			}
		})

		Convey("writes need a token", func() {
			err := env.clinic.AddPatient(ctx, api.NewPatient{FirstName: "X", LastName: "Y"})
			So(err, ShouldEqual, api.ErrNotLoggedIn)
			So(env.fake.Hits(http.MethodPost, api.EndPointAddPatient), ShouldEqual, 0)
		})

		Convey("logging in fetches every collection exactly once", func() {
			env.login(annEmail)

			for _, path := range []string{
				api.EndPointPatients, api.EndPointAppointments, api.EndPointTreatmentPlans,
				api.EndPointInventory, api.EndPointDentists, api.EndPointTeamMembers, api.EndPointUserDetails,
				api.EndPointFeed, api.EndPointClinicInfo,
			} {
				So(env.fake.Hits(http.MethodGet, path), ShouldEqual, 1)
			}

			patients := env.clinic.Patients()
			So(patients, ShouldHaveLength, 1)
			So(patients[0].ID, ShouldEqual, api.ID("1"))
			So(patients[0].FirstName, ShouldEqual, "A")
			So(env.clinic.Changed(), ShouldBeFalse)

			So(env.clinic.AppointmentCount("1"), ShouldEqual, 1)
			So(env.clinic.AppointmentCount("2"), ShouldEqual, 0)
			So(env.clinic.FindPatients("PATIENT"), ShouldHaveLength, 1)
			So(env.clinic.FindPatients("0123"), ShouldHaveLength, 1)
			So(env.clinic.FindPatients("zzz"), ShouldBeEmpty)

			d, found := env.dentists.Find("d1")
			So(found, ShouldBeTrue)
			So(d.Name(), ShouldEqual, "Dee Smith")

			So(env.inventory.LowStock(), ShouldHaveLength, 1)

			Convey("booking an appointment refetches patients and appointments", func() {
				err := env.clinic.CreateAppointment(ctx, api.NewAppointment{
					PatientID:     "1",
					DentistID:     "d1",
					Date:          "2026-11-02",
					StartTime:     "09:00",
					EndTime:       "09:30",
					TreatmentType: "Checkup",
				})
				So(err, ShouldBeNil)
				env.wait()

				So(env.fake.Hits(http.MethodGet, api.EndPointAppointments), ShouldEqual, 2)
				So(env.fake.Hits(http.MethodGet, api.EndPointPatients), ShouldEqual, 2)
				So(env.fake.Hits(http.MethodGet, api.EndPointTreatmentPlans), ShouldEqual, 1)
				So(env.clinic.Appointments(), ShouldHaveLength, 2)
				So(env.clinic.AppointmentCount("1"), ShouldEqual, 2)
				So(env.clinic.AppointChanged(), ShouldBeFalse)
				So(env.clinic.Patients()[0].NextAppointment, ShouldEqual, api.Timestamp("2026-11-02"))
			})

			Convey("an invalid booking is rejected before reaching the server", func() {
				err := env.clinic.CreateAppointment(ctx, api.NewAppointment{PatientID: "1"})
				So(errors.Is(err, api.ErrInvalidInput), ShouldBeTrue)
				env.wait()

				So(env.fake.Hits(http.MethodPost, api.EndPointCreateAppointment), ShouldEqual, 0)
				So(env.fake.Hits(http.MethodGet, api.EndPointAppointments), ShouldEqual, 1)
			})

			Convey("changing an appointment's status only refetches appointments", func() {
				err := env.clinic.UpdateAppointmentStatus(ctx, "10", api.AppointmentCompleted)
				So(err, ShouldBeNil)
				env.wait()

				So(env.fake.Hits(http.MethodGet, api.EndPointAppointments), ShouldEqual, 2)
				So(env.fake.Hits(http.MethodGet, api.EndPointPatients), ShouldEqual, 1)
				So(env.clinic.Appointments()[0].Status, ShouldEqual, api.AppointmentCompleted)
			})

			Convey("a write the server rejects raises no flag", func() {
				err := env.clinic.UpdateAppointmentStatus(ctx, "999", api.AppointmentCompleted)

				var se *api.StatusError
				So(errors.As(err, &se), ShouldBeTrue)
				So(se.Code, ShouldEqual, http.StatusNotFound)

				env.wait()
				So(env.fake.Hits(http.MethodGet, api.EndPointAppointments), ShouldEqual, 1)
			})

			Convey("treatment plan sessions can be added, updated, completed and deleted", func() {
				So(env.clinic.AddSession(ctx, "20", api.SessionInput{Date: "2026-11-03"}), ShouldBeNil)
				env.wait()

				plan := env.clinic.TreatmentPlans()[0]
				So(plan.Sessions, ShouldHaveLength, 1)
				So(plan.Status, ShouldEqual, api.TreatmentInProgress)

				sid := plan.Sessions[0].ID

				So(env.clinic.UpdateSession(ctx, sid, api.SessionInput{Date: "2026-11-04", Notes: "moved"}), ShouldBeNil)
				env.wait()
				So(env.clinic.TreatmentPlans()[0].Sessions[0].Notes, ShouldEqual, "moved")

				So(env.clinic.CompleteSession(ctx, sid), ShouldBeNil)
				env.wait()
				plan = env.clinic.TreatmentPlans()[0]
				So(plan.CompletedSessions(), ShouldEqual, 1)
				So(plan.Status, ShouldEqual, api.TreatmentCompleted)

				So(env.clinic.DeleteSession(ctx, sid), ShouldBeNil)
				env.wait()
				So(env.clinic.TreatmentPlans()[0].Sessions, ShouldBeEmpty)

				So(env.fake.Hits(http.MethodGet, api.EndPointTreatmentPlans), ShouldEqual, 5)
				So(env.clinic.TreatmentChanged(), ShouldBeFalse)
			})

			Convey("adding a plan refetches treatment plans", func() {
				err := env.clinic.AddTreatmentPlan(ctx, api.NewTreatmentPlan{
					PatientID:     "1",
					DentistID:     "d1",
					TreatmentType: "Whitening",
					StartDate:     "2026-11-01",
					Cost:          250,
				})
				So(err, ShouldBeNil)
				env.wait()

				plans := env.clinic.TreatmentPlans()
				So(plans, ShouldHaveLength, 2)
				So(plans[1].PatientName, ShouldEqual, "A Patient")
				So(plans[1].DentistName, ShouldEqual, "Dee Smith")
			})

			Convey("a failed inventory fetch keeps the old items and clears the flag", func() {
				env.fake.Fail(api.EndPointInventory, http.StatusInternalServerError)
				env.inventory.SetChanged(true)
				env.wait()

				So(env.fake.Hits(http.MethodGet, api.EndPointInventory), ShouldEqual, 2)
				So(env.inventory.Inventories(), ShouldHaveLength, 1)
				So(env.inventory.Changed(), ShouldBeFalse)
			})

			Convey("restocking refetches the inventory", func() {
				err := env.inventory.Restock(ctx, "30", api.Restock{Quantity: 10, ExpiryDate: "2026-03-01"})
				So(err, ShouldBeNil)
				env.wait()

				item := env.inventory.Inventories()[0]
				So(item.TotalQuantity, ShouldEqual, 15)
				So(item.Stocks, ShouldHaveLength, 2)
				So(env.inventory.LowStock(), ShouldBeEmpty)

				now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

				lots := env.inventory.ExpiringWithin(30*24*time.Hour, now)
				So(lots, ShouldHaveLength, 1)
				So(lots[0].Stock.ID, ShouldEqual, api.ID("31"))
				So(lots[0].Expired(now), ShouldBeFalse)

				lots = env.inventory.ExpiringWithin(90*24*time.Hour, now)
				So(lots, ShouldHaveLength, 2)
				So(lots[0].Stock.ID, ShouldEqual, api.ID("31"))
			})

			Convey("adding an item refetches the inventory", func() {
				err := env.inventory.AddItem(ctx, api.NewInventoryItem{
					Name: "Masks", Category: "PPE", Quantity: 100, MinimumLevel: 20,
					Supplier: "Acme", ExpiryDate: "2027-01-01",
				})
				So(err, ShouldBeNil)
				env.wait()

				So(env.inventory.Inventories(), ShouldHaveLength, 2)
			})

			Convey("staff can be added and updated", func() {
				member := api.StaffInput{FirstName: "Cat", LastName: "Jones", Email: "cat@example.com", Role: "Nurse"}
				So(env.staff.Add(ctx, member), ShouldBeNil)
				env.wait()

				members := env.staff.Members()
				So(members, ShouldHaveLength, 1)

				member.ID = members[0].ID
				member.Role = "Hygienist"
				So(env.staff.Update(ctx, member), ShouldBeNil)
				env.wait()

				So(env.staff.Members()[0].Role, ShouldEqual, "Hygienist")
				So(env.staff.Changed(), ShouldBeFalse)
			})

			Convey("a patient's medical records can be fetched", func() {
				records, err := env.clinic.MedicalRecords(ctx, "1")
				So(err, ShouldBeNil)
				So(records, ShouldHaveLength, 1)
				So(records[0].Title, ShouldEqual, "X-ray")
			})

			Convey("liking a post flips it locally without refetching the feed", func() {
				feed := env.posts.Feed()
				So(feed, ShouldHaveLength, 1)
				So(feed[0].Likes, ShouldEqual, 0)

				So(env.posts.Like(ctx, feed[0].ID), ShouldBeNil)
				env.wait()

				liked := env.posts.Feed()[0]
				So(liked.IsLiked, ShouldBeTrue)
				So(liked.Likes, ShouldEqual, 1)
				So(feed[0].IsLiked, ShouldBeFalse)
				So(env.fake.Hits(http.MethodGet, api.EndPointFeed), ShouldEqual, 1)

				So(env.posts.Like(ctx, feed[0].ID), ShouldBeNil)
				So(env.posts.Feed()[0].Likes, ShouldEqual, 0)

				Convey("and a refetch agrees with the server", func() {
					env.posts.SetChanged(true)
					env.wait()

					So(env.posts.Feed()[0].Likes, ShouldEqual, 0)
					So(env.posts.Changed(), ShouldBeFalse)
				})
			})

			Convey("a like the server rejects changes nothing", func() {
				var se *api.StatusError
				So(errors.As(env.posts.Like(ctx, "999"), &se), ShouldBeTrue)
				So(env.posts.Feed()[0].Likes, ShouldEqual, 0)
			})

			Convey("posting refetches the feed, newest first", func() {
				So(env.posts.Create(ctx, api.NewPost{Title: "Hi", Content: "Ann here"}), ShouldBeNil)
				env.wait()

				feed := env.posts.Feed()
				So(feed, ShouldHaveLength, 2)
				So(feed[0].Content, ShouldEqual, "Ann here")
				So(env.fake.Hits(http.MethodGet, api.EndPointFeed), ShouldEqual, 2)

				mine, err := env.posts.Mine(ctx)
				So(err, ShouldBeNil)
				So(mine, ShouldHaveLength, 1)
				So(mine[0].Author.Name, ShouldEqual, "Ann Lee")
			})

			Convey("clinic details are created the first time, then updated", func() {
				So(env.details.Info(), ShouldBeNil)

				So(env.details.Save(ctx, api.ClinicInfo{Name: "Smile", City: "Leeds"}), ShouldBeNil)
				env.wait()
				So(env.fake.Hits(http.MethodPost, api.EndPointClinicInfo), ShouldEqual, 1)
				So(env.details.Info(), ShouldResemble, &api.ClinicInfo{Name: "Smile", City: "Leeds"})

				So(env.details.Save(ctx, api.ClinicInfo{ClinicPhone: "0113"}), ShouldBeNil)
				env.wait()
				So(env.fake.Hits(http.MethodPut, api.EndPointClinicInfo), ShouldEqual, 1)
				So(env.details.Info(), ShouldResemble,
					&api.ClinicInfo{Name: "Smile", City: "Leeds", ClinicPhone: "0113"})
				So(env.details.Changed(), ShouldBeFalse)
			})

			Convey("the dentist roster has no refresh and is not refetched by writes", func() {
				So(env.clinic.AddPatient(ctx, api.NewPatient{FirstName: "New", LastName: "Patient"}), ShouldBeNil)
				env.wait()

				So(env.fake.Hits(http.MethodGet, api.EndPointDentists), ShouldEqual, 1)
			})

			Convey("logging in again as the same user only refetches appointments", func() {
				env.login(annEmail)

				So(env.fake.Hits(http.MethodGet, api.EndPointAppointments), ShouldEqual, 2)
				So(env.fake.Hits(http.MethodGet, api.EndPointPatients), ShouldEqual, 1)
				So(env.fake.Hits(http.MethodGet, api.EndPointInventory), ShouldEqual, 1)
			})

			Convey("logging out empties everything and stops fetching", func() {
				updates := 0
				env.clinic.OnUpdate(func() { updates++ })

				So(env.sess.Logout(), ShouldBeNil)
				env.wait()

				So(updates, ShouldEqual, 3)
				So(env.clinic.Patients(), ShouldBeEmpty)
				So(env.inventory.Inventories(), ShouldBeEmpty)
				So(env.dentists.Dentists(), ShouldBeEmpty)

				env.clinic.SetChanged(true)
				env.inventory.SetChanged(true)
				env.wait()

				So(env.fake.Hits(http.MethodGet, api.EndPointPatients), ShouldEqual, 1)
				So(env.fake.Hits(http.MethodGet, api.EndPointInventory), ShouldEqual, 1)

				Convey("and another user never sees the previous user's data", func() {
					env.login(bobEmail)

					So(env.clinic.Patients(), ShouldBeEmpty)
					So(env.clinic.Changed(), ShouldBeFalse)
					So(env.fake.Hits(http.MethodGet, api.EndPointPatients), ShouldEqual, 2)
					So(env.dentists.Dentists(), ShouldHaveLength, 1)
				})
			})
		})
	})
}
