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

package session

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/dentflow/clinicsync/api"
	"github.com/golang-jwt/jwt/v5"
	"github.com/inconshreveable/log15"
	. "github.com/smartystreets/goconvey/convey"
)

var errBadCreds = errors.New("401 Unauthorized")

type fakeAuth struct {
	mu          sync.Mutex
	token       string
	profiles    map[string]*api.Profile
	detailCalls int
	updates     []api.ProfileUpdate
	failUpdate  bool
	passwords   []api.PasswordChange
}

func (f *fakeAuth) SignIn(_ context.Context, creds api.Credentials) (string, error) {
	if creds.Password != "secret" {
		return "", errBadCreds
	}

	return f.token, nil
}

func (f *fakeAuth) SignUp(_ context.Context, reg api.Registration) (string, error) {
	if reg.Email == "" {
		return "", api.ErrInvalidInput
	}

	return f.token, nil
}

func (f *fakeAuth) UserDetails(_ context.Context, token string) (*api.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.detailCalls++

	p, ok := f.profiles[token]
	if !ok {
		return nil, errBadCreds
	}

	cp := *p

	return &cp, nil
}

func (f *fakeAuth) UpdateUser(_ context.Context, token string, u api.ProfileUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failUpdate || token == "" {
		return errBadCreds
	}

	f.updates = append(f.updates, u)
	f.profiles[token] = &api.Profile{
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Email:      u.Email,
		Bio:        u.Bio,
		Phone:      u.Phone,
		ImageURL:   u.ImageURL,
		Permission: u.Permission,
	}

	return nil
}

func (f *fakeAuth) ChangePassword(_ context.Context, token string, pc api.PasswordChange) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if token == "" || pc.Password != "secret" {
		return errBadCreds
	}

	f.passwords = append(f.passwords, pc)

	return nil
}

func (f *fakeAuth) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.detailCalls
}

type recordingNotifier struct {
	mu        sync.Mutex
	successes []string
	failures  []string
}

func (n *recordingNotifier) Success(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.successes = append(n.successes, msg)
}

func (n *recordingNotifier) Failure(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.failures = append(n.failures, msg)
}

func discardLogger() log15.Logger {
	l := log15.New()
	l.SetHandler(log15.DiscardHandler())

	return l
}

func TestTokenStore(t *testing.T) {
	Convey("A bolt token store", t, func() {
		path := filepath.Join(t.TempDir(), "tokens.db")

		ts, err := OpenBoltTokenStore(path)
		So(err, ShouldBeNil)

		Convey("starts empty", func() {
			token, err := ts.Load()
			So(err, ShouldBeNil)
			So(token, ShouldBeEmpty)
			So(ts.Close(), ShouldBeNil)
		})

		Convey("keeps a saved token across reopening", func() {
			So(ts.Save("abc"), ShouldBeNil)
			So(ts.Close(), ShouldBeNil)

			ts, err = OpenBoltTokenStore(path)
			So(err, ShouldBeNil)

			token, err := ts.Load()
			So(err, ShouldBeNil)
			So(token, ShouldEqual, "abc")

			Convey("until it is cleared", func() {
				So(ts.Clear(), ShouldBeNil)

				token, err = ts.Load()
				So(err, ShouldBeNil)
				So(token, ShouldBeEmpty)
				So(ts.Close(), ShouldBeNil)
			})
		})
	})
}

func TestStore(t *testing.T) {
	Convey("Given a session store with no saved token", t, func() {
		auth := &fakeAuth{
			token: "tok1",
			profiles: map[string]*api.Profile{
				"tok1": {
					FirstName: "Ann", LastName: "Lee", Email: "ann@example.com",
					Phone: "0123", Permission: "Admin", ImageURL: "ann.png",
				},
				"tok2": {FirstName: "Bob", LastName: "Ray", Email: "bob@example.com"},
			},
		}

		ts, err := OpenBoltTokenStore(filepath.Join(t.TempDir(), "tokens.db"))
		So(err, ShouldBeNil)

		notes := &recordingNotifier{}

		s, err := New(auth, ts, discardLogger(), WithNotifier(notes))
		So(err, ShouldBeNil)

		Reset(func() { s.Close() }) //nolint:errcheck

		So(s.LoggedIn(), ShouldBeFalse)
		So(s.User(), ShouldBeNil)
		So(auth.calls(), ShouldEqual, 0)

		Convey("a failed login leaves the session untouched", func() {
			err := s.Login(context.Background(), api.Credentials{Email: "ann@example.com", Password: "wrong"})
			So(err, ShouldEqual, errBadCreds)
			So(s.LoggedIn(), ShouldBeFalse)
			So(notes.failures, ShouldHaveLength, 1)

			token, err := ts.Load()
			So(err, ShouldBeNil)
			So(token, ShouldBeEmpty)
		})

		Convey("logging in stores the token, tells subscribers and fetches the profile once", func() {
			var seen []string

			s.OnTokenChange(func(token string) { seen = append(seen, token) })

			err := s.Login(context.Background(), api.Credentials{Email: "ann@example.com", Password: "secret"})
			So(err, ShouldBeNil)
			s.Wait()

			So(s.Token(), ShouldEqual, "tok1")
			So(seen, ShouldResemble, []string{"tok1"})
			So(notes.successes, ShouldResemble, []string{"login successful"})
			So(auth.calls(), ShouldEqual, 1)
			So(s.User().Name(), ShouldEqual, "Ann Lee")

			token, err := ts.Load()
			So(err, ShouldBeNil)
			So(token, ShouldEqual, "tok1")

			Convey("updating the profile sends it whole and refetches it", func() {
				err := s.UpdateProfile(context.Background(), api.ProfileChanges{Bio: "hi"})
				So(err, ShouldBeNil)
				s.Wait()

				So(auth.updates, ShouldResemble, []api.ProfileUpdate{{
					FirstName: "Ann", LastName: "Lee", Email: "ann@example.com",
					Phone: "0123", Permission: "Admin", ImageURL: "ann.png", Bio: "hi",
				}})

				So(auth.calls(), ShouldEqual, 2)
				So(s.User().Bio, ShouldEqual, "hi")
				So(s.User().Name(), ShouldEqual, "Ann Lee")
				So(s.User().Phone, ShouldEqual, "0123")
				So(s.UserChanged(), ShouldBeFalse)
			})

			Convey("a rejected profile update does not refetch", func() {
				auth.failUpdate = true

				err := s.UpdateProfile(context.Background(), api.ProfileChanges{FirstName: "Anne"})
				So(err, ShouldNotBeNil)
				s.Wait()

				So(auth.calls(), ShouldEqual, 1)
				So(notes.failures, ShouldHaveLength, 1)
			})

			Convey("a profile that could not be fetched cannot be updated", func() {
				auth.mu.Lock()
				delete(auth.profiles, "tok1")
				auth.mu.Unlock()

				s.Logout() //nolint:errcheck
				So(s.Login(context.Background(), api.Credentials{Password: "secret"}), ShouldBeNil)
				s.Wait()
				So(s.User(), ShouldBeNil)

				err := s.UpdateProfile(context.Background(), api.ProfileChanges{Bio: "hi"})
				So(err, ShouldEqual, ErrNoProfile)
				So(auth.updates, ShouldBeEmpty)
			})

			Convey("the password can be changed, keeping the token", func() {
				pc := api.PasswordChange{Password: "secret", NewPassword: "secret2", ConfirmPassword: "secret2"}

				So(s.ChangePassword(context.Background(), pc), ShouldBeNil)
				So(auth.passwords, ShouldResemble, []api.PasswordChange{pc})
				So(s.Token(), ShouldEqual, "tok1")
				So(notes.successes, ShouldContain, "password changed")

				pc.Password = "wrong"
				So(s.ChangePassword(context.Background(), pc), ShouldEqual, errBadCreds)
				So(notes.failures, ShouldHaveLength, 1)
			})

			Convey("logging out forgets everything", func() {
				So(s.Logout(), ShouldBeNil)

				So(s.LoggedIn(), ShouldBeFalse)
				So(s.User(), ShouldBeNil)
				So(seen, ShouldResemble, []string{"tok1", ""})

				token, err := ts.Load()
				So(err, ShouldBeNil)
				So(token, ShouldBeEmpty)

				Convey("and logging in as someone else shows only their profile", func() {
					auth.token = "tok2"

					err := s.Login(context.Background(), api.Credentials{Email: "bob@example.com", Password: "secret"})
					So(err, ShouldBeNil)
					s.Wait()

					So(s.User().Email, ShouldEqual, "bob@example.com")
				})
			})
		})

		Convey("registering logs the new user in", func() {
			err := s.Register(context.Background(), api.Registration{Email: "ann@example.com"})
			So(err, ShouldBeNil)
			s.Wait()

			So(s.Token(), ShouldEqual, "tok1")
			So(s.User(), ShouldNotBeNil)
			So(notes.successes, ShouldResemble, []string{"register successful"})
		})

		Convey("claims need a token", func() {
			_, err := s.Claims()
			So(err, ShouldEqual, api.ErrNotLoggedIn)
		})
	})

	Convey("A session store opened on a saved token fetches the profile straight away", t, func() {
		auth := &fakeAuth{profiles: map[string]*api.Profile{"tok1": {FirstName: "Ann"}}}

		ts, err := OpenBoltTokenStore(filepath.Join(t.TempDir(), "tokens.db"))
		So(err, ShouldBeNil)
		So(ts.Save("tok1"), ShouldBeNil)

		s, err := New(auth, ts, discardLogger())
		So(err, ShouldBeNil)

		s.Wait()

		So(s.LoggedIn(), ShouldBeTrue)
		So(auth.calls(), ShouldEqual, 1)
		So(s.User().FirstName, ShouldEqual, "Ann")
		So(s.Close(), ShouldBeNil)
	})
}

func TestClaims(t *testing.T) {
	Convey("ParseClaims reads an unverified JWT", t, func() {
		exp := time.Now().Add(time.Hour).Truncate(time.Second)

		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub":   "42",
			"email": "ann@example.com",
			"http://schemas.microsoft.com/ws/2008/06/identity/claims/role": "Dentist",
			"exp": exp.Unix(),
		}).SignedString([]byte("not-our-key"))
		So(err, ShouldBeNil)

		tc, err := ParseClaims(token)
		So(err, ShouldBeNil)
		So(tc.Subject, ShouldEqual, "42")
		So(tc.Email, ShouldEqual, "ann@example.com")
		So(tc.Role, ShouldEqual, "Dentist")
		So(tc.ExpiresAt.Equal(exp), ShouldBeTrue)
		So(tc.Expired(time.Now()), ShouldBeFalse)
		So(tc.Expired(exp.Add(time.Minute)), ShouldBeTrue)

		Convey("but rejects something that isn't one", func() {
			_, err := ParseClaims("opaque-token")
			So(errors.Is(err, ErrNotJWT), ShouldBeTrue)
		})
	})
}
