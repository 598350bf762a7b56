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

// Package session owns the bearer token and the logged in user's profile.
//
// The Store is the TokenSource every synced resource binds to. It is the only
// thing that ever changes the token: tokens come from sign in or sign up
// replies, or from the TokenStore at startup, and are never fetched.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/dentflow/clinicsync/api"
	"github.com/dentflow/clinicsync/synced"
	"github.com/inconshreveable/log15"
)

const ErrNoProfile = api.Error("your profile could not be fetched, so cannot be updated")

// Authenticator is the part of the API the Store needs.
type Authenticator interface {
	SignIn(ctx context.Context, creds api.Credentials) (string, error)
	SignUp(ctx context.Context, reg api.Registration) (string, error)
	UserDetails(ctx context.Context, token string) (*api.Profile, error)
	UpdateUser(ctx context.Context, token string, u api.ProfileUpdate) error
	ChangePassword(ctx context.Context, token string, pc api.PasswordChange) error
}

// Option configures a Store.
type Option func(*Store)

// WithNotifier sets where login, register and profile update outcomes are
// reported. Defaults to a LogNotifier on the Store's logger.
func WithNotifier(n Notifier) Option {
	return func(s *Store) {
		s.notifier = n
	}
}

// WithRecorder records profile fetch events.
func WithRecorder(r synced.Recorder) Option {
	return func(s *Store) {
		s.recorder = r
	}
}

// Store holds the session state.
type Store struct {
	auth     Authenticator
	tokens   TokenStore
	logger   log15.Logger
	notifier Notifier
	recorder synced.Recorder

	mu    sync.RWMutex
	token string
	subs  []func(string)

	profile *synced.Resource[*api.Profile]
}

// New returns a Store that starts with whatever token was saved in the given
// TokenStore. If there is one, the profile fetch starts immediately.
func New(auth Authenticator, tokens TokenStore, logger log15.Logger, opts ...Option) (*Store, error) {
	token, err := tokens.Load()
	if err != nil {
		return nil, fmt.Errorf("loading saved token: %w", err)
	}

	s := &Store{
		auth:   auth,
		tokens: tokens,
		logger: logger,
		token:  token,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.notifier == nil {
		s.notifier = LogNotifier{Logger: logger}
	}

	s.profile = synced.New(auth.UserDetails, synced.Options{
		Name:     "profile",
		Logger:   logger,
		Recorder: s.recorder,
	})
	s.profile.Bind(s)

	return s, nil
}

// Token returns the current bearer token, or "" when logged out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.token
}

// LoggedIn returns true if we have a token.
func (s *Store) LoggedIn() bool {
	return s.Token() != ""
}

// OnTokenChange registers a callback that receives the new token every time
// one is set, including "" on logout.
func (s *Store) OnTokenChange(cb func(token string)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.subs = append(s.subs, cb)
}

// Login exchanges the credentials for a token. On failure the session is left
// as it was.
func (s *Store) Login(ctx context.Context, creds api.Credentials) error {
	token, err := s.auth.SignIn(ctx, creds)
	if err != nil {
		s.notifier.Failure("login failed: " + err.Error())

		return err
	}

	if err = s.setToken(token); err != nil {
		s.notifier.Failure("login failed: " + err.Error())

		return err
	}

	s.notifier.Success("login successful")

	return nil
}

// Register signs up a new user and logs them in.
func (s *Store) Register(ctx context.Context, reg api.Registration) error {
	token, err := s.auth.SignUp(ctx, reg)
	if err != nil {
		s.notifier.Failure("register failed: " + err.Error())

		return err
	}

	if err = s.setToken(token); err != nil {
		s.notifier.Failure("register failed: " + err.Error())

		return err
	}

	s.notifier.Success("register successful")

	return nil
}

func (s *Store) setToken(token string) error {
	if err := s.tokens.Save(token); err != nil {
		return fmt.Errorf("saving token: %w", err)
	}

	s.broadcast(token)

	return nil
}

func (s *Store) broadcast(token string) {
	s.mu.Lock()
	s.token = token
	subs := s.subs
	s.mu.Unlock()

	for _, cb := range subs {
		cb(token)
	}
}

// Logout forgets the token, both in memory and in the TokenStore, and with it
// the profile. Everything bound to this Store resets. The in-memory state is
// cleared even if the TokenStore fails.
func (s *Store) Logout() error {
	err := s.tokens.Clear()

	s.broadcast("")

	if err != nil {
		return fmt.Errorf("clearing saved token: %w", err)
	}

	return nil
}

// User returns the logged in user's profile, or nil if it hasn't been fetched
// (yet).
func (s *Store) User() *api.Profile {
	return s.profile.Data()
}

// UserChanged returns the profile's invalidation flag.
func (s *Store) UserChanged() bool {
	return s.profile.Changed()
}

// SetUserChanged sets the profile's invalidation flag; raising it refetches the
// profile.
func (s *Store) SetUserChanged(changed bool) {
	s.profile.SetChanged(changed)
}

// OnUserUpdate registers a callback for whenever the profile is replaced or
// cleared.
func (s *Store) OnUserUpdate(cb func()) {
	s.profile.OnUpdate(cb)
}

// UpdateProfile applies the changes to the current profile and sends the
// result to the server, which replaces the whole profile with it. If that is
// accepted the profile is refetched.
func (s *Store) UpdateProfile(ctx context.Context, c api.ProfileChanges) error {
	if !s.LoggedIn() {
		return api.ErrNotLoggedIn
	}

	s.profile.Wait()

	current := s.User()
	if current == nil {
		s.notifier.Failure("profile update failed: " + ErrNoProfile.Error())

		return ErrNoProfile
	}

	if err := s.auth.UpdateUser(ctx, s.Token(), current.Apply(c)); err != nil {
		s.notifier.Failure("profile update failed: " + err.Error())

		return err
	}

	s.notifier.Success("profile updated")
	s.SetUserChanged(true)

	return nil
}

// ChangePassword asks the server to change the logged in user's password. The
// token stays valid.
func (s *Store) ChangePassword(ctx context.Context, pc api.PasswordChange) error {
	if err := s.auth.ChangePassword(ctx, s.Token(), pc); err != nil {
		s.notifier.Failure("password change failed: " + err.Error())

		return err
	}

	s.notifier.Success("password changed")

	return nil
}

// Wait blocks until any in-flight profile fetch completes.
func (s *Store) Wait() {
	s.profile.Wait()
}

// Close stops profile fetching and closes the TokenStore.
func (s *Store) Close() error {
	s.profile.Close()

	return s.tokens.Close()
}
