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

package cmd

import (
	"errors"
	"fmt"

	"github.com/dentflow/clinicsync/analytics"
	"github.com/dentflow/clinicsync/api"
	"github.com/dentflow/clinicsync/provider"
	"github.com/dentflow/clinicsync/session"
	"github.com/dentflow/clinicsync/synced"
	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"
)

const errNotLoggedIn = Error("not logged in: run 'clinicsync login' first")

// Error is our custom error type.
type Error string

func (e Error) Error() string { return string(e) }

// app is everything a command might need, wired together.
type app struct {
	client  *api.Client
	sess    *session.Store
	journal *analytics.Journal

	clinic    *provider.Clinic
	inventory *provider.Inventory
	dentists  *provider.Dentists
	staff     *provider.Staff
	posts     *provider.Posts
	details   *provider.ClinicDetails
	providers []provider.Provider
}

// cliNotifier reports the outcome of session actions on the terminal.
type cliNotifier struct{}

func (cliNotifier) Success(msg string) { info("%s", msg) }

func (cliNotifier) Failure(msg string) { warn("%s", msg) }

// newSessionApp returns an app with just a client and a session; no
// collections will be fetched.
func newSessionApp() (*app, error) {
	cfg, err := configFromEnvAndFlags()
	if err != nil {
		return nil, err
	}

	a := &app{}

	if a.client, err = api.New(cfg.apiURL, cfg.timeout); err != nil {
		return nil, err
	}

	if cfg.journal != "" {
		if a.journal, err = analytics.Open(cfg.journal, appLogger); err != nil {
			return nil, fmt.Errorf("opening journal: %w", err)
		}
	}

	tokens, err := session.OpenBoltTokenStore(cfg.tokenDB)
	if err != nil {
		return nil, multierror.Append(fmt.Errorf("opening token database: %w", err), a.closeJournal())
	}

	a.sess, err = session.New(a.client, tokens, appLogger,
		session.WithNotifier(cliNotifier{}), session.WithRecorder(a.recorder()))
	if err != nil {
		return nil, multierror.Append(err, tokens.Close(), a.closeJournal())
	}

	return a, nil
}

// newApp returns an app with every provider bound to a logged in session, with
// their initial fetches complete.
func newApp() (*app, error) {
	a, err := newSessionApp()
	if err != nil {
		return nil, err
	}

	if !a.sess.LoggedIn() {
		if errc := a.close(); errc != nil {
			warn("%s", errc)
		}

		return nil, errNotLoggedIn
	}

	cfg := provider.Config{Logger: appLogger, Recorder: a.recorder()}

	a.clinic = provider.NewClinic(a.client, a.sess, cfg)
	a.inventory = provider.NewInventory(a.client, a.sess, cfg)
	a.dentists = provider.NewDentists(a.client, a.sess, cfg)
	a.staff = provider.NewStaff(a.client, a.sess, cfg)
	a.posts = provider.NewPosts(a.client, a.sess, cfg)
	a.details = provider.NewClinicDetails(a.client, a.sess, cfg)
	a.providers = []provider.Provider{a.clinic, a.inventory, a.dentists, a.staff, a.posts, a.details}

	a.wait()

	return a, nil
}

// recorder returns the journal as a synced.Recorder, or nil if there isn't
// one.
func (a *app) recorder() synced.Recorder { //nolint:ireturn
	if a.journal == nil {
		return nil
	}

	return a.journal
}

type waiter interface {
	Wait()
}

func (a *app) waiters() []waiter {
	ws := []waiter{a.sess}

	for _, p := range a.providers {
		ws = append(ws, p)
	}

	return ws
}

// wait blocks until every in-flight fetch has completed.
func (a *app) wait() {
	var g errgroup.Group

	for _, w := range a.waiters() {
		g.Go(func() error {
			w.Wait()

			return nil
		})
	}

	g.Wait() //nolint:errcheck
}

func (a *app) closeJournal() error {
	if a.journal == nil {
		return nil
	}

	return a.journal.Close()
}

// close stops all fetching and closes the token and journal databases.
func (a *app) close() error {
	for _, p := range a.providers {
		p.Close()
	}

	var merr *multierror.Error

	if err := a.sess.Close(); err != nil {
		merr = multierror.Append(merr, err)
	}

	if err := a.closeJournal(); err != nil {
		merr = multierror.Append(merr, err)
	}

	return merr.ErrorOrNil()
}

// run creates a fully loaded app, calls cb with it and closes it, dying on any
// error.
func run(cb func(a *app) error) {
	a, err := newApp()
	if err != nil {
		die("%s", err)
	}

	err = cb(a)

	if errc := a.close(); errc != nil {
		warn("%s", errc)
	}

	if err != nil {
		if errors.Is(err, api.ErrNotLoggedIn) {
			err = errNotLoggedIn
		}

		die("%s", err)
	}
}
