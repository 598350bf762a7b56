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

// Package provider holds the clinic's server collections in memory: patients,
// appointments, treatment plans, inventory, dentists, staff, the clinic's own
// details and the posts feed.
//
// Each provider binds its resources to a session (any synced.TokenSource), so
// they fetch as soon as there is a token and are emptied on logout. Writes go
// straight to the API; on success the relevant invalidation flags are raised
// and the affected collections refetched.
package provider

import (
	"github.com/dentflow/clinicsync/api"
	"github.com/dentflow/clinicsync/synced"
	"github.com/inconshreveable/log15"
)

// Provider is implemented by every provider in this package.
type Provider interface {
	// OnUpdate registers a callback that is called whenever any of the
	// provider's collections is replaced or reset.
	OnUpdate(cb func())

	// Wait blocks until every in-flight fetch has completed.
	Wait()

	// Close cancels in-flight fetches and stops any more from starting.
	Close()
}

// Config is shared by all the providers' constructors.
type Config struct {
	// Logger receives background fetch failures. Defaults to discarding.
	Logger log15.Logger

	// Recorder, if set, is told about every fetch and reset.
	Recorder synced.Recorder
}

func (c Config) options(name string, eager bool) synced.Options {
	return synced.Options{
		Name:     name,
		Logger:   c.Logger,
		Eager:    eager,
		Recorder: c.Recorder,
	}
}

// invalidator is the part of a synced.Resource a write needs.
type invalidator interface {
	SetChanged(changed bool)
}

// write calls fn with the current token and, if it succeeds, raises the flag of
// every given resource.
func write(src synced.TokenSource, fn func(token string) error, stale ...invalidator) error {
	token := src.Token()
	if token == "" {
		return api.ErrNotLoggedIn
	}

	if err := fn(token); err != nil {
		return err
	}

	for _, s := range stale {
		s.SetChanged(true)
	}

	return nil
}

type resource interface {
	OnUpdate(cb func())
	Wait()
	Close()
}

// group is a Provider made of several resources.
type group []resource

func (g group) OnUpdate(cb func()) {
	for _, r := range g {
		r.OnUpdate(cb)
	}
}

func (g group) Wait() {
	for _, r := range g {
		r.Wait()
	}
}

func (g group) Close() {
	for _, r := range g {
		r.Close()
	}
}
