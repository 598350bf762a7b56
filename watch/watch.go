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

// Package watch periodically raises provider invalidation flags, so that
// long-running views pick up changes made by other clients.
package watch

import (
	"context"
	"time"

	"github.com/inconshreveable/log15"
)

const DefaultInterval = time.Minute

// Target is something Watch refreshes every tick.
type Target struct {
	Name  string
	Raise func()
}

// Flag returns a Target that raises a flag using its setter, eg.
// Flag("patients", clinic.SetChanged).
func Flag(name string, set func(bool)) Target {
	return Target{Name: name, Raise: func() { set(true) }}
}

// Session tells Watch whether there is any point refreshing.
type Session interface {
	LoggedIn() bool
}

// Config configures Watch.
type Config struct {
	// Interval between refreshes. Defaults to DefaultInterval.
	Interval time.Duration

	// Session, if set, stops targets being raised while logged out.
	Session Session

	// Logger defaults to discarding.
	Logger log15.Logger

	// Settled, if set, is called once after each tick that raised the targets.
	// It runs on the Watch goroutine, so the next tick waits for it.
	Settled func()
}

// Watch raises every target's flag once per interval until the context is
// cancelled, which is not treated as an error.
func Watch(ctx context.Context, cfg Config, targets ...Target) error {
	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log15.New()
		logger.SetHandler(log15.DiscardHandler())
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if tick(cfg.Session, logger, targets) && cfg.Settled != nil {
				cfg.Settled()
			}
		}
	}
}

func tick(sess Session, logger log15.Logger, targets []Target) bool {
	if sess != nil && !sess.LoggedIn() {
		logger.Debug("not logged in, skipping refresh")

		return false
	}

	for _, t := range targets {
		logger.Debug("refreshing", "target", t.Name)
		t.Raise()
	}

	return true
}
