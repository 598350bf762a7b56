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

// Package synced holds server-backed state in memory and refetches it on
// demand.
//
// A Resource is bound to a TokenSource (the session store). It fetches whenever
// a token becomes available and whenever a consumer raises its "changed" flag
// after writing to the server. A fetch replaces the held data wholesale; a
// failed fetch leaves it alone. Either way the flag is cleared afterwards.
package synced

import (
	"context"
	"reflect"
	"sync"
	"time"

	"github.com/inconshreveable/log15"
)

// FetchFunc retrieves a fresh copy of a resource's data using the given bearer
// token.
type FetchFunc[T any] func(ctx context.Context, token string) (T, error)

// TokenSource supplies the current bearer token and announces changes to it.
// An empty token means logged out.
type TokenSource interface {
	Token() string
	OnTokenChange(cb func(token string))
}

// Options configure a Resource.
type Options struct {
	// Name is used in log messages and recorded events.
	Name string

	// Logger receives fetch failures. Defaults to discarding everything.
	Logger log15.Logger

	// Eager resources refetch every time a token is announced, even if it is
	// the same token they already have.
	Eager bool

	// Recorder, if set, is told about every fetch and reset.
	Recorder Recorder
}

// Resource is a single piece of server state kept in memory.
type Resource[T any] struct {
	name     string
	fetch    FetchFunc[T]
	logger   log15.Logger
	eager    bool
	recorder Recorder

	mu      sync.Mutex
	data    T
	changed bool
	token   string
	gen     uint64
	ctx     context.Context //nolint:containedctx
	cancel  context.CancelFunc
	closed  bool
	updates []func()

	inflight sync.WaitGroup
}

// New returns a Resource that will use fetch to retrieve its data. It does
// nothing until given a token with SetToken() or Bind().
func New[T any](fetch FetchFunc[T], opts Options) *Resource[T] {
	logger := opts.Logger
	if logger == nil {
		logger = log15.New()
		logger.SetHandler(log15.DiscardHandler())
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Resource[T]{
		name:     opts.Name,
		fetch:    fetch,
		logger:   logger.New("resource", opts.Name),
		eager:    opts.Eager,
		recorder: opts.Recorder,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Name returns the name given in Options.
func (r *Resource[T]) Name() string {
	return r.name
}

// Bind subscribes to the source's token changes and immediately applies its
// current token.
func (r *Resource[T]) Bind(src TokenSource) {
	src.OnTokenChange(r.SetToken)
	r.SetToken(src.Token())
}

// SetToken tells the resource the current bearer token.
//
// A new non-empty token starts a fetch. The same token again only starts a
// fetch for Eager resources. A different token (including the empty one)
// abandons fetches made with the old token and resets data to its zero value,
// so one user's data never outlives their session.
func (r *Resource[T]) SetToken(token string) {
	r.mu.Lock()

	if r.closed {
		r.mu.Unlock()

		return
	}

	var reset bool

	if token != r.token {
		reset = r.newScopeLocked(token)
	} else if token == "" || !r.eager {
		r.mu.Unlock()

		return
	}

	if token != "" {
		r.startFetchLocked()
	}

	cbs := r.updates
	r.mu.Unlock()

	if reset {
		r.record(EventReset, 0, nil)
		notify(cbs)
	}
}

// newScopeLocked switches to the given token, cancelling fetches made with the
// previous one. Returns true if data had to be discarded.
func (r *Resource[T]) newScopeLocked(token string) bool {
	r.cancel()
	r.ctx, r.cancel = context.WithCancel(context.Background())
	r.gen++

	hadToken := r.token != ""
	r.token = token

	if !hadToken {
		return false
	}

	var zero T

	r.data = zero
	r.changed = false

	return true
}

// Data returns the most recently fetched data, or the zero value of T if no
// fetch has succeeded yet.
func (r *Resource[T]) Data() T {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.data
}

// Changed returns the current state of the invalidation flag.
func (r *Resource[T]) Changed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.changed
}

// SetChanged sets the invalidation flag. Raising it (false to true) while a
// token is present starts a fetch; raising it while logged out only records
// the request, which the next token will satisfy. Setting it to its current
// value does nothing, so repeated requests before a fetch completes cost a
// single fetch.
func (r *Resource[T]) SetChanged(changed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed || r.changed == changed {
		return
	}

	r.changed = changed

	if changed && r.token != "" {
		r.startFetchLocked()
	}
}

// Refresh is shorthand for SetChanged(true).
func (r *Resource[T]) Refresh() {
	r.SetChanged(true)
}

// OnUpdate registers a callback that is called after every successful fetch
// and every reset. Callbacks run on the fetching goroutine.
func (r *Resource[T]) OnUpdate(cb func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.updates = append(r.updates, cb)
}

// Modify replaces the held data with the result of calling fn on it, without
// a server round trip, then calls OnUpdate callbacks. It does nothing while
// logged out.
func (r *Resource[T]) Modify(fn func(T) T) {
	r.mu.Lock()

	if r.closed || r.token == "" {
		r.mu.Unlock()

		return
	}

	r.data = fn(r.data)
	cbs := r.updates
	r.mu.Unlock()

	notify(cbs)
}

// Wait blocks until all fetches started so far have completed.
func (r *Resource[T]) Wait() {
	r.inflight.Wait()
}

// Reset discards held data and clears the flag without changing the token.
func (r *Resource[T]) Reset() {
	r.mu.Lock()

	var zero T

	r.data = zero
	r.changed = false
	r.gen++
	cbs := r.updates
	r.mu.Unlock()

	r.record(EventReset, 0, nil)
	notify(cbs)
}

// Close cancels outstanding fetches, waits for them to return and stops the
// resource from starting any more.
func (r *Resource[T]) Close() {
	r.mu.Lock()
	r.closed = true
	r.gen++
	r.cancel()
	r.mu.Unlock()

	r.inflight.Wait()
}

func (r *Resource[T]) startFetchLocked() {
	gen, ctx, token := r.gen, r.ctx, r.token

	r.inflight.Add(1)

	go func() {
		defer r.inflight.Done()

		r.record(EventFetch, 0, nil)

		start := time.Now()
		data, err := r.fetch(ctx, token)

		r.finish(gen, data, err, time.Since(start))
	}()
}

func (r *Resource[T]) finish(gen uint64, data T, err error, took time.Duration) {
	r.mu.Lock()

	if gen != r.gen {
		r.mu.Unlock()

		r.logger.Debug("discarded stale fetch result", "err", err)
		r.record(EventDiscard, 0, err)

		return
	}

	r.changed = false

	if err != nil {
		r.mu.Unlock()

		r.logger.Error("fetch failed", "err", err, "took", took)
		r.record(EventFailure, 0, err)

		return
	}

	r.data = data
	cbs := r.updates
	r.mu.Unlock()

	n := size(data)

	r.logger.Debug("fetched", "items", n, "took", took)
	r.record(EventSuccess, n, nil)
	notify(cbs)
}

func (r *Resource[T]) record(kind EventKind, items int, err error) {
	if r.recorder == nil {
		return
	}

	r.recorder.Record(Event{
		Resource: r.name,
		Kind:     kind,
		Items:    items,
		Err:      err,
		Time:     time.Now(),
	})
}

func notify(cbs []func()) {
	for _, cb := range cbs {
		cb()
	}
}

// size returns the length of slice data, 1 for any other non-nil data and 0
// otherwise.
func size(data any) int {
	v := reflect.ValueOf(data)

	switch v.Kind() { //nolint:exhaustive
	case reflect.Invalid:
		return 0
	case reflect.Slice, reflect.Map:
		return v.Len()
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return 0
		}
	}

	return 1
}
