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

package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is our custom error type.
type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrNoBaseURL    = Error("no API base URL configured")
	ErrNotLoggedIn  = Error("not logged in")
	ErrNoToken      = Error("server response did not include a token")
	ErrInvalidInput = Error("invalid input")
)

// StatusError is returned when the API replies with a non-2xx status code.
type StatusError struct {
	Method   string
	Endpoint string
	Code     int
	Body     string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.Endpoint, e.Code, http.StatusText(e.Code))
	}

	return fmt.Sprintf("%s %s: %d %s: %s", e.Method, e.Endpoint, e.Code, http.StatusText(e.Code), e.Body)
}

// IsUnauthorized returns true if err is a StatusError for a 401 or 403 reply.
func IsUnauthorized(err error) bool {
	var se *StatusError
	if !errors.As(err, &se) {
		return false
	}

	return se.Code == http.StatusUnauthorized || se.Code == http.StatusForbidden
}
