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
	"slices"

	"github.com/dentflow/clinicsync/api"
	"github.com/dentflow/clinicsync/synced"
)

// DentistAPI is the part of the API the Dentists provider uses.
type DentistAPI interface {
	Dentists(ctx context.Context, token string) ([]api.Dentist, error)
}

// Dentists holds the dentist roster. It is fetched once per token: there is no
// flag to refetch it, so changes to the roster are only seen after the next
// login or restart.
type Dentists struct {
	group

	roster *synced.Resource[[]api.Dentist]
}

// NewDentists returns a Dentists bound to the given session.
func NewDentists(d DentistAPI, src synced.TokenSource, cfg Config) *Dentists {
	ds := &Dentists{
		roster: synced.New(d.Dentists, cfg.options("dentists", false)),
	}

	ds.group = group{ds.roster}
	ds.roster.Bind(src)

	return ds
}

// Dentists returns a copy of the fetched roster.
func (d *Dentists) Dentists() []api.Dentist {
	return slices.Clone(d.roster.Data())
}

// Find returns the dentist with the given id.
func (d *Dentists) Find(id api.ID) (api.Dentist, bool) {
	roster := d.roster.Data()

	i := slices.IndexFunc(roster, func(dentist api.Dentist) bool { return dentist.ID == id })
	if i < 0 {
		return api.Dentist{}, false
	}

	return roster[i], true
}
