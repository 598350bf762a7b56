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

	"github.com/dentflow/clinicsync/api"
	"github.com/dentflow/clinicsync/synced"
)

// ClinicInfoAPI is the part of the API the ClinicDetails provider uses.
type ClinicInfoAPI interface {
	ClinicInfo(ctx context.Context, token string) (*api.ClinicInfo, error)
	CreateClinicInfo(ctx context.Context, token string, info api.ClinicInfo) error
	UpdateClinicInfo(ctx context.Context, token string, info api.ClinicInfo) error
}

// ClinicDetails holds the clinic's own name, address and contact details.
type ClinicDetails struct {
	group

	api ClinicInfoAPI
	src synced.TokenSource

	info *synced.Resource[*api.ClinicInfo]
}

// NewClinicDetails returns a ClinicDetails bound to the given session.
func NewClinicDetails(c ClinicInfoAPI, src synced.TokenSource, cfg Config) *ClinicDetails {
	cd := &ClinicDetails{
		api:  c,
		src:  src,
		info: synced.New(c.ClinicInfo, cfg.options("clinic-info", false)),
	}

	cd.group = group{cd.info}
	cd.info.Bind(src)

	return cd
}

// Info returns a copy of the clinic's details, or nil if there are none (yet).
func (c *ClinicDetails) Info() *api.ClinicInfo {
	info := c.info.Data()
	if info == nil {
		return nil
	}

	cp := *info

	return &cp
}

// Changed is the clinic details flag.
func (c *ClinicDetails) Changed() bool { return c.info.Changed() }

// SetChanged sets the clinic details flag; raising it refetches them.
func (c *ClinicDetails) SetChanged(changed bool) { c.info.SetChanged(changed) }

// Save applies the non-empty fields of changes to the clinic's details and
// sends them to the server: created if there were none, otherwise updated.
// The details are then refetched.
func (c *ClinicDetails) Save(ctx context.Context, changes api.ClinicInfo) error {
	c.info.Wait()

	current := c.Info()

	return write(c.src, func(token string) error {
		if current == nil {
			return c.api.CreateClinicInfo(ctx, token, changes)
		}

		return c.api.UpdateClinicInfo(ctx, token, current.Merge(changes))
	}, c.info)
}
