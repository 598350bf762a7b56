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

// StaffAPI is the part of the API the Staff provider uses.
type StaffAPI interface {
	TeamMembers(ctx context.Context, token string) ([]api.StaffMember, error)
	AddMember(ctx context.Context, token string, s api.StaffInput) error
	UpdateMember(ctx context.Context, token string, s api.StaffInput) error
}

// Staff holds the clinic's team members.
type Staff struct {
	group

	api StaffAPI
	src synced.TokenSource

	members *synced.Resource[[]api.StaffMember]
}

// NewStaff returns a Staff bound to the given session.
func NewStaff(s StaffAPI, src synced.TokenSource, cfg Config) *Staff {
	st := &Staff{
		api:     s,
		src:     src,
		members: synced.New(s.TeamMembers, cfg.options("staff", false)),
	}

	st.group = group{st.members}
	st.members.Bind(src)

	return st
}

// Members returns a copy of the most recently fetched team members.
func (s *Staff) Members() []api.StaffMember {
	return slices.Clone(s.members.Data())
}

// Changed is the staff flag.
func (s *Staff) Changed() bool { return s.members.Changed() }

// SetChanged sets the staff flag; raising it refetches the team.
func (s *Staff) SetChanged(changed bool) { s.members.SetChanged(changed) }

// Add creates a team member, then refetches the team.
func (s *Staff) Add(ctx context.Context, m api.StaffInput) error {
	return write(s.src, func(token string) error {
		return s.api.AddMember(ctx, token, m)
	}, s.members)
}

// Update replaces the details of the team member with m.ID, then refetches the
// team.
func (s *Staff) Update(ctx context.Context, m api.StaffInput) error {
	return write(s.src, func(token string) error {
		return s.api.UpdateMember(ctx, token, m)
	}, s.members)
}
