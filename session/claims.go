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
	"fmt"
	"time"

	"github.com/dentflow/clinicsync/api"
	"github.com/golang-jwt/jwt/v5"
)

const ErrNotJWT = api.Error("token is not a JWT")

// roleClaimKeys are the claim names servers commonly put a user's role under.
var roleClaimKeys = [...]string{ //nolint:gochecknoglobals
	"role",
	"http://schemas.microsoft.com/ws/2008/06/identity/claims/role",
}

var emailClaimKeys = [...]string{ //nolint:gochecknoglobals
	"email",
	"http://schemas.xmlsoap.org/ws/2005/05/identity/claims/emailaddress",
}

// TokenClaims are the informational parts of a JWT bearer token.
type TokenClaims struct {
	Subject   string
	Email     string
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired returns true if the token has an expiry time before now.
func (c *TokenClaims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && c.ExpiresAt.Before(now)
}

// Claims decodes the current token without verifying its signature. It is for
// display only: the server remains the judge of whether a token is valid.
func (s *Store) Claims() (*TokenClaims, error) {
	token := s.Token()
	if token == "" {
		return nil, api.ErrNotLoggedIn
	}

	return ParseClaims(token)
}

// ParseClaims decodes the given JWT without verifying its signature.
func ParseClaims(token string) (*TokenClaims, error) {
	mc := jwt.MapClaims{}

	if _, _, err := jwt.NewParser().ParseUnverified(token, mc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotJWT, err)
	}

	tc := &TokenClaims{
		Email: firstStringClaim(mc, emailClaimKeys[:]),
		Role:  firstStringClaim(mc, roleClaimKeys[:]),
	}

	tc.Subject, _ = mc.GetSubject() //nolint:errcheck

	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		tc.ExpiresAt = exp.Time
	}

	if iat, err := mc.GetIssuedAt(); err == nil && iat != nil {
		tc.IssuedAt = iat.Time
	}

	return tc, nil
}

func firstStringClaim(mc jwt.MapClaims, keys []string) string {
	for _, key := range keys {
		if v, ok := mc[key].(string); ok && v != "" {
			return v
		}
	}

	return ""
}
