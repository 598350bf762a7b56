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
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/ugorji/go/codec"
	bolt "go.etcd.io/bbolt"
)

const (
	sessionBucketName = "session"
	tokenKey          = "token"
	tokenDBPerms      = 0o600
	tokenDBBasename   = ".clinicsync.db"
	boltOpenTimeout   = 5 * time.Second
)

// TokenStore durably holds the one piece of client state that survives
// restarts: the bearer token.
type TokenStore interface {
	// Load returns the stored token, or "" if there isn't one.
	Load() (string, error)
	Save(token string) error
	Clear() error
	Close() error
}

// tokenRecord is what we actually persist.
type tokenRecord struct {
	Token   string
	SavedAt time.Time
}

// BoltTokenStore is a TokenStore backed by a bbolt database file.
type BoltTokenStore struct {
	db *bolt.DB
	ch codec.Handle
}

// DefaultTokenDBPath returns ~/.clinicsync.db.
func DefaultTokenDBPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, tokenDBBasename), nil
}

// OpenBoltTokenStore opens (creating if necessary) a token database at the
// given path. The file is only readable by the current user.
func OpenBoltTokenStore(path string) (*BoltTokenStore, error) {
	db, err := bolt.Open(path, tokenDBPerms, &bolt.Options{Timeout: boltOpenTimeout})
	if err != nil {
		return nil, err
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, errc := tx.CreateBucketIfNotExists([]byte(sessionBucketName))

		return errc
	})
	if err != nil {
		return nil, multierror.Append(err, db.Close()).ErrorOrNil()
	}

	return &BoltTokenStore{db: db, ch: new(codec.BincHandle)}, nil
}

// Load implements TokenStore.
func (s *BoltTokenStore) Load() (string, error) {
	var rec tokenRecord

	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(sessionBucketName)).Get([]byte(tokenKey))
		if v == nil {
			return nil
		}

		return codec.NewDecoderBytes(v, s.ch).Decode(&rec)
	})

	return rec.Token, err
}

// Save implements TokenStore.
func (s *BoltTokenStore) Save(token string) error {
	var encoded []byte

	if err := codec.NewEncoderBytes(&encoded, s.ch).Encode(tokenRecord{
		Token:   token,
		SavedAt: time.Now(),
	}); err != nil {
		return err
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(sessionBucketName)).Put([]byte(tokenKey), encoded)
	})
}

// Clear implements TokenStore.
func (s *BoltTokenStore) Clear() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(sessionBucketName)).Delete([]byte(tokenKey))
	})
}

// Close implements TokenStore.
func (s *BoltTokenStore) Close() error {
	return s.db.Close()
}
