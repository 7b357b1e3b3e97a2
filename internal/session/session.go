// Package session stores bearer-token sessions in the TTL keyed store.
//
// A session is a cached snapshot of the user record taken at issuance;
// later mutations of the user document are not reflected until the user
// logs in again.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/soil-network/platform-api/internal/domain"
	"github.com/soil-network/platform-api/internal/kvstore"
)

// DefaultTTL is the session lifetime when none is configured.
const DefaultTTL = 24 * time.Hour

const keyPrefix = "auth:"

// ErrNotFound is returned when a token is unknown or expired.
var ErrNotFound = errors.New("session: token not found")

// Store issues and resolves opaque bearer tokens.
type Store struct {
	kv  kvstore.Store
	ttl time.Duration
}

// New creates a session store. A zero ttl means DefaultTTL.
func New(kv kvstore.Store, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{kv: kv, ttl: ttl}
}

// Issue mints a fresh token and stores a snapshot of user under it.
func (s *Store) Issue(ctx context.Context, user domain.User) (string, error) {
	token, err := newToken()
	if err != nil {
		return "", err
	}
	snapshot, err := json.Marshal(user)
	if err != nil {
		return "", err
	}
	if err := s.kv.Set(ctx, keyPrefix+token, string(snapshot), s.ttl); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return token, nil
}

// Resolve returns the user snapshot for token, or ErrNotFound.
func (s *Store) Resolve(ctx context.Context, token string) (domain.User, error) {
	raw, err := s.kv.Get(ctx, keyPrefix+token)
	if err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return domain.User{}, ErrNotFound
		}
		return domain.User{}, err
	}
	var user domain.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return domain.User{}, ErrNotFound
	}
	return user, nil
}

// Revoke deletes the session for token. It is idempotent and never
// errors when the token is already absent.
func (s *Store) Revoke(ctx context.Context, token string) {
	_ = s.kv.Delete(ctx, keyPrefix+token)
}

// newToken returns 32 bytes of crypto/rand entropy as hex. Tokens are
// not derivable from one another or from issuance time.
func newToken() (string, error) {
	var b [32]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(b[:]), nil
}
