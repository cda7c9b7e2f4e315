package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrEthical07/goBasket/cachekeys"
)

// ErrSessionNotFound is returned when no session exists for a token. An
// expired session is indistinguishable from one that never existed.
var ErrSessionNotFound = errors.New("session not found")

// ErrSessionCorrupt is returned when a stored session payload cannot be
// decoded.
var ErrSessionCorrupt = errors.New("session corrupt")

// ErrCacheUnavailable is an exported constant or variable used by the session store.
var ErrCacheUnavailable = errors.New("session cache unavailable")

// tokenBytes is the entropy per token. 32 bytes encode to a 43-character
// base64url string.
const tokenBytes = 32

// Store is a Redis-backed session store keyed by opaque tokens.
//
// TTL semantics are fixed, not sliding: the expiry set at creation (or at the
// last Set) is never extended by reads. A session that has not been rewritten
// within the configured TTL disappears.
type Store struct {
	redis redis.UniversalClient
	keys  cachekeys.Codec
	ttl   time.Duration
}

// NewStore creates a session [Store] backed by the given Redis client. keys
// scopes every entry under the configured namespace; ttl is the fixed
// lifetime applied to each write.
func NewStore(redis redis.UniversalClient, keys cachekeys.Codec, ttl time.Duration) *Store {
	return &Store{
		redis: redis,
		keys:  keys,
		ttl:   ttl,
	}
}

// TTL returns the fixed session lifetime applied on every write.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Create generates a fresh token, stores sess under it with the configured
// TTL, and returns the token. The token is the caller's only handle on the
// session; it is never derivable from the session content.
func (s *Store) Create(ctx context.Context, sess *Session) (string, error) {
	token, err := newToken()
	if err != nil {
		return "", err
	}

	if err := s.write(ctx, token, sess); err != nil {
		return "", err
	}

	return token, nil
}

// Get retrieves the session stored under token. Reads do not extend the
// entry's TTL.
//
// Returns [ErrSessionNotFound] for missing or expired tokens,
// [ErrSessionCorrupt] for undecodable payloads, and [ErrCacheUnavailable]
// when Redis cannot be reached.
func (s *Store) Get(ctx context.Context, token string) (*Session, error) {
	data, err := s.redis.Get(ctx, s.keys.Session(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSessionCorrupt, err)
	}

	return &sess, nil
}

// Set overwrites the session stored under an existing token and restarts its
// TTL. The token itself is unchanged.
func (s *Store) Set(ctx context.Context, token string, sess *Session) error {
	return s.write(ctx, token, sess)
}

// Delete removes the session stored under token. Deleting a token that does
// not exist is not an error, so logout stays idempotent.
func (s *Store) Delete(ctx context.Context, token string) error {
	if err := s.redis.Del(ctx, s.keys.Session(token)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}
	return nil
}

func (s *Store) write(ctx context.Context, token string, sess *Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSessionCorrupt, err)
	}

	if err := s.redis.Set(ctx, s.keys.Session(token), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}

	return nil
}

func newToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return "", fmt.Errorf("session token generation: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
