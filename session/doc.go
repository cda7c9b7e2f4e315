// Package session implements the Redis-backed opaque session token store.
//
// A session is identified by a random token handed to the client; the token is
// the only lookup key and carries no embedded claims. The Redis entry holds a
// small JSON payload and expires on a fixed TTL counted from creation. Reads
// never extend the TTL.
package session
