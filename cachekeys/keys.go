// Package cachekeys builds the cache key strings shared by every
// cache-backed component of goBasket.
//
// Key formats are part of the external contract: existing cache content must
// remain addressable across deploys, so the layouts documented on each
// builder are stable and must not change.
package cachekeys

import "strings"

// DefaultNamespace is the key prefix used when no namespace is configured.
const DefaultNamespace = "basket"

// Codec builds namespace-qualified cache keys. Keys produced for different
// entity categories can never collide because each category carries its own
// tag segment.
type Codec struct {
	ns string
}

// New returns a Codec for the given namespace. An empty namespace falls back
// to [DefaultNamespace].
func New(namespace string) Codec {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return Codec{ns: namespace}
}

// Namespace returns the configured namespace prefix.
func (c Codec) Namespace() string {
	return c.ns
}

// Session maps a session token to its session payload.
//
// <ns>:sess:<token>
func (c Codec) Session(token string) string {
	return c.ns + ":sess:" + token
}

// TenantSlug maps a tenant slug to the tenant UUID (or the not-found
// sentinel). Slugs are lower-cased so lookups are case-insensitive.
//
// <ns>:tenants:slug:<slug>
func (c Codec) TenantSlug(slug string) string {
	return c.ns + ":tenants:slug:" + strings.ToLower(slug)
}

// TenantUUID maps a tenant UUID to its "true"/"false" existence flag.
//
// <ns>:tenants:uuid:<id>
func (c Codec) TenantUUID(id string) string {
	return c.ns + ":tenants:uuid:" + id
}
