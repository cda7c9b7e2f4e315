// Package tenant resolves tenant identity with a Redis cache in front of the
// relational store.
//
// Lookups are cache-aside with negative caching: a database miss is cached
// too, so repeated lookups of an unknown slug or ID do not hammer the
// database. Cache entries carry a short TTL and are refreshed asynchronously
// after every database read; lookups therefore tolerate bounded staleness but
// never block on a cache write.
package tenant
