// Package goBasket is the backend core for a multi-tenant storefront: user
// authentication over opaque session tokens and tenant identity resolution
// through a Redis cache backed by Postgres.
//
// The [Engine] is the embeddable entry point. It owns the session store, the
// tenant resolver, the password hasher, and the metrics table; transports
// such as the bundled REST layer call into it and translate its sentinel
// errors.
package goBasket
