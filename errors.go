package goBasket

import "errors"

var (
	// ErrInvalidCredentials is an exported constant or variable used by the engine.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserNotFound is an exported constant or variable used by the engine.
	ErrUserNotFound = errors.New("user not found")
	// ErrAccountExists is an exported constant or variable used by the engine.
	ErrAccountExists = errors.New("account already exists")
	// ErrPasswordLoginUnsupported is returned for accounts that have no stored
	// password hash, such as accounts provisioned through an external identity
	// provider. Transports should present it the same way as
	// [ErrInvalidCredentials].
	ErrPasswordLoginUnsupported = errors.New("password login unsupported for this account")
	// ErrUnauthenticated is returned when a session token does not resolve to
	// a live session.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrEngineNotReady is an exported constant or variable used by the engine.
	ErrEngineNotReady = errors.New("engine not ready")
)
