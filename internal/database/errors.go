package database

import "errors"

var (
	// ErrMissingURI is reported by a connection attempt made without a connection string.
	ErrMissingURI = errors.New("MONGODB_URI is not set")

	// ErrNotConnected is returned by accessors called before the first successful connection.
	ErrNotConnected = errors.New("database not connected")
)
