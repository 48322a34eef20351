package notification

import "errors"

var (
	// ErrNoRecipient is reported for a request without a recipient address.
	ErrNoRecipient = errors.New("notification has no recipient")

	// ErrUnknownKind is returned by Render for a decision kind it has no template for.
	ErrUnknownKind = errors.New("unknown notification kind")
)
