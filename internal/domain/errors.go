package domain

import "errors"

var (
	// ErrNotFound indicates the upstream API has no document with the given id.
	ErrNotFound = errors.New("document not found")

	// ErrUnauthorized indicates the invoicing API rejected the credentials.
	ErrUnauthorized = errors.New("invoicing api unauthorized")

	// ErrMailNotConfigured indicates a send was requested without complete
	// mail settings.
	ErrMailNotConfigured = errors.New("mail settings incomplete")
)
