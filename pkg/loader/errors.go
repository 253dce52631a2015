package loader

import "errors"

var (
	ErrInputNotFound      = errors.New("input not found")
	ErrUnsupportedFormat  = errors.New("unsupported file format")
	ErrEncodingExhausted  = errors.New("failed to decode tabular file with any supported encoding")
	ErrDocumentUnreadable = errors.New("document unreadable")
)
