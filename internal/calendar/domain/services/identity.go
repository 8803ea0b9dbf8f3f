package services

import "errors"

var (
	ErrProviderUnavailable = errors.New("identity provider unavailable")
	ErrProviderRejected    = errors.New("identity provider rejected the request")
)
