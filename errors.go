package recaptcha

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingSiteKey is returned by Render when the site key is empty.
	ErrMissingSiteKey = errors.New("recaptcha: site key is required")
	// ErrMissingSecret is returned by Verify when the secret key is empty.
	ErrMissingSecret = errors.New("recaptcha: secret key is required")
	// ErrMissingToken is returned by Verify when the response token is empty.
	ErrMissingToken = errors.New("recaptcha: response token is required")
)

// NetworkError reports that a siteverify call did not complete: the request
// failed at the transport layer or the endpoint answered with a non-2xx
// status. It is distinct from a rejected token, which is a regular Response
// with Success false.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("recaptcha: siteverify request failed: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
