package itemsapi

import (
	"errors"
	"fmt"
)

// ErrRemoteFailure matches every error returned by Client.
var ErrRemoteFailure = errors.New("remote call failed")

// RemoteError describes a failed call to the items API.
type RemoteError struct {
	// Op is the method and path, e.g. "PUT /items".
	Op string
	// Status is the HTTP status code, or 0 when no response arrived.
	Status int
	// Message is the server's error text, if it sent one.
	Message string
	Err     error
}

func (e *RemoteError) Error() string {
	switch {
	case e.Status != 0 && e.Message != "":
		return fmt.Sprintf("api %s returned status %d: %s", e.Op, e.Status, e.Message)
	case e.Status != 0:
		return fmt.Sprintf("api %s returned status %d", e.Op, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("api %s: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("api %s failed", e.Op)
	}
}

func (e *RemoteError) Unwrap() error { return e.Err }

// Is reports whether target is ErrRemoteFailure.
func (e *RemoteError) Is(target error) bool {
	return target == ErrRemoteFailure
}

// IsNotFound reports whether err is a RemoteError carrying a 404 status.
func IsNotFound(err error) bool {
	var re *RemoteError
	return errors.As(err, &re) && re.Status == 404
}
