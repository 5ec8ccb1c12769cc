package domain

import (
	"errors"
	"fmt"
)

var (
	ErrMissingCredentials = errors.New("netsuite_missing_credentials")
	ErrTimeout            = errors.New("netsuite_timeout")
)

// RemoteError is a non-2xx response from NetSuite. Status carries the HTTP
// status code so the retry policy can tell transient faults from permanent
// rejections.
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("netsuite: status %d: %s", e.Status, e.Message)
}

// IsRemoteStatus reports whether err is a RemoteError with status in [lo, hi].
func IsRemoteStatus(err error, lo, hi int) bool {
	var remote *RemoteError
	if !errors.As(err, &remote) {
		return false
	}
	return remote.Status >= lo && remote.Status <= hi
}
