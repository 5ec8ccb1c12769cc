package netsuite

import (
	"errors"
	"net"

	"github.com/smallbiznis/quotesync/internal/netsuite/domain"
)

// ShouldRetry is the retry predicate for NetSuite calls: timeouts,
// connectivity faults and remote 5xx are transient; a 4xx rejection is
// permanent and propagates at once.
func ShouldRetry(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, domain.ErrTimeout) {
		return true
	}
	if domain.IsRemoteStatus(err, 500, 599) {
		return true
	}
	var remote *domain.RemoteError
	if errors.As(err, &remote) {
		return false
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
