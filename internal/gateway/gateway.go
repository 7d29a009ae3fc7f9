package gateway

import (
	"context"
	"errors"

	"github.com/confsnap/confsnap/internal/model"
)

var ErrUnknownDevice = errors.New("device not in testbed")

// Gateway retrieves the parsed running configuration of a device. The
// backup writer and tests depend on this interface only, never on the SSH
// implementation behind it.
type Gateway interface {
	FetchConfig(ctx context.Context, deviceName string) (model.ParsedConfig, error)
}
