package application

import (
	"errors"

	"github.com/exampleco/orders-api/internal/domains/services/ports"
	apierrors "github.com/exampleco/orders-api/internal/shared/errors"
)

// ServiceNotFound builds the error returned when no service has the given
// identifier. id is echoed as received, so callers may pass the raw path value.
func ServiceNotFound(id any) *apierrors.Error {
	return apierrors.NotFound("Service with id %v does not exist.", id)
}

func mapError(err error, id int64) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ports.ErrNotFound) {
		tagged := ServiceNotFound(id)
		tagged.Err = err
		return tagged
	}
	return err
}
