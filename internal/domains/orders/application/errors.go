package application

import (
	"errors"
	"strings"

	"github.com/exampleco/orders-api/internal/domains/orders/domain"
	"github.com/exampleco/orders-api/internal/domains/orders/ports"
	apierrors "github.com/exampleco/orders-api/internal/shared/errors"
)

// OrderNotFound builds the error returned for a missing or inactive order.
// id is echoed as received, so callers may pass the raw path value.
func OrderNotFound(id any) *apierrors.Error {
	return apierrors.NotFound("order with id %v does not exist.", id)
}

// UnknownService builds the error returned when service_id references no service.
func UnknownService(id int64) *apierrors.Error {
	return apierrors.Validation("Service with id %d does not exist.", id)
}

// InvalidTimePeriod builds the error returned for a missing or unknown time-period.
func InvalidTimePeriod() *apierrors.Error {
	quoted := make([]string, 0, len(domain.TimePeriods))
	for _, p := range domain.TimePeriods {
		quoted = append(quoted, "'"+string(p)+"'")
	}
	err := apierrors.Validation("time-period must be one of [%s]", strings.Join(quoted, ", "))
	err.Err = domain.ErrInvalidTimePeriod
	return err
}

func mapError(err error, id int64) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ports.ErrNotFound) {
		tagged := OrderNotFound(id)
		tagged.Err = err
		return tagged
	}
	if errors.Is(err, domain.ErrEmptyName) ||
		errors.Is(err, domain.ErrNameTooLong) ||
		errors.Is(err, domain.ErrInvalidServiceID) ||
		errors.Is(err, domain.ErrInvalidStatus) {
		return apierrors.Wrap(apierrors.KindValidation, err, "")
	}
	return err
}
