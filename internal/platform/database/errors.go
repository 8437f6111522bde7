package database

import (
	"errors"

	"gorm.io/gorm"

	apierrors "github.com/exampleco/orders-api/internal/shared/errors"
)

// ConstraintMapper turns constraint violations translated by GORM into
// validation failures. It covers the window where a referenced row vanishes
// between the existence check and the write.
func ConstraintMapper(err error) (*apierrors.Error, bool) {
	switch {
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return apierrors.Wrap(apierrors.KindValidation, err, "Referenced record does not exist."), true
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apierrors.Wrap(apierrors.KindValidation, err, "Record already exists."), true
	default:
		return nil, false
	}
}
