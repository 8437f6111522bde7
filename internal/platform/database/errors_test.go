package database

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	apierrors "github.com/exampleco/orders-api/internal/shared/errors"
)

func TestConstraintMapper(t *testing.T) {
	tagged, ok := ConstraintMapper(fmt.Errorf("create order: %w", gorm.ErrForeignKeyViolated))
	require.True(t, ok)
	assert.Equal(t, apierrors.KindValidation, tagged.Kind)
	assert.ErrorIs(t, tagged, gorm.ErrForeignKeyViolated)

	tagged, ok = ConstraintMapper(gorm.ErrDuplicatedKey)
	require.True(t, ok)
	assert.Equal(t, "Record already exists.", tagged.Error())

	_, ok = ConstraintMapper(errors.New("connection reset"))
	assert.False(t, ok)
}

func TestConstraintMapper_Responder(t *testing.T) {
	responder := apierrors.NewResponder()
	responder.AddMapper(ConstraintMapper)

	status, body := responder.Render(fmt.Errorf("update order: %w", gorm.ErrForeignKeyViolated))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.JSONEq(t, `{"error": "Referenced record does not exist."}`, string(body))

	status, _ = responder.Render(errors.New("connection reset"))
	assert.Equal(t, http.StatusInternalServerError, status)
}
