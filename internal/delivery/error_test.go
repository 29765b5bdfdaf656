package delivery_test

import (
	"errors"
	"testing"

	"github.com/isometry/wp-trigger-app/internal/delivery"
	"github.com/stretchr/testify/assert"
)

func TestNewInternalError(t *testing.T) {
	err := delivery.NewInternalError("invalid request type. expected %s got %T", "*delivery.Bus", 42)

	var internal *delivery.InternalError
	assert.True(t, errors.As(err, &internal))
	assert.Equal(t, "delivery error: invalid request type. expected *delivery.Bus got int", err.Error())
}
