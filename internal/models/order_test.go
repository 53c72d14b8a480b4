package models_test

import (
	"testing"

	"storefront/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatus_Valid(t *testing.T) {
	for _, status := range []models.OrderStatus{
		models.StatusPending,
		models.StatusProcessing,
		models.StatusShipped,
		models.StatusDelivered,
		models.StatusCancelled,
	} {
		assert.True(t, status.Valid(), "expected %s to be a known status", status)
	}

	assert.False(t, models.OrderStatus("Unknown").Valid())
	assert.False(t, models.OrderStatus("pending").Valid(), "statuses are case sensitive")
	assert.False(t, models.OrderStatus("").Valid())
}

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	cases := []struct {
		from    models.OrderStatus
		to      models.OrderStatus
		allowed bool
	}{
		{models.StatusPending, models.StatusProcessing, true},
		{models.StatusPending, models.StatusCancelled, true},
		{models.StatusPending, models.StatusShipped, false},
		{models.StatusPending, models.StatusDelivered, false},
		{models.StatusProcessing, models.StatusShipped, true},
		{models.StatusProcessing, models.StatusCancelled, true},
		{models.StatusProcessing, models.StatusPending, false},
		{models.StatusShipped, models.StatusDelivered, true},
		{models.StatusShipped, models.StatusCancelled, false},
		{models.StatusDelivered, models.StatusCancelled, false},
		{models.StatusDelivered, models.StatusPending, false},
		{models.StatusCancelled, models.StatusPending, false},
		{models.StatusCancelled, models.StatusProcessing, false},
	}

	for _, tc := range cases {
		got := tc.from.CanTransitionTo(tc.to)
		assert.Equal(t, tc.allowed, got, "%s -> %s", tc.from, tc.to)
	}
}

func TestOrderStatus_Cancellable(t *testing.T) {
	assert.True(t, models.StatusPending.Cancellable())
	assert.True(t, models.StatusProcessing.Cancellable())
	assert.False(t, models.StatusShipped.Cancellable())
	assert.False(t, models.StatusDelivered.Cancellable())
	assert.False(t, models.StatusCancelled.Cancellable())
}
