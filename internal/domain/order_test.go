package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name  string
		from  OrderStatus
		to    OrderStatus
		legal bool
	}{
		{"pending to paid", StatusPending, StatusPaid, true},
		{"pending to canceled", StatusPending, StatusCanceled, true},
		{"paid to shipped", StatusPaid, StatusShipped, true},
		{"paid to canceled", StatusPaid, StatusCanceled, true},
		{"shipped to delivered", StatusShipped, StatusDelivered, true},
		{"pending to shipped", StatusPending, StatusShipped, false},
		{"pending to delivered", StatusPending, StatusDelivered, false},
		{"paid to pending", StatusPaid, StatusPending, false},
		{"shipped to canceled", StatusShipped, StatusCanceled, false},
		{"delivered is terminal", StatusDelivered, StatusCanceled, false},
		{"canceled is terminal", StatusCanceled, StatusPending, false},
		{"self transition", StatusPending, StatusPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.legal, CanTransition(tt.from, tt.to))
		})
	}
}

func TestParseOrderStatus(t *testing.T) {
	for _, raw := range []string{"PENDING", "PAID", "SHIPPED", "DELIVERED", "CANCELED"} {
		status, err := ParseOrderStatus(raw)
		require.NoError(t, err)
		assert.Equal(t, OrderStatus(raw), status)
	}

	_, err := ParseOrderStatus("REFUNDED")
	require.Error(t, err)
	assert.Equal(t, EINVALID, ErrorCode(err))

	// statuses are case-sensitive on the wire
	_, err = ParseOrderStatus("paid")
	require.Error(t, err)
}
