package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatPeso(t *testing.T) {
	cases := []struct {
		amount float64
		want   string
	}{
		{0, "₱0"},
		{600, "₱600"},
		{2000, "₱2,000"},
		{25000, "₱25,000"},
		{1234567, "₱1,234,567"},
		{1400.75, "₱1,400"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatPeso(tc.amount))
	}
}

func TestTelegramServiceUnconfigured(t *testing.T) {
	s := NewTelegramService("", "")

	assert.NoError(t, s.SendToAdmin("hello"))
	assert.NoError(t, s.NotifyNewOrder(OrderNotification{OrderID: "x"}))
	assert.NoError(t, s.NotifyPaymentRecorded("x", "down_payment", 600))
}
