package amqp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bilancio/internal/analytics"
)

func TestNewAlertMessage(t *testing.T) {
	alert := analytics.Alert{
		Kind:        analytics.AlertBudgetExceeded,
		AmountCents: 250_00,
		Threshold:   90,
		Category:    "Food",
		Message:     "Food budget exceeded",
	}

	a := NewAlertMessage(2025, 3, "ada", alert)
	b := NewAlertMessage(2025, 3, "ada", alert)

	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID, "each message gets its own ID")
	assert.Equal(t, 2025, a.Year)
	assert.Equal(t, 3, a.Month)
	assert.False(t, a.Timestamp.IsZero())
}

func TestAlertMessageRoundTrip(t *testing.T) {
	msg := NewAlertMessage(2025, 11, "", analytics.Alert{
		Kind:        analytics.AlertHighValue,
		AmountCents: 1500_00,
		Threshold:   1000_00,
		Message:     "single transaction over threshold",
	})

	body, err := msg.ToJSON()
	require.NoError(t, err)

	got, err := AlertMessageFromJSON(body)
	require.NoError(t, err)
	assert.Equal(t, msg.ID, got.ID)
	assert.Equal(t, analytics.AlertHighValue, got.Alert.Kind)
	assert.Equal(t, int64(1500_00), got.Alert.AmountCents)
	assert.Empty(t, got.Owner)
}

func TestAlertMessageFromJSONRejectsGarbage(t *testing.T) {
	_, err := AlertMessageFromJSON([]byte("{not json"))
	require.Error(t, err)
}
