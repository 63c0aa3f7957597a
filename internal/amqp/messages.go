package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"bilancio/internal/analytics"
)

// AlertMessage carries one triggered spending alert to downstream
// notifiers. The ID makes redeliveries deduplicatable.
type AlertMessage struct {
	ID        string          `json:"id"`
	Year      int             `json:"year"`
	Month     int             `json:"month"`
	Owner     string          `json:"owner,omitempty"`
	Alert     analytics.Alert `json:"alert"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewAlertMessage wraps an alert for publishing.
func NewAlertMessage(year, month int, owner string, alert analytics.Alert) *AlertMessage {
	return &AlertMessage{
		ID:        uuid.NewString(),
		Year:      year,
		Month:     month,
		Owner:     owner,
		Alert:     alert,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *AlertMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// AlertMessageFromJSON creates a message from JSON bytes
func AlertMessageFromJSON(data []byte) (*AlertMessage, error) {
	var msg AlertMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
