package notify

import (
	"encoding/json"
	"log/slog"

	"github.com/nats-io/nats.go"
)

// MeetingDecision is published when a teacher approves or rejects a meeting
// request. A downstream mail gateway turns it into a parent email.
type MeetingDecision struct {
	RequestID   int64  `json:"requestId"`
	RollNo      string `json:"rollNo"`
	Status      string `json:"status"`
	Notes       string `json:"notes,omitempty"`
	ParentEmail string `json:"parentEmail,omitempty"`
}

type Producer struct {
	conn    *nats.Conn
	subject string
	logger  *slog.Logger
}

func NewProducer(url string, subject string, logger *slog.Logger) (*Producer, error) {
	nc, err := nats.Connect(url)
	if err != nil {
		return nil, err
	}

	logger.Info("NATS producer initialized", "url", url, "subject", subject)

	return &Producer{
		conn:    nc,
		subject: subject,
		logger:  logger,
	}, nil
}

// Publish sends one event. Safe to call on a nil producer (notifications are
// optional and disabled when no NATS URL is configured).
func (p *Producer) Publish(value interface{}) error {
	if p == nil {
		return nil
	}

	valueBytes, err := json.Marshal(value)
	if err != nil {
		p.logger.Error("failed to marshal event", "error", err)
		return err
	}

	if err := p.conn.Publish(p.subject, valueBytes); err != nil {
		p.logger.Error("failed to publish event to NATS", "error", err)
		return err
	}

	p.logger.Info("event published to NATS", "subject", p.subject)
	return nil
}

func (p *Producer) Close() error {
	if p == nil {
		return nil
	}
	p.conn.Close()
	return nil
}
