// Package mail defines the outbound mail collaborator interface. The
// actual transport (SMTP, API gateway) is supplied by the surrounding
// application.
package mail

import "context"

// SendStatus is the transport's verdict on one send attempt.
type SendStatus string

const (
	// StatusOK means the message was accepted by the transport.
	StatusOK SendStatus = "ok"
	// StatusError means the transport rejected the message.
	StatusError SendStatus = "error"
)

// Message is one outbound email.
type Message struct {
	From    string `json:"from,omitempty"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Receipt is the transport's response to a send.
type Receipt struct {
	Status    SendStatus `json:"status"`
	MessageID string     `json:"message_id,omitempty"`
	Detail    string     `json:"detail,omitempty"`
}

// Sender delivers outbound email. A nil-error return with a non-OK
// receipt means the transport answered but refused the message; the
// caller decides whether that counts as a sent email (it does not).
type Sender interface {
	Send(ctx context.Context, msg Message) (*Receipt, error)
}
