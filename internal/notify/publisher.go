package notify

import (
	"context"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/vmihailenco/msgpack/v5"

	"seva-backend/internal/invite"
)

// InvitationMessage is the wire payload on SubjectInvitation.
type InvitationMessage struct {
	Email            string `msgpack:"email"`
	OrganizationName string `msgpack:"organization_name"`
	Role             string `msgpack:"role"`
	AcceptURL        string `msgpack:"accept_url"`
}

// Publisher pushes notifications onto the stream. It satisfies
// invite.Notifier.
type Publisher struct {
	js nats.JetStreamContext
}

func NewPublisher(js nats.JetStreamContext) *Publisher {
	return &Publisher{js: js}
}

func (p *Publisher) SendInvitation(ctx context.Context, n invite.Notification) error {
	payload, err := msgpack.Marshal(&InvitationMessage{
		Email:            n.Email,
		OrganizationName: n.OrganizationName,
		Role:             string(n.Role),
		AcceptURL:        n.AcceptURL,
	})
	if err != nil {
		return fmt.Errorf("marshal invitation message: %w", err)
	}

	if _, err := p.js.Publish(SubjectInvitation, payload, nats.Context(ctx)); err != nil {
		return fmt.Errorf("publish invitation message: %w", err)
	}
	return nil
}
