package notify

import (
	"context"
	"log"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/vmihailenco/msgpack/v5"
)

// Mailer consumes invitation messages and hands them to the mail webhook.
type Mailer struct {
	js     nats.JetStreamContext
	sender *WebhookSender
	sub    *nats.Subscription
}

func NewMailer(js nats.JetStreamContext, sender *WebhookSender) *Mailer {
	return &Mailer{js: js, sender: sender}
}

// Start begins consuming invitation notifications from JetStream.
func (m *Mailer) Start(ctx context.Context) error {
	sub, err := m.js.PullSubscribe(
		SubjectInvitation,
		"mailer",
		nats.ManualAck(),
		nats.AckWait(30*time.Second),
		nats.MaxDeliver(3),
	)
	if err != nil {
		return err
	}
	m.sub = sub

	go m.consumeLoop(ctx)
	log.Println("INFO Mailer consumer started")
	return nil
}

func (m *Mailer) Stop() error {
	if m.sub == nil {
		return nil
	}
	return m.sub.Drain()
}

func (m *Mailer) consumeLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		msgs, err := m.sub.Fetch(16, nats.MaxWait(5*time.Second))
		if err != nil {
			if err != nats.ErrTimeout {
				log.Printf("WARN Mailer fetch error: %v", err)
			}
			continue
		}

		for _, msg := range msgs {
			if err := m.processMessage(msg); err != nil {
				log.Printf("WARN Mailer process error: %v", err)
				msg.NakWithDelay(5 * time.Second)
				continue
			}
			msg.Ack()
		}
	}
}

func (m *Mailer) processMessage(msg *nats.Msg) error {
	var im InvitationMessage
	if err := msgpack.Unmarshal(msg.Data, &im); err != nil {
		log.Printf("ERROR Mailer unmarshal error (terminating): %v", err)
		msg.Term()
		return nil
	}

	log.Printf("INFO Invitation mail: org=%s email=%s", im.OrganizationName, im.Email)
	return m.sender.SendInvitationMail(im)
}
