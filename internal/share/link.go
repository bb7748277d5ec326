package share

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gosimple/slug"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/mark3labs/stepdeck/internal/logger"
	"github.com/mark3labs/stepdeck/internal/slideshow"
)

const streamName = "stepdeck_positions"

// Subject returns the change subject for a deck, e.g. "stepdeck.http-server.change".
func Subject(deckTitle string) string {
	name := slug.Make(deckTitle)
	if name == "" {
		name = "deck"
	}
	return fmt.Sprintf("stepdeck.%s.change", name)
}

// SetupStream creates or updates the stream that retains the last position
// of every deck.
func SetupStream(ctx context.Context, js jetstream.JetStream) (jetstream.Stream, error) {
	return js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:              streamName,
		Subjects:          []string{"stepdeck.>"},
		Storage:           jetstream.MemoryStorage,
		MaxMsgsPerSubject: 1,
	})
}

// Publisher publishes a presenter's step changes.
type Publisher struct {
	js      jetstream.JetStream
	subject string
}

// NewPublisher creates a publisher for subject.
func NewPublisher(js jetstream.JetStream, subject string) *Publisher {
	return &Publisher{js: js, subject: subject}
}

// Subject returns the subject the publisher writes to.
func (p *Publisher) Subject() string {
	return p.subject
}

// Publish sends ev and waits for the stream to store it.
func (p *Publisher) Publish(ctx context.Context, ev slideshow.ChangeEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if _, err := p.js.Publish(ctx, p.subject, data); err != nil {
		return fmt.Errorf("publishing step %d: %w", ev.Index, err)
	}
	logger.Debug("share: published step %d on %s", ev.Index, p.subject)
	return nil
}

// Latest returns the last position published on subject. ok is false when
// the presenter has not published anything yet.
func Latest(ctx context.Context, js jetstream.JetStream, subject string) (ev slideshow.ChangeEvent, ok bool, err error) {
	stream, err := js.Stream(ctx, streamName)
	if err != nil {
		return ev, false, fmt.Errorf("looking up stream: %w", err)
	}
	msg, err := stream.GetLastMsgForSubject(ctx, subject)
	if errors.Is(err, jetstream.ErrMsgNotFound) {
		return ev, false, nil
	}
	if err != nil {
		return ev, false, err
	}
	if err := json.Unmarshal(msg.Data, &ev); err != nil {
		return ev, false, fmt.Errorf("decoding position: %w", err)
	}
	return ev, true, nil
}

// Follow calls fn for every change published on subject. Malformed messages
// are logged and skipped.
func Follow(nc *nats.Conn, subject string, fn func(slideshow.ChangeEvent)) (*nats.Subscription, error) {
	return nc.Subscribe(subject, func(m *nats.Msg) {
		var ev slideshow.ChangeEvent
		if err := json.Unmarshal(m.Data, &ev); err != nil {
			logger.Warn("share: dropping malformed change on %s: %v", m.Subject, err)
			return
		}
		fn(ev)
	})
}
