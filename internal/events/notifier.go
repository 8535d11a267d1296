package events

import (
	"context"

	"marquee/config"
	"marquee/infras/kafka"
	"marquee/infras/otel"
	"marquee/internal/domains/waitlist/model"
	"marquee/shared/constant"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
)

// Notifier consumes waiting list notification events and dispatches them
// to the guest. Delivery is currently a structured log line; the consumer
// is the seam where a mail or SMS provider plugs in.
type Notifier struct {
	kafka kafka.Client
	cfg   *config.Config
	otel  otel.Otel
}

func New(kafkaClient kafka.Client, cfg *config.Config, otel otel.Otel) *Notifier {
	return &Notifier{
		kafka: kafkaClient,
		cfg:   cfg,
		otel:  otel,
	}
}

// Run blocks consuming the waitlist notification topic until the context
// is cancelled.
func (n *Notifier) Run(ctx context.Context) {
	topic := n.cfg.Kafka.Topics.WaitlistNotified

	log.Info().Str("topic", topic).Msg("Starting waitlist notifier.")

	n.kafka.Consume(ctx, n.cfg.Kafka.ConsumerGroup, topic, n.handle)
}

func (n *Notifier) handle(message kafkaGo.Message) {
	_, scope := n.otel.NewScope(context.Background(), constant.OtelServiceScopeName, constant.OtelServiceScopeName+".HandleWaitlistNotified")
	defer scope.End()

	decoded, err := kafka.DecodeKafkaMessage[model.NotifiedEvent](message)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to decode waitlist notification event")

		return
	}

	event, ok := decoded.Value.(model.NotifiedEvent)
	if !ok {
		log.Error().Str("key", decoded.Key).Msg("unexpected waitlist notification payload type")

		return
	}

	scope.SetAttributes(map[string]any{
		"waitlist.entry_id":  event.EntryID,
		"waitlist.show_date": event.ShowDate,
	})

	log.Info().
		Str("entry_id", event.EntryID).
		Str("show_date", event.ShowDate).
		Str("guest_name", event.GuestName).
		Str("guest_email", event.GuestEmail).
		Int("guests", event.Guests).
		Time("response_deadline", event.ResponseDeadline).
		Msg("waiting list spot offered")
}
