package event

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Handler processes one decoded event. A returned error rejects the message
// without requeueing it.
type Handler func(ctx context.Context, ev BookingCreated) error

// LogHandler writes each booking to the audit log.
func LogHandler(log *zap.Logger) Handler {
	log = log.With(zap.String("component", "booking-audit"))
	return func(_ context.Context, ev BookingCreated) error {
		log.Info("Booking confirmed",
			zap.Int64("booking_id", ev.BookingID),
			zap.Int64("movie_id", ev.MovieID),
			zap.String("movie", ev.MovieTitle),
			zap.String("seat", ev.SeatNumber),
			zap.String("user_id", ev.UserID),
			zap.Time("booking_date", ev.BookingDate),
		)
		return nil
	}
}

// Decode parses a delivery body into a BookingCreated event.
func Decode(body []byte) (BookingCreated, error) {
	var ev BookingCreated
	if err := json.Unmarshal(body, &ev); err != nil {
		return ev, fmt.Errorf("unmarshal booking event: %w", err)
	}
	if ev.BookingID <= 0 {
		return ev, errors.New("booking event without booking_id")
	}
	return ev, nil
}

// Consume reads the booking queue until ctx is cancelled, reconnecting with
// exponential backoff when the broker goes away.
func Consume(ctx context.Context, url, queue string, handle Handler, log *zap.Logger) error {
	log = log.With(zap.String("component", "event-consumer"), zap.String("queue", queue))

	backoff := time.Second
	for {
		err := consumeOnce(ctx, url, queue, handle, log)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		log.Warn("Consumer stopped, reconnecting", zap.Error(err), zap.Duration("backoff", backoff))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		if backoff < 30*time.Second {
			backoff *= 2
		}
	}
}

func consumeOnce(ctx context.Context, url, queue string, handle Handler, log *zap.Logger) error {
	conn, err := amqp.Dial(url)
	if err != nil {
		return fmt.Errorf("dial broker: %w", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer ch.Close()

	if err := ch.Qos(50, 0, false); err != nil {
		return fmt.Errorf("set qos: %w", err)
	}
	if _, err := declareQueue(ch, queue); err != nil {
		return err
	}

	deliveries, err := ch.ConsumeWithContext(ctx, queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", queue, err)
	}

	log.Info("Consumer started")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return errors.New("deliveries channel closed")
			}

			ev, err := Decode(d.Body)
			if err == nil {
				err = handle(ctx, ev)
			}
			if err != nil {
				log.Error("Failed to handle booking event", zap.Error(err))
				d.Nack(false, false)
				continue
			}
			d.Ack(false)
		}
	}
}
