package notify

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/edvin/siteprovision/internal/mail"
	"github.com/edvin/siteprovision/internal/metrics"
	"github.com/edvin/siteprovision/internal/model"
)

const deliverTimeout = 30 * time.Second

// Dispatcher is the single consumer of all outbound notifications. Jobs
// enqueue fire-and-forget; one worker goroutine delivers in FIFO order so
// per-user notifications keep their request order. Delivery failures are
// logged and counted, never propagated.
type Dispatcher struct {
	logger zerolog.Logger
	sender mail.Sender
	queue  chan model.Notification
}

func NewDispatcher(logger zerolog.Logger, sender mail.Sender, buffer int) *Dispatcher {
	if buffer <= 0 {
		buffer = 256
	}
	return &Dispatcher{
		logger: logger.With().Str("component", "notify-dispatcher").Logger(),
		sender: sender,
		queue:  make(chan model.Notification, buffer),
	}
}

// Enqueue submits a notification without blocking the caller. When the
// queue is full the notification is dropped and logged, matching the
// best-effort delivery contract.
func (d *Dispatcher) Enqueue(n model.Notification) {
	select {
	case d.queue <- n:
	default:
		d.logger.Error().
			Str("kind", n.Kind).
			Str("recipient", n.Recipient).
			Msg("notification queue full, dropping notification")
		metrics.NotificationsTotal.WithLabelValues(n.Kind, "dropped").Inc()
	}
}

// Run consumes the queue until ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case n := <-d.queue:
			d.deliver(ctx, n)
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, n model.Notification) {
	subject, body := Render(n)

	sendCtx, cancel := context.WithTimeout(ctx, deliverTimeout)
	defer cancel()

	if err := d.sender.Send(sendCtx, n.Recipient, subject, body); err != nil {
		d.logger.Error().
			Err(err).
			Str("kind", n.Kind).
			Str("recipient", n.Recipient).
			Str("site_url", n.SiteURL).
			Msg("failed to deliver notification")
		metrics.NotificationsTotal.WithLabelValues(n.Kind, "failed").Inc()
		return
	}

	d.logger.Info().
		Str("kind", n.Kind).
		Str("recipient", n.Recipient).
		Str("site_url", n.SiteURL).
		Msg("notification delivered")
	metrics.NotificationsTotal.WithLabelValues(n.Kind, "sent").Inc()
}
