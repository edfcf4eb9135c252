// Package notify delivers contract notifications to the platform's
// notification service. Delivery is best effort: callers go through
// Dispatcher, which never reports a failure back.
package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/nurpe/snowops-contracts/internal/config"
	"github.com/nurpe/snowops-contracts/internal/model"
)

type Notifier interface {
	Notify(ctx context.Context, notification model.Notification) error
}

type Nop struct{}

func (Nop) Notify(context.Context, model.Notification) error {
	return nil
}

// New builds the notifier selected by cfg.Notify.Driver.
func New(cfg *config.Config) (Notifier, error) {
	switch cfg.Notify.Driver {
	case config.NotifyDriverWebhook:
		return NewWebhook(cfg.Notify.WebhookURL, cfg.Notify.Timeout), nil
	case config.NotifyDriverRedis:
		return NewRedisPublisher(cfg.Notify.RedisAddr, cfg.Notify.RedisChannel)
	case config.NotifyDriverNone, "":
		return Nop{}, nil
	default:
		return nil, fmt.Errorf("unknown notify driver %q", cfg.Notify.Driver)
	}
}

// Dispatcher sends notifications after the owning transaction has committed.
// Delivery runs in the background; errors and panics are logged and discarded.
type Dispatcher struct {
	notifier Notifier
	timeout  time.Duration
	log      zerolog.Logger
	inflight sync.WaitGroup
}

func NewDispatcher(notifier Notifier, timeout time.Duration, log zerolog.Logger) *Dispatcher {
	if notifier == nil {
		notifier = Nop{}
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Dispatcher{notifier: notifier, timeout: timeout, log: log}
}

// Send returns immediately. The batch is delivered in order on its own
// goroutine with a context detached from the caller's cancellation.
func (d *Dispatcher) Send(ctx context.Context, notifications ...model.Notification) {
	if len(notifications) == 0 {
		return
	}
	batch := append([]model.Notification(nil), notifications...)
	detached := context.WithoutCancel(ctx)

	d.inflight.Add(1)
	go func() {
		defer d.inflight.Done()
		for _, n := range batch {
			d.sendOne(detached, n)
		}
	}()
}

// Wait blocks until every batch handed to Send has been delivered or dropped.
func (d *Dispatcher) Wait() {
	d.inflight.Wait()
}

func (d *Dispatcher) sendOne(ctx context.Context, n model.Notification) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error().
				Interface("panic", r).
				Str("contract_id", n.ContractID.String()).
				Str("recipient_id", n.RecipientID.String()).
				Msg("notification panicked")
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	if err := d.notifier.Notify(ctx, n); err != nil {
		d.log.Warn().
			Err(err).
			Str("kind", n.Kind).
			Str("contract_id", n.ContractID.String()).
			Str("recipient_kind", string(n.RecipientKind)).
			Str("recipient_id", n.RecipientID.String()).
			Msg("notification dropped")
	}
}
