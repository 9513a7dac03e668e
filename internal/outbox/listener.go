package outbox

import (
	"context"
	"time"

	"github.com/lib/pq"

	"github.com/Skotchmaster/campus_cafeteria/pkg/logging"
)

// Listen wakes the relay on every NOTIFY sent to channel. It returns when ctx
// is cancelled.
func Listen(ctx context.Context, dsn, channel string, r *Relay) error {
	l := logging.FromContext(ctx).With("svc", "outbox.listener")

	listener := pq.NewListener(dsn, time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			l.Warn("listener_event", "event", int(ev), "error", err)
		}
	})
	defer listener.Close()

	if err := listener.Listen(channel); err != nil {
		return err
	}
	l.Info("listening", "channel", channel)

	for {
		select {
		case <-ctx.Done():
			return nil
		case n := <-listener.Notify:
			// nil after a reconnect; events may have been missed
			r.Wake()
			if n != nil {
				l.Debug("notified", "order_id", n.Extra)
			}
		case <-time.After(90 * time.Second):
			if err := listener.Ping(); err != nil {
				l.Warn("listener_ping_failed", "error", err)
			}
		}
	}
}
