package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ReferenceChannels are the NOTIFY channels fed by the reference table
// triggers.
var ReferenceChannels = []string{
	"bhpont_changes",
	"bhszakasz_changes",
	"nagyszakasz_changes",
	"turamozgalom_changes",
}

// Notification is one NOTIFY received on a reference channel.
type Notification struct {
	Channel string
	Payload string
}

// Listener holds a dedicated pool connection in LISTEN mode.
type Listener struct {
	pool     *pgxpool.Pool
	channels []string
}

// NewListener returns a Listener for the given channels, or for
// ReferenceChannels when none are given.
func NewListener(pool *pgxpool.Pool, channels ...string) *Listener {
	if len(channels) == 0 {
		channels = ReferenceChannels
	}
	return &Listener{pool: pool, channels: channels}
}

// Listen subscribes to the channels and calls fn for every notification
// until ctx is done or the connection fails. ready, when non-nil, is called
// once all LISTEN statements succeeded.
func (l *Listener) Listen(ctx context.Context, ready func(), fn func(Notification)) error {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("repo.Listener.Listen: acquire: %w", err)
	}
	defer func() {
		// The connection goes back to the pool; it must not keep listening.
		_, _ = conn.Exec(context.Background(), "UNLISTEN *")
		conn.Release()
	}()

	for _, ch := range l.channels {
		if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{ch}.Sanitize()); err != nil {
			return fmt.Errorf("repo.Listener.Listen: listen %s: %w", ch, err)
		}
	}
	if ready != nil {
		ready()
	}

	for {
		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return fmt.Errorf("repo.Listener.Listen: %w", err)
		}
		fn(Notification{Channel: n.Channel, Payload: n.Payload})
	}
}
