package client

import (
	"log/slog"

	"github.com/andywinn76/todo-app/internal/sync"
)

// NewSession wires a sync.Session to this client for the signed-in user.
// storage holds the durable per-user selection; report receives non-fatal
// mutation and refresh failures.
func (c *Client) NewSession(creds Credentials, storage sync.Storage, report func(error), logger *slog.Logger) *sync.Session {
	return sync.NewSession(sync.Config{
		UserID:    creds.UserID,
		Lists:     c.Lists(),
		Invites:   c.Invites(),
		Tasks:     c.Tasks(),
		Groceries: c.Groceries(),
		Stream:    c.Stream(),
		Storage:   storage,
		Report:    report,
		Logger:    logger,
	})
}
