package probe

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/wildme/testgate/internal/logging"
)

// checkPostgres connects to the server named by spec.ConnURI and pings it.
// Unlike an HTTP check against a web frontend, this talks the Postgres wire
// protocol, so it verifies the server is actually accepting and
// authenticating connections, not just that the port is open.
func checkPostgres(ctx context.Context, spec Spec) error {
	target := logging.RedactURI(spec.ConnURI)

	conn, err := pgx.Connect(ctx, spec.ConnURI)
	if err != nil {
		return fmt.Errorf("connect %s: %w", target, err)
	}
	defer func() { _ = conn.Close(ctx) }()

	if err := conn.Ping(ctx); err != nil {
		return fmt.Errorf("ping %s: %w", target, err)
	}

	return nil
}
