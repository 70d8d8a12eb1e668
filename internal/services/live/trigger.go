package live

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"leadsdash/internal/modkit/repokit"

	"github.com/jackc/pgx/v5"
)

var channelRe = regexp.MustCompile(`^[a-z_][a-z0-9_]{0,62}$`)

// TriggerDDL returns the statements that make table send pg_notify(channel, TG_OP)
// after every insert, update or delete
func TriggerDDL(table, channel string) ([]string, error) {
	if !channelRe.MatchString(channel) {
		return nil, fmt.Errorf("live: invalid channel name %q", channel)
	}
	parts := strings.Split(table, ".")
	tbl := pgx.Identifier(parts).Sanitize()
	fn := pgx.Identifier{parts[len(parts)-1] + "_notify_" + channel}.Sanitize()
	trig := pgx.Identifier{parts[len(parts)-1] + "_" + channel}.Sanitize()

	return []string{
		`create or replace function ` + fn + `() returns trigger language plpgsql as $$
begin
	perform pg_notify('` + channel + `', TG_OP);
	return null;
end
$$`,
		`drop trigger if exists ` + trig + ` on ` + tbl,
		`create trigger ` + trig + ` after insert or update or delete on ` + tbl +
			` for each statement execute function ` + fn + `()`,
	}, nil
}

// InstallTrigger applies TriggerDDL in one transaction
func InstallTrigger(ctx context.Context, tx repokit.TxRunner, table, channel string) error {
	stmts, err := TriggerDDL(table, channel)
	if err != nil {
		return err
	}
	return repokit.WithTx(ctx, tx, func(q repokit.RowQuerier) error {
		for _, s := range stmts {
			if _, err := q.Exec(ctx, s); err != nil {
				return fmt.Errorf("live: install trigger: %w", err)
			}
		}
		return nil
	})
}
