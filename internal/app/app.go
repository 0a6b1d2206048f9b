package app

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"
	"github.com/orgball2608/vibestream/internal/auth"
	"github.com/orgball2608/vibestream/internal/auth/authimpl"
	"github.com/orgball2608/vibestream/internal/feed"
	"github.com/orgball2608/vibestream/internal/httpapi"
	"github.com/orgball2608/vibestream/internal/migrations"
	"github.com/orgball2608/vibestream/internal/notify"
	"github.com/orgball2608/vibestream/internal/notify/telegramimpl"
	"github.com/orgball2608/vibestream/internal/objectstore"
	repositories "github.com/orgball2608/vibestream/internal/repositories/fx"
	"github.com/orgball2608/vibestream/internal/session"
	"github.com/orgball2608/vibestream/pkg/config"
	"github.com/orgball2608/vibestream/pkg/logger"
	"github.com/orgball2608/vibestream/pkg/pgx"
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(
		config.New,
		logger.FxOption,
		pgx.New,
		func() clockwork.Clock { return clockwork.NewRealClock() },
	),
	fx.Provide(
		fx.Annotate(
			authimpl.New,
			fx.As(new(auth.Provider)),
		),
		telegramimpl.New,
	),
	repositories.Module,
	objectstore.Module,
	session.Module,
	feed.Module,
	fx.Invoke(migrate),
	httpapi.Module,
)

// migrate applies pending migrations once the pool is reachable, before the
// session store starts reading profiles.
func migrate(lc fx.Lifecycle, _ *pgxpool.Pool, cfg *config.Config, log logger.Logger, notifier notify.Client) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := migrations.Up(ctx, cfg.GetDSN()); err != nil {
				log.Error("Migration error", "error", err)
				notifier.Notify("Migration error: " + err.Error())
				return err
			}
			log.Info("Migrations applied")
			return nil
		},
	})
}
