package webhook

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/paybridgelabs/paybridge/internal/clock"
	"github.com/paybridgelabs/paybridge/internal/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type LedgerParams struct {
	fx.In

	Cfg   config.Config
	DB    *gorm.DB
	IDGen *snowflake.Node
	Redis *redis.Client `optional:"true"`
}

func NewLedger(p LedgerParams) Ledger {
	if p.Cfg.Redis.Enabled && p.Redis != nil {
		retention := time.Duration(p.Cfg.Webhook.RetentionHours) * time.Hour
		return NewRedisLedger(p.Redis, retention)
	}
	return NewGormLedger(p.DB, p.IDGen)
}

var Module = fx.Module("webhook",
	fx.Provide(
		NewVerifier,
		NewLedger,
		NewDispatcher,
		NewIntentLifecycleHandlers,
	),
	fx.Invoke(func(d *Dispatcher, h *IntentLifecycleHandlers) {
		h.RegisterAll(d)
	}),
	fx.Invoke(runLedgerEviction),
)

// runLedgerEviction trims ledger entries older than the retention window. The
// window must stay at least as long as the processor's maximum redelivery
// interval, so eviction runs coarsely.
func runLedgerEviction(lc fx.Lifecycle, cfg config.Config, ledger Ledger, clk clock.Clock, log *zap.Logger) {
	retention := time.Duration(cfg.Webhook.RetentionHours) * time.Hour
	evictLog := log.Named("webhook.eviction")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				ticker := time.NewTicker(time.Hour)
				defer ticker.Stop()
				for {
					select {
					case <-ctx.Done():
						return
					case <-ticker.C:
						cutoff := clk.Now(ctx).Add(-retention)
						evicted, err := ledger.EvictBefore(ctx, cutoff)
						if err != nil {
							evictLog.Warn("ledger eviction failed", zap.Error(err))
							continue
						}
						if evicted > 0 {
							evictLog.Info("evicted processed events",
								zap.Int64("count", evicted),
								zap.Time("cutoff", cutoff))
						}
					}
				}
			}()
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			<-done
			return nil
		},
	})
}
