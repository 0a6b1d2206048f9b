package authimpl

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/orgball2608/vibestream/internal/auth"
)

// scheduleRefresh keeps the session alive: tokens close to expiry are re-issued,
// expired ones end the session.
func (p *Provider) scheduleRefresh() error {
	if p.refreshInterval <= 0 {
		return nil
	}

	_, err := p.scheduler.NewJob(
		gocron.DurationJob(p.refreshInterval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			p.refreshIfNeeded(ctx)
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule token refresh: %w", err)
	}

	p.scheduler.Start()
	return nil
}

func (p *Provider) refreshIfNeeded(ctx context.Context) {
	sess, err := p.GetSession(ctx)
	if err != nil {
		p.logger.Error("Failed to read session for refresh", "error", err)
		return
	}
	if sess == nil {
		return
	}

	remaining := sess.ExpiresAt.Sub(p.clock.Now())
	switch {
	case remaining <= 0:
		p.logger.Info("Session expired, signing out", "user_id", sess.UserID)
		p.opMu.Lock()
		p.setCurrent(auth.EventSignedOut, nil)
		p.opMu.Unlock()
	case remaining <= 2*p.refreshInterval:
		if _, err := p.RefreshSession(ctx); err != nil {
			p.logger.Error("Failed to refresh session token", "error", err)
			return
		}
		p.logger.Debug("Session token refreshed", "user_id", sess.UserID)
	}
}
