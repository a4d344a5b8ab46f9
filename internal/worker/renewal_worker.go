package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/DOUMBISSS/ged-immo-sub001/internal/service"
)

// StartRenewalWorker periodically materializes scheduled renewals whose
// start date has been reached. Returns when ctx is cancelled.
func StartRenewalWorker(ctx context.Context, subscriptions *service.SubscriptionService, interval time.Duration, logger *zap.Logger) {
	if subscriptions == nil {
		return
	}
	if interval <= 0 {
		interval = time.Minute
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				activated, err := subscriptions.ActivateDue(ctx)
				if err != nil {
					logger.Error("activate due renewals", zap.Error(err))
					continue
				}
				if activated > 0 {
					logger.Info("renewals activated", zap.Int("count", activated))
				}
			}
		}
	}()
}
