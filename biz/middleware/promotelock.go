package middleware

import (
	"context"
	"net/http"

	"github.com/cloudwego/hertz/pkg/app"

	"github.com/yi-nology/component_promoter/pkg/lock"
	"github.com/yi-nology/component_promoter/pkg/logger"
)

var globalPromoteLock *lock.PromotionLock

// InitPromoteLock sets the global promotion lock instance. When set, the
// promote endpoint serializes through this lock so concurrent requests
// cannot race each other's destination-collision checks.
func InitPromoteLock(l *lock.PromotionLock) {
	globalPromoteLock = l
}

// PromoteLockMw returns a middleware slice that acquires the promotion
// lock. If the lock is not initialized (Redis disabled), returns nil so
// requests pass through without locking overhead.
func PromoteLockMw() []app.HandlerFunc {
	if globalPromoteLock == nil {
		return nil
	}
	return []app.HandlerFunc{promoteLockHandler()}
}

func promoteLockHandler() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		lockID, err := globalPromoteLock.Acquire(ctx)
		if err != nil {
			logger.Errorf("failed to acquire promotion lock: %v", err)
			c.JSON(http.StatusServiceUnavailable, map[string]interface{}{
				"code": http.StatusServiceUnavailable,
				"msg":  "another promotion is in progress, please retry later",
			})
			c.Abort()
			return
		}
		defer func() {
			if releaseErr := globalPromoteLock.Release(ctx, lockID); releaseErr != nil {
				logger.Errorf("failed to release promotion lock: %v", releaseErr)
			}
		}()
		c.Next(ctx)
	}
}
