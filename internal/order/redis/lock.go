package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"booth-client/internal/logger"
)

// DefaultClaimTTL bounds how long a terminal holds an unreleased claim.
const DefaultClaimTTL = 2 * time.Minute

// Redis implements the cross-terminal order claim lock. When several
// operator terminals poll the same event, a SetNX claim keeps two of them
// from fulfilling the same order. Claims expire on their own, so a crashed
// terminal never wedges an order.
type Redis struct {
	Client     *redis.Client
	TerminalID string
	ClaimTTL   time.Duration
	Logger     *logger.Logger
}

func NewRedis(client *redis.Client, terminalID string, claimTTL time.Duration, log *logger.Logger) *Redis {
	if claimTTL <= 0 {
		claimTTL = DefaultClaimTTL
	}
	return &Redis{
		Client:     client,
		TerminalID: terminalID,
		ClaimTTL:   claimTTL,
		Logger:     log,
	}
}

func claimKey(orderID int64) string {
	return fmt.Sprintf("order_claim:%d", orderID)
}

// CheckOrderAvailability reports whether an order is unclaimed without
// claiming it.
func (r *Redis) CheckOrderAvailability(ctx context.Context, orderID int64) (bool, error) {
	_, err := r.Client.Get(ctx, claimKey(orderID)).Result()
	if err == redis.Nil {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return false, nil
}

// ClaimOrder claims a single order for this terminal. It returns false when
// another terminal already holds the claim.
func (r *Redis) ClaimOrder(ctx context.Context, orderID int64) (bool, error) {
	key := claimKey(orderID)
	ok, err := r.Client.SetNX(ctx, key, r.TerminalID, r.ClaimTTL).Result()
	if err != nil {
		return false, err
	}
	if !ok {
		// Re-claiming our own order is fine, e.g. after a retried request.
		val, getErr := r.Client.Get(ctx, key).Result()
		if getErr == nil && val == r.TerminalID {
			return true, nil
		}
	}
	return ok, nil
}

// ReleaseOrder releases a claim, but only when this terminal owns it.
func (r *Redis) ReleaseOrder(ctx context.Context, orderID int64) error {
	key := claimKey(orderID)
	val, err := r.Client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil // already released or expired
	}
	if err != nil {
		return err
	}
	if val == r.TerminalID {
		_, err := r.Client.Del(ctx, key).Result()
		return err
	}
	return nil
}

// ClaimOrders claims a batch atomically: on any refusal or error, claims
// taken so far are rolled back.
func (r *Redis) ClaimOrders(ctx context.Context, orderIDs []int64) (bool, error) {
	claimed := []int64{}
	for _, orderID := range orderIDs {
		ok, err := r.ClaimOrder(ctx, orderID)
		if err != nil {
			for _, c := range claimed {
				_ = r.ReleaseOrder(ctx, c)
			}
			return false, err
		}
		if !ok {
			for _, c := range claimed {
				_ = r.ReleaseOrder(ctx, c)
			}
			return false, nil
		}
		claimed = append(claimed, orderID)
	}
	return true, nil
}

// ReleaseOrders releases a batch, reporting the first error seen.
func (r *Redis) ReleaseOrders(ctx context.Context, orderIDs []int64) error {
	var firstErr error
	for _, orderID := range orderIDs {
		if err := r.ReleaseOrder(ctx, orderID); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if firstErr != nil && r.Logger != nil {
		r.Logger.Warn("CLAIM", fmt.Sprintf("failed to release claims: %v", firstErr))
	}
	return firstErr
}
