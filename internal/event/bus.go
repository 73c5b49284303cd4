package event

import (
	"context"
	"sync"

	"github.com/kechcole/Blog-App/internal/common/logger"
)

// UserCreatedHandler reacts to a freshly created user account. Handlers run
// synchronously on the publishing goroutine, so profile bootstrapping is done
// before registration returns.
type UserCreatedHandler func(ctx context.Context, userID string) error

// Bus is a minimal in-process publish/subscribe point: subscriptions happen
// once at wiring time, publishes happen per request afterwards.
type Bus struct {
	mu                  sync.RWMutex
	userCreatedHandlers []UserCreatedHandler
	log                 *logger.Logger
}

func NewBus(log *logger.Logger) *Bus {
	return &Bus{log: log}
}

func (b *Bus) SubscribeUserCreated(h UserCreatedHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.userCreatedHandlers = append(b.userCreatedHandlers, h)
}

// PublishUserCreated notifies every subscriber. The first handler error is
// returned so the caller can roll back account creation; remaining handlers
// still run.
func (b *Bus) PublishUserCreated(ctx context.Context, userID string) error {
	b.mu.RLock()
	handlers := b.userCreatedHandlers
	b.mu.RUnlock()

	var firstErr error
	for _, h := range handlers {
		if err := h(ctx, userID); err != nil {
			b.log.WithFields(ctx, logger.Fields{
				"user_id": userID,
				"action":  "user_created_handler_failed",
			}).Errorf("user created handler failed: %v", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
