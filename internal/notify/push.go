package notify

import (
	"encoding/json"
	"sync"

	"mobilestore/internal/util"

	webpush "github.com/SherClockHolmes/webpush-go"
	"go.uber.org/zap"
)

// SubscriptionRegistry holds the ephemeral web-push subscriber endpoints for
// fan-out. It is process-local by design: subscriptions do not survive a
// restart. The registry is an explicitly-owned value injected into the
// dispatcher and the HTTP layer, never package state.
type SubscriptionRegistry struct {
	mu   sync.RWMutex
	subs []webpush.Subscription
}

// NewSubscriptionRegistry creates an empty registry.
func NewSubscriptionRegistry() *SubscriptionRegistry {
	return &SubscriptionRegistry{}
}

// Add registers a subscriber endpoint. Duplicate endpoints are collapsed.
func (r *SubscriptionRegistry) Add(sub webpush.Subscription) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.subs {
		if existing.Endpoint == sub.Endpoint {
			return
		}
	}
	r.subs = append(r.subs, sub)
}

// Snapshot returns a copy of the current subscriber list.
func (r *SubscriptionRegistry) Snapshot() []webpush.Subscription {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]webpush.Subscription, len(r.subs))
	copy(out, r.subs)
	return out
}

// Len returns the number of registered subscribers.
func (r *SubscriptionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.subs)
}

// PushMessage is the JSON payload delivered to subscribers.
type PushMessage struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// PushDispatcher fans push messages out to every registered subscriber.
type PushDispatcher struct {
	registry   *SubscriptionRegistry
	publicKey  string
	privateKey string
	subscriber string
	logger     *zap.Logger
}

// NewPushDispatcher creates a dispatcher over the given registry.
func NewPushDispatcher(registry *SubscriptionRegistry, publicKey, privateKey, subscriber string) *PushDispatcher {
	return &PushDispatcher{
		registry:   registry,
		publicKey:  publicKey,
		privateKey: privateKey,
		subscriber: subscriber,
		logger:     util.GetLogger(),
	}
}

// SendTo pushes a message to one subscription.
func (d *PushDispatcher) SendTo(sub webpush.Subscription, msg PushMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	resp, err := webpush.SendNotification(payload, &sub, &webpush.Options{
		Subscriber:      d.subscriber,
		VAPIDPublicKey:  d.publicKey,
		VAPIDPrivateKey: d.privateKey,
		TTL:             60,
	})
	if err != nil {
		util.NotificationsFailedTotal.WithLabelValues("push").Inc()
		return err
	}
	defer resp.Body.Close()

	util.NotificationsSentTotal.WithLabelValues("push").Inc()
	return nil
}

// Broadcast pushes a message to every registered subscriber, best-effort.
func (d *PushDispatcher) Broadcast(msg PushMessage) {
	for _, sub := range d.registry.Snapshot() {
		if err := d.SendTo(sub, msg); err != nil {
			d.logger.Error("Error sending push notification",
				zap.String("endpoint", sub.Endpoint),
				zap.Error(err))
		}
	}
}
