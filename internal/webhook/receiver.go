package webhook

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"sync/atomic"

	"github.com/gdbrns/go-whatsapp-mcp-gateway/internal/operations"
	"github.com/gdbrns/go-whatsapp-mcp-gateway/pkg/env"
	"github.com/gdbrns/go-whatsapp-mcp-gateway/pkg/log"
)

var (
	ErrUnknownEvent    = errors.New("webhook event type is required")
	ErrForeignInstance = errors.New("webhook event belongs to another instance")
)

// Target is what the receiver acts on.
type Target interface {
	Instance() string
	IncludesChats() bool
	ClearContactCache(ctx context.Context) operations.CacheCleared
}

// Receiver consumes Evolution webhook events. Contact events drop the
// contact directory so renamed contacts show up before the TTL expires.
type Receiver struct {
	target Target
	token  string

	received      atomic.Int64
	invalidations atomic.Int64
	rejected      atomic.Int64
}

// NewReceiver reads WEBHOOK_TOKEN; empty accepts unauthenticated events.
func NewReceiver(target Target) *Receiver {
	token, _ := env.GetEnvString("WEBHOOK_TOKEN")
	return NewReceiverWithToken(target, token)
}

func NewReceiverWithToken(target Target, token string) *Receiver {
	log.AddSecret(token)
	return &Receiver{target: target, token: token}
}

// Authorized compares token against WEBHOOK_TOKEN in constant time.
func (r *Receiver) Authorized(token string) bool {
	if r.token == "" {
		return true
	}
	ok := subtle.ConstantTimeCompare([]byte(token), []byte(r.token)) == 1
	if !ok {
		r.rejected.Add(1)
	}
	return ok
}

func (r *Receiver) Handle(ctx context.Context, ev Event) (Result, error) {
	ev.Event = NormalizeEventType(string(ev.Event))
	if ev.Event == "" {
		r.rejected.Add(1)
		return Result{}, ErrUnknownEvent
	}
	if ev.Instance != "" && ev.Instance != r.target.Instance() {
		r.rejected.Add(1)
		return Result{}, ErrForeignInstance
	}
	r.received.Add(1)

	entry := log.Op("webhook").WithField("event", string(ev.Event))
	switch {
	case ev.Event.invalidatesDirectory(r.target.IncludesChats()):
		r.target.ClearContactCache(ctx)
		r.invalidations.Add(1)
		entry.Debug("contact directory invalidated by webhook")
		return Result{Event: ev.Event, Action: ActionInvalidated}, nil

	case ev.Event == EventConnectionUpdate:
		var state struct {
			State      string `json:"state"`
			StatusCode int    `json:"statusReason"`
		}
		if err := json.Unmarshal(ev.Data, &state); err != nil {
			entry.WithError(err).Debug("connection update payload not decoded")
		}
		entry.WithField("state", state.State).WithField("status_reason", state.StatusCode).Info("instance connection changed")
		return Result{Event: ev.Event, Action: ActionLogged}, nil
	}

	entry.Debug("webhook event ignored")
	return Result{Event: ev.Event, Action: ActionIgnored}, nil
}

func (r *Receiver) Stats() Stats {
	return Stats{
		Received:      r.received.Load(),
		Invalidations: r.invalidations.Load(),
		Rejected:      r.rejected.Load(),
	}
}
