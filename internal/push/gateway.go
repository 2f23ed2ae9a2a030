package push

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TokenDirectory resolves and repairs stored device tokens. The token value
// is part of the clear filter so a token re-registered mid-run survives.
type TokenDirectory interface {
	DeviceTokenFor(ctx context.Context, userID string) (string, error)
	ClearDeviceToken(ctx context.Context, userID, token string) error
}

// AuditFunc receives a record of every delivery attempt.
type AuditFunc func(entry AuditEntry)

type gatewayState int

const (
	stateUninitialized gatewayState = iota
	stateReady
	stateFailed
)

// Gateway fronts the push provider. The provider connection is built lazily
// on first use; a failed build leaves the gateway "not ready" and the next
// call retries. The constructor never fails.
type Gateway struct {
	mu          sync.Mutex
	state       gatewayState
	provider    Provider
	newProvider func() (Provider, error)
	lastError   string

	directory TokenDirectory
	audit     AuditFunc
	logger    *zap.SugaredLogger
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithProviderFactory overrides how the provider connection is built.
func WithProviderFactory(factory func() (Provider, error)) Option {
	return func(g *Gateway) { g.newProvider = factory }
}

// WithAudit installs a delivery audit hook.
func WithAudit(audit AuditFunc) Option {
	return func(g *Gateway) { g.audit = audit }
}

func NewGateway(directory TokenDirectory, logger *zap.SugaredLogger, opts ...Option) *Gateway {
	g := &Gateway{
		directory: directory,
		logger:    logger,
		newProvider: func() (Provider, error) {
			config, err := NewFCMConfig()
			if err != nil {
				return nil, err
			}
			return NewFCMProvider(config), nil
		},
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.audit == nil {
		g.audit = func(entry AuditEntry) {
			logger.Infow("Push attempt",
				"id", entry.ID,
				"user_id", entry.UserID,
				"kind", entry.Kind,
				"success", entry.Success,
				"detail", entry.Detail)
		}
	}
	return g
}

// ensureReady builds the provider if needed. Safe to call before every
// operation; it is the single reinitialization point after failures.
func (g *Gateway) ensureReady() (Provider, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state == stateReady {
		return g.provider, nil
	}
	provider, err := g.newProvider()
	if err != nil {
		g.state = stateFailed
		g.lastError = err.Error()
		return nil, err
	}
	g.state = stateReady
	g.provider = provider
	g.lastError = ""
	g.logger.Infow("Push provider initialized", "provider", provider.Name())
	return provider, nil
}

func (g *Gateway) markFailed(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if errors.Is(err, ErrUnavailable) {
		g.state = stateFailed
		g.lastError = err.Error()
	}
}

// WarmUp attempts provider initialization. Callers that want the gateway
// ready ahead of time poll this; failure is not fatal since every send
// retries initialization anyway.
func (g *Gateway) WarmUp() error {
	_, err := g.ensureReady()
	return err
}

// Status reports readiness for health checks. It does not trigger
// initialization.
func (g *Gateway) Status() Status {
	g.mu.Lock()
	defer g.mu.Unlock()
	name := "fcm"
	if g.provider != nil {
		name = g.provider.Name()
	}
	return Status{Ready: g.state == stateReady, Provider: name, LastError: g.lastError}
}

func (g *Gateway) record(userID, kind string, success bool, detail string) {
	g.audit(AuditEntry{
		ID:        uuid.NewString(),
		UserID:    userID,
		Kind:      kind,
		Success:   success,
		Detail:    detail,
		Timestamp: time.Now(),
	})
}

// SendToUser delivers one payload to the user's registered device. A missing
// token fails fast without touching the provider. A token the provider
// reports as invalid or unregistered is cleared from the directory.
func (g *Gateway) SendToUser(ctx context.Context, userID string, payload Payload) bool {
	kind := payload.Data["kind"]
	if kind == "" {
		kind = "push"
	}

	token, err := g.directory.DeviceTokenFor(ctx, userID)
	if err != nil {
		g.record(userID, kind, false, "token lookup failed: "+err.Error())
		return false
	}
	if token == "" {
		g.record(userID, kind, false, "no device token")
		return false
	}

	provider, err := g.ensureReady()
	if err != nil {
		g.record(userID, kind, false, "provider unavailable: "+err.Error())
		return false
	}

	if err := provider.Send(ctx, token, payload); err != nil {
		g.markFailed(err)
		if errors.Is(err, ErrInvalidToken) || errors.Is(err, ErrNotRegistered) {
			if clearErr := g.directory.ClearDeviceToken(ctx, userID, token); clearErr != nil {
				g.logger.Warnw("Failed to clear stale token", "user_id", userID, "error", clearErr)
			}
		}
		g.record(userID, kind, false, err.Error())
		return false
	}

	g.record(userID, kind, true, "")
	return true
}

// SendToMany resolves tokens for all users and performs one multicast call.
// TotalAttempted counts users whose token resolved; with zero resolvable
// tokens the provider is not called and the report is all zeros. Every
// resolved target gets its own audit entry, and targets the provider reports
// as invalid or unregistered have their tokens cleared.
func (g *Gateway) SendToMany(ctx context.Context, userIDs []string, payload Payload) BatchReport {
	var report BatchReport

	type target struct {
		userID string
		token  string
	}
	var targets []target
	for _, userID := range userIDs {
		token, err := g.directory.DeviceTokenFor(ctx, userID)
		if err != nil || token == "" {
			g.record(userID, "multicast", false, "no device token")
			continue
		}
		targets = append(targets, target{userID: userID, token: token})
	}
	report.TotalAttempted = len(targets)
	if len(targets) == 0 {
		return report
	}

	provider, err := g.ensureReady()
	if err != nil {
		g.record("", "multicast", false, "provider unavailable: "+err.Error())
		return report
	}

	tokens := make([]string, len(targets))
	for i, tgt := range targets {
		tokens[i] = tgt.token
	}
	outcomes, err := provider.SendMulticast(ctx, tokens, payload)
	if err != nil {
		g.markFailed(err)
		g.record("", "multicast", false, err.Error())
		return report
	}
	for i, tgt := range targets {
		var sendErr error
		if i < len(outcomes) {
			sendErr = outcomes[i]
		}
		if sendErr == nil {
			report.SuccessCount++
			g.record(tgt.userID, "multicast", true, "")
			continue
		}
		if errors.Is(sendErr, ErrInvalidToken) || errors.Is(sendErr, ErrNotRegistered) {
			if clearErr := g.directory.ClearDeviceToken(ctx, tgt.userID, tgt.token); clearErr != nil {
				g.logger.Warnw("Failed to clear stale token", "user_id", tgt.userID, "error", clearErr)
			}
		}
		g.record(tgt.userID, "multicast", false, sendErr.Error())
	}
	return report
}

// SendToTopic delivers to a topic.
func (g *Gateway) SendToTopic(ctx context.Context, topic string, payload Payload) bool {
	provider, err := g.ensureReady()
	if err != nil {
		g.record("", "topic:"+topic, false, "provider unavailable: "+err.Error())
		return false
	}
	if err := provider.SendToTopic(ctx, topic, payload); err != nil {
		g.markFailed(err)
		g.record("", "topic:"+topic, false, err.Error())
		return false
	}
	g.record("", "topic:"+topic, true, "")
	return true
}

// Subscribe adds tokens to a topic.
func (g *Gateway) Subscribe(ctx context.Context, tokens []string, topic string) bool {
	provider, err := g.ensureReady()
	if err != nil {
		g.record("", "subscribe:"+topic, false, "provider unavailable: "+err.Error())
		return false
	}
	if err := provider.Subscribe(ctx, tokens, topic); err != nil {
		g.markFailed(err)
		g.record("", "subscribe:"+topic, false, err.Error())
		return false
	}
	g.record("", "subscribe:"+topic, true, "")
	return true
}

// Unsubscribe removes tokens from a topic.
func (g *Gateway) Unsubscribe(ctx context.Context, tokens []string, topic string) bool {
	provider, err := g.ensureReady()
	if err != nil {
		g.record("", "unsubscribe:"+topic, false, "provider unavailable: "+err.Error())
		return false
	}
	if err := provider.Unsubscribe(ctx, tokens, topic); err != nil {
		g.markFailed(err)
		g.record("", "unsubscribe:"+topic, false, err.Error())
		return false
	}
	g.record("", "unsubscribe:"+topic, true, "")
	return true
}
