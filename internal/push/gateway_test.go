package push

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.uber.org/zap"
)

type fakeDirectory struct {
	mu      sync.Mutex
	tokens  map[string]string
	cleared []string
}

func newFakeDirectory(tokens map[string]string) *fakeDirectory {
	return &fakeDirectory{tokens: tokens}
}

func (d *fakeDirectory) DeviceTokenFor(ctx context.Context, userID string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.tokens[userID], nil
}

func (d *fakeDirectory) ClearDeviceToken(ctx context.Context, userID, token string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.tokens[userID] == token {
		d.tokens[userID] = ""
		d.cleared = append(d.cleared, userID)
	}
	return nil
}

type fakeProvider struct {
	sendErr   error
	multiErrs []error
	sendCalls int
	multiSent int
}

func (p *fakeProvider) Send(ctx context.Context, token string, payload Payload) error {
	p.sendCalls++
	return p.sendErr
}

func (p *fakeProvider) SendMulticast(ctx context.Context, tokens []string, payload Payload) ([]error, error) {
	p.sendCalls++
	p.multiSent = len(tokens)
	if p.sendErr != nil {
		return nil, p.sendErr
	}
	outcomes := make([]error, len(tokens))
	copy(outcomes, p.multiErrs)
	return outcomes, nil
}

func (p *fakeProvider) SendToTopic(ctx context.Context, topic string, payload Payload) error {
	p.sendCalls++
	return p.sendErr
}

func (p *fakeProvider) Subscribe(ctx context.Context, tokens []string, topic string) error {
	return p.sendErr
}

func (p *fakeProvider) Unsubscribe(ctx context.Context, tokens []string, topic string) error {
	return p.sendErr
}

func (p *fakeProvider) Name() string { return "fake" }

func newTestGateway(directory TokenDirectory, provider Provider, audit AuditFunc) *Gateway {
	opts := []Option{
		WithProviderFactory(func() (Provider, error) { return provider, nil }),
	}
	if audit != nil {
		opts = append(opts, WithAudit(audit))
	}
	return NewGateway(directory, zap.NewNop().Sugar(), opts...)
}

func TestSendToUserNoTokenFailsFast(t *testing.T) {
	provider := &fakeProvider{}
	gw := newTestGateway(newFakeDirectory(map[string]string{}), provider, nil)

	if gw.SendToUser(context.Background(), "u1", Payload{Title: "t"}) {
		t.Error("expected failure for user without token")
	}
	if provider.sendCalls != 0 {
		t.Errorf("provider calls = %d, want 0", provider.sendCalls)
	}
}

func TestSendToUserSuccess(t *testing.T) {
	provider := &fakeProvider{}
	var entries []AuditEntry
	gw := newTestGateway(
		newFakeDirectory(map[string]string{"u1": "tok-1"}),
		provider,
		func(e AuditEntry) { entries = append(entries, e) })

	if !gw.SendToUser(context.Background(), "u1", Payload{Title: "t", Data: map[string]string{"kind": "next_period"}}) {
		t.Fatal("expected delivery to succeed")
	}
	if provider.sendCalls != 1 {
		t.Errorf("provider calls = %d, want 1", provider.sendCalls)
	}
	if len(entries) != 1 || !entries[0].Success || entries[0].Kind != "next_period" {
		t.Errorf("audit entries = %+v, want one successful next_period entry", entries)
	}
}

func TestSendToUserInvalidTokenSelfHeals(t *testing.T) {
	provider := &fakeProvider{sendErr: ErrNotRegistered}
	directory := newFakeDirectory(map[string]string{"u1": "stale"})
	gw := newTestGateway(directory, provider, nil)

	if gw.SendToUser(context.Background(), "u1", Payload{Title: "t"}) {
		t.Error("expected failure for unregistered token")
	}
	if len(directory.cleared) != 1 || directory.cleared[0] != "u1" {
		t.Errorf("cleared = %v, want [u1]", directory.cleared)
	}
}

func TestSendToUserTransientErrorKeepsToken(t *testing.T) {
	provider := &fakeProvider{sendErr: errors.New("fcm error: InternalServerError")}
	directory := newFakeDirectory(map[string]string{"u1": "tok-1"})
	gw := newTestGateway(directory, provider, nil)

	if gw.SendToUser(context.Background(), "u1", Payload{Title: "t"}) {
		t.Error("expected failure on transient error")
	}
	if len(directory.cleared) != 0 {
		t.Errorf("cleared = %v, want none on transient error", directory.cleared)
	}
}

func TestSendToManyZeroTokensSkipsProvider(t *testing.T) {
	provider := &fakeProvider{}
	gw := newTestGateway(newFakeDirectory(map[string]string{"u1": "", "u2": ""}), provider, nil)

	report := gw.SendToMany(context.Background(), []string{"u1", "u2"}, Payload{Title: "t"})
	if report.SuccessCount != 0 || report.TotalAttempted != 0 {
		t.Errorf("report = %+v, want all zeros", report)
	}
	if provider.sendCalls != 0 {
		t.Errorf("provider calls = %d, want 0", provider.sendCalls)
	}
}

func TestSendToManyAggregates(t *testing.T) {
	provider := &fakeProvider{}
	gw := newTestGateway(newFakeDirectory(map[string]string{"u1": "t1", "u2": "", "u3": "t3"}), provider, nil)

	report := gw.SendToMany(context.Background(), []string{"u1", "u2", "u3"}, Payload{Title: "t"})
	if report.TotalAttempted != 2 || report.SuccessCount != 2 {
		t.Errorf("report = %+v, want 2/2", report)
	}
	if provider.sendCalls != 1 {
		t.Errorf("provider calls = %d, want one multicast call", provider.sendCalls)
	}
}

func TestSendToManyAuditsEachFailedTarget(t *testing.T) {
	provider := &fakeProvider{multiErrs: []error{nil, ErrNotRegistered}}
	directory := newFakeDirectory(map[string]string{"u1": "t1", "u2": "stale"})
	var entries []AuditEntry
	gw := newTestGateway(directory, provider,
		func(e AuditEntry) { entries = append(entries, e) })

	report := gw.SendToMany(context.Background(), []string{"u1", "u2"}, Payload{Title: "t"})

	if report.TotalAttempted != 2 || report.SuccessCount != 1 {
		t.Errorf("report = %+v, want 1 of 2", report)
	}
	if len(entries) != 2 {
		t.Fatalf("audit entries = %d, want one per target", len(entries))
	}
	if entries[0].UserID != "u1" || !entries[0].Success {
		t.Errorf("entry 0 = %+v, want success for u1", entries[0])
	}
	if entries[1].UserID != "u2" || entries[1].Success {
		t.Errorf("entry 1 = %+v, want failure for u2", entries[1])
	}
	if len(directory.cleared) != 1 || directory.cleared[0] != "u2" {
		t.Errorf("cleared = %v, want [u2]", directory.cleared)
	}
}

func TestGatewayNotReadyUntilFactorySucceeds(t *testing.T) {
	attempts := 0
	provider := &fakeProvider{}
	gw := NewGateway(newFakeDirectory(map[string]string{"u1": "tok-1"}), zap.NewNop().Sugar(),
		WithProviderFactory(func() (Provider, error) {
			attempts++
			if attempts == 1 {
				return nil, errors.New("missing server key")
			}
			return provider, nil
		}),
		WithAudit(func(AuditEntry) {}))

	// First send hits the failed factory and fails closed.
	if gw.SendToUser(context.Background(), "u1", Payload{Title: "t"}) {
		t.Error("expected failure while provider unavailable")
	}
	if status := gw.Status(); status.Ready {
		t.Error("gateway should not be ready after factory failure")
	}

	// The next call retries initialization and succeeds.
	if !gw.SendToUser(context.Background(), "u1", Payload{Title: "t"}) {
		t.Error("expected success after factory recovery")
	}
	if status := gw.Status(); !status.Ready {
		t.Error("gateway should be ready after successful init")
	}
	if attempts != 2 {
		t.Errorf("factory attempts = %d, want 2", attempts)
	}
}

func TestTopicOperations(t *testing.T) {
	provider := &fakeProvider{}
	gw := newTestGateway(newFakeDirectory(nil), provider, nil)
	ctx := context.Background()

	if !gw.SendToTopic(ctx, "health-tips", Payload{Title: "t"}) {
		t.Error("SendToTopic should succeed")
	}
	if !gw.Subscribe(ctx, []string{"t1"}, "health-tips") {
		t.Error("Subscribe should succeed")
	}
	if !gw.Unsubscribe(ctx, []string{"t1"}, "health-tips") {
		t.Error("Unsubscribe should succeed")
	}
}
