package push

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newFCMTestServer(t *testing.T, handler http.HandlerFunc) (*FCMProvider, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	provider := NewFCMProvider(&FCMConfig{
		ServerKey: "test-key",
		SendURL:   server.URL,
		TopicURL:  server.URL,
	})
	return provider, server
}

func TestFCMSendSuccess(t *testing.T) {
	provider, _ := newFCMTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "key=test-key" {
			t.Errorf("authorization = %q, want key=test-key", got)
		}
		var msg fcmMessage
		json.NewDecoder(r.Body).Decode(&msg)
		if msg.To != "tok-1" {
			t.Errorf("to = %q, want tok-1", msg.To)
		}
		json.NewEncoder(w).Encode(fcmResponse{Success: 1, Results: []fcmResult{{}}})
	})

	err := provider.Send(context.Background(), "tok-1", Payload{Title: "t", Body: "b"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFCMSendClassifiesNotRegistered(t *testing.T) {
	provider, _ := newFCMTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(fcmResponse{Failure: 1, Results: []fcmResult{{Error: "NotRegistered"}}})
	})

	err := provider.Send(context.Background(), "stale", Payload{Title: "t"})
	if !errors.Is(err, ErrNotRegistered) {
		t.Errorf("err = %v, want ErrNotRegistered", err)
	}
}

func TestFCMSendClassifiesInvalidRegistration(t *testing.T) {
	provider, _ := newFCMTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(fcmResponse{Failure: 1, Results: []fcmResult{{Error: "InvalidRegistration"}}})
	})

	err := provider.Send(context.Background(), "bad", Payload{Title: "t"})
	if !errors.Is(err, ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestFCMServerErrorIsUnavailable(t *testing.T) {
	provider, _ := newFCMTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	err := provider.Send(context.Background(), "tok-1", Payload{Title: "t"})
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
}

func TestFCMMulticastReportsPerTokenOutcomes(t *testing.T) {
	provider, _ := newFCMTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		var msg fcmMessage
		json.NewDecoder(r.Body).Decode(&msg)
		if len(msg.RegistrationIDs) != 3 {
			t.Errorf("registration ids = %d, want 3", len(msg.RegistrationIDs))
		}
		json.NewEncoder(w).Encode(fcmResponse{
			Success: 2,
			Failure: 1,
			Results: []fcmResult{{}, {Error: "NotRegistered"}, {}},
		})
	})

	outcomes, err := provider.SendMulticast(context.Background(), []string{"a", "b", "c"}, Payload{Title: "t"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(outcomes) != 3 {
		t.Fatalf("outcomes = %d, want one per token", len(outcomes))
	}
	if outcomes[0] != nil || outcomes[2] != nil {
		t.Errorf("outcomes = %v, want tokens a and c delivered", outcomes)
	}
	if !errors.Is(outcomes[1], ErrNotRegistered) {
		t.Errorf("outcomes[1] = %v, want ErrNotRegistered", outcomes[1])
	}
}

func TestFCMTopicSend(t *testing.T) {
	provider, _ := newFCMTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		var msg fcmMessage
		json.NewDecoder(r.Body).Decode(&msg)
		if msg.To != "/topics/health-tips" {
			t.Errorf("to = %q, want /topics/health-tips", msg.To)
		}
		json.NewEncoder(w).Encode(fcmResponse{Success: 1})
	})

	if err := provider.SendToTopic(context.Background(), "health-tips", Payload{Title: "t"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
