package push

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"
)

// Provider failure classification. Invalid and unregistered tokens are
// expected conditions that trigger token cleanup; everything else is treated
// as transient.
var (
	ErrInvalidToken  = errors.New("invalid device token")
	ErrNotRegistered = errors.New("device token not registered")
	ErrUnavailable   = errors.New("push provider unavailable")
)

// Provider is the push delivery backend. SendMulticast returns one outcome
// per input token, in order; a nil entry means that token was delivered.
type Provider interface {
	Send(ctx context.Context, token string, payload Payload) error
	SendMulticast(ctx context.Context, tokens []string, payload Payload) ([]error, error)
	SendToTopic(ctx context.Context, topic string, payload Payload) error
	Subscribe(ctx context.Context, tokens []string, topic string) error
	Unsubscribe(ctx context.Context, tokens []string, topic string) error
	Name() string
}

type FCMConfig struct {
	ServerKey string
	SendURL   string
	TopicURL  string
}

func NewFCMConfig() (*FCMConfig, error) {
	serverKey := os.Getenv("FCM_SERVER_KEY")
	if serverKey == "" {
		return nil, fmt.Errorf("FCM_SERVER_KEY not set")
	}
	sendURL := os.Getenv("FCM_SEND_URL")
	if sendURL == "" {
		sendURL = "https://fcm.googleapis.com/fcm/send"
	}
	topicURL := os.Getenv("FCM_TOPIC_URL")
	if topicURL == "" {
		topicURL = "https://iid.googleapis.com/iid/v1"
	}
	return &FCMConfig{ServerKey: serverKey, SendURL: sendURL, TopicURL: topicURL}, nil
}

// FCMProvider talks to Firebase Cloud Messaging over its HTTP API.
type FCMProvider struct {
	config *FCMConfig
	client *http.Client
}

func NewFCMProvider(config *FCMConfig) *FCMProvider {
	return &FCMProvider{
		config: config,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (p *FCMProvider) Name() string { return "fcm" }

type fcmNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type fcmMessage struct {
	To              string            `json:"to,omitempty"`
	RegistrationIDs []string          `json:"registration_ids,omitempty"`
	Notification    fcmNotification   `json:"notification"`
	Data            map[string]string `json:"data,omitempty"`
}

type fcmResult struct {
	Error string `json:"error"`
}

type fcmResponse struct {
	Success int         `json:"success"`
	Failure int         `json:"failure"`
	Results []fcmResult `json:"results"`
}

func classifyResultError(code string) error {
	switch code {
	case "InvalidRegistration", "MissingRegistration":
		return ErrInvalidToken
	case "NotRegistered":
		return ErrNotRegistered
	case "":
		return nil
	default:
		return fmt.Errorf("fcm error: %s", code)
	}
}

func (p *FCMProvider) post(ctx context.Context, url string, body interface{}) (*http.Response, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal push payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "key="+p.config.ServerKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return resp, nil
}

func (p *FCMProvider) sendMessage(ctx context.Context, msg fcmMessage) (*fcmResponse, error) {
	resp, err := p.post(ctx, p.config.SendURL, msg)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("fcm rejected request, status %d", resp.StatusCode)
	}

	var parsed fcmResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode fcm response: %w", err)
	}
	return &parsed, nil
}

// Send delivers to a single device token.
func (p *FCMProvider) Send(ctx context.Context, token string, payload Payload) error {
	parsed, err := p.sendMessage(ctx, fcmMessage{
		To:           token,
		Notification: fcmNotification{Title: payload.Title, Body: payload.Body},
		Data:         payload.Data,
	})
	if err != nil {
		return err
	}
	if len(parsed.Results) > 0 {
		return classifyResultError(parsed.Results[0].Error)
	}
	if parsed.Failure > 0 {
		return fmt.Errorf("fcm reported %d failures", parsed.Failure)
	}
	return nil
}

// SendMulticast delivers one message to many tokens. The FCM results array
// is positional, matching the registration_ids order, so each outcome maps
// back to its input token.
func (p *FCMProvider) SendMulticast(ctx context.Context, tokens []string, payload Payload) ([]error, error) {
	parsed, err := p.sendMessage(ctx, fcmMessage{
		RegistrationIDs: tokens,
		Notification:    fcmNotification{Title: payload.Title, Body: payload.Body},
		Data:            payload.Data,
	})
	if err != nil {
		return nil, err
	}
	outcomes := make([]error, len(tokens))
	for i := range outcomes {
		if i < len(parsed.Results) {
			outcomes[i] = classifyResultError(parsed.Results[i].Error)
		}
	}
	return outcomes, nil
}

// SendToTopic delivers to every device subscribed to the topic.
func (p *FCMProvider) SendToTopic(ctx context.Context, topic string, payload Payload) error {
	_, err := p.sendMessage(ctx, fcmMessage{
		To:           "/topics/" + topic,
		Notification: fcmNotification{Title: payload.Title, Body: payload.Body},
		Data:         payload.Data,
	})
	return err
}

type topicRequest struct {
	To                 string   `json:"to"`
	RegistrationTokens []string `json:"registration_tokens"`
}

func (p *FCMProvider) manageTopic(ctx context.Context, action string, tokens []string, topic string) error {
	resp, err := p.post(ctx, p.config.TopicURL+":"+action, topicRequest{
		To:                 "/topics/" + topic,
		RegistrationTokens: tokens,
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("fcm topic %s failed, status %d", action, resp.StatusCode)
	}
	return nil
}

func (p *FCMProvider) Subscribe(ctx context.Context, tokens []string, topic string) error {
	return p.manageTopic(ctx, "batchAdd", tokens, topic)
}

func (p *FCMProvider) Unsubscribe(ctx context.Context, tokens []string, topic string) error {
	return p.manageTopic(ctx, "batchRemove", tokens, topic)
}
