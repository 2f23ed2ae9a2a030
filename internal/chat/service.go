package chat

import (
	"context"
	"errors"
	"time"

	"CareBridge/internal/auth"
	"CareBridge/internal/push"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Service struct {
	repo     *Repository
	userRepo *auth.UserRepository
	gateway  *push.Gateway
}

func NewService(repo *Repository, userRepo *auth.UserRepository, gateway *push.Gateway) *Service {
	return &Service{repo: repo, userRepo: userRepo, gateway: gateway}
}

// Send stores a message and pushes a notification to the recipient. The push
// is best effort.
func (s *Service) Send(ctx context.Context, senderID string, req SendMessageRequest) (*Message, error) {
	if req.RecipientID == "" || req.Body == "" {
		return nil, errors.New("recipient_id and body are required")
	}
	if req.RecipientID == senderID {
		return nil, errors.New("cannot message yourself")
	}
	recipient, err := s.userRepo.FindByID(ctx, req.RecipientID)
	if err != nil {
		return nil, err
	}
	if recipient == nil {
		return nil, errors.New("recipient not found")
	}
	sender, err := s.userRepo.FindByID(ctx, senderID)
	if err != nil {
		return nil, err
	}
	if sender == nil {
		return nil, errors.New("sender not found")
	}

	msg := &Message{
		ID:          primitive.NewObjectID(),
		SenderID:    senderID,
		RecipientID: req.RecipientID,
		Body:        req.Body,
		SentAt:      time.Now(),
	}
	if err := s.repo.Insert(ctx, msg); err != nil {
		return nil, err
	}

	s.gateway.SendToUser(ctx, req.RecipientID, push.Payload{
		Title: "Message from " + sender.Name,
		Body:  req.Body,
		Data:  map[string]string{"screen": "chat", "sender_id": senderID},
	})
	return msg, nil
}

// Conversation lists messages with the peer and marks the peer's messages
// read.
func (s *Service) Conversation(ctx context.Context, readerID, peerID string) ([]*Message, error) {
	messages, err := s.repo.Conversation(ctx, readerID, peerID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.MarkRead(ctx, readerID, peerID); err != nil {
		return nil, err
	}
	return messages, nil
}
