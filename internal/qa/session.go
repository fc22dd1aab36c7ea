package qa

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"shopqa/internal/model"
)

const (
	sessionTTL   = 30 * time.Minute
	historyLimit = 6
)

// SessionStore keeps short multi-turn chat history in Redis so follow-up
// questions ("is it worth it?") can resolve against the products in view.
type SessionStore struct {
	Client *redis.Client
}

func (s *SessionStore) Get(ctx context.Context, sessionID string) []model.ChatMessage {
	val, err := s.Client.Get(ctx, sessionID).Result()
	if err != nil {
		return nil
	}

	var msgs []model.ChatMessage
	json.Unmarshal([]byte(val), &msgs)
	return msgs
}

func (s *SessionStore) Append(ctx context.Context, sessionID string, msg model.ChatMessage) error {
	history := s.Get(ctx, sessionID)
	history = append(history, msg)

	if len(history) > historyLimit {
		history = history[len(history)-historyLimit:]
	}

	b, _ := json.Marshal(history)
	return s.Client.Set(ctx, sessionID, b, sessionTTL).Err()
}
