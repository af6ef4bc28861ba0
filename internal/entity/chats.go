package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"severkey-server/internal/store"
)

// Chats is the chat board collection. Each board owns its message sequence;
// messages are append-only and kept in send order, which the bounded board
// size makes cheap to return whole (no message pagination).
type Chats struct {
	col *store.Collection[Chat]
}

func NewChats(opts store.Options) *Chats {
	return &Chats{col: store.NewCollection[Chat]("chats", opts)}
}

// EnsureSeed populates an empty collection with the starter board.
func (s *Chats) EnsureSeed() (int, error) {
	return s.col.EnsureSeed(seedChats)
}

// Create inserts an empty board with a generated id.
func (s *Chats) Create(title string) (Chat, error) {
	c := Chat{ID: uuid.New().String(), Title: strings.TrimSpace(title), Messages: []ChatMessage{}}
	return s.col.Create(c)
}

// SendMessage appends a message to the board. Fails with store.ErrNotFound
// when the chat is absent.
func (s *Chats) SendMessage(chatID, userID, text string) (ChatMessage, error) {
	msg := ChatMessage{
		ID:     uuid.New().String(),
		ChatID: chatID,
		UserID: userID,
		Text:   strings.TrimSpace(text),
		Ts:     time.Now().UnixMilli(),
	}

	_, err := s.col.Update(chatID, func(c Chat) Chat {
		c.Messages = append(c.Messages, msg)
		return c
	})
	if err != nil {
		return ChatMessage{}, err
	}
	return msg, nil
}

// ListMessages returns the board's full ordered message sequence.
func (s *Chats) ListMessages(chatID string) ([]ChatMessage, error) {
	c, err := s.col.Get(chatID)
	if err != nil {
		return nil, err
	}
	if c.Messages == nil {
		return []ChatMessage{}, nil
	}
	return c.Messages, nil
}

func (s *Chats) Get(id string) (Chat, error) { return s.col.Get(id) }
func (s *Chats) Exists(id string) bool { return s.col.Exists(id) }
func (s *Chats) Delete(id string) bool { return s.col.Delete(id) }
func (s *Chats) DeleteMany(ids []string) int { return s.col.DeleteMany(ids) }
func (s *Chats) List(cursor string, limit int) store.Page[Chat] { return s.col.List(cursor, limit) }

// Collection exposes the underlying store for restore wiring.
func (s *Chats) Collection() *store.Collection[Chat] { return s.col }
