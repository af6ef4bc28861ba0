package entity

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"severkey-server/internal/store"
)

func newChats(t *testing.T) *Chats {
	t.Helper()
	return NewChats(store.Options{Logger: zerolog.Nop()})
}

func TestChatCreateAndListMessages(t *testing.T) {
	s := newChats(t)

	chat, err := s.Create("  Support  ")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if chat.Title != "Support" {
		t.Errorf("title = %q, want trimmed", chat.Title)
	}

	messages, err := s.ListMessages(chat.ID)
	if err != nil {
		t.Fatalf("ListMessages failed: %v", err)
	}
	if len(messages) != 0 {
		t.Errorf("new chat has %d messages, want 0", len(messages))
	}
}

func TestSendMessageOrdering(t *testing.T) {
	s := newChats(t)
	chat, _ := s.Create("General")

	texts := []string{"first", "second", "third"}
	for _, text := range texts {
		msg, err := s.SendMessage(chat.ID, "u1", text)
		if err != nil {
			t.Fatalf("SendMessage(%q) failed: %v", text, err)
		}
		if msg.ChatID != chat.ID || msg.UserID != "u1" || msg.ID == "" {
			t.Errorf("message fields wrong: %+v", msg)
		}
	}

	messages, err := s.ListMessages(chat.ID)
	if err != nil {
		t.Fatalf("ListMessages failed: %v", err)
	}
	if len(messages) != 3 {
		t.Fatalf("got %d messages, want 3", len(messages))
	}
	for i, msg := range messages {
		if msg.Text != texts[i] {
			t.Errorf("position %d = %q, want %q (send order)", i, msg.Text, texts[i])
		}
		if i > 0 && messages[i].Ts < messages[i-1].Ts {
			t.Errorf("timestamps out of order at %d", i)
		}
	}
}

func TestSendMessageChatNotFound(t *testing.T) {
	s := newChats(t)

	if _, err := s.SendMessage("missing", "u1", "hi"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("SendMessage to missing chat: got %v, want ErrNotFound", err)
	}
	if _, err := s.ListMessages("missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("ListMessages of missing chat: got %v, want ErrNotFound", err)
	}
}

func TestChatSeed(t *testing.T) {
	s := newChats(t)
	n, err := s.EnsureSeed()
	if err != nil || n != 1 {
		t.Fatalf("EnsureSeed: n=%d err=%v, want one board", n, err)
	}

	messages, err := s.ListMessages("c1")
	if err != nil {
		t.Fatalf("ListMessages of seeded board failed: %v", err)
	}
	if len(messages) != 1 || messages[0].UserID != "u1" {
		t.Errorf("seeded messages = %+v", messages)
	}
}
