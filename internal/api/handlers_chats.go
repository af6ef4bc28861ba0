package api

import (
	"strings"

	"github.com/gin-gonic/gin"

	"severkey-server/internal/entity"
)

func (s *Server) handleListChats(c *gin.Context) {
	s.seedIfEnabled("chats", s.registry.Chats.EnsureSeed)

	cursor, limit := listQuery(c)
	ok(c, s.registry.Chats.List(cursor, limit))
}

func (s *Server) handleCreateChat(c *gin.Context) {
	var req struct {
		Title string `json:"title"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Title) == "" {
		bad(c, "title required")
		return
	}

	chat, err := s.registry.Chats.Create(req.Title)
	if err != nil {
		respondStoreError(c, err, "chat not found")
		return
	}

	s.eventBus.PublishEntityCreated("chats", chat.ID)
	ok(c, entity.ChatSummary{ID: chat.ID, Title: chat.Title})
}

func (s *Server) handleListMessages(c *gin.Context) {
	chatID := c.Param("id")
	if !s.registry.Chats.Exists(chatID) {
		notFound(c, "chat not found")
		return
	}

	messages, err := s.registry.Chats.ListMessages(chatID)
	if err != nil {
		respondStoreError(c, err, "chat not found")
		return
	}
	ok(c, messages)
}

func (s *Server) handleSendMessage(c *gin.Context) {
	chatID := c.Param("id")

	var req struct {
		UserID string `json:"userId"`
		Text   string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == "" || strings.TrimSpace(req.Text) == "" {
		bad(c, "userId and text required")
		return
	}

	if !s.registry.Chats.Exists(chatID) {
		notFound(c, "chat not found")
		return
	}

	msg, err := s.registry.Chats.SendMessage(chatID, req.UserID, req.Text)
	if err != nil {
		respondStoreError(c, err, "chat not found")
		return
	}

	s.eventBus.PublishMessageSent(chatID, msg.ID, msg.UserID)
	ok(c, msg)
}

func (s *Server) handleDeleteChat(c *gin.Context) {
	id := c.Param("id")
	deleted := s.registry.Chats.Delete(id)
	if deleted {
		s.eventBus.PublishEntityDeleted("chats", []string{id}, 1)
	}
	ok(c, gin.H{"id": id, "deleted": deleted})
}

func (s *Server) handleDeleteManyChats(c *gin.Context) {
	var req deleteManyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bad(c, "ids required")
		return
	}
	ids := req.validIDs()
	if len(ids) == 0 {
		bad(c, "ids required")
		return
	}

	count := s.registry.Chats.DeleteMany(ids)
	if count > 0 {
		s.eventBus.PublishEntityDeleted("chats", ids, count)
	}
	ok(c, gin.H{"deletedCount": count, "ids": ids})
}
