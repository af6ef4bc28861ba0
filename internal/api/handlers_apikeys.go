package api

import (
	"github.com/gin-gonic/gin"
)

func (s *Server) handleListAPIKeys(c *gin.Context) {
	ok(c, s.apiKeys.List())
}

func (s *Server) handleCreateAPIKey(c *gin.Context) {
	key := s.apiKeys.Mint(c.Request.Context())
	s.eventBus.PublishAPIKeyMinted(key.ID)
	ok(c, key)
}
