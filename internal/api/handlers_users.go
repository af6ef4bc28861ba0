package api

import (
	"strings"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleListUsers(c *gin.Context) {
	s.seedIfEnabled("users", s.registry.Users.EnsureSeed)

	cursor, limit := listQuery(c)
	ok(c, s.registry.Users.List(cursor, limit))
}

func (s *Server) handleCreateUser(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		bad(c, "name required")
		return
	}

	user, err := s.registry.Users.Create(req.Name)
	if err != nil {
		respondStoreError(c, err, "user not found")
		return
	}

	s.eventBus.PublishEntityCreated("users", user.ID)
	ok(c, user)
}

func (s *Server) handleDeleteUser(c *gin.Context) {
	id := c.Param("id")
	deleted := s.registry.Users.Delete(id)
	if deleted {
		s.eventBus.PublishEntityDeleted("users", []string{id}, 1)
	}
	ok(c, gin.H{"id": id, "deleted": deleted})
}

func (s *Server) handleDeleteManyUsers(c *gin.Context) {
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

	count := s.registry.Users.DeleteMany(ids)
	if count > 0 {
		s.eventBus.PublishEntityDeleted("users", ids, count)
	}
	ok(c, gin.H{"deletedCount": count, "ids": ids})
}
