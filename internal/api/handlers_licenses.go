package api

import (
	"github.com/gin-gonic/gin"
)

func (s *Server) handleListLicenses(c *gin.Context) {
	s.seedIfEnabled("licenses", s.registry.Licenses.EnsureSeed)

	cursor, limit := listQuery(c)
	ok(c, s.registry.Licenses.List(cursor, limit))
}

func (s *Server) handleCreateLicense(c *gin.Context) {
	var req struct {
		ProductID string         `json:"productId"`
		ExpiresAt *int64         `json:"expiresAt"`
		Metadata  map[string]any `json:"metadata"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.ProductID == "" {
		bad(c, "productId is required")
		return
	}

	license, err := s.registry.Licenses.Create(req.ProductID, req.ExpiresAt, req.Metadata)
	if err != nil {
		respondStoreError(c, err, "license not found")
		return
	}

	s.eventBus.PublishEntityCreated("licenses", license.ID)
	ok(c, license)
}

func (s *Server) handleRevokeLicense(c *gin.Context) {
	id := c.Param("id")

	license, err := s.registry.Licenses.Revoke(id)
	if err != nil {
		respondStoreError(c, err, "license not found")
		return
	}

	s.eventBus.PublishLicenseRevoked(id)
	ok(c, license)
}

func (s *Server) handleDeleteLicense(c *gin.Context) {
	id := c.Param("id")
	deleted := s.registry.Licenses.Delete(id)
	if deleted {
		s.eventBus.PublishEntityDeleted("licenses", []string{id}, 1)
	}
	ok(c, gin.H{"id": id, "deleted": deleted})
}

func (s *Server) handleDeleteManyLicenses(c *gin.Context) {
	var req deleteManyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bad(c, "ids array is required")
		return
	}
	ids := req.validIDs()
	if len(ids) == 0 {
		bad(c, "ids array is required")
		return
	}

	count := s.registry.Licenses.DeleteMany(ids)
	if count > 0 {
		s.eventBus.PublishEntityDeleted("licenses", ids, count)
	}
	ok(c, gin.H{"deletedCount": count, "ids": ids})
}
