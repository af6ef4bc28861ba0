package api

import (
	"strings"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleListProducts(c *gin.Context) {
	s.seedIfEnabled("products", s.registry.Products.EnsureSeed)

	cursor, limit := listQuery(c)
	ok(c, s.registry.Products.List(cursor, limit))
}

func (s *Server) handleCreateProduct(c *gin.Context) {
	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		Price       *int64  `json:"price"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		bad(c, "name, description, and price are required")
		return
	}
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" ||
		req.Description == nil || req.Price == nil {
		bad(c, "name, description, and price are required")
		return
	}
	if *req.Price < 0 {
		bad(c, "price must not be negative")
		return
	}

	product, err := s.registry.Products.Create(*req.Name, *req.Description, *req.Price)
	if err != nil {
		respondStoreError(c, err, "product not found")
		return
	}

	s.eventBus.PublishEntityCreated("products", product.ID)
	ok(c, product)
}

func (s *Server) handleDeleteProduct(c *gin.Context) {
	id := c.Param("id")
	deleted := s.registry.Products.Delete(id)
	if deleted {
		s.eventBus.PublishEntityDeleted("products", []string{id}, 1)
	}
	ok(c, gin.H{"id": id, "deleted": deleted})
}

func (s *Server) handleDeleteManyProducts(c *gin.Context) {
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

	count := s.registry.Products.DeleteMany(ids)
	if count > 0 {
		s.eventBus.PublishEntityDeleted("products", ids, count)
	}
	ok(c, gin.H{"deletedCount": count, "ids": ids})
}
