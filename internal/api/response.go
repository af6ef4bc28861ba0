package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"severkey-server/internal/store"
)

// Canonical response envelopes: every success is {success:true, data},
// every failure {success:false, error}.

type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func ok(c *gin.Context, data any) {
	c.JSON(http.StatusOK, envelope{Success: true, Data: data})
}

func bad(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, envelope{Success: false, Error: msg})
}

func notFound(c *gin.Context, msg string) {
	c.JSON(http.StatusNotFound, envelope{Success: false, Error: msg})
}

func conflict(c *gin.Context, msg string) {
	c.JSON(http.StatusConflict, envelope{Success: false, Error: msg})
}

func internalError(c *gin.Context, msg string) {
	c.JSON(http.StatusInternalServerError, envelope{Success: false, Error: msg})
}

// respondStoreError maps store errors onto the envelope taxonomy. Corrupt
// records are surfaced as 500s so operators can tell integrity problems
// apart from routine misses.
func respondStoreError(c *gin.Context, err error, missing string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		notFound(c, missing)
	case errors.Is(err, store.ErrDuplicateID):
		conflict(c, err.Error())
	case errors.Is(err, store.ErrCorruptRecord):
		internalError(c, "stored record is corrupt")
	default:
		internalError(c, err.Error())
	}
}
