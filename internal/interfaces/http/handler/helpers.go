package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/xpro/backend/internal/domain/shared"
	"github.com/xpro/backend/internal/interfaces/http/dto"
)

// bindFilter binds common list query parameters into a domain filter,
// applying defaults for anything the client omitted
func bindFilter(c *gin.Context) (shared.Filter, error) {
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		return shared.Filter{}, err
	}
	return shared.Filter{
		Page:     req.Page,
		PageSize: req.PageSize,
		OrderBy:  req.OrderBy,
		OrderDir: req.OrderDir,
		Search:   req.Search,
	}, nil
}

// parseUUIDParam parses a UUID path parameter
func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// parseUUIDQuery parses a UUID query parameter
func parseUUIDQuery(c *gin.Context, name string) (uuid.UUID, error) {
	return uuid.Parse(c.Query(name))
}
