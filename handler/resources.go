package handler

import (
	"fmt"

	"github.com/miyamo2/amap-flomo-mcp/internal/mcp"
)

func (h *Handler) GetCity(c mcp.ResourceContext) error {
	code := c.Param("code")
	loc, err := h.division.GetByCode(c.Context(), code)
	if err != nil {
		return err
	}
	if loc == nil {
		return fmt.Errorf("adcode %s: %w", code, mcp.ErrResourceNotFound)
	}
	return c.JSON(cityOf(*loc))
}

// ResourceList publishes the divisions an empty search returns.
func (h *Handler) ResourceList(c mcp.ResourceListContext) error {
	locations, err := h.division.Search(c.Context(), "")
	if err != nil {
		return err
	}
	for _, loc := range locations {
		c.SetResource(cityURI(loc.Code), mcp.Resource{
			Name:        loc.Name,
			Description: fmt.Sprintf("Administrative division %s", loc.Code),
			MimeType:    "application/json",
		})
	}
	return nil
}
