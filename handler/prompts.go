package handler

import (
	"fmt"

	"github.com/miyamo2/amap-flomo-mcp/internal/mcp"
)

func (h *Handler) WeatherReport(c mcp.PromptContext) error {
	city := c.Param("city")
	c.User(fmt.Sprintf("Use the get_weather tool with forecast enabled for %s, "+
		"then summarise today's conditions and the coming days in a short report.", city))
	return nil
}

func (h *Handler) NoteWeather(c mcp.PromptContext) error {
	city := c.Param("city")
	c.User(fmt.Sprintf("Use the get_weather tool for %s. "+
		"Then call write_note with a one-line summary of the weather and the tags weather and %s.", city, city))
	return nil
}
