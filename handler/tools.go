package handler

import (
	"context"
	"fmt"
	"strings"

	"github.com/miyamo2/amap-flomo-mcp/domain/model"
	"github.com/miyamo2/amap-flomo-mcp/internal/mcp"
)

// WriteNoteRequest contains input parameters for the write_note tool.
type WriteNoteRequest struct {
	Content string   `json:"content" jsonschema:"required,description=Memo text"`
	Tags    []string `json:"tags,omitempty" jsonschema:"description=Tags appended as #tag"`
}

// GetWeatherRequest contains input parameters for the get_weather tool.
type GetWeatherRequest struct {
	City     string `json:"city" jsonschema:"required,description=City name or 6-digit adcode"`
	Forecast bool   `json:"forecast,omitempty" jsonschema:"description=Include the daily forecast"`
}

// GeocodeRequest contains input parameters for the geocode tool.
type GeocodeRequest struct {
	Address string `json:"address" jsonschema:"required,description=Structured address"`
	City    string `json:"city,omitempty" jsonschema:"description=City name or adcode narrowing the search"`
}

// SearchCityRequest contains input parameters for the search_city tool.
type SearchCityRequest struct {
	Keyword string `json:"keyword" jsonschema:"description=Part of a division name; empty lists from the top"`
}

// WeatherResponse is the output of get_weather.
type WeatherResponse struct {
	City    City           `json:"city"`
	Weather *model.Weather `json:"weather"`
}

func (h *Handler) WriteNote(c mcp.ToolContext) error {
	var req WriteNoteRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	receipt, err := h.note.Write(c.Context(), model.Note{Content: req.Content, Tags: req.Tags})
	if err != nil {
		return err
	}
	return c.JSON(receipt)
}

func (h *Handler) GetWeather(c mcp.ToolContext) error {
	var req GetWeatherRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	loc, err := h.resolveCity(c.Context(), req.City)
	if err != nil {
		return err
	}
	w, err := h.weather.Weather(c.Context(), loc.Code, req.Forecast)
	if err != nil {
		return err
	}
	return c.JSON(WeatherResponse{City: cityOf(*loc), Weather: w})
}

func (h *Handler) Geocode(c mcp.ToolContext) error {
	var req GeocodeRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if strings.TrimSpace(req.Address) == "" {
		return fmt.Errorf("address is required")
	}
	geocodes, err := h.weather.Geocode(c.Context(), req.Address, req.City)
	if err != nil {
		return err
	}
	return c.JSON(geocodes)
}

func (h *Handler) SearchCity(c mcp.ToolContext) error {
	var req SearchCityRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	locations, err := h.division.Search(c.Context(), strings.TrimSpace(req.Keyword))
	if err != nil {
		return err
	}
	if locations == nil {
		locations = []model.Location{}
	}
	return c.JSON(locations)
}

// resolveCity turns a 6-digit adcode or a name into a division. A code is looked up
// exactly; a name resolves to the row it matches, a city or province included.
func (h *Handler) resolveCity(ctx context.Context, city string) (*model.Location, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil, fmt.Errorf("city is required")
	}
	if adcodePattern.MatchString(city) {
		loc, err := h.division.GetByCode(ctx, city)
		if err != nil {
			return nil, err
		}
		if loc == nil {
			// Codes missing from the bundled table are still valid upstream.
			return &model.Location{Name: city, Code: city}, nil
		}
		return loc, nil
	}
	loc, err := h.division.Match(ctx, city)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, fmt.Errorf("%w %q", ErrNoDivision, city)
	}
	return loc, nil
}
