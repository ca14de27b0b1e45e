// Package handler wires the administrative division table and the upstream clients into MCP tools, resources and prompts.
package handler

import (
	"errors"
	"log/slog"
	"regexp"

	"github.com/miyamo2/amap-flomo-mcp/domain/model"
	"github.com/miyamo2/amap-flomo-mcp/domain/repository"
	"github.com/miyamo2/amap-flomo-mcp/internal/mcp"
)

// CityURIPrefix prefixes the code in city resource URIs.
const CityURIPrefix = "amap://city/"

var adcodePattern = regexp.MustCompile(`^\d{6}$`)

// ErrNoDivision is returned when a city name matches no row of the table.
var ErrNoDivision = errors.New("no administrative division matches")

// Handler serves the MCP surface.
type Handler struct {
	division repository.Division
	weather  repository.Weather
	note     repository.Note
	logger   *slog.Logger
}

// New returns a Handler. logger defaults to slog.Default().
func New(division repository.Division, weather repository.Weather, note repository.Note, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		division: division,
		weather:  weather,
		note:     note,
		logger:   logger,
	}
}

// Register adds every tool, resource and prompt to s.
func (h *Handler) Register(s *mcp.Server) {
	s.UseInTools(ToolLogger(h.logger), ToolMetrics())

	s.Tool("write_note",
		(*WriteNoteRequest)(nil),
		h.WriteNote,
		mcp.ToolWithDescription("Write a memo to flomo. Tags are appended as #tag."),
		mcp.ToolWithAnnotations(mcp.ToolAnnotations{Title: "Write note", OpenWorldHint: true}))

	s.Tool("get_weather",
		(*GetWeatherRequest)(nil),
		h.GetWeather,
		mcp.ToolWithDescription("Get the live weather, and optionally the forecast, for a city name or 6-digit adcode. "+
			"A name resolves to the division it names (an exact name first, then the first containing one), not to its districts."),
		mcp.ToolWithAnnotations(mcp.ToolAnnotations{Title: "Get weather", ReadOnlyHint: true, OpenWorldHint: true}))

	s.Tool("geocode",
		(*GeocodeRequest)(nil),
		h.Geocode,
		mcp.ToolWithDescription("Resolve a structured address to coordinates and an adcode."),
		mcp.ToolWithAnnotations(mcp.ToolAnnotations{Title: "Geocode", ReadOnlyHint: true, OpenWorldHint: true}))

	s.Tool("search_city",
		(*SearchCityRequest)(nil),
		h.SearchCity,
		mcp.ToolWithDescription("Search the administrative division table by name; matches expand down to districts."),
		mcp.ToolWithAnnotations(mcp.ToolAnnotations{Title: "Search city", ReadOnlyHint: true, IdempotentHint: true}))

	s.Resource("City",
		CityURIPrefix+"{code}",
		h.GetCity,
		mcp.ResourceWithDescription("An administrative division by adcode"),
		mcp.ResourceWithMimeType("application/json"))

	s.ResourceList(h.ResourceList)

	s.Prompt("weather_report",
		h.WeatherReport,
		mcp.PromptWithDescription("Report the weather of a city"),
		mcp.PromptWithArguments(mcp.PromptArgument{
			Name:        "city",
			Description: "City name or 6-digit adcode",
			Required:    true,
		}))

	s.Prompt("note_weather",
		h.NoteWeather,
		mcp.PromptWithDescription("Fetch the weather of a city and write it to flomo"),
		mcp.PromptWithArguments(mcp.PromptArgument{
			Name:        "city",
			Description: "City name or 6-digit adcode",
			Required:    true,
		}))
}

// cityURI returns the resource URI of a division.
func cityURI(code string) string {
	return CityURIPrefix + code
}

// City is the JSON shape of a division.
type City struct {
	Name        string `json:"name"`
	Code        string `json:"code"`
	ServiceCode string `json:"serviceCode,omitempty"`
	Tier        string `json:"tier"`
}

func cityOf(loc model.Location) City {
	return City{
		Name:        loc.Name,
		Code:        loc.Code,
		ServiceCode: loc.ServiceCode,
		Tier:        loc.Tier().String(),
	}
}
