package narrative

import (
	"context"
	"strings"
)

// Request describes where an exploration encounter takes place
type Request struct {
	Location    string   `json:"location"`
	Environment string   `json:"environment"`
	Factions    []string `json:"factions"`
}

// Response is a generated encounter
type Response struct {
	Faction     string `json:"faction"`
	Description string `json:"description"`
}

// Generator produces encounter text for an exploration.
// Implementations may call remote services and must honour ctx.
type Generator interface {
	Generate(ctx context.Context, req Request) (Response, error)
}

// FallbackFaction is used when no faction can be named
const FallbackFaction = "Wanderers"

// Fallback is the neutral encounter substituted when generation fails
func Fallback(req Request) Response {
	faction := FallbackFaction
	if len(req.Factions) > 0 && strings.TrimSpace(req.Factions[0]) != "" {
		faction = req.Factions[0]
	}
	return Response{
		Faction:     faction,
		Description: "You spot distant figures moving through the haze. They keep their distance, and so do you.",
	}
}

// Valid reports whether a response carries usable text
func (r Response) Valid() bool {
	return strings.TrimSpace(r.Faction) != "" && strings.TrimSpace(r.Description) != ""
}
