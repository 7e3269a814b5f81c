package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/aquatrack/internal/httpserver/deps"
	"github.com/MrSnakeDoc/aquatrack/internal/logger"
	"github.com/MrSnakeDoc/aquatrack/internal/suggest"
)

type suggestionRequest struct {
	Capacity    float64 `json:"capacity"`
	FishSpecies string  `json:"fishSpecies"`
	FishCount   string  `json:"fishCount"`
	HasFilter   *bool   `json:"hasFilter"`
	HasPlants   bool    `json:"hasPlants"`
	Provider    string  `json:"provider"`
}

type suggestionResponse struct {
	Provider string `json:"provider"`
	suggest.Suggestion
}

// Suggest returns a schedule for the posted tank attributes without storing anything.
func Suggest(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req suggestionRequest
		if !decodeBody(w, r, d, &req) {
			return
		}

		p, err := d.Suggesters.Get(req.Provider)
		if err != nil {
			writeError(w, d, err)
			return
		}

		in := suggest.Input{
			Capacity:    req.Capacity,
			FishSpecies: req.FishSpecies,
			FishCount:   req.FishCount,
			HasFilter:   req.HasFilter == nil || *req.HasFilter,
			HasPlants:   req.HasPlants,
		}

		s, err := p.Suggest(r.Context(), in)
		if err != nil {
			writeError(w, d, err)
			return
		}

		d.Logger.Debug("suggestion computed",
			logger.String("provider", p.Name()),
			logger.Int("full_days", s.FullDays),
			logger.Int("partial_days", s.PartialDays),
			logger.Int("percentage", s.Percentage))
		writeJSON(w, d, http.StatusOK, suggestionResponse{Provider: p.Name(), Suggestion: s})
	}
}
