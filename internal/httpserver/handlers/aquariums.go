package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/aquatrack/internal/domain"
	"github.com/MrSnakeDoc/aquatrack/internal/httpserver/deps"
	"github.com/MrSnakeDoc/aquatrack/internal/logger"
	"github.com/MrSnakeDoc/aquatrack/internal/suggest"
)

type aquariumResponse struct {
	domain.Aquarium
	Due []domain.Due `json:"due"`
}

type listResponse struct {
	Aquariums []aquariumResponse `json:"aquariums"`
	Count     int                `json:"count"`
}

// aquariumRequest is the body of POST and PUT. Pointer fields distinguish
// "omitted" from the zero value.
type aquariumRequest struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Capacity    float64 `json:"capacity"`
	FishSpecies string  `json:"fishSpecies"`
	FishCount   string  `json:"fishCount"`
	HasFilter   *bool   `json:"hasFilter"`
	HasPlants   *bool   `json:"hasPlants"`
	Icon        string  `json:"icon"`
	IconColor   string  `json:"iconColor"`

	LastCleaning           *time.Time `json:"lastCleaning"`
	LastPartialWaterChange *time.Time `json:"lastPartialWaterChange"`

	CleaningFrequency     int `json:"cleaningFrequency"`
	WaterChangeFrequency  int `json:"waterChangeFrequency"`
	WaterChangePercentage int `json:"waterChangePercentage"`

	// Create only.
	AutoSchedule bool   `json:"autoSchedule"`
	Provider     string `json:"provider"`
}

// toDomain builds a record. Omitted fields come from base.
func (req aquariumRequest) toDomain(base domain.Aquarium) domain.Aquarium {
	a := base
	a.Name = req.Name
	a.Capacity = req.Capacity
	a.FishSpecies = req.FishSpecies
	a.FishCount = req.FishCount
	if req.HasFilter != nil {
		a.HasFilter = *req.HasFilter
	}
	if req.HasPlants != nil {
		a.HasPlants = *req.HasPlants
	}
	a.Icon = req.Icon
	a.IconColor = req.IconColor
	if req.LastCleaning != nil {
		a.LastCleaning = *req.LastCleaning
	}
	if req.LastPartialWaterChange != nil {
		a.LastPartialWaterChange = *req.LastPartialWaterChange
	}
	a.CleaningFrequency = req.CleaningFrequency
	a.WaterChangeFrequency = req.WaterChangeFrequency
	a.WaterChangePercentage = req.WaterChangePercentage
	return a
}

func present(a domain.Aquarium, now time.Time) aquariumResponse {
	return aquariumResponse{Aquarium: a, Due: domain.DueReport(a, now)}
}

func ListAquariums(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records := d.Store.List()
		now := d.Store.Now()

		out := listResponse{Aquariums: make([]aquariumResponse, 0, len(records)), Count: len(records)}
		for _, a := range records {
			out.Aquariums = append(out.Aquariums, present(a, now))
		}
		writeJSON(w, d, http.StatusOK, out)
	}
}

func GetAquarium(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, ok := d.Store.Get(chi.URLParam(r, "id"))
		if !ok {
			writeJSON(w, d, http.StatusNotFound, errorResponse{Error: "aquarium not found"})
			return
		}
		writeJSON(w, d, http.StatusOK, present(a, d.Store.Now()))
	}
}

func CreateAquarium(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req aquariumRequest
		if !decodeBody(w, r, d, &req) {
			return
		}

		a := req.toDomain(domain.Aquarium{ID: req.ID, HasFilter: true})
		if err := a.Validate(); err != nil {
			writeError(w, d, err)
			return
		}

		if req.AutoSchedule || !a.HasSchedule() {
			if !remoteAllowed(w, r, d, req.Provider) {
				return
			}
			if err := autoSchedule(r.Context(), d, req.Provider, &a); err != nil {
				writeError(w, d, err)
				return
			}
		}

		created, err := d.Store.Add(r.Context(), a)
		if err != nil {
			writeError(w, d, err)
			return
		}

		d.Logger.Info("aquarium created",
			logger.String("id", created.ID),
			logger.String("name", created.Name))
		w.Header().Set("Location", "/api/aquariums/"+created.ID)
		writeJSON(w, d, http.StatusCreated, present(created, d.Store.Now()))
	}
}

// remoteAllowed spends a rate-limit token when the schedule comes from a
// provider other than the local rules. It writes the 429 itself.
func remoteAllowed(w http.ResponseWriter, r *http.Request, d deps.Deps, providerName string) bool {
	if d.RemoteLimit == nil {
		return true
	}
	p, err := d.Suggesters.Get(providerName)
	if err != nil || p.Name() == suggest.RulesName {
		return true
	}
	ok, retry := d.RemoteLimit.Take(r)
	if !ok {
		d.RemoteLimit.Reject(w, r, retry)
	}
	return ok
}

func autoSchedule(ctx context.Context, d deps.Deps, providerName string, a *domain.Aquarium) error {
	p, err := d.Suggesters.Get(providerName)
	if err != nil {
		return err
	}
	s, err := p.Suggest(ctx, suggest.InputFrom(*a))
	if err != nil {
		return err
	}
	s.ApplyTo(a)
	return nil
}

func UpdateAquarium(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		existing, ok := d.Store.Get(id)
		if !ok {
			writeJSON(w, d, http.StatusNotFound, errorResponse{Error: "aquarium not found"})
			return
		}

		var req aquariumRequest
		if !decodeBody(w, r, d, &req) {
			return
		}

		a := req.toDomain(existing)
		a.ID = id

		updated, err := d.Store.Update(r.Context(), a)
		if err != nil {
			writeError(w, d, err)
			return
		}

		d.Logger.Info("aquarium updated", logger.String("id", id))
		writeJSON(w, d, http.StatusOK, present(updated, d.Store.Now()))
	}
}

// DeleteAquarium requires ?confirm=true or an X-Confirm: true header.
func DeleteAquarium(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if !confirmed(r) {
			writeJSON(w, d, http.StatusPreconditionRequired, errorResponse{
				Error: "deleting an aquarium cannot be undone; repeat with ?confirm=true or X-Confirm: true",
			})
			return
		}

		if err := d.Store.Remove(r.Context(), id); err != nil {
			writeError(w, d, err)
			return
		}

		d.Logger.Info("aquarium removed", logger.String("id", id))
		w.WriteHeader(http.StatusNoContent)
	}
}

func confirmed(r *http.Request) bool {
	if strings.EqualFold(r.URL.Query().Get("confirm"), "true") {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(r.Header.Get("X-Confirm")), "true")
}

func MarkCleaned(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := d.Store.MarkCleaned(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, d, err)
			return
		}
		d.Logger.Info("aquarium cleaned",
			logger.String("id", a.ID),
			logger.Time("next_cleaning", a.NextCleaning))
		writeJSON(w, d, http.StatusOK, present(a, d.Store.Now()))
	}
}

func MarkWaterChanged(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := d.Store.MarkWaterChanged(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, d, err)
			return
		}
		d.Logger.Info("water changed",
			logger.String("id", a.ID),
			logger.Time("next_water_change", a.NextPartialWaterChange))
		writeJSON(w, d, http.StatusOK, present(a, d.Store.Now()))
	}
}
