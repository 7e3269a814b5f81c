// Package suggest maps tank attributes to a maintenance schedule.
//
// Two providers share the Provider contract: Rules, a deterministic local
// heuristic, and gemini.Provider, which asks a hosted model for the same three
// numbers. Whatever a provider returns is clamped to the record bounds of the
// domain package.
package suggest

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrSnakeDoc/aquatrack/internal/domain"
)

// Input holds the tank attributes a suggestion is computed from.
type Input struct {
	Capacity    float64 `json:"capacity"` // liters
	FishSpecies string  `json:"fishSpecies,omitempty"`
	FishCount   string  `json:"fishCount"`
	HasFilter   bool    `json:"hasFilter"`
	HasPlants   bool    `json:"hasPlants"`
}

// InputFrom extracts the suggestion inputs from a record.
func InputFrom(a domain.Aquarium) Input {
	return Input{
		Capacity:    a.Capacity,
		FishSpecies: a.FishSpecies,
		FishCount:   a.FishCount,
		HasFilter:   a.HasFilter,
		HasPlants:   a.HasPlants,
	}
}

// Suggestion is a proposed maintenance schedule.
type Suggestion struct {
	FullDays    int `json:"fullCleaningFrequencyInDays"`
	PartialDays int `json:"partialWaterChangeFrequencyInDays"`
	Percentage  int `json:"waterChangePercentage"`
}

// Clamp bounds every field to the record limits.
func (s Suggestion) Clamp() Suggestion {
	return Suggestion{
		FullDays:    domain.Clamp(s.FullDays, domain.MinCleaningDays, domain.MaxCleaningDays),
		PartialDays: domain.Clamp(s.PartialDays, domain.MinWaterChangeDays, domain.MaxWaterChangeDays),
		Percentage:  domain.Clamp(s.Percentage, domain.MinWaterChangePercent, domain.MaxWaterChangePercent),
	}
}

// ApplyTo writes the suggestion into a record's schedule fields.
func (s Suggestion) ApplyTo(a *domain.Aquarium) {
	a.ApplySchedule(s.FullDays, s.PartialDays, s.Percentage)
}

// Provider computes a Suggestion.
type Provider interface {
	Name() string
	Suggest(ctx context.Context, in Input) (Suggestion, error)
}

// Kind classifies a provider failure.
type Kind string

const (
	KindCredential Kind = "credential"
	KindTransport  Kind = "transport"
	KindSchema     Kind = "schema"
)

// ErrMissingCredential is wrapped by every KindCredential failure.
var ErrMissingCredential = errors.New("no API key configured")

// Error is the single failure type providers return.
type Error struct {
	Provider string
	Kind     Kind
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s suggestion failed (%s): %v", e.Provider, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
