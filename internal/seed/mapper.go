package seed

import (
	"context"
	"fmt"

	"github.com/MrSnakeDoc/aquatrack/internal/domain"
	"github.com/MrSnakeDoc/aquatrack/internal/suggest"
)

// Mapper converts seed entries to domain records.
type Mapper struct {
	provider suggest.Provider
}

// NewMapper returns a mapper that fills missing schedules from provider
// (the rules provider when nil).
func NewMapper(provider suggest.Provider) *Mapper {
	if provider == nil {
		provider = suggest.NewRules()
	}
	return &Mapper{provider: provider}
}

// MapAquariums converts the file. Entries without a name are skipped.
func (m *Mapper) MapAquariums(ctx context.Context, file File) ([]domain.Aquarium, error) {
	var out []domain.Aquarium

	for _, e := range file.Aquariums {
		if e.Name == "" {
			continue
		}

		a := domain.Aquarium{
			ID:                     e.ID,
			Name:                   e.Name,
			Capacity:               e.Capacity,
			FishSpecies:            e.FishSpecies,
			FishCount:              e.FishCount,
			HasFilter:              e.HasFilter == nil || *e.HasFilter,
			HasPlants:              e.HasPlants,
			Icon:                   e.Icon,
			IconColor:              e.IconColor,
			LastCleaning:           e.LastCleaning,
			LastPartialWaterChange: e.LastPartialWaterChange,
			CleaningFrequency:      e.CleaningFrequency,
			WaterChangeFrequency:   e.WaterChangeFrequency,
			WaterChangePercentage:  e.WaterChangePercentage,
		}
		if a.Capacity == 0 {
			a.Capacity = domain.DefaultCapacity
		}
		if a.FishCount == "" {
			a.FishCount = domain.DefaultFishCount
		}

		if !a.HasSchedule() {
			s, err := m.provider.Suggest(ctx, suggest.InputFrom(a))
			if err != nil {
				return nil, fmt.Errorf("failed to suggest schedule for %q: %w", a.Name, err)
			}
			s.ApplyTo(&a)
		}

		out = append(out, a)
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("no valid aquariums found in seed file")
	}

	return out, nil
}
