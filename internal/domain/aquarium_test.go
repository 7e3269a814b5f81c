package domain

import (
	"errors"
	"testing"
	"time"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		aquarium  Aquarium
		wantField string
	}{
		{name: "valid", aquarium: Aquarium{Name: "Reef", Capacity: 60}},
		{name: "missing name", aquarium: Aquarium{Capacity: 60}, wantField: "name"},
		{name: "blank name", aquarium: Aquarium{Name: "   ", Capacity: 60}, wantField: "name"},
		{name: "zero capacity", aquarium: Aquarium{Name: "Reef"}, wantField: "capacity"},
		{name: "negative capacity", aquarium: Aquarium{Name: "Reef", Capacity: -3}, wantField: "capacity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.aquarium.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() = %v, want *ValidationError", err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", verr.Field, tt.wantField)
			}
		})
	}
}

func TestValidateMissingNameMessage(t *testing.T) {
	a := Aquarium{Capacity: 20}
	var verr *ValidationError
	if !errors.As(a.Validate(), &verr) {
		t.Fatal("expected a validation error")
	}
	if verr.Message != "Aquarium name is required." {
		t.Errorf("Message = %q", verr.Message)
	}
}

func TestNormalize(t *testing.T) {
	now := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	a := Aquarium{
		Name:                  "  Living room  ",
		Capacity:              120,
		Icon:                  "castle",
		IconColor:             "blue",
		CleaningFrequency:     200,
		WaterChangeFrequency:  1,
		WaterChangePercentage: 100,
	}

	a.Normalize(now)

	if a.Name != "Living room" {
		t.Errorf("Name = %q", a.Name)
	}
	if a.FishCount != DefaultFishCount {
		t.Errorf("FishCount = %q, want %q", a.FishCount, DefaultFishCount)
	}
	if a.Icon != DefaultIcon || a.IconColor != DefaultIconColor {
		t.Errorf("Icon/IconColor = %q/%q", a.Icon, a.IconColor)
	}
	if a.CleaningFrequency != MaxCleaningDays {
		t.Errorf("CleaningFrequency = %d, want %d", a.CleaningFrequency, MaxCleaningDays)
	}
	if a.WaterChangeFrequency != MinWaterChangeDays {
		t.Errorf("WaterChangeFrequency = %d, want %d", a.WaterChangeFrequency, MinWaterChangeDays)
	}
	if a.WaterChangePercentage != MaxWaterChangePercent {
		t.Errorf("WaterChangePercentage = %d, want %d", a.WaterChangePercentage, MaxWaterChangePercent)
	}
	if !a.LastCleaning.Equal(now) || !a.LastPartialWaterChange.Equal(now) {
		t.Errorf("missing last dates should default to now, got %v / %v", a.LastCleaning, a.LastPartialWaterChange)
	}
	if !a.NextCleaning.Equal(now.AddDate(0, 0, MaxCleaningDays)) {
		t.Errorf("NextCleaning = %v", a.NextCleaning)
	}
	if !a.NextPartialWaterChange.Equal(now.AddDate(0, 0, MinWaterChangeDays)) {
		t.Errorf("NextPartialWaterChange = %v", a.NextPartialWaterChange)
	}
}

func TestNormalizeKeepsValidPresentation(t *testing.T) {
	a := Aquarium{Name: "x", Capacity: 1, Icon: "plant", IconColor: "#22c55e", FishCount: "20+"}
	a.Normalize(time.Now())
	if a.Icon != "plant" || a.IconColor != "#22c55e" || a.FishCount != "20+" {
		t.Errorf("Normalize() overwrote valid values: %+v", a)
	}
}

func TestMarkCleanedLeavesWaterChangeAlone(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	a := Aquarium{Name: "x", Capacity: 40, CleaningFrequency: 14, WaterChangeFrequency: 7, WaterChangePercentage: 25}
	a.Normalize(start)
	lastWater, nextWater := a.LastPartialWaterChange, a.NextPartialWaterChange

	now := start.AddDate(0, 0, 20)
	a.MarkCleaned(now)

	if !a.LastCleaning.Equal(now) || !a.NextCleaning.Equal(now.AddDate(0, 0, 14)) {
		t.Errorf("cleaning = %v / %v", a.LastCleaning, a.NextCleaning)
	}
	if !a.LastPartialWaterChange.Equal(lastWater) || !a.NextPartialWaterChange.Equal(nextWater) {
		t.Error("MarkCleaned() changed water change fields")
	}

	a.MarkWaterChanged(now)
	if !a.NextPartialWaterChange.Equal(now.AddDate(0, 0, 7)) {
		t.Errorf("NextPartialWaterChange = %v", a.NextPartialWaterChange)
	}
}
