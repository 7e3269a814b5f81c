package suggest

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/MrSnakeDoc/aquatrack/internal/domain"
)

func TestParseFishCount(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
	}{
		{input: "1-5", expected: 3},
		{input: "6-10", expected: 8},
		{input: "11-20", expected: 15.5},
		{input: "20+", expected: 22},
		{input: " 3 - 7 ", expected: 5},
		{input: "15 +", expected: 17},
		{input: "12", expected: 12},
		{input: "about 4 fish", expected: 4},
		{input: "10-5", expected: 0},
		{input: "", expected: 0},
		{input: "lots", expected: 0},
		{input: "1.2.3", expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseFishCount(tt.input); got != tt.expected {
				t.Errorf("ParseFishCount(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestLoadModifier(t *testing.T) {
	tests := []struct {
		name      string
		capacity  float64
		fish      float64
		hasFilter bool
		hasPlants bool
		expected  float64
	}{
		{name: "crowded small tank hits ceiling", capacity: 20, fish: 22, expected: 1.85},
		{name: "sparse large planted tank hits floor", capacity: 200, fish: 3, hasFilter: true, hasPlants: true, expected: 0.55},
		{name: "balanced filtered tank", capacity: 60, fish: 8, hasFilter: true, expected: 1.2},
		{name: "unknown capacity and fish", capacity: 0, fish: 0, hasFilter: true, expected: 0.75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LoadModifier(tt.capacity, tt.fish, tt.hasFilter, tt.hasPlants)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("LoadModifier() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestComputeExamples(t *testing.T) {
	tests := []struct {
		name     string
		input    Input
		expected Suggestion
	}{
		{
			name:     "20L crowded, no filter, no plants",
			input:    Input{Capacity: 20, FishCount: "20+"},
			expected: Suggestion{FullDays: 16, PartialDays: 7, Percentage: 49},
		},
		{
			name:     "200L sparse, filter and plants",
			input:    Input{Capacity: 200, FishCount: "1-5", HasFilter: true, HasPlants: true},
			expected: Suggestion{FullDays: 55, PartialDays: 25, Percentage: 15},
		},
		{
			name:     "60L community tank",
			input:    Input{Capacity: 60, FishCount: "6-10", HasFilter: true},
			expected: Suggestion{FullDays: 25, PartialDays: 11, Percentage: 28},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Compute(tt.input); got != tt.expected {
				t.Errorf("Compute() = %+v, want %+v", got, tt.expected)
			}
		})
	}
}

func TestComputeShiftsAgainstBaseline(t *testing.T) {
	crowded := Compute(Input{Capacity: 20, FishCount: "20+"})
	if crowded.Percentage <= basePercentage {
		t.Errorf("crowded tank percentage %d should exceed baseline %d", crowded.Percentage, basePercentage)
	}
	if crowded.Percentage > rulesMaxPercentage {
		t.Errorf("crowded tank percentage %d above %d", crowded.Percentage, rulesMaxPercentage)
	}

	sparse := Compute(Input{Capacity: 200, FishCount: "1-5", HasFilter: true, HasPlants: true})
	if sparse.Percentage >= basePercentage {
		t.Errorf("sparse tank percentage %d should be below baseline %d", sparse.Percentage, basePercentage)
	}
}

func TestComputeStaysWithinBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	labels := append([]string{}, domain.FishCountBuckets...)
	labels = append(labels, "", "0", "3-4", "50+", "100", "nonsense", "9-2")

	for i := 0; i < 5000; i++ {
		in := Input{
			Capacity:  rng.Float64() * 1000,
			FishCount: labels[rng.Intn(len(labels))],
			HasFilter: rng.Intn(2) == 0,
			HasPlants: rng.Intn(2) == 0,
		}
		if i%10 == 0 {
			in.Capacity = 0.01 + rng.Float64()*5
		}

		s := Compute(in)
		if s.FullDays < domain.MinCleaningDays || s.FullDays > domain.MaxCleaningDays {
			t.Fatalf("FullDays %d out of range for %+v", s.FullDays, in)
		}
		if s.PartialDays < domain.MinWaterChangeDays || s.PartialDays > domain.MaxWaterChangeDays {
			t.Fatalf("PartialDays %d out of range for %+v", s.PartialDays, in)
		}
		if s.Percentage < domain.MinWaterChangePercent || s.Percentage > domain.MaxWaterChangePercent {
			t.Fatalf("Percentage %d out of range for %+v", s.Percentage, in)
		}
		if again := Compute(in); again != s {
			t.Fatalf("Compute() not deterministic: %+v vs %+v", s, again)
		}
	}
}

func TestRulesProviderNeverFails(t *testing.T) {
	r := NewRules()
	if r.Name() != RulesName {
		t.Errorf("Name() = %q", r.Name())
	}
	if _, err := r.Suggest(context.Background(), Input{}); err != nil {
		t.Errorf("Suggest() = %v, want nil", err)
	}
}

func TestSuggestionClamp(t *testing.T) {
	got := Suggestion{FullDays: 400, PartialDays: 0, Percentage: -5}.Clamp()
	want := Suggestion{FullDays: 90, PartialDays: 3, Percentage: 10}
	if got != want {
		t.Errorf("Clamp() = %+v, want %+v", got, want)
	}
}
