package suggest

import (
	"context"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/MrSnakeDoc/aquatrack/internal/domain"
)

// RulesName is the registry name of the local provider.
const RulesName = "local"

const (
	baseFullDays    = 30
	basePartialDays = 10
	basePercentage  = 25

	minModifier = 0.55
	maxModifier = 1.85

	// Narrower than the record bounds: the heuristic never proposes a
	// cleaning interval above 75 days or a change outside 15-60%.
	rulesMaxFullDays   = 75
	rulesMinPercentage = 15
	rulesMaxPercentage = 60
)

var (
	rangePattern = regexp.MustCompile(`^(\d+)\s*-\s*(\d+)$`)
	plusPattern  = regexp.MustCompile(`^(\d+)\s*\+$`)
	nonNumeric   = regexp.MustCompile(`[^\d.]`)
)

// Rules is the deterministic, offline provider. It never fails.
type Rules struct{}

// NewRules returns the rule-based provider.
func NewRules() *Rules {
	return &Rules{}
}

func (r *Rules) Name() string { return RulesName }

// Suggest never returns an error; the signature matches Provider.
func (r *Rules) Suggest(_ context.Context, in Input) (Suggestion, error) {
	return Compute(in), nil
}

// Compute is the pure rule-based suggestion.
func Compute(in Input) Suggestion {
	fish := ParseFishCount(in.FishCount)
	m := LoadModifier(in.Capacity, fish, in.HasFilter, in.HasPlants)

	full := domain.Clamp(round(baseFullDays/m), domain.MinCleaningDays, rulesMaxFullDays)
	partial := domain.Clamp(
		round(math.Max(float64(full)/2.2, basePartialDays/m)),
		domain.MinWaterChangeDays, domain.MaxWaterChangeDays,
	)

	offset := 3.0
	if in.HasFilter {
		offset = -2
	}
	if in.HasPlants {
		offset -= 3
	}
	pct := domain.Clamp(round(basePercentage*m+offset), rulesMinPercentage, rulesMaxPercentage)

	return Suggestion{FullDays: full, PartialDays: partial, Percentage: pct}.Clamp()
}

// ParseFishCount turns a fish count label into a representative number.
//
//	"6-10" -> 8     (midpoint)
//	"20+"  -> 22    (N+2)
//	"12"   -> 12
//	"10-5", "", "lots" -> 0
func ParseFishCount(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	if m := rangePattern.FindStringSubmatch(s); m != nil {
		lo, _ := strconv.ParseFloat(m[1], 64)
		hi, _ := strconv.ParseFloat(m[2], 64)
		if hi < lo {
			return 0
		}
		return (lo + hi) / 2
	}

	if m := plusPattern.FindStringSubmatch(s); m != nil {
		base, _ := strconv.ParseFloat(m[1], 64)
		return base + 2
	}

	if strings.Contains(s, "-") {
		return 0
	}

	digits := nonNumeric.ReplaceAllString(s, "")
	if digits == "" {
		return 0
	}
	n, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return 0
	}
	return n
}

// LoadModifier estimates bioload as a multiplier in [0.55, 1.85]; higher means
// dirtier water and more frequent service.
func LoadModifier(capacity, fish float64, hasFilter, hasPlants bool) float64 {
	if capacity <= 0 {
		capacity = 40
	}
	if fish <= 0 {
		fish = 1
	}
	litersPerFish := capacity / fish

	m := 1.0

	switch {
	case capacity < 40:
		m += 0.2
	case capacity > 150:
		m -= 0.15
	}

	switch {
	case litersPerFish < 5:
		m += 0.45
	case litersPerFish < 8:
		m += 0.25
	case litersPerFish > 18:
		m -= 0.2
	case litersPerFish > 12:
		m -= 0.1
	}

	if hasFilter {
		m -= 0.1
	} else {
		m += 0.35
	}

	if hasPlants {
		m -= 0.15
	} else {
		m += 0.05
	}

	return math.Min(maxModifier, math.Max(minModifier, m))
}

func round(v float64) int {
	return int(math.Round(v))
}
