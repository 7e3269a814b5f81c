package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Schedule bounds. Every record written to the store is clamped to them.
const (
	MinCleaningDays = 7
	MaxCleaningDays = 90

	MinWaterChangeDays = 3
	MaxWaterChangeDays = 30

	MinWaterChangePercent = 10
	MaxWaterChangePercent = 75
)

// Defaults applied to a fresh record.
const (
	DefaultCapacity  = 20
	DefaultFishCount = "1-5"
	DefaultIcon      = "aquarium"
	DefaultIconColor = "#3b82f6"
)

// Icons lists the icon names a record may carry.
var Icons = []string{"aquarium", "fish", "plant"}

// FishCountBuckets lists the fish count categories offered when adding a tank.
// Free-form "N-M" / "N+" values are accepted as well.
var FishCountBuckets = []string{"1-5", "6-10", "11-20", "20+"}

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Aquarium is one tracked tank.
//
// JSON field names follow the browser tracker's localStorage format, so an
// exported list can be imported as-is.
type Aquarium struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	ID string `json:"id" yaml:"id"`

	// ─────────────────────────────
	// Description
	// ─────────────────────────────

	Name        string  `json:"name" yaml:"name"`
	Capacity    float64 `json:"capacity" yaml:"capacity"` // liters
	FishSpecies string  `json:"fishSpecies" yaml:"fishSpecies"`
	FishCount   string  `json:"fishCount" yaml:"fishCount"`
	HasFilter   bool    `json:"hasFilter" yaml:"hasFilter"`
	HasPlants   bool    `json:"hasPlants" yaml:"hasPlants"`

	// Presentation only.
	Icon      string `json:"icon" yaml:"icon"`
	IconColor string `json:"iconColor" yaml:"iconColor"`

	// ─────────────────────────────
	// Scheduling
	// ─────────────────────────────

	LastCleaning           time.Time `json:"lastCleaning" yaml:"lastCleaning"`
	NextCleaning           time.Time `json:"nextCleaning" yaml:"-"`
	LastPartialWaterChange time.Time `json:"lastPartialWaterChange" yaml:"lastPartialWaterChange"`
	NextPartialWaterChange time.Time `json:"nextPartialWaterChange" yaml:"-"`

	CleaningFrequency     int `json:"cleaningFrequency" yaml:"cleaningFrequency"`         // days
	WaterChangeFrequency  int `json:"waterChangeFrequency" yaml:"waterChangeFrequency"`   // days
	WaterChangePercentage int `json:"waterChangePercentage" yaml:"waterChangePercentage"` // percent
}

// ValidationError reports a user-correctable problem with a record.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Validate checks the fields a user must provide.
func (a *Aquarium) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return &ValidationError{Field: "name", Message: "Aquarium name is required."}
	}
	if a.Capacity <= 0 {
		return &ValidationError{Field: "capacity", Message: "Capacity must be a positive number of liters."}
	}
	return nil
}

// HasSchedule reports whether any schedule field was filled in.
func (a *Aquarium) HasSchedule() bool {
	return a.CleaningFrequency != 0 || a.WaterChangeFrequency != 0 || a.WaterChangePercentage != 0
}

// ApplySchedule sets the three schedule fields, clamped to their bounds.
func (a *Aquarium) ApplySchedule(cleaningDays, waterChangeDays, percentage int) {
	a.CleaningFrequency = Clamp(cleaningDays, MinCleaningDays, MaxCleaningDays)
	a.WaterChangeFrequency = Clamp(waterChangeDays, MinWaterChangeDays, MaxWaterChangeDays)
	a.WaterChangePercentage = Clamp(percentage, MinWaterChangePercent, MaxWaterChangePercent)
}

// Normalize fills presentation defaults, trims text, clamps the schedule and
// recomputes both derived due dates. now is used for missing "last" dates.
func (a *Aquarium) Normalize(now time.Time) {
	a.Name = strings.TrimSpace(a.Name)
	a.FishSpecies = strings.TrimSpace(a.FishSpecies)
	a.FishCount = strings.TrimSpace(a.FishCount)
	if a.FishCount == "" {
		a.FishCount = DefaultFishCount
	}
	if !validIcon(a.Icon) {
		a.Icon = DefaultIcon
	}
	if !hexColor.MatchString(a.IconColor) {
		a.IconColor = DefaultIconColor
	}
	if a.LastCleaning.IsZero() {
		a.LastCleaning = now
	}
	if a.LastPartialWaterChange.IsZero() {
		a.LastPartialWaterChange = now
	}

	a.ApplySchedule(a.CleaningFrequency, a.WaterChangeFrequency, a.WaterChangePercentage)
	a.Recompute()
}

// Recompute derives NextCleaning and NextPartialWaterChange from the last
// service dates and frequencies.
func (a *Aquarium) Recompute() {
	a.NextCleaning = Advance(a.LastCleaning, a.CleaningFrequency)
	a.NextPartialWaterChange = Advance(a.LastPartialWaterChange, a.WaterChangeFrequency)
}

// MarkCleaned records a full cleaning at now.
func (a *Aquarium) MarkCleaned(now time.Time) {
	a.LastCleaning = now
	a.NextCleaning = Advance(now, a.CleaningFrequency)
}

// MarkWaterChanged records a partial water change at now.
func (a *Aquarium) MarkWaterChanged(now time.Time) {
	a.LastPartialWaterChange = now
	a.NextPartialWaterChange = Advance(now, a.WaterChangeFrequency)
}

func validIcon(icon string) bool {
	for _, i := range Icons {
		if i == icon {
			return true
		}
	}
	return false
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
