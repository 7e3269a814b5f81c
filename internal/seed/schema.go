package seed

import "time"

// File is the root structure of the seed YAML.
type File struct {
	Aquariums []Entry `yaml:"aquariums"`
}

// Entry describes one tank. Omitted schedule fields are suggested by the
// rules provider; omitted dates default to the import time.
type Entry struct {
	ID          string  `yaml:"id,omitempty"`
	Name        string  `yaml:"name"`
	Capacity    float64 `yaml:"capacity"`
	FishSpecies string  `yaml:"fishSpecies,omitempty"`
	FishCount   string  `yaml:"fishCount,omitempty"`
	HasFilter   *bool   `yaml:"hasFilter,omitempty"` // nil means true
	HasPlants   bool    `yaml:"hasPlants,omitempty"`
	Icon        string  `yaml:"icon,omitempty"`
	IconColor   string  `yaml:"iconColor,omitempty"`

	LastCleaning           time.Time `yaml:"lastCleaning,omitempty"`
	LastPartialWaterChange time.Time `yaml:"lastPartialWaterChange,omitempty"`

	CleaningFrequency     int `yaml:"cleaningFrequency,omitempty"`
	WaterChangeFrequency  int `yaml:"waterChangeFrequency,omitempty"`
	WaterChangePercentage int `yaml:"waterChangePercentage,omitempty"`
}
