package services

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// BodyProfile holds the measurement fields surfaced to the AI prompt. All
// fields are optional; provided values must fall in a plausible human range.
type BodyProfile struct {
	HeightCm        *float64 `json:"heightCm,omitempty"`
	WeightKg        *float64 `json:"weightKg,omitempty"`
	ShoulderWidthCm *float64 `json:"shoulderWidthCm,omitempty"`
	BustCm          *float64 `json:"bustCm,omitempty"`
	WaistCm         *float64 `json:"waistCm,omitempty"`
	HipCm           *float64 `json:"hipCm,omitempty"`
}

type measurementRange struct {
	name string
	min  float64
	max  float64
}

var measurementRanges = []measurementRange{
	{"heightCm", 130, 200},
	{"weightKg", 30, 120},
	{"shoulderWidthCm", 30, 55},
	{"bustCm", 60, 140},
	{"waistCm", 45, 120},
	{"hipCm", 70, 150},
}

// ValidateBodyProfile range-checks every provided measurement.
func ValidateBodyProfile(profile *BodyProfile) error {
	if profile == nil {
		return nil
	}
	values := []*float64{
		profile.HeightCm, profile.WeightKg, profile.ShoulderWidthCm,
		profile.BustCm, profile.WaistCm, profile.HipCm,
	}
	for i, value := range values {
		if value == nil {
			continue
		}
		r := measurementRanges[i]
		if *value < r.min || *value > r.max {
			return NewValidationError("%s must be between %.0f and %.0f", r.name, r.min, r.max)
		}
	}
	return nil
}

// MarshalBodyProfile encodes a validated profile for storage. A nil profile
// stores as empty JSON.
func MarshalBodyProfile(profile *BodyProfile) (datatypes.JSON, error) {
	if profile == nil {
		return nil, nil
	}
	raw, err := json.Marshal(profile)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}
