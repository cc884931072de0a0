package services

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }

func TestValidateBodyProfileRanges(t *testing.T) {
	require.NoError(t, ValidateBodyProfile(nil))
	require.NoError(t, ValidateBodyProfile(&BodyProfile{}))
	require.NoError(t, ValidateBodyProfile(&BodyProfile{
		HeightCm: floatPtr(165), WeightKg: floatPtr(52), WaistCm: floatPtr(66),
	}))

	cases := []struct {
		name    string
		profile *BodyProfile
	}{
		{"height too low", &BodyProfile{HeightCm: floatPtr(120)}},
		{"height too high", &BodyProfile{HeightCm: floatPtr(210)}},
		{"weight too low", &BodyProfile{WeightKg: floatPtr(25)}},
		{"shoulder too high", &BodyProfile{ShoulderWidthCm: floatPtr(60)}},
		{"bust too low", &BodyProfile{BustCm: floatPtr(50)}},
		{"waist too high", &BodyProfile{WaistCm: floatPtr(130)}},
		{"hip too low", &BodyProfile{HipCm: floatPtr(60)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateBodyProfile(tc.profile)
			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
		})
	}
}
