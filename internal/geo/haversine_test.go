package geo

import (
	"math"
	"testing"
)

func TestHaversineNm_KnownDistances(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		want                   float64
		epsilon                float64
	}{
		{
			name: "one degree of longitude on the equator",
			lat1: 0, lon1: 0, lat2: 0, lon2: 1,
			want:    60.04,
			epsilon: 0.1,
		},
		{
			name: "zero distance",
			lat1: 31.72, lon1: 35.99, lat2: 31.72, lon2: 35.99,
			want:    0,
			epsilon: 0.001,
		},
		{
			name: "OJAI to OMDB",
			lat1: 31.7226, lon1: 35.9932, lat2: 25.2528, lon2: 55.3644,
			want:    1090,
			epsilon: 15,
		},
		{
			name: "antipodal points",
			lat1: 0, lon1: 0, lat2: 0, lon2: 180,
			want:    math.Pi * 3440.065,
			epsilon: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HaversineNm(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			if math.Abs(got-tt.want) > tt.epsilon {
				t.Errorf("HaversineNm() = %.3f, want %.3f ± %.3f", got, tt.want, tt.epsilon)
			}
		})
	}
}

func TestHaversineNm_Symmetry(t *testing.T) {
	a := HaversineNm(33.26, 44.23, 25.25, 55.36)
	b := HaversineNm(25.25, 55.36, 33.26, 44.23)
	if math.Abs(a-b) > 1e-9 {
		t.Errorf("distance not symmetric: %.9f vs %.9f", a, b)
	}
}

func TestHaversineNm_NaNPropagates(t *testing.T) {
	if got := HaversineNm(math.NaN(), 0, 0, 0); !math.IsNaN(got) {
		t.Errorf("expected NaN, got %f", got)
	}
}
