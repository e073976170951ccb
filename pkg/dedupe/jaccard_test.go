package dedupe

import (
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/assert"
)

func TestJaccard(t *testing.T) {
	tests := []struct {
		name   string
		s1, s2 string
		want   float64
	}{
		{"permutation", "barbell squat", "squat barbell", 1.0},
		{"subset", "bench press", "barbell bench press", 2.0 / 3.0},
		{"disjoint", "squat", "deadlift", 0.0},
		{"both empty", "", "", 1.0},
		{"one empty", "squat", "", 0.0},
		{"repeated words are a set", "press press bench", "bench press", 1.0},
		{"partial", "incline dumbbell press", "decline dumbbell press", 2.0 / 4.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Jaccard(tt.s1, tt.s2), 1e-9)
			assert.InDelta(t, tt.want, Jaccard(tt.s2, tt.s1), 1e-9)
		})
	}
}

func TestJaccard_Properties(t *testing.T) {
	commutative := func(a, b string) bool {
		return Jaccard(a, b) == Jaccard(b, a)
	}
	bounded := func(a, b string) bool {
		j := Jaccard(a, b)
		return j >= 0 && j <= 1
	}
	self := func(a string) bool {
		return Jaccard(a, a) == 1.0
	}

	assert.NoError(t, quick.Check(commutative, nil))
	assert.NoError(t, quick.Check(bounded, nil))
	assert.NoError(t, quick.Check(self, nil))
}
