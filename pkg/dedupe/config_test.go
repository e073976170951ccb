package dedupe

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fgerrors "github.com/ripixel/fitglue-server/catalog/pkg/errors"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{
			name:   "jaccard above one",
			mutate: func(c *Config) { c.JaccardThreshold = 1.5 },
			field:  "jaccard_threshold",
		},
		{
			name:   "negative containment ratio",
			mutate: func(c *Config) { c.ContainmentRatio = -0.1 },
			field:  "containment_ratio",
		},
		{
			name:   "negative containment length",
			mutate: func(c *Config) { c.MinContainmentLength = -1 },
			field:  "min_containment_length",
		},
		{
			name:   "no fuzzy tiers",
			mutate: func(c *Config) { c.FuzzyTiers = nil },
			field:  "fuzzy_tiers",
		},
		{
			name: "negative tier distance",
			mutate: func(c *Config) {
				c.FuzzyTiers = []FuzzyTier{{MinLength: 0, MaxDistance: -1}}
			},
			field: "fuzzy_tiers[0].max_distance",
		},
		{
			name: "ascending tiers",
			mutate: func(c *Config) {
				c.FuzzyTiers = []FuzzyTier{{MinLength: 6, MaxDistance: 2}, {MinLength: 11, MaxDistance: 3}}
			},
			field: "fuzzy_tiers[1].min_length",
		},
		{
			name:   "abbreviation key with spaces",
			mutate: func(c *Config) { c.Abbreviations = map[string]string{"d b": "dumbbell"} },
			field:  "abbreviations.d b",
		},
		{
			name:   "empty expansion",
			mutate: func(c *Config) { c.Abbreviations = map[string]string{"db": "  "} },
			field:  "abbreviations.db",
		},
		{
			name:   "expansion with punctuation",
			mutate: func(c *Config) { c.Abbreviations = map[string]string{"db": "dumb-bell"} },
			field:  "abbreviations.db",
		},
		{
			name:   "self-referencing expansion",
			mutate: func(c *Config) { c.Abbreviations = map[string]string{"db": "db curl"} },
			field:  "abbreviations.db",
		},
		{
			name:   "negative workers",
			mutate: func(c *Config) { c.Workers = -2 },
			field:  "workers",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()

			require.Error(t, err)
			assert.True(t, errors.Is(err, fgerrors.ErrConfiguration))
			assert.Equal(t, tt.field, fgerrors.GetMetadata(err, "field"))
		})
	}
}

func TestConfig_MaxDistanceFor(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 1, cfg.MaxDistanceFor(0))
	assert.Equal(t, 1, cfg.MaxDistanceFor(5))
	assert.Equal(t, 2, cfg.MaxDistanceFor(6))
	assert.Equal(t, 2, cfg.MaxDistanceFor(10))
	assert.Equal(t, 3, cfg.MaxDistanceFor(11))
	assert.Equal(t, 3, cfg.MaxDistanceFor(40))

	cfg.FuzzyTiers = []FuzzyTier{{MinLength: 8, MaxDistance: 2}}
	assert.Equal(t, 0, cfg.MaxDistanceFor(7))
}

func TestNewClassifier_RejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.JaccardThreshold = 2

	c, err := NewClassifier(cfg)

	assert.Nil(t, c)
	assert.ErrorIs(t, err, fgerrors.ErrConfiguration)
}

func TestValidateRecord(t *testing.T) {
	tests := []struct {
		name  string
		rec   CatalogRecord
		field string
		msg   string
	}{
		{name: "valid", rec: CatalogRecord{ID: 1, Name: "Squat"}},
		{name: "missing id", rec: CatalogRecord{ID: 0, Name: "Squat"}, field: "id", msg: "id must be a positive integer"},
		{name: "negative id", rec: CatalogRecord{ID: -4, Name: "Squat"}, field: "id", msg: "id must be a positive integer"},
		{name: "empty name", rec: CatalogRecord{ID: 3, Slug: "ghost"}, field: "name", msg: "name is required"},
		{name: "blank name", rec: CatalogRecord{ID: 3, Name: " \t "}, field: "name", msg: "name is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRecord(tt.rec)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, fgerrors.ErrInvalidRecord)
			assert.Equal(t, tt.field, fgerrors.GetMetadata(err, "field"))
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}
