package dedupe

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	fgerrors "github.com/ripixel/fitglue-server/catalog/pkg/errors"
)

// FuzzyTier allows up to MaxDistance edits for names of at least MinLength
// characters.
type FuzzyTier struct {
	MinLength   int `koanf:"min_length" yaml:"min_length" json:"min_length" validate:"gte=0"`
	MaxDistance int `koanf:"max_distance" yaml:"max_distance" json:"max_distance" validate:"gte=0"`
}

// Config holds every tunable of the engine.
type Config struct {
	// Abbreviations maps a single token to its expansion.
	Abbreviations map[string]string `koanf:"abbreviations" yaml:"abbreviations" json:"abbreviations"`

	// ContainmentRatio is the exclusive lower bound on len(shorter)/len(longer)
	// for SubstringContainment.
	ContainmentRatio float64 `koanf:"containment_ratio" yaml:"containment_ratio" json:"containment_ratio" validate:"gte=0,lte=1"`

	// MinContainmentLength is the exclusive lower bound on the shorter
	// normalized name for SubstringContainment.
	MinContainmentLength int `koanf:"min_containment_length" yaml:"min_containment_length" json:"min_containment_length" validate:"gte=0"`

	// FuzzyTiers are ordered by descending MinLength. The tier is picked by
	// the shorter of the two normalized names, so the allowed distance does
	// not depend on which record of a pair comes first.
	FuzzyTiers []FuzzyTier `koanf:"fuzzy_tiers" yaml:"fuzzy_tiers" json:"fuzzy_tiers" validate:"min=1,dive"`

	// MinFuzzyLength skips FuzzyEditDistance when either normalized name is
	// shorter. Zero disables the gate.
	MinFuzzyLength int `koanf:"min_fuzzy_length" yaml:"min_fuzzy_length" json:"min_fuzzy_length" validate:"gte=0"`

	// JaccardThreshold is the exclusive lower bound for WordSaladMatch.
	JaccardThreshold float64 `koanf:"jaccard_threshold" yaml:"jaccard_threshold" json:"jaccard_threshold" validate:"gte=0,lte=1"`

	// Sentinel is the catch-all category/muscle value that disables
	// AttributeMatch. Compared case-insensitively.
	Sentinel string `koanf:"sentinel" yaml:"sentinel" json:"sentinel"`

	// FoldAccents strips diacritics before normalization.
	FoldAccents bool `koanf:"fold_accents" yaml:"fold_accents" json:"fold_accents"`

	// Workers bounds block-level parallelism. Zero means runtime.NumCPU().
	Workers int `koanf:"workers" yaml:"workers" json:"workers" validate:"gte=0"`
}

// DefaultConfig returns the standard tuning.
func DefaultConfig() Config {
	return Config{
		Abbreviations:        DefaultAbbreviations(),
		ContainmentRatio:     0.5,
		MinContainmentLength: 5,
		FuzzyTiers:           DefaultFuzzyTiers(),
		MinFuzzyLength:       0,
		JaccardThreshold:     0.8,
		Sentinel:             "other",
	}
}

// DefaultFuzzyTiers allows 3 edits above 10 characters, 2 above 5 and 1
// otherwise.
func DefaultFuzzyTiers() []FuzzyTier {
	return []FuzzyTier{
		{MinLength: 11, MaxDistance: 3},
		{MinLength: 6, MaxDistance: 2},
		{MinLength: 0, MaxDistance: 1},
	}
}

// MaxDistanceFor returns the edit budget for a normalized name length, or
// 0 when no tier covers it.
func (c Config) MaxDistanceFor(length int) int {
	for _, tier := range c.FuzzyTiers {
		if length >= tier.MinLength {
			return tier.MaxDistance
		}
	}
	return 0
}

var configValidator = newConfigValidator()

func newConfigValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("koanf"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// Validate reports the first out-of-range setting as a configuration error
// naming the offending field.
func (c Config) Validate() error {
	if err := configValidator.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if stderrors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			field := strings.TrimPrefix(fe.Namespace(), "Config.")
			return configError(field, fmt.Sprintf("%s: value %v violates %s%s", field, fe.Value(), fe.Tag(), paramSuffix(fe.Param())))
		}
		return fgerrors.ErrConfiguration.WithCause(err)
	}

	for i := 1; i < len(c.FuzzyTiers); i++ {
		if c.FuzzyTiers[i].MinLength >= c.FuzzyTiers[i-1].MinLength {
			field := fmt.Sprintf("fuzzy_tiers[%d].min_length", i)
			return configError(field, fmt.Sprintf("%s: tiers must be ordered by strictly descending min_length", field))
		}
	}

	for key, expansion := range c.Abbreviations {
		if !isToken(key) {
			field := "abbreviations." + key
			return configError(field, fmt.Sprintf("%s: key must be a single lowercase alphanumeric token", field))
		}
		words := strings.Fields(expansion)
		if len(words) == 0 {
			field := "abbreviations." + key
			return configError(field, fmt.Sprintf("%s: expansion must not be empty", field))
		}
		for _, w := range words {
			if !isToken(w) {
				field := "abbreviations." + key
				return configError(field, fmt.Sprintf("%s: expansion %q must be lowercase alphanumeric words", field, expansion))
			}
			if _, ok := c.Abbreviations[w]; ok {
				field := "abbreviations." + key
				return configError(field, fmt.Sprintf("%s: expansion %q contains abbreviation %q", field, expansion, w))
			}
		}
	}

	return nil
}

func configError(field, msg string) error {
	return fgerrors.ErrConfiguration.WithMessage(msg).WithMetadata("field", field)
}

func paramSuffix(p string) string {
	if p == "" {
		return ""
	}
	return "=" + p
}

func isToken(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}

var recordValidator = newRecordValidator()

func newRecordValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// ValidateRecord checks the fields the engine needs to compare a record.
// Ids must be positive; a zero id is what a loader leaves when the field is
// missing.
func ValidateRecord(rec CatalogRecord) error {
	err := recordValidator.Struct(rec)
	if err == nil {
		return nil
	}

	idLabel := fmt.Sprintf("%d", rec.ID)
	var fieldErrs validator.ValidationErrors
	if stderrors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		problem := "is required"
		if fe.Tag() == "gt" {
			problem = "must be a positive integer"
		}
		msg := fmt.Sprintf("record %s (slug %q): %s %s", idLabel, rec.Slug, fe.Field(), problem)
		return fgerrors.ErrInvalidRecord.WithMessage(msg).
			WithMetadata("record_id", idLabel).
			WithMetadata("field", fe.Field())
	}
	return fgerrors.ErrInvalidRecord.WithCause(err).WithMetadata("record_id", idLabel)
}
