package catalog

import (
	"bytes"
	"context"
	"os"
	"strings"

	"github.com/muktihari/fit/decoder"
	"github.com/muktihari/fit/profile/mesgdef"
	"github.com/muktihari/fit/profile/typedef"

	"github.com/ripixel/fitglue-server/catalog/pkg/dedupe"
	fgerrors "github.com/ripixel/fitglue-server/catalog/pkg/errors"
)

// FitFileSource reads the exercise_title messages of a FIT workout file.
type FitFileSource struct {
	Path    string
	Options Options
}

func (s *FitFileSource) Load(ctx context.Context) ([]dedupe.CatalogRecord, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fgerrors.ErrCatalogLoad.WithCause(err).WithMetadata("path", s.Path)
	}
	records, err := DecodeFIT(data, s.Options)
	if err != nil {
		return nil, withPath(err, s.Path)
	}
	return records, nil
}

// DecodeFIT turns every exercise_title message into a record. The id is the
// message index plus one and the slug is derived from the step name.
func DecodeFIT(data []byte, opts Options) ([]dedupe.CatalogRecord, error) {
	fitDec := decoder.New(bytes.NewReader(data))
	fitData, err := fitDec.Decode()
	if err != nil {
		return nil, fgerrors.ErrCatalogLoad.WithCause(err).WithMessage("failed to decode FIT catalog")
	}

	var records []dedupe.CatalogRecord
	for i := range fitData.Messages {
		if fitData.Messages[i].Num != typedef.MesgNumExerciseTitle {
			continue
		}
		title := mesgdef.NewExerciseTitle(&fitData.Messages[i])

		name := strings.Join(title.WktStepName, " ")
		category := title.ExerciseCategory.String()
		muscle := opts.muscleGroupFor(name, category)

		records = append(records, dedupe.CatalogRecord{
			ID:                 int(title.MessageIndex&typedef.MessageIndexMask) + 1,
			Slug:               Slugify(name),
			Name:               name,
			Category:           category,
			PrimaryMuscleGroup: muscle,
		})
	}
	return records, nil
}

func (o Options) muscleGroupFor(name, category string) string {
	if o.InferMuscleGroups {
		if res := InferMuscleGroup(name); res.Matched {
			return res.Primary
		}
	}
	if o.DefaultMuscleGroup != "" {
		return o.DefaultMuscleGroup
	}
	return category
}
