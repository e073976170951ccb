package file_generators

import (
	"bytes"
	"fmt"
	"time"

	"github.com/muktihari/fit/encoder"
	"github.com/muktihari/fit/profile/mesgdef"
	"github.com/muktihari/fit/profile/typedef"
	"github.com/muktihari/fit/proto"

	"github.com/ripixel/fitglue-server/catalog/pkg/dedupe"
)

// GenerateCatalogFitFile encodes a catalog as a FIT workout file with one
// exercise_title message per record. The record name becomes the step name
// and the category is mapped onto the FIT exercise category.
func GenerateCatalogFitFile(name string, records []dedupe.CatalogRecord, created time.Time) ([]byte, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("catalog must have at least one record")
	}
	if len(records) > int(typedef.MessageIndexMask) {
		return nil, fmt.Errorf("catalog has %d records, FIT allows at most %d", len(records), typedef.MessageIndexMask)
	}

	fit := &proto.FIT{
		Messages: []proto.Message{},
	}

	// 1. FileId message
	fileId := mesgdef.NewFileId(nil).
		SetType(typedef.FileWorkout).
		SetManufacturer(typedef.ManufacturerDevelopment).
		SetProduct(1). // FitGlue product ID
		SetTimeCreated(created)
	fit.Messages = append(fit.Messages, fileId.ToMesg(nil))

	// 2. Workout message
	workout := mesgdef.NewWorkout(nil).
		SetWktName(name).
		SetSport(typedef.SportTraining).
		SetNumValidSteps(uint16(len(records)))
	fit.Messages = append(fit.Messages, workout.ToMesg(nil))

	// 3. ExerciseTitle message per record
	for i, rec := range records {
		title := mesgdef.NewExerciseTitle(nil).
			SetMessageIndex(typedef.MessageIndex(i)).
			SetExerciseCategory(MapCategory(rec.Category)).
			SetExerciseName(uint16(i)).
			SetWktStepName([]string{rec.Name})
		fit.Messages = append(fit.Messages, title.ToMesg(nil))
	}

	var buf bytes.Buffer
	enc := encoder.New(&buf)

	if err := enc.Encode(fit); err != nil {
		return nil, fmt.Errorf("failed to encode FIT file: %w", err)
	}

	return buf.Bytes(), nil
}

// MapCategory maps a catalog category onto the FIT exercise category with
// the same name, falling back to unknown.
func MapCategory(category string) typedef.ExerciseCategory {
	c := typedef.ExerciseCategoryFromString(category)
	if c == typedef.ExerciseCategoryInvalid {
		return typedef.ExerciseCategoryUnknown
	}
	return c
}
