// Package catalog loads exercise catalogs from files, Cloud Storage and
// Firestore into dedupe records.
package catalog

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/ripixel/fitglue-server/catalog/pkg/dedupe"
	fgerrors "github.com/ripixel/fitglue-server/catalog/pkg/errors"
)

// Source yields a catalog snapshot.
type Source interface {
	Load(ctx context.Context) ([]dedupe.CatalogRecord, error)
}

// Format identifies a catalog encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatFIT  Format = "fit"
)

// FormatFromPath picks the format from a file or object name extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".fit":
		return FormatFIT, nil
	}
	return "", fgerrors.ErrUnsupportedFormat.
		WithMessage("unsupported catalog format for " + path + " (want .json or .fit)").
		WithMetadata("path", path)
}

// Options tune how records are built from formats that lack some fields.
type Options struct {
	// DefaultMuscleGroup fills PrimaryMuscleGroup for FIT catalogs. When
	// empty the FIT exercise category is used.
	DefaultMuscleGroup string

	// InferMuscleGroups looks FIT exercise names up in MuscleTaxonomy
	// first. Unmatched names fall back to DefaultMuscleGroup.
	InferMuscleGroups bool
}

// Decode parses raw catalog bytes in the given format.
func Decode(data []byte, format Format, opts Options) ([]dedupe.CatalogRecord, error) {
	switch format {
	case FormatJSON:
		return DecodeJSON(data)
	case FormatFIT:
		return DecodeFIT(data, opts)
	}
	return nil, fgerrors.ErrUnsupportedFormat.
		WithMessage("unsupported catalog format " + string(format)).
		WithMetadata("format", string(format))
}

// NewFileSource returns the file source matching the path extension.
func NewFileSource(path string, opts Options) (Source, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	if format == FormatFIT {
		return &FitFileSource{Path: path, Options: opts}, nil
	}
	return &JSONFileSource{Path: path}, nil
}

// Slugify derives a URL-safe slug from a display name.
func Slugify(name string) string {
	return strings.ReplaceAll(dedupe.NewNormalizer(nil, false).Normalize(name), " ", "-")
}
