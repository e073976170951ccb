package catalog

import (
	"context"
	"encoding/json"
	"os"

	"github.com/ripixel/fitglue-server/catalog/pkg/dedupe"
	fgerrors "github.com/ripixel/fitglue-server/catalog/pkg/errors"
)

// JSONFileSource reads a JSON array of catalog records.
type JSONFileSource struct {
	Path string
}

func (s *JSONFileSource) Load(ctx context.Context) ([]dedupe.CatalogRecord, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fgerrors.ErrCatalogLoad.WithCause(err).WithMetadata("path", s.Path)
	}
	records, err := DecodeJSON(data)
	if err != nil {
		return nil, withPath(err, s.Path)
	}
	return records, nil
}

// DecodeJSON parses a JSON array of catalog records.
func DecodeJSON(data []byte) ([]dedupe.CatalogRecord, error) {
	var records []dedupe.CatalogRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fgerrors.ErrCatalogLoad.WithCause(err).WithMessage("failed to parse JSON catalog")
	}
	return records, nil
}

func withPath(err error, path string) error {
	if fgErr, ok := err.(*fgerrors.FitGlueError); ok {
		return fgErr.WithMetadata("path", path)
	}
	return err
}
