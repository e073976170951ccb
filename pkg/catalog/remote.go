package catalog

import (
	"context"

	shared "github.com/ripixel/fitglue-server/catalog/pkg"
	"github.com/ripixel/fitglue-server/catalog/pkg/dedupe"
	fgerrors "github.com/ripixel/fitglue-server/catalog/pkg/errors"
)

// FirestoreSource reads the exercise collection through the database adapter.
type FirestoreSource struct {
	DB         shared.Database
	Collection string
}

func (s *FirestoreSource) Load(ctx context.Context) ([]dedupe.CatalogRecord, error) {
	records, err := s.DB.ListExercises(ctx, s.Collection)
	if err != nil {
		return nil, fgerrors.WrapRetryable(err, fgerrors.CodeCatalogLoadError, "failed to list exercises").
			WithMetadata("collection", s.Collection)
	}
	return records, nil
}

// BlobSource reads a JSON or FIT catalog object from Cloud Storage.
type BlobSource struct {
	Store   shared.BlobStore
	Bucket  string
	Object  string
	Options Options
}

func (s *BlobSource) Load(ctx context.Context) ([]dedupe.CatalogRecord, error) {
	format, err := FormatFromPath(s.Object)
	if err != nil {
		return nil, err
	}
	data, err := s.Store.Read(ctx, s.Bucket, s.Object)
	if err != nil {
		return nil, fgerrors.ErrCatalogLoad.WithCause(err).
			WithMetadata("bucket", s.Bucket).
			WithMetadata("object", s.Object)
	}
	records, err := Decode(data, format, s.Options)
	if err != nil {
		return nil, withPath(err, "gs://"+s.Bucket+"/"+s.Object)
	}
	return records, nil
}
