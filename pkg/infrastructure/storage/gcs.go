package storage

import (
	"context"
	"errors"
	"io"
	"strings"

	"cloud.google.com/go/storage"

	fgerrors "github.com/ripixel/fitglue-server/catalog/pkg/errors"
)

// StorageAdapter reads and writes objects in Cloud Storage
type StorageAdapter struct {
	Client *storage.Client
}

func (a *StorageAdapter) Write(ctx context.Context, bucketName, objectName string, data []byte) error {
	wc := a.Client.Bucket(bucketName).Object(objectName).NewWriter(ctx)
	wc.ContentType = contentType(objectName)
	if _, err := wc.Write(data); err != nil {
		_ = wc.Close()
		return fgerrors.WrapRetryable(err, fgerrors.CodeStorageError, "write gs://"+bucketName+"/"+objectName)
	}
	if err := wc.Close(); err != nil {
		return fgerrors.WrapRetryable(err, fgerrors.CodeStorageError, "close gs://"+bucketName+"/"+objectName)
	}
	return nil
}

func (a *StorageAdapter) Read(ctx context.Context, bucketName, objectName string) ([]byte, error) {
	rc, err := a.Client.Bucket(bucketName).Object(objectName).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, fgerrors.Wrap(err, fgerrors.CodeStorageError, "object gs://"+bucketName+"/"+objectName+" not found")
		}
		return nil, fgerrors.WrapRetryable(err, fgerrors.CodeStorageError, "open gs://"+bucketName+"/"+objectName)
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func contentType(objectName string) string {
	switch {
	case strings.HasSuffix(objectName, ".json"):
		return "application/json"
	case strings.HasSuffix(objectName, ".fit"):
		return "application/vnd.ant.fit"
	case strings.HasSuffix(objectName, ".txt"):
		return "text/plain; charset=utf-8"
	}
	return "application/octet-stream"
}
