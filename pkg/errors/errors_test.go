package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFitGlueError_Error(t *testing.T) {
	err := ErrConfiguration.WithMessage("jaccard_threshold must be <= 1")
	assert.Equal(t, "[CONFIGURATION_ERROR] jaccard_threshold must be <= 1", err.Error())

	wrapped := Wrap(fmt.Errorf("boom"), CodeCatalogLoadError, "read catalog")
	assert.Equal(t, "[CATALOG_LOAD_ERROR] read catalog: boom", wrapped.Error())
}

func TestFitGlueError_IsMatchesByCode(t *testing.T) {
	derived := ErrInvalidRecord.WithMessage("record 7: name is required").WithMetadata("record_id", "7")

	assert.True(t, stderrors.Is(derived, ErrInvalidRecord))
	assert.False(t, stderrors.Is(derived, ErrConfiguration))

	outer := fmt.Errorf("scan: %w", derived)
	assert.True(t, stderrors.Is(outer, ErrInvalidRecord))
	assert.Equal(t, CodeInvalidRecord, GetCode(outer))
	assert.Equal(t, "7", GetMetadata(outer, "record_id"))
}

func TestWithMetadata_DoesNotMutateSentinel(t *testing.T) {
	_ = ErrConfiguration.WithMetadata("field", "containment_ratio")
	assert.Empty(t, ErrConfiguration.Metadata)
}

func TestIsRetryable(t *testing.T) {
	assert.False(t, IsRetryable(nil))
	assert.False(t, IsRetryable(stderrors.New("plain")))
	assert.False(t, IsRetryable(ErrConfiguration))
	assert.True(t, IsRetryable(ErrStorageError.WithCause(stderrors.New("503"))))
	assert.True(t, IsRetryable(fmt.Errorf("upload: %w", ErrPubSubError)))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, ErrorCode(""), GetCode(nil))
	assert.Equal(t, CodeInternalError, GetCode(stderrors.New("plain")))
	assert.Equal(t, CodeTimeoutError, GetCode(ErrTimeout))
}
