package database

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/ripixel/fitglue-server/catalog/pkg/dedupe"
	storage "github.com/ripixel/fitglue-server/catalog/pkg/storage/firestore"
	"github.com/ripixel/fitglue-server/catalog/pkg/types"
)

const collectionExecutions = "executions"

// FirestoreAdapter provides database operations using Firestore
type FirestoreAdapter struct {
	Client *firestore.Client
}

func NewFirestoreAdapter(client *firestore.Client) *FirestoreAdapter {
	return &FirestoreAdapter{Client: client}
}

func (a *FirestoreAdapter) SetExecution(ctx context.Context, record *types.ExecutionRecord) error {
	_, err := a.Client.Collection(collectionExecutions).Doc(record.ExecutionID).Set(ctx, storage.ExecutionToFirestore(record))
	return err
}

func (a *FirestoreAdapter) UpdateExecution(ctx context.Context, id string, data map[string]interface{}) error {
	// MergeAll so partial status updates don't clobber the pending record
	_, err := a.Client.Collection(collectionExecutions).Doc(id).Set(ctx, data, firestore.MergeAll)
	return err
}

// --- Catalog ---

// ListExercises reads every document in the collection, ordered by document ID.
func (a *FirestoreAdapter) ListExercises(ctx context.Context, collection string) ([]dedupe.CatalogRecord, error) {
	iter := a.Client.Collection(collection).OrderBy(firestore.DocumentID, firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var records []dedupe.CatalogRecord
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", collection, err)
		}
		records = append(records, storage.FirestoreToExercise(doc.Ref.ID, doc.Data()))
	}
	return records, nil
}
