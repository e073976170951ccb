package dedupe

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	"github.com/cloudevents/sdk-go/v2/event"

	shared "github.com/ripixel/fitglue-server/catalog/pkg"
	"github.com/ripixel/fitglue-server/catalog/pkg/bootstrap"
	"github.com/ripixel/fitglue-server/catalog/pkg/catalog"
	"github.com/ripixel/fitglue-server/catalog/pkg/config"
	engine "github.com/ripixel/fitglue-server/catalog/pkg/dedupe"
	fgerrors "github.com/ripixel/fitglue-server/catalog/pkg/errors"
	"github.com/ripixel/fitglue-server/catalog/pkg/framework"
	"github.com/ripixel/fitglue-server/catalog/pkg/report"
	"github.com/ripixel/fitglue-server/catalog/pkg/types"
)

const serviceName = "catalog-dedupe"

var (
	svc     *bootstrap.Service
	svcOnce sync.Once
	svcErr  error
)

func init() {
	functions.CloudEvent("DetectDuplicates", DetectDuplicates)
}

func initService(ctx context.Context) (*bootstrap.Service, error) {
	if svc != nil {
		return svc, nil
	}
	svcOnce.Do(func() {
		svc, svcErr = bootstrap.NewService(ctx)
		if svcErr != nil {
			slog.Error("Failed to initialize service", "error", svcErr)
		}
	})
	return svc, svcErr
}

// DetectDuplicates is the entry point
func DetectDuplicates(ctx context.Context, e event.Event) error {
	svc, err := initService(ctx)
	if err != nil {
		return fmt.Errorf("service init failed: %v", err)
	}
	return framework.WrapCloudEvent(serviceName, svc, scanHandler)(ctx, e)
}

// ScanRequest selects the catalog to scan. An empty request scans the
// configured Firestore collection.
type ScanRequest struct {
	Collection string `json:"collection,omitempty"`

	// Bucket and Object point at a JSON or FIT catalog in Cloud Storage.
	// Bucket defaults to the report bucket.
	Bucket string `json:"bucket,omitempty"`
	Object string `json:"object,omitempty"`

	DefaultMuscleGroup string `json:"default_muscle_group,omitempty"`
	InferMuscleGroups  bool   `json:"infer_muscle_groups,omitempty"`
}

func parseRequest(e event.Event) (ScanRequest, error) {
	var req ScanRequest

	data := e.Data()
	// Plain JSON published straight to the topic arrives still enveloped
	if e.Type() == "google.cloud.pubsub.topic.v1.messagePublished" {
		var msg types.PubSubMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return req, fgerrors.ErrValidation.WithCause(err).WithMessage("invalid Pub/Sub envelope")
		}
		data = msg.Message.Data
	}

	if len(data) == 0 {
		return req, nil
	}
	if err := json.Unmarshal(data, &req); err != nil {
		return req, fgerrors.ErrValidation.WithCause(err).WithMessage("invalid scan request")
	}
	return req, nil
}

func sourceFor(req ScanRequest, svc *bootstrap.Service) catalog.Source {
	opts := catalog.Options{DefaultMuscleGroup: req.DefaultMuscleGroup, InferMuscleGroups: req.InferMuscleGroups}
	if req.Object != "" {
		bucket := req.Bucket
		if bucket == "" {
			bucket = svc.Config.GCSReportBucket
		}
		return &catalog.BlobSource{Store: svc.Store, Bucket: bucket, Object: req.Object, Options: opts}
	}
	collection := req.Collection
	if collection == "" {
		collection = svc.Config.CatalogCollection
	}
	return &catalog.FirestoreSource{DB: svc.DB, Collection: collection}
}

// scanHandler contains the business logic
func scanHandler(ctx context.Context, e event.Event, fwCtx *framework.FrameworkContext) (interface{}, error) {
	svc := fwCtx.Service
	logger := fwCtx.Logger

	req, err := parseRequest(e)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(svc.Config.DedupeConfigPath)
	if err != nil {
		return map[string]interface{}{"status": "invalid_config"}, err
	}

	records, err := sourceFor(req, svc).Load(ctx)
	if err != nil {
		return map[string]interface{}{"status": "load_failed"}, err
	}
	logger.Info("Catalog loaded", "records", len(records), "collection", req.Collection, "object", req.Object)

	eng, err := engine.New(cfg, engine.WithLogger(logger))
	if err != nil {
		return map[string]interface{}{"status": "invalid_config"}, err
	}
	res, err := eng.Run(ctx, records)
	if err != nil {
		return map[string]interface{}{"status": "scan_failed"}, fgerrors.ErrTimeout.WithCause(err).WithMessage("duplicate scan interrupted")
	}

	var object string
	if bucket := svc.Config.GCSReportBucket; bucket != "" {
		object, err = report.Upload(ctx, svc.Store, bucket, res)
		if err != nil {
			return report.NewSummary(res, ""), err
		}
		logger.Info("Report uploaded", "bucket", bucket, "object", object)
	} else {
		logger.Warn("GCS_REPORT_BUCKET not set, skipping report upload")
	}

	summary := report.NewSummary(res, object)

	ev, err := report.NewReportEvent(res, object)
	if err != nil {
		return summary, err
	}
	msgID, err := svc.Pub.PublishCloudEvent(ctx, shared.TopicCatalogDuplicates, ev)
	if err != nil {
		return summary, fgerrors.ErrPubSubError.WithCause(err).WithMetadata("topic", shared.TopicCatalogDuplicates)
	}
	logger.Info("Published duplicates event", "message_id", msgID, "findings", summary.Findings)

	return summary, nil
}
