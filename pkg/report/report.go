// Package report renders duplicate scan results for people and machines.
package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	cloudevents "github.com/cloudevents/sdk-go/v2"

	shared "github.com/ripixel/fitglue-server/catalog/pkg"
	"github.com/ripixel/fitglue-server/catalog/pkg/dedupe"
	fgerrors "github.com/ripixel/fitglue-server/catalog/pkg/errors"
	infrapubsub "github.com/ripixel/fitglue-server/catalog/pkg/infrastructure/pubsub"
)

const (
	EventTypeDuplicates = "com.fitglue.catalog.duplicates"
	EventSource         = "/catalog/dedupe"
)

// Group is one reason's findings in a rendered document.
type Group struct {
	Reason   dedupe.Reason         `json:"reason"`
	Count    int                   `json:"count"`
	Findings []dedupe.MatchFinding `json:"findings"`
}

// Document is the JSON shape of a scan report. Groups follow evaluation
// order so the output is stable across runs.
type Document struct {
	RunID   string                 `json:"runId"`
	Stats   dedupe.Stats           `json:"stats"`
	Skipped []dedupe.SkippedRecord `json:"skipped,omitempty"`
	Groups  []Group                `json:"groups"`
	Pairs   []dedupe.PairSummary   `json:"pairs"`
}

// NewDocument flattens a result into its report document.
func NewDocument(res *dedupe.Result) Document {
	doc := Document{
		RunID:   res.RunID,
		Stats:   res.Stats,
		Skipped: res.Skipped,
		Groups:  []Group{},
		Pairs:   res.Report.Pairs(),
	}
	for _, r := range res.Report.Reasons() {
		findings := res.Report.Groups[r]
		doc.Groups = append(doc.Groups, Group{Reason: r, Count: len(findings), Findings: findings})
	}
	if doc.Pairs == nil {
		doc.Pairs = []dedupe.PairSummary{}
	}
	return doc
}

// WriteJSON writes the indented report document.
func WriteJSON(w io.Writer, res *dedupe.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewDocument(res))
}

// WriteText writes one table per reason followed by skipped records and a
// summary line. records supplies the names shown next to ids.
func WriteText(w io.Writer, res *dedupe.Result, records []dedupe.CatalogRecord) error {
	names := make(map[int]string, len(records))
	for _, r := range records {
		if _, ok := names[r.ID]; !ok {
			names[r.ID] = r.Name
		}
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, reason := range res.Report.Reasons() {
		findings := res.Report.Groups[reason]
		fmt.Fprintf(tw, "%s (%d)\n", reason, len(findings))
		fmt.Fprintln(tw, "  ID A\tNAME A\tID B\tNAME B\tDETAIL")
		for _, f := range findings {
			fmt.Fprintf(tw, "  %d\t%s\t%d\t%s\t%s\n", f.IDA, names[f.IDA], f.IDB, names[f.IDB], f.Detail)
		}
		fmt.Fprintln(tw)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, s := range res.Skipped {
		if _, err := fmt.Fprintf(w, "WARNING: skipped record #%d (id %d, slug %q): %s\n", s.Index, s.ID, s.Slug, s.Cause); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "Scanned %d records (%d skipped) in %d blocks: %d pairs compared, %d findings across %d pairs.\n",
		res.Stats.Records, len(res.Skipped), res.Stats.Blocks, res.Stats.PairsCompared, res.Report.Total(), len(res.Report.Pairs()))
	return err
}

// ObjectName is where Upload stores a run's report.
func ObjectName(runID string) string {
	return shared.ReportObjectPrefix + runID + ".json"
}

// Upload stores the JSON report in the bucket and returns the object name.
func Upload(ctx context.Context, store shared.BlobStore, bucket string, res *dedupe.Result) (string, error) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, res); err != nil {
		return "", fgerrors.Wrap(err, fgerrors.CodeInternalError, "failed to render report")
	}
	object := ObjectName(res.RunID)
	if err := store.Write(ctx, bucket, object, buf.Bytes()); err != nil {
		return "", fgerrors.WrapRetryable(err, fgerrors.CodeStorageError, "failed to upload report").
			WithMetadata("bucket", bucket).
			WithMetadata("object", object)
	}
	return object, nil
}

// Summary is the payload of the duplicates event.
type Summary struct {
	RunID         string         `json:"runId"`
	Records       int            `json:"records"`
	Skipped       int            `json:"skipped"`
	PairsCompared int            `json:"pairsCompared"`
	Findings      int            `json:"findings"`
	Pairs         int            `json:"pairs"`
	ByReason      map[string]int `json:"byReason"`
	ReportObject  string         `json:"reportObject,omitempty"`
}

// NewSummary condenses a result for events and execution logs.
func NewSummary(res *dedupe.Result, reportObject string) Summary {
	byReason := make(map[string]int)
	for _, r := range res.Report.Reasons() {
		byReason[r.String()] = len(res.Report.Groups[r])
	}
	return Summary{
		RunID:         res.RunID,
		Records:       res.Stats.Records,
		Skipped:       len(res.Skipped),
		PairsCompared: res.Stats.PairsCompared,
		Findings:      res.Report.Total(),
		Pairs:         len(res.Report.Pairs()),
		ByReason:      byReason,
		ReportObject:  reportObject,
	}
}

// NewReportEvent builds the CloudEvent announcing a finished scan.
func NewReportEvent(res *dedupe.Result, reportObject string) (cloudevents.Event, error) {
	e, err := infrapubsub.NewCloudEvent(EventSource, EventTypeDuplicates, NewSummary(res, reportObject))
	if err != nil {
		return e, fgerrors.Wrap(err, fgerrors.CodePubSubError, "failed to build report event")
	}
	e.SetSubject(res.RunID)
	return e, nil
}
