package collect

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/extract"
	"github.com/sells-group/leadgen-cli/internal/model"
)

const (
	defaultCDXBase      = "https://web.archive.org/cdx/search/cdx"
	defaultSnapshotBase = "https://web.archive.org/web"
)

// WebArchive recovers contact details from archived snapshots of a
// domain. Useful when the live site is gone or has dropped its contact
// page; anything found here is dated, so confidence stays low.
type WebArchive struct {
	fetcher      Fetcher
	cdxBase      string
	snapshotBase string
}

// NewWebArchive creates the collector. Empty base URLs mean the public
// Wayback endpoints.
func NewWebArchive(fetcher Fetcher, cdxBase, snapshotBase string) *WebArchive {
	if cdxBase == "" {
		cdxBase = defaultCDXBase
	}
	if snapshotBase == "" {
		snapshotBase = defaultSnapshotBase
	}
	return &WebArchive{fetcher: fetcher, cdxBase: cdxBase, snapshotBase: snapshotBase}
}

// Source implements Collector.
func (w *WebArchive) Source() model.Source {
	return model.SourceWebArchive
}

// Collect queries the CDX index for the newest capture of the domain,
// fetches that snapshot and extracts contact details from it.
func (w *WebArchive) Collect(ctx context.Context, q Query) (*Result, error) {
	if q.Domain == "" {
		return &Result{Source: w.Source()}, nil
	}

	cdxURL := fmt.Sprintf("%s?url=%s&output=json&filter=statuscode:200&limit=-1&fl=timestamp,original",
		w.cdxBase, url.QueryEscape(q.Domain))
	body, err := w.fetcher.Fetch(ctx, cdxURL)
	if err != nil {
		return nil, eris.Wrapf(err, "collect: cdx query %s", q.Domain)
	}

	timestamp, original, ok := latestCapture(body)
	if !ok {
		zap.L().Debug("collect: no archive captures", zap.String("domain", q.Domain))
		return &Result{Source: w.Source()}, nil
	}

	snapshot, err := w.fetcher.Fetch(ctx, fmt.Sprintf("%s/%s/%s", w.snapshotBase, timestamp, original))
	if err != nil {
		return nil, eris.Wrapf(err, "collect: snapshot %s", q.Domain)
	}

	result := &Result{Source: w.Source()}
	for _, addr := range extract.Emails(snapshot) {
		result.Emails = append(result.Emails, model.EmailCandidate{
			Address:    addr,
			Role:       model.ClassifyEmailRole(addr),
			Source:     w.Source(),
			Confidence: model.ConfidenceLow,
		})
	}
	for _, number := range extract.Phones(snapshot) {
		result.Phones = append(result.Phones, model.PhoneCandidate{
			Number: model.NormalizePhone(number),
			Type:   model.ClassifyPhone(number),
			Source: w.Source(),
		})
	}
	return result, nil
}

// latestCapture parses the CDX JSON array-of-arrays form. The first row
// is the header; limit=-1 asks for the newest capture.
func latestCapture(body string) (timestamp, original string, ok bool) {
	var rows [][]string
	if err := json.Unmarshal([]byte(body), &rows); err != nil || len(rows) < 2 {
		return "", "", false
	}
	row := rows[len(rows)-1]
	if len(row) < 2 || row[0] == "timestamp" {
		return "", "", false
	}
	return row[0], row[1], true
}
