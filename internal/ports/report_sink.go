package ports

import (
	"context"

	"github.com/nathangeffen/matchcmp/internal/domain"
)

// ReportSink receives a run's output in order: the begin summary, one record
// per reporting point, then the end summary. A completed run is finished with
// Close; a run that failed part way is finished with Abort, which discards
// whatever the sink can still discard. Only the first of Close or Abort has
// an effect.
type ReportSink interface {
	WriteRecord(ctx context.Context, record domain.Record) error
	WriteSummary(ctx context.Context, summary domain.Summary) error
	Close() error
	Abort() error
}
