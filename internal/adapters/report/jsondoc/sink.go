package jsondoc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/nathangeffen/matchcmp/internal/domain"
	"github.com/nathangeffen/matchcmp/internal/ports"
)

// Document is the JSON form of a whole run. Undefined ratios encode as null.
type Document struct {
	RunID     domain.RunID     `json:"run_id,omitempty"`
	Label     string           `json:"label,omitempty"`
	Seed      uint64           `json:"seed"`
	Summaries []domain.Summary `json:"summaries"`
	Records   []domain.Record  `json:"records"`
}

// Sink buffers a run and writes it as one document on Close.
type Sink struct {
	w   io.Writer
	doc Document
}

var _ ports.ReportSink = (*Sink)(nil)

func NewSink(w io.Writer, runID domain.RunID, label string, seed uint64) *Sink {
	return &Sink{
		w: w,
		doc: Document{
			RunID:     runID,
			Label:     label,
			Seed:      seed,
			Summaries: []domain.Summary{},
			Records:   []domain.Record{},
		},
	}
}

func (s *Sink) WriteRecord(ctx context.Context, record domain.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.doc.Records = append(s.doc.Records, record)
	return nil
}

func (s *Sink) WriteSummary(ctx context.Context, summary domain.Summary) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.doc.Summaries = append(s.doc.Summaries, summary)
	return nil
}

func (s *Sink) Document() Document {
	return s.doc
}

func (s *Sink) Close() error {
	if s.w == nil {
		return nil
	}

	enc := json.NewEncoder(s.w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s.doc); err != nil {
		return fmt.Errorf("encode json report: %w", err)
	}
	s.w = nil
	return nil
}

// Abort drops the buffered document without writing it.
func (s *Sink) Abort() error {
	s.w = nil
	return nil
}
