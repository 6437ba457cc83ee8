// Package report holds helpers shared by the report sinks.
package report

import (
	"context"
	"errors"

	"github.com/nathangeffen/matchcmp/internal/domain"
	"github.com/nathangeffen/matchcmp/internal/ports"
)

// Tee forwards every write to each sink in order and stops at the first
// failure.
type Tee []ports.ReportSink

var _ ports.ReportSink = Tee(nil)

func NewTee(sinks ...ports.ReportSink) Tee {
	out := make(Tee, 0, len(sinks))
	for _, sink := range sinks {
		if sink != nil {
			out = append(out, sink)
		}
	}
	return out
}

func (t Tee) WriteRecord(ctx context.Context, record domain.Record) error {
	for _, sink := range t {
		if err := sink.WriteRecord(ctx, record); err != nil {
			return err
		}
	}
	return nil
}

func (t Tee) WriteSummary(ctx context.Context, summary domain.Summary) error {
	for _, sink := range t {
		if err := sink.WriteSummary(ctx, summary); err != nil {
			return err
		}
	}
	return nil
}

// Abort aborts every sink and joins their errors.
func (t Tee) Abort() error {
	var errs []error
	for _, sink := range t {
		if err := sink.Abort(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every sink and joins their errors.
func (t Tee) Close() error {
	var errs []error
	for _, sink := range t {
		if err := sink.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
