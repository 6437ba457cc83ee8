package csv

import (
	"context"
	encodingcsv "encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/nathangeffen/matchcmp/internal/domain"
	"github.com/nathangeffen/matchcmp/internal/ports"
)

// Header lists the report columns. The six stage columns follow the stage
// order: uninfected, acute, then the four chronic stages.
var Header = []string{
	"year", "agents", "alive", "infected", "prevalence",
	"males_alive", "males_infected", "male_prevalence",
	"females_alive", "females_infected", "female_prevalence",
	"hiv_neg", "hiv_p", "cdc1", "cdc2", "cdc3", "cdc4",
}

// Sink writes one CSV row per record. Summaries are not part of the CSV
// report and are ignored.
type Sink struct {
	w             *encodingcsv.Writer
	closer        io.Closer
	path          string
	headerWritten bool
	done          bool
}

var _ ports.ReportSink = (*Sink)(nil)

// NewSink writes to w. The caller keeps ownership of w.
func NewSink(w io.Writer) *Sink {
	return &Sink{w: encodingcsv.NewWriter(w)}
}

// Create truncates or creates path and writes the report to it.
func Create(path string) (*Sink, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create csv report: %w", err)
	}

	sink := NewSink(file)
	sink.closer = file
	sink.path = path
	return sink, nil
}

func (s *Sink) WriteRecord(ctx context.Context, record domain.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if !s.headerWritten {
		if err := s.w.Write(Header); err != nil {
			return fmt.Errorf("write csv header: %w", err)
		}
		s.headerWritten = true
	}

	if err := s.w.Write(Row(record)); err != nil {
		return fmt.Errorf("write csv row: %w", err)
	}

	return nil
}

func (s *Sink) WriteSummary(context.Context, domain.Summary) error {
	return nil
}

// Close flushes buffered rows and closes the file opened by Create.
func (s *Sink) Close() error {
	if s.done {
		return nil
	}
	s.done = true

	s.w.Flush()
	err := s.w.Error()
	if s.closer != nil {
		if closeErr := s.closer.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		s.closer = nil
	}
	if err != nil {
		return fmt.Errorf("close csv report: %w", err)
	}
	return nil
}

// Abort drops unflushed rows. A report file opened by Create is closed and
// removed; rows already written to a caller's writer stay there.
func (s *Sink) Abort() error {
	if s.done {
		return nil
	}
	s.done = true

	if s.closer == nil {
		return nil
	}
	err := s.closer.Close()
	s.closer = nil
	if removeErr := os.Remove(s.path); removeErr != nil && !errors.Is(removeErr, os.ErrNotExist) {
		err = errors.Join(err, removeErr)
	}
	if err != nil {
		return fmt.Errorf("abort csv report: %w", err)
	}
	return nil
}

// Row renders a record in Header order. Undefined ratios render as NA.
func Row(r domain.Record) []string {
	row := []string{
		strconv.FormatFloat(r.Date, 'f', 4, 64),
		strconv.Itoa(r.PopulationSize),
		strconv.Itoa(r.Alive),
		strconv.Itoa(r.Infected),
		r.Prevalence.String(),
		strconv.Itoa(r.MaleAlive),
		strconv.Itoa(r.MaleInfected),
		r.MalePrevalence.String(),
		strconv.Itoa(r.FemaleAlive),
		strconv.Itoa(r.FemaleInfected),
		r.FemalePrevalence.String(),
	}
	for _, n := range r.Stages {
		row = append(row, strconv.Itoa(n))
	}
	return row
}
