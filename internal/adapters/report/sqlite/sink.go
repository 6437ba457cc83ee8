// Package sqlite archives run reports in a SQLite database so several runs
// can be compared with SQL.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/nathangeffen/matchcmp/internal/domain"
	"github.com/nathangeffen/matchcmp/internal/ports"
	_ "modernc.org/sqlite"
)

const insertRecord = `INSERT INTO records (
    run_id, step, year, agents, alive, infected, prevalence,
    males_alive, males_infected, male_prevalence,
    females_alive, females_infected, female_prevalence,
    hiv_neg, hiv_p, cdc1, cdc2, cdc3, cdc4, partnerships
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

const insertSummary = `INSERT OR REPLACE INTO summaries (
    run_id, label, agents, males, females, alive_males, alive_females,
    youngest, oldest, mean_age,
    infected_males, infected_females, male_prevalence, female_prevalence,
    male_incidence, female_incidence, incidence
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// Sink writes one run into the archive. Rows are written in a single
// transaction committed by Close.
type Sink struct {
	db     *sql.DB
	tx     *sql.Tx
	record *sql.Stmt
	runID  domain.RunID
	step   int
}

var _ ports.ReportSink = (*Sink)(nil)

// Open opens or creates the archive at path and registers runID, stamped with
// the clock's time. A nil clock uses the system clock.
func Open(ctx context.Context, path string, runID domain.RunID, label string, clock ports.Clock) (*Sink, error) {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open report database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := InitSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize report schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("begin report transaction: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO runs (id, label, created_at) VALUES (?, ?, ?)`,
		string(runID), label, clock.Now().UTC().Format(time.RFC3339)); err != nil {
		_ = tx.Rollback()
		_ = db.Close()
		return nil, fmt.Errorf("register run %s: %w", runID, err)
	}

	stmt, err := tx.PrepareContext(ctx, insertRecord)
	if err != nil {
		_ = tx.Rollback()
		_ = db.Close()
		return nil, fmt.Errorf("prepare record insert: %w", err)
	}

	return &Sink{db: db, tx: tx, record: stmt, runID: runID}, nil
}

func (s *Sink) WriteRecord(ctx context.Context, r domain.Record) error {
	_, err := s.record.ExecContext(ctx,
		string(s.runID), s.step, r.Date, r.PopulationSize, r.Alive, r.Infected, nullRatio(r.Prevalence),
		r.MaleAlive, r.MaleInfected, nullRatio(r.MalePrevalence),
		r.FemaleAlive, r.FemaleInfected, nullRatio(r.FemalePrevalence),
		r.Stages[0], r.Stages[1], r.Stages[2], r.Stages[3], r.Stages[4], r.Stages[5],
		r.Partnerships,
	)
	if err != nil {
		return fmt.Errorf("insert record %d: %w", s.step, err)
	}
	s.step++
	return nil
}

func (s *Sink) WriteSummary(ctx context.Context, sum domain.Summary) error {
	var male, female, overall sql.NullFloat64
	if sum.Incidence != nil {
		male = nullRatio(sum.Incidence.Male)
		female = nullRatio(sum.Incidence.Female)
		overall = nullRatio(sum.Incidence.Overall)
	}

	_, err := s.tx.ExecContext(ctx, insertSummary,
		string(s.runID), sum.Label, sum.Agents, sum.Males, sum.Females, sum.AliveMales, sum.AliveFemales,
		sum.Youngest, sum.Oldest, sum.MeanAge,
		sum.InfectedMales, sum.InfectedFemales,
		nullRatio(sum.MalePrevalence), nullRatio(sum.FemalePrevalence),
		male, female, overall,
	)
	if err != nil {
		return fmt.Errorf("insert %s summary: %w", sum.Label, err)
	}
	return nil
}

// Close commits the run and closes the database.
func (s *Sink) Close() error {
	if s.db == nil {
		return nil
	}
	defer func() {
		_ = s.db.Close()
		s.db = nil
	}()

	_ = s.record.Close()
	if err := s.tx.Commit(); err != nil {
		return fmt.Errorf("commit report: %w", err)
	}
	return nil
}

// Abort rolls back everything written for the run, including its runs row,
// and closes the database.
func (s *Sink) Abort() error {
	if s.db == nil {
		return nil
	}
	defer func() {
		_ = s.db.Close()
		s.db = nil
	}()

	_ = s.record.Close()
	if err := s.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("roll back report: %w", err)
	}
	return nil
}

func nullRatio(r domain.Ratio) sql.NullFloat64 {
	v, ok := r.Value()
	return sql.NullFloat64{Float64: v, Valid: ok}
}
