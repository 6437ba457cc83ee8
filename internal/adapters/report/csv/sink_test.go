package csv

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nathangeffen/matchcmp/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecord(date float64) domain.Record {
	return domain.Record{
		Date:             date,
		PopulationSize:   10,
		Alive:            10,
		Infected:         3,
		Prevalence:       domain.Ratio{Num: 3, Den: 10},
		MaleAlive:        4,
		MaleInfected:     1,
		MalePrevalence:   domain.Ratio{Num: 1, Den: 4},
		FemaleAlive:      6,
		FemaleInfected:   2,
		FemalePrevalence: domain.Ratio{Num: 2, Den: 6},
		Stages:           [domain.NumStages]int{7, 1, 1, 1, 0, 0},
	}
}

func TestSinkWritesHeaderOnceAndRows(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	sink := NewSink(&buf)

	require.NoError(t, sink.WriteSummary(context.Background(), domain.Summary{Label: "begin"}))
	require.NoError(t, sink.WriteRecord(context.Background(), sampleRecord(2015)))
	require.NoError(t, sink.WriteRecord(context.Background(), sampleRecord(2015+domain.Day)))
	require.NoError(t, sink.Close())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "year,agents,alive,infected,prevalence,males_alive,males_infected,male_prevalence,"+
		"females_alive,females_infected,female_prevalence,hiv_neg,hiv_p,cdc1,cdc2,cdc3,cdc4", lines[0])
	assert.Equal(t, "2015.0000,10,10,3,0.3,4,1,0.25,6,2,0.333333,7,1,1,1,0,0", lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "2015.0027,"))
}

func TestRowRendersUndefinedRatiosAsNA(t *testing.T) {
	t.Parallel()

	row := Row(domain.Record{Date: 2016, MalePrevalence: domain.Ratio{}})
	require.Len(t, row, len(Header))
	assert.Equal(t, "NA", row[7])
}

func TestCreateWritesFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "report.csv")
	sink, err := Create(path)
	require.NoError(t, err)

	require.NoError(t, sink.WriteRecord(context.Background(), sampleRecord(2015)))
	require.NoError(t, sink.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(data), "\n"))
}

func TestSinkHonoursCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	require.ErrorIs(t, NewSink(&buf).WriteRecord(ctx, sampleRecord(2015)), context.Canceled)
}

func TestAbortRemovesCreatedFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "report.csv")
	sink, err := Create(path)
	require.NoError(t, err)

	require.NoError(t, sink.WriteRecord(context.Background(), sampleRecord(2015)))
	require.NoError(t, sink.Abort())
	require.NoError(t, sink.Close())

	_, err = os.Stat(path)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestAbortDropsUnflushedRows(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	sink := NewSink(&buf)

	require.NoError(t, sink.WriteRecord(context.Background(), sampleRecord(2015)))
	require.NoError(t, sink.Abort())
	require.NoError(t, sink.Close())
	assert.Empty(t, buf.String())
}
