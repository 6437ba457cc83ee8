package scenariofile

import (
	"bytes"
	"strings"
	"testing"

	"github.com/nathangeffen/matchcmp/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	t.Parallel()

	scenario := domain.DefaultScenario()
	scenario.Name = "weekly"
	scenario.Params.TimeStep = domain.Week
	scenario.Params.StageMortality[5] = 0.01
	scenario.Params.InfectionModel = domain.InfectionPartnerContact

	for _, format := range []Format{FormatTOML, FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, scenario, format))
			assert.Contains(t, buf.String(), "mean_risk_het_female_sex")

			got, err := Decode(&buf, format)
			require.NoError(t, err)
			assert.Equal(t, scenario, got)
		})
	}
}

func TestDecodeYAMLKeepsDefaultsForMissingFields(t *testing.T) {
	t.Parallel()

	got, err := Decode(strings.NewReader(strings.Join([]string{
		"name: short",
		"parameters:",
		"  num_years: 0.5",
		"  formation_model: extended",
		"",
	}, "\n")), FormatYAML)
	require.NoError(t, err)

	want := domain.DefaultParameters()
	want.NumYears = 0.5
	want.FormationModel = domain.FormationExtended
	assert.Equal(t, "short", got.Name)
	assert.Equal(t, want, got.Params)
	require.NoError(t, got.Validate())
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	t.Parallel()

	_, err := Decode(strings.NewReader("name: x\nparameters:\n  mean_time_kiss: 3\n"), FormatYAML)
	require.Error(t, err)

	_, err = Decode(strings.NewReader("name = \"x\"\n[parameters]\nmean_time_kiss = 3\n"), FormatTOML)
	require.Error(t, err)
}

func TestDecodeRejectsTooManyStageHazards(t *testing.T) {
	t.Parallel()

	_, err := Decode(strings.NewReader("name: x\nparameters:\n  stage_mortality: [0, 0, 0, 0, 0, 0, 0]\n"), FormatYAML)
	require.ErrorIs(t, err, domain.ErrInvalidParameters)
}

func TestFormatForPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{path: "a.toml", want: FormatTOML},
		{path: "a.yaml", want: FormatYAML},
		{path: "dir/a.YML", want: FormatYAML},
		{path: "a.json", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatForPath(tt.path)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
