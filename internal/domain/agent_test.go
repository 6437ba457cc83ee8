package domain

import (
	"testing"

	"github.com/nathangeffen/matchcmp/internal/stochastic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPopulationAttributesInRange(t *testing.T) {
	t.Parallel()

	pop, err := NewPopulation(2000, DefaultParameters(), stochastic.New(23))
	require.NoError(t, err)
	require.Equal(t, 2000, pop.Len())
	require.NoError(t, pop.CheckInvariants())

	seen := make(map[AgentID]struct{}, pop.Len())
	males := 0
	for _, a := range pop.Agents() {
		_, dup := seen[a.ID]
		require.False(t, dup, "duplicate id %d", a.ID)
		seen[a.ID] = struct{}{}

		assert.True(t, a.Sex.Valid())
		assert.GreaterOrEqual(t, a.Age, 15.0)
		assert.Less(t, a.Age, 20.0)
		assert.True(t, a.Stage.Valid())
		assert.True(t, a.Alive)
		assert.Empty(t, a.Partners)
		for _, v := range []float64{a.RelationshipStickiness, a.PartnerForming, a.Concurrency, a.SexualDrive, a.PreferenceFIFS, a.ForceInfection} {
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 1.0)
		}
		if a.Sex == Male {
			males++
		}
	}
	assert.InDelta(t, 1000, males, 150)
}

func TestNewAgentRejectsInvalidParameters(t *testing.T) {
	t.Parallel()

	params := DefaultParameters()
	params.MeanTimeUntilPartner = 0

	_, err := NewAgent(0, params, stochastic.New(1))
	require.ErrorIs(t, err, ErrInvalidParameters)
}

func TestNewAgentIsDeterministicForSeed(t *testing.T) {
	t.Parallel()

	a, err := NewAgent(4, DefaultParameters(), stochastic.New(99))
	require.NoError(t, err)
	b, err := NewAgent(4, DefaultParameters(), stochastic.New(99))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestBreakupRemovesMostRecentPartnerFromBothSides(t *testing.T) {
	t.Parallel()

	a := testAgent(0, Male)
	a.RelationshipStickiness = 1
	pop := testPopulation(t, a, testAgent(1, Female), testAgent(2, Female))
	require.NoError(t, pop.Link(0, 1))
	require.NoError(t, pop.Link(0, 2))

	ended, err := a.BreakupEvent(pop, &scriptedSampler{uniforms: []float64{0.49}})
	require.NoError(t, err)
	require.True(t, ended)

	assert.Equal(t, []AgentID{1}, a.Partners)
	assert.Equal(t, []AgentID{0}, pop.Agent(1).Partners)
	assert.Empty(t, pop.Agent(2).Partners)
	require.NoError(t, pop.CheckInvariants())
}

func TestBreakupProbabilityIsNormalisedByPartnerCount(t *testing.T) {
	t.Parallel()

	a := testAgent(0, Male)
	a.RelationshipStickiness = 1
	pop := testPopulation(t, a, testAgent(1, Female), testAgent(2, Female))
	require.NoError(t, pop.Link(0, 1))
	require.NoError(t, pop.Link(0, 2))

	ended, err := a.BreakupEvent(pop, &scriptedSampler{uniforms: []float64{0.5}})
	require.NoError(t, err)
	assert.False(t, ended)
	assert.Equal(t, []AgentID{1, 2}, a.Partners)
}

func TestBreakupNeverHappensWithZeroStickiness(t *testing.T) {
	t.Parallel()

	a := testAgent(0, Male)
	pop := testPopulation(t, a, testAgent(1, Female))
	require.NoError(t, pop.Link(0, 1))

	s := stochastic.New(11)
	for i := 0; i < 10_000; i++ {
		ended, err := a.BreakupEvent(pop, s)
		require.NoError(t, err)
		require.False(t, ended)
	}
	assert.Equal(t, []AgentID{1}, a.Partners)

	ended, err := a.BreakupEvent(pop, &scriptedSampler{})
	require.NoError(t, err)
	assert.False(t, ended, "a zero draw must not end a partnership with zero stickiness")
}

func TestBreakupWithoutPartnersDrawsNothing(t *testing.T) {
	t.Parallel()

	a := testAgent(0, Male)
	a.RelationshipStickiness = 1
	pop := testPopulation(t, a)

	s := &scriptedSampler{uniforms: []float64{0.1}}
	ended, err := a.BreakupEvent(pop, s)
	require.NoError(t, err)
	assert.False(t, ended)
	assert.Len(t, s.uniforms, 1)
}

func TestFormationProbability(t *testing.T) {
	t.Parallel()

	a := testAgent(0, Male)
	a.PartnerForming = 0.6
	a.Concurrency = 0.1

	tests := []struct {
		name     string
		partners []AgentID
		model    FormationModel
		want     float64
	}{
		{name: "simple single", model: FormationSimple, want: 0.6},
		{name: "simple with two partners", partners: []AgentID{1, 2}, model: FormationSimple, want: 0.2},
		{name: "extended single", model: FormationExtended, want: 0.6},
		{name: "extended partnered", partners: []AgentID{1}, model: FormationExtended, want: 0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agent := *a
			agent.Partners = tt.partners
			assert.InDelta(t, tt.want, agent.FormationProbability(tt.model), 1e-12)
		})
	}
}

func TestFormPartnershipLinksEligibleCandidateSymmetrically(t *testing.T) {
	t.Parallel()

	a := testAgent(0, Male)
	a.PartnerForming = 0.5
	pop := testPopulation(t, a, testAgent(1, Male), testAgent(2, Female))

	s := &scriptedSampler{ints: []int{0, 1, 2}}
	formed, err := a.FormPartnershipEvent(pop, s, FormationSimple, UniformOppositeSexMatcher{Attempts: 10})
	require.NoError(t, err)
	require.True(t, formed)

	assert.Equal(t, []AgentID{2}, a.Partners)
	assert.Equal(t, []AgentID{0}, pop.Agent(2).Partners)
	assert.Empty(t, pop.Agent(1).Partners)
}

func TestFormPartnershipFailsWithoutEligibleCandidate(t *testing.T) {
	t.Parallel()

	a := testAgent(0, Male)
	a.PartnerForming = 1
	dead := testAgent(2, Female)
	dead.Alive = false
	pop := testPopulation(t, a, testAgent(1, Male), dead)

	formed, err := a.FormPartnershipEvent(pop, stochastic.New(5), FormationSimple, UniformOppositeSexMatcher{Attempts: 50})
	require.NoError(t, err)
	assert.False(t, formed)
	assert.Empty(t, a.Partners)
}

func TestMatcherSkipsExistingPartners(t *testing.T) {
	t.Parallel()

	a := testAgent(0, Male)
	pop := testPopulation(t, a, testAgent(1, Female), testAgent(2, Female))
	require.NoError(t, pop.Link(0, 1))

	id, ok := UniformOppositeSexMatcher{Attempts: 3}.Match(pop, a, &scriptedSampler{ints: []int{1, 1, 2}})
	require.True(t, ok)
	assert.Equal(t, AgentID(2), id)

	_, ok = UniformOppositeSexMatcher{Attempts: 2}.Match(pop, a, &scriptedSampler{ints: []int{1, 0}})
	assert.False(t, ok)
}

func TestNewMatcherRejectsUnknownPolicy(t *testing.T) {
	t.Parallel()

	_, err := NewMatcher("network", 10)
	require.ErrorIs(t, err, ErrInvalidParameters)
}

func TestContactPartnerIndexCountsFromOldestPartner(t *testing.T) {
	t.Parallel()

	a := testAgent(0, Male)
	a.Partners = []AgentID{1, 2, 3}

	assert.Equal(t, 0, a.ContactPartnerIndex(&scriptedSampler{geometrics: []int{0}}))
	assert.Equal(t, 1, a.ContactPartnerIndex(&scriptedSampler{geometrics: []int{1}}))
	assert.Equal(t, 2, a.ContactPartnerIndex(&scriptedSampler{geometrics: []int{9}}))
}

func TestHighFIFSPreferenceFavoursFirstPartner(t *testing.T) {
	t.Parallel()

	a := testAgent(0, Male)
	a.Partners = []AgentID{1, 2, 3}
	a.PreferenceFIFS = 0.95

	s := stochastic.New(2)
	first := 0
	const n = 5000
	for i := 0; i < n; i++ {
		idx := a.ContactPartnerIndex(s)
		require.GreaterOrEqual(t, idx, 0)
		require.Less(t, idx, 3)
		if idx == 0 {
			first++
		}
	}
	assert.Greater(t, float64(first)/n, 0.9)
}

func TestSexualContactTransmitsUnderPartnerContactModel(t *testing.T) {
	t.Parallel()

	a := testAgent(0, Male)
	a.SexualDrive = 1
	a.ForceInfection = 0.5
	infectedPartner := testAgent(1, Female)
	infectedPartner.Stage = 3
	pop := testPopulation(t, a, infectedPartner, testAgent(2, Female))
	require.NoError(t, pop.Link(0, 1))
	require.NoError(t, pop.Link(0, 2))

	partner, infected, err := a.SexualContactEvent(pop, &scriptedSampler{
		uniforms:   []float64{0, 0.4},
		geometrics: []int{0},
	}, InfectionPartnerContact)
	require.NoError(t, err)
	require.NotNil(t, partner)
	assert.Equal(t, AgentID(1), partner.ID)
	assert.True(t, infected)
	assert.Equal(t, StageAcute, a.Stage)
}

func TestSexualContactDoesNotTransmitUnderPopulationModel(t *testing.T) {
	t.Parallel()

	a := testAgent(0, Male)
	a.SexualDrive = 1
	a.ForceInfection = 1
	infectedPartner := testAgent(1, Female)
	infectedPartner.Stage = 2
	pop := testPopulation(t, a, infectedPartner)
	require.NoError(t, pop.Link(0, 1))

	partner, infected, err := a.SexualContactEvent(pop, &scriptedSampler{}, InfectionPopulationForce)
	require.NoError(t, err)
	require.NotNil(t, partner)
	assert.False(t, infected)
	assert.Equal(t, StageUninfected, a.Stage)
}

func TestSexualContactRequiresDrive(t *testing.T) {
	t.Parallel()

	a := testAgent(0, Male)
	a.SexualDrive = 0.2
	pop := testPopulation(t, a, testAgent(1, Female))
	require.NoError(t, pop.Link(0, 1))

	partner, _, err := a.SexualContactEvent(pop, &scriptedSampler{uniforms: []float64{0.2}}, InfectionPartnerContact)
	require.NoError(t, err)
	assert.Nil(t, partner)
}

func TestStageAdvanceOnlyLeavesAcuteInfection(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		stage Stage
		draw  float64
		want  Stage
	}{
		{name: "uninfected stays", stage: StageUninfected, draw: 0, want: StageUninfected},
		{name: "acute advances", stage: StageAcute, draw: 0.1, want: 2},
		{name: "acute stays on high draw", stage: StageAcute, draw: 0.9, want: StageAcute},
		{name: "chronic does not advance", stage: 3, draw: 0, want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := testAgent(0, Female)
			a.Stage = tt.stage
			a.StageAdvanceEvent(0.5, &scriptedSampler{uniforms: []float64{tt.draw}})
			assert.Equal(t, tt.want, a.Stage)
		})
	}
}

func TestInfectionRiskUsesOppositeSexPrevalence(t *testing.T) {
	t.Parallel()

	snap := Snapshot{MaleAlive: 10, MaleInfected: 0, FemaleAlive: 10, FemaleInfected: 5}

	a := testAgent(0, Male)
	a.ForceInfection = 0.4
	a.PartnerForming = 0.5

	assert.False(t, a.InfectionRiskEvent(snap, &scriptedSampler{uniforms: []float64{0.1}}))
	assert.Equal(t, StageUninfected, a.Stage)

	assert.True(t, a.InfectionRiskEvent(snap, &scriptedSampler{uniforms: []float64{0.099}}))
	assert.Equal(t, StageAcute, a.Stage)

	b := testAgent(1, Female)
	b.ForceInfection = 1
	b.PartnerForming = 1
	assert.False(t, b.InfectionRiskEvent(snap, &scriptedSampler{}), "male prevalence is zero")
}

func TestInfectionRiskWithUndefinedPrevalenceNeverInfects(t *testing.T) {
	t.Parallel()

	a := testAgent(0, Male)
	a.ForceInfection = 1
	a.PartnerForming = 1

	assert.False(t, a.InfectionRiskEvent(Snapshot{MaleAlive: 3}, &scriptedSampler{}))
	assert.Equal(t, StageUninfected, a.Stage)
}

func TestDeathDissolvesPartnerships(t *testing.T) {
	t.Parallel()

	a := testAgent(0, Male)
	pop := testPopulation(t, a, testAgent(1, Female), testAgent(2, Female))
	require.NoError(t, pop.Link(0, 1))
	require.NoError(t, pop.Link(0, 2))

	died, err := a.DeathEvent(0.5, pop, &scriptedSampler{uniforms: []float64{0.1}})
	require.NoError(t, err)
	require.True(t, died)

	assert.False(t, a.Alive)
	assert.Empty(t, a.Partners)
	assert.Empty(t, pop.Agent(1).Partners)
	assert.Empty(t, pop.Agent(2).Partners)
	require.NoError(t, pop.CheckInvariants())
}

func TestDeathWithZeroHazardDrawsNothing(t *testing.T) {
	t.Parallel()

	a := testAgent(0, Male)
	pop := testPopulation(t, a)

	s := &scriptedSampler{uniforms: []float64{0}}
	died, err := a.DeathEvent(0, pop, s)
	require.NoError(t, err)
	assert.False(t, died)
	assert.True(t, a.Alive)
	assert.Len(t, s.uniforms, 1)
}

func TestAgeEvent(t *testing.T) {
	t.Parallel()

	a := testAgent(0, Male)
	a.AgeEvent(Day)
	assert.InDelta(t, 18+Day, a.Age, 1e-12)
}
