package domain

// Stage is the HIV disease stage of an agent.
//
//	0   uninfected
//	1   acute primary infection
//	2-5 CDC stages 1 to 4
type Stage int

const (
	StageUninfected Stage = 0
	StageAcute      Stage = 1
	MaxStage        Stage = 5

	NumStages = int(MaxStage) + 1
)

func (s Stage) Valid() bool {
	return s >= StageUninfected && s <= MaxStage
}

func (s Stage) Infected() bool {
	return s > StageUninfected
}
