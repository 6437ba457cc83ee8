package domain

import (
	"fmt"
	"strconv"
)

// Ratio is a count ratio that stays undefined, rather than NaN, when its
// denominator is zero.
type Ratio struct {
	Num int
	Den int
}

func (r Ratio) Defined() bool {
	return r.Den != 0
}

func (r Ratio) Value() (float64, bool) {
	if r.Den == 0 {
		return 0, false
	}
	return float64(r.Num) / float64(r.Den), true
}

// Float returns the ratio or ErrUndefinedRatio.
func (r Ratio) Float() (float64, error) {
	v, ok := r.Value()
	if !ok {
		return 0, fmt.Errorf("%w: %d/0", ErrUndefinedRatio, r.Num)
	}
	return v, nil
}

// String renders six significant digits, or "NA" when undefined.
func (r Ratio) String() string {
	v, ok := r.Value()
	if !ok {
		return "NA"
	}
	return strconv.FormatFloat(v, 'g', 6, 64)
}

func (r Ratio) MarshalJSON() ([]byte, error) {
	v, ok := r.Value()
	if !ok {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(v, 'g', -1, 64)), nil
}

// Snapshot is the sex-stratified alive/infected count of a population at one
// point in time.
type Snapshot struct {
	MaleAlive      int
	FemaleAlive    int
	MaleInfected   int
	FemaleInfected int
}

// Aggregate counts alive and infected-alive agents by sex.
func Aggregate(pop *Population) Snapshot {
	var snap Snapshot
	for _, a := range pop.Agents() {
		if !a.Alive {
			continue
		}
		if a.Sex == Male {
			snap.MaleAlive++
			if a.Infected() {
				snap.MaleInfected++
			}
		} else {
			snap.FemaleAlive++
			if a.Infected() {
				snap.FemaleInfected++
			}
		}
	}
	return snap
}

func (s Snapshot) Alive() int {
	return s.MaleAlive + s.FemaleAlive
}

func (s Snapshot) Infected() int {
	return s.MaleInfected + s.FemaleInfected
}

func (s Snapshot) Prevalence() Ratio {
	return Ratio{Num: s.Infected(), Den: s.Alive()}
}

func (s Snapshot) MalePrevalence() Ratio {
	return Ratio{Num: s.MaleInfected, Den: s.MaleAlive}
}

func (s Snapshot) FemalePrevalence() Ratio {
	return Ratio{Num: s.FemaleInfected, Den: s.FemaleAlive}
}

func (s Snapshot) PrevalenceOf(sex Sex) Ratio {
	if sex == Male {
		return s.MalePrevalence()
	}
	return s.FemalePrevalence()
}

func (s Snapshot) OppositeSexPrevalence(sex Sex) Ratio {
	return s.PrevalenceOf(sex.Opposite())
}
