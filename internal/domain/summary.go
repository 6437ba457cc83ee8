package domain

// Summary describes the population at the start or end of a run.
type Summary struct {
	Label            string         `json:"label"`
	Agents           int            `json:"agents"`
	Males            int            `json:"males"`
	Females          int            `json:"females"`
	AliveMales       int            `json:"alive_males"`
	AliveFemales     int            `json:"alive_females"`
	Youngest         float64        `json:"youngest"`
	Oldest           float64        `json:"oldest"`
	MeanAge          float64        `json:"mean_age"`
	Stages           [NumStages]int `json:"stages"`
	InfectedMales    int            `json:"infected_males"`
	InfectedFemales  int            `json:"infected_females"`
	MalePrevalence   Ratio          `json:"male_prevalence"`
	FemalePrevalence Ratio          `json:"female_prevalence"`
	Incidence        *Incidence     `json:"incidence,omitempty"`
}

// Incidence is the change in alive infected counts since a prior summary,
// normalised by the alive group size.
type Incidence struct {
	Male    Ratio `json:"male"`
	Female  Ratio `json:"female"`
	Overall Ratio `json:"overall"`
}

// Summarize counts every agent, alive or not, for the sex, age and stage
// figures. Infected counts, prevalence and incidence cover alive agents only,
// the same population the per-step records describe. When prior is non-nil
// the summary carries incidence relative to it.
func Summarize(label string, pop *Population, prior *Summary) Summary {
	agents := pop.Agents()
	sum := Summary{Label: label, Agents: len(agents)}

	total := 0.0
	for i, a := range agents {
		sum.Stages[a.Stage]++
		if a.Sex == Male {
			sum.Males++
		} else {
			sum.Females++
		}

		total += a.Age
		if i == 0 || a.Age < sum.Youngest {
			sum.Youngest = a.Age
		}
		if i == 0 || a.Age > sum.Oldest {
			sum.Oldest = a.Age
		}
	}
	if len(agents) > 0 {
		sum.MeanAge = total / float64(len(agents))
	}

	snap := Aggregate(pop)
	sum.AliveMales = snap.MaleAlive
	sum.AliveFemales = snap.FemaleAlive
	sum.InfectedMales = snap.MaleInfected
	sum.InfectedFemales = snap.FemaleInfected

	sum.Derive(prior)

	return sum
}

// Infected counts alive infected agents.
func (s Summary) Infected() int {
	return s.InfectedMales + s.InfectedFemales
}

func (s Summary) Alive() int {
	return s.AliveMales + s.AliveFemales
}

// Prevalence is the infected share of alive agents.
func (s Summary) Prevalence() Ratio {
	return Ratio{Num: s.Infected(), Den: s.Alive()}
}

// Derive recomputes the prevalence ratios from the counts and, when prior is
// non-nil, the incidence relative to prior.
func (s *Summary) Derive(prior *Summary) {
	s.MalePrevalence = Ratio{Num: s.InfectedMales, Den: s.AliveMales}
	s.FemalePrevalence = Ratio{Num: s.InfectedFemales, Den: s.AliveFemales}

	s.Incidence = nil
	if prior == nil {
		return
	}
	maleDiff := s.InfectedMales - prior.InfectedMales
	femaleDiff := s.InfectedFemales - prior.InfectedFemales
	s.Incidence = &Incidence{
		Male:    Ratio{Num: maleDiff, Den: s.AliveMales},
		Female:  Ratio{Num: femaleDiff, Den: s.AliveFemales},
		Overall: Ratio{Num: maleDiff + femaleDiff, Den: s.Alive()},
	}
}
