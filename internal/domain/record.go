package domain

// Record is the per-step report row.
type Record struct {
	Date             float64        `json:"date"`
	PopulationSize   int            `json:"population_size"`
	Alive            int            `json:"alive"`
	Infected         int            `json:"infected"`
	Prevalence       Ratio          `json:"prevalence"`
	MaleAlive        int            `json:"male_alive"`
	MaleInfected     int            `json:"male_infected"`
	MalePrevalence   Ratio          `json:"male_prevalence"`
	FemaleAlive      int            `json:"female_alive"`
	FemaleInfected   int            `json:"female_infected"`
	FemalePrevalence Ratio          `json:"female_prevalence"`
	Stages           [NumStages]int `json:"stages"`
	Partnerships     int            `json:"partnerships"`
}

func NewRecord(date float64, pop *Population) Record {
	snap := Aggregate(pop)
	rec := Record{
		Date:             date,
		PopulationSize:   pop.Len(),
		Alive:            snap.Alive(),
		Infected:         snap.Infected(),
		Prevalence:       snap.Prevalence(),
		MaleAlive:        snap.MaleAlive,
		MaleInfected:     snap.MaleInfected,
		MalePrevalence:   snap.MalePrevalence(),
		FemaleAlive:      snap.FemaleAlive,
		FemaleInfected:   snap.FemaleInfected,
		FemalePrevalence: snap.FemalePrevalence(),
		Partnerships:     pop.Partnerships(),
	}
	for _, a := range pop.Agents() {
		rec.Stages[a.Stage]++
	}
	return rec
}
