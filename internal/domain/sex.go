package domain

type Sex int

const (
	Male Sex = iota
	Female
)

func (s Sex) String() string {
	switch s {
	case Male:
		return "male"
	case Female:
		return "female"
	default:
		return "unknown"
	}
}

func (s Sex) Valid() bool {
	return s == Male || s == Female
}

func (s Sex) Opposite() Sex {
	if s == Male {
		return Female
	}
	return Male
}
