package model

// Record is one prime minister parsed from the source table
type Record struct {
	Name      string `json:"name"`       // Text preceding the first "("
	BirthYear int    `json:"birth_year"` // Four-digit birth year
	DeathYear int    `json:"death_year"` // Death year, or the reference year when alive
	Alive     bool   `json:"alive"`      // Source cell used the "born <year>" form
	Age       int    `json:"age"`        // DeathYear - BirthYear
}

// Status returns a short label for the alive flag
func (r Record) Status() string {
	if r.Alive {
		return "alive"
	}
	return "deceased"
}

// Ages returns the age column of the given records in order
func Ages(records []Record) []int {
	ages := make([]int, len(records))
	for i, r := range records {
		ages[i] = r.Age
	}
	return ages
}
