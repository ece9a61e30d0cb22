package models

// Patient is one registered patient. Values are never mutated after
// NewPatient; the dispatch manager stores and hands out copies.
type Patient struct {
	ID          string `json:"id"`
	FullName    string `json:"full_name"`
	Age         int    `json:"age"`
	VisitReason string `json:"visit_reason"`
}

// NewPatient builds a patient record. Input validation (non-empty id and
// name, non-negative age) is the caller's job.
func NewPatient(id, fullName string, age int, visitReason string) Patient {
	return Patient{
		ID:          id,
		FullName:    fullName,
		Age:         age,
		VisitReason: visitReason,
	}
}

func (p Patient) DisplayName() string {
	return p.FullName
}

// RegisterPasienRequest is the front-desk registration payload.
type RegisterPasienRequest struct {
	ID          string `json:"id"`
	FullName    string `json:"full_name"`
	Age         *int   `json:"age"`
	VisitReason string `json:"visit_reason"`
}
