package clinic

import "fmt"

// Patient is a registered patient.
type Patient struct {
	id      string
	name    string
	age     int
	gender  Gender
	disease string

	// visitHistory is carried for completeness; nothing reads or persists it yet.
	visitHistory []string
}

// NewPatient validates every field and returns a Patient.
func NewPatient(id, name string, age int, gender, disease string) (Patient, error) {
	var err error
	p := Patient{}
	if p.id, err = ValidateID(id); err != nil {
		return Patient{}, err
	}
	if p.name, err = ValidateName(name); err != nil {
		return Patient{}, err
	}
	if p.age, err = ValidateAge(age); err != nil {
		return Patient{}, err
	}
	if p.gender, err = ValidateGender(gender); err != nil {
		return Patient{}, err
	}
	if p.disease, err = ValidateDisease(disease); err != nil {
		return Patient{}, err
	}
	return p, nil
}

// ID returns the patient id.
func (p Patient) ID() string { return p.id }

// Name returns the patient name.
func (p Patient) Name() string { return p.name }

// Age returns the patient age in years.
func (p Patient) Age() int { return p.age }

// Gender returns the normalized gender.
func (p Patient) Gender() Gender { return p.gender }

// Disease returns the recorded disease.
func (p Patient) Disease() string { return p.disease }

// VisitHistory returns a copy of the visit history.
func (p Patient) VisitHistory() []string {
	if p.visitHistory == nil {
		return nil
	}
	out := make([]string, len(p.visitHistory))
	copy(out, p.visitHistory)
	return out
}

func (p Patient) String() string {
	return fmt.Sprintf("ID: %s, Name: %s, Age: %d, Gender: %s, Disease: %s",
		p.id, p.name, p.age, p.gender, p.disease)
}

// PatientChanges lists the fields to update. Nil fields are left untouched.
type PatientChanges struct {
	Name    *string
	Age     *int
	Gender  *string
	Disease *string
}

// IsEmpty reports whether no field is set.
func (c PatientChanges) IsEmpty() bool {
	return c.Name == nil && c.Age == nil && c.Gender == nil && c.Disease == nil
}

// Apply re-validates the supplied fields and returns the updated patient.
// The receiver is never modified.
func (p Patient) Apply(c PatientChanges) (Patient, error) {
	var err error
	out := p
	if c.Name != nil {
		if out.name, err = ValidateName(*c.Name); err != nil {
			return p, err
		}
	}
	if c.Age != nil {
		if out.age, err = ValidateAge(*c.Age); err != nil {
			return p, err
		}
	}
	if c.Gender != nil {
		if out.gender, err = ValidateGender(*c.Gender); err != nil {
			return p, err
		}
	}
	if c.Disease != nil {
		if out.disease, err = ValidateDisease(*c.Disease); err != nil {
			return p, err
		}
	}
	return out, nil
}
