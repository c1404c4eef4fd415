package clinic

import "fmt"

// Doctor is a registered doctor. New doctors are available unless stated otherwise.
type Doctor struct {
	id        string
	name      string
	age       int
	gender    Gender
	specialty string
	available bool
}

// NewDoctor validates every field and returns a Doctor.
func NewDoctor(id, name string, age int, gender, specialty string, available bool) (Doctor, error) {
	var err error
	d := Doctor{available: available}
	if d.id, err = ValidateID(id); err != nil {
		return Doctor{}, err
	}
	if d.name, err = ValidateName(name); err != nil {
		return Doctor{}, err
	}
	if d.age, err = ValidateAge(age); err != nil {
		return Doctor{}, err
	}
	if d.gender, err = ValidateGender(gender); err != nil {
		return Doctor{}, err
	}
	if d.specialty, err = ValidateSpecialty(specialty); err != nil {
		return Doctor{}, err
	}
	return d, nil
}

// ID returns the doctor id.
func (d Doctor) ID() string { return d.id }

// Name returns the doctor name.
func (d Doctor) Name() string { return d.name }

// Age returns the doctor age in years.
func (d Doctor) Age() int { return d.age }

// Gender returns the normalized gender.
func (d Doctor) Gender() Gender { return d.gender }

// Specialty returns the medical specialty.
func (d Doctor) Specialty() string { return d.specialty }

// Available reports whether the doctor accepts new appointments.
func (d Doctor) Available() bool { return d.available }

func (d Doctor) String() string {
	return fmt.Sprintf("ID: %s, Name: %s, Age: %d, Gender: %s, Specialty: %s, Available: %t",
		d.id, d.name, d.age, d.gender, d.specialty, d.available)
}

// DoctorChanges lists the fields to update. Nil fields are left untouched.
type DoctorChanges struct {
	Name      *string
	Age       *int
	Gender    *string
	Specialty *string
	Available *bool
}

// IsEmpty reports whether no field is set.
func (c DoctorChanges) IsEmpty() bool {
	return c.Name == nil && c.Age == nil && c.Gender == nil && c.Specialty == nil && c.Available == nil
}

// Apply re-validates the supplied fields and returns the updated doctor.
func (d Doctor) Apply(c DoctorChanges) (Doctor, error) {
	var err error
	out := d
	if c.Name != nil {
		if out.name, err = ValidateName(*c.Name); err != nil {
			return d, err
		}
	}
	if c.Age != nil {
		if out.age, err = ValidateAge(*c.Age); err != nil {
			return d, err
		}
	}
	if c.Gender != nil {
		if out.gender, err = ValidateGender(*c.Gender); err != nil {
			return d, err
		}
	}
	if c.Specialty != nil {
		if out.specialty, err = ValidateSpecialty(*c.Specialty); err != nil {
			return d, err
		}
	}
	if c.Available != nil {
		out.available = *c.Available
	}
	return out, nil
}
