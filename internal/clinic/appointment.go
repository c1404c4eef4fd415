package clinic

import (
	"fmt"
	"time"
)

// Appointment books a patient with a doctor on a calendar date.
type Appointment struct {
	id        string
	patientID string
	doctorID  string
	date      time.Time
}

// NewAppointment validates the id, both references and the date syntax.
// Whether the referenced patient and doctor exist, and whether the date lies
// in the past, is checked by Clinic.CreateAppointment.
func NewAppointment(id, patientID, doctorID, date string) (Appointment, error) {
	var err error
	a := Appointment{}
	if a.id, err = ValidateID(id); err != nil {
		return Appointment{}, err
	}
	if a.patientID, err = validateID("patient_id", patientID); err != nil {
		return Appointment{}, err
	}
	if a.doctorID, err = validateID("doctor_id", doctorID); err != nil {
		return Appointment{}, err
	}
	if a.date, err = ParseDate(date); err != nil {
		return Appointment{}, err
	}
	return a, nil
}

// ID returns the appointment id.
func (a Appointment) ID() string { return a.id }

// PatientID returns the id of the booked patient.
func (a Appointment) PatientID() string { return a.patientID }

// DoctorID returns the id of the booked doctor.
func (a Appointment) DoctorID() string { return a.doctorID }

// Date returns the appointment date as midnight UTC.
func (a Appointment) Date() time.Time { return a.date }

// DateString returns the date in YYYY-MM-DD form.
func (a Appointment) DateString() string { return a.date.Format(DateLayout) }

func (a Appointment) String() string {
	return fmt.Sprintf("Appointment ID: %s, Patient ID: %s, Doctor ID: %s, Date: %s",
		a.id, a.patientID, a.doctorID, a.DateString())
}

// References reports whether the appointment points at the given entity.
func (a Appointment) References(entity EntityType, id string) bool {
	switch entity {
	case EntityPatient:
		return a.patientID == id
	case EntityDoctor:
		return a.doctorID == id
	default:
		return false
	}
}

// AppointmentChanges lists the fields to update. Only the date can move.
type AppointmentChanges struct {
	Date *string
}

// IsEmpty reports whether no field is set.
func (c AppointmentChanges) IsEmpty() bool {
	return c.Date == nil
}

// Apply re-validates the date syntax and returns the rescheduled appointment.
func (a Appointment) Apply(c AppointmentChanges) (Appointment, error) {
	out := a
	if c.Date != nil {
		d, err := ParseDate(*c.Date)
		if err != nil {
			return a, err
		}
		out.date = d
	}
	return out, nil
}
