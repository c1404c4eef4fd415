package sqlite

import (
	"strconv"
	"strings"

	"github.com/Baselsaber10/Hospital-Management-System/internal/clinic"
)

// PatientModel represents a row of the patients table.
type PatientModel struct {
	Position int
	ID       string
	Name     string
	Age      int
	Gender   string
	Disease  string
}

// DoctorModel represents a row of the doctors table.
type DoctorModel struct {
	Position  int
	ID        string
	Name      string
	Age       int
	Gender    string
	Specialty string
	Available bool
}

// AppointmentModel represents a row of the appointments table. Date is
// stored as YYYY-MM-DD text.
type AppointmentModel struct {
	Position  int
	ID        string
	PatientID string
	DoctorID  string
	Date      string
}

func toPatientModel(p clinic.Patient, position int) PatientModel {
	return PatientModel{
		Position: position,
		ID:       p.ID(),
		Name:     p.Name(),
		Age:      p.Age(),
		Gender:   string(p.Gender()),
		Disease:  p.Disease(),
	}
}

// toDomain rebuilds the patient through the clinic constructor, so a row
// edited outside hms is validated like any other input.
func (m PatientModel) toDomain() (clinic.Patient, error) {
	return clinic.NewPatient(m.ID, m.Name, m.Age, m.Gender, m.Disease)
}

func (m PatientModel) record() string {
	return strings.Join([]string{m.ID, m.Name, strconv.Itoa(m.Age), m.Gender, m.Disease}, clinic.Delimiter)
}

func toDoctorModel(d clinic.Doctor, position int) DoctorModel {
	return DoctorModel{
		Position:  position,
		ID:        d.ID(),
		Name:      d.Name(),
		Age:       d.Age(),
		Gender:    string(d.Gender()),
		Specialty: d.Specialty(),
		Available: d.Available(),
	}
}

func (m DoctorModel) toDomain() (clinic.Doctor, error) {
	return clinic.NewDoctor(m.ID, m.Name, m.Age, m.Gender, m.Specialty, m.Available)
}

func (m DoctorModel) record() string {
	return strings.Join([]string{m.ID, m.Name, strconv.Itoa(m.Age), m.Gender, m.Specialty, strconv.FormatBool(m.Available)}, clinic.Delimiter)
}

func toAppointmentModel(a clinic.Appointment, position int) AppointmentModel {
	return AppointmentModel{
		Position:  position,
		ID:        a.ID(),
		PatientID: a.PatientID(),
		DoctorID:  a.DoctorID(),
		Date:      a.DateString(),
	}
}

func (m AppointmentModel) toDomain() (clinic.Appointment, error) {
	return clinic.NewAppointment(m.ID, m.PatientID, m.DoctorID, m.Date)
}

func (m AppointmentModel) record() string {
	return strings.Join([]string{m.ID, m.PatientID, m.DoctorID, m.Date}, clinic.Delimiter)
}
