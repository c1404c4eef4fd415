package presentation

import (
	"strconv"

	"github.com/Baselsaber10/Hospital-Management-System/internal/clinic"
)

// PatientDTO represents a patient for presentation.
type PatientDTO struct {
	ID           string   `json:"id" yaml:"id"`
	Name         string   `json:"name" yaml:"name"`
	Age          int      `json:"age" yaml:"age"`
	Gender       string   `json:"gender" yaml:"gender"`
	Disease      string   `json:"disease" yaml:"disease"`
	VisitHistory []string `json:"visit_history" yaml:"visit_history"` // always present, may be empty
}

// DoctorDTO represents a doctor for presentation.
type DoctorDTO struct {
	ID        string `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	Age       int    `json:"age" yaml:"age"`
	Gender    string `json:"gender" yaml:"gender"`
	Specialty string `json:"specialty" yaml:"specialty"`
	Available bool   `json:"available" yaml:"available"`
}

// AppointmentDTO represents an appointment for presentation.
type AppointmentDTO struct {
	ID        string `json:"id" yaml:"id"`
	PatientID string `json:"patient_id" yaml:"patient_id"`
	DoctorID  string `json:"doctor_id" yaml:"doctor_id"`
	Date      string `json:"date" yaml:"date"`
}

// FromPatient converts a domain patient to a DTO.
func FromPatient(p clinic.Patient) PatientDTO {
	history := p.VisitHistory()
	if history == nil {
		history = []string{}
	}
	return PatientDTO{
		ID:           p.ID(),
		Name:         p.Name(),
		Age:          p.Age(),
		Gender:       string(p.Gender()),
		Disease:      p.Disease(),
		VisitHistory: history,
	}
}

// FromDoctor converts a domain doctor to a DTO.
func FromDoctor(d clinic.Doctor) DoctorDTO {
	return DoctorDTO{
		ID:        d.ID(),
		Name:      d.Name(),
		Age:       d.Age(),
		Gender:    string(d.Gender()),
		Specialty: d.Specialty(),
		Available: d.Available(),
	}
}

// FromAppointment converts a domain appointment to a DTO.
func FromAppointment(a clinic.Appointment) AppointmentDTO {
	return AppointmentDTO{
		ID:        a.ID(),
		PatientID: a.PatientID(),
		DoctorID:  a.DoctorID(),
		Date:      a.DateString(),
	}
}

// FromPatients converts a slice of domain patients to DTOs.
func FromPatients(ps []clinic.Patient) []PatientDTO {
	return convert(ps, FromPatient)
}

// FromDoctors converts a slice of domain doctors to DTOs.
func FromDoctors(ds []clinic.Doctor) []DoctorDTO {
	return convert(ds, FromDoctor)
}

// FromAppointments converts a slice of domain appointments to DTOs.
func FromAppointments(as []clinic.Appointment) []AppointmentDTO {
	return convert(as, FromAppointment)
}

func convert[T, D any](items []T, fn func(T) D) []D {
	dtos := make([]D, len(items))
	for i, item := range items {
		dtos[i] = fn(item)
	}
	return dtos
}

var (
	patientHeaders     = []string{"ID", "NAME", "AGE", "GENDER", "DISEASE"}
	doctorHeaders      = []string{"ID", "NAME", "AGE", "GENDER", "SPECIALTY", "AVAILABLE"}
	appointmentHeaders = []string{"ID", "PATIENT", "DOCTOR", "DATE"}
)

func (p PatientDTO) row() []string {
	return []string{p.ID, p.Name, strconv.Itoa(p.Age), p.Gender, p.Disease}
}

func (d DoctorDTO) row() []string {
	available := "no"
	if d.Available {
		available = "yes"
	}
	return []string{d.ID, d.Name, strconv.Itoa(d.Age), d.Gender, d.Specialty, available}
}

func (a AppointmentDTO) row() []string {
	return []string{a.ID, a.PatientID, a.DoctorID, a.Date}
}
