package clinic

import (
	"strconv"
	"strings"
)

// Field counts for each record layout.
const (
	patientFields     = 5 // id|name|age|gender|disease
	doctorFields      = 6 // id|name|age|gender|specialty|availability
	appointmentFields = 4 // id|patient_id|doctor_id|date
)

// Codec converts one entity type to and from a single delimited line.
type Codec[T Entity] struct {
	Entity EntityType
	Encode func(T) string
	Decode func(line string) (T, error)
}

// Codecs for the three record layouts.
var (
	PatientCodec     = Codec[Patient]{Entity: EntityPatient, Encode: EncodePatient, Decode: DecodePatient}
	DoctorCodec      = Codec[Doctor]{Entity: EntityDoctor, Encode: EncodeDoctor, Decode: DecodeDoctor}
	AppointmentCodec = Codec[Appointment]{Entity: EntityAppointment, Encode: EncodeAppointment, Decode: DecodeAppointment}
)

// EncodePatient renders id|name|age|gender|disease.
func EncodePatient(p Patient) string {
	return strings.Join([]string{p.id, p.name, strconv.Itoa(p.age), string(p.gender), p.disease}, Delimiter)
}

// DecodePatient parses a patient record through the same validators as NewPatient.
func DecodePatient(line string) (Patient, error) {
	f, err := splitRecord(line, patientFields)
	if err != nil {
		return Patient{}, err
	}
	age, err := ParseAge(f[2])
	if err != nil {
		return Patient{}, err
	}
	return NewPatient(f[0], f[1], age, f[3], f[4])
}

// EncodeDoctor renders id|name|age|gender|specialty|availability, with the
// availability written as True or False.
func EncodeDoctor(d Doctor) string {
	return strings.Join([]string{d.id, d.name, strconv.Itoa(d.age), string(d.gender), d.specialty, formatBool(d.available)}, Delimiter)
}

// DecodeDoctor parses a doctor record through the same validators as NewDoctor.
func DecodeDoctor(line string) (Doctor, error) {
	f, err := splitRecord(line, doctorFields)
	if err != nil {
		return Doctor{}, err
	}
	age, err := ParseAge(f[2])
	if err != nil {
		return Doctor{}, err
	}
	available, err := ParseAvailability(f[5])
	if err != nil {
		return Doctor{}, err
	}
	return NewDoctor(f[0], f[1], age, f[3], f[4], available)
}

// EncodeAppointment renders id|patient_id|doctor_id|date.
func EncodeAppointment(a Appointment) string {
	return strings.Join([]string{a.id, a.patientID, a.doctorID, a.DateString()}, Delimiter)
}

// DecodeAppointment parses an appointment record through the same validators
// as NewAppointment. It does not reject past dates: stored appointments may
// legitimately have happened already.
func DecodeAppointment(line string) (Appointment, error) {
	f, err := splitRecord(line, appointmentFields)
	if err != nil {
		return Appointment{}, err
	}
	return NewAppointment(f[0], f[1], f[2], f[3])
}

func splitRecord(line string, want int) ([]string, error) {
	trimmed := strings.TrimSpace(line)
	parts := strings.Split(trimmed, Delimiter)
	if len(parts) != want {
		return nil, invalid("record", trimmed, MalformedRecord)
	}
	return parts, nil
}

func formatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}
