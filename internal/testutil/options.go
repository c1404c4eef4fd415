package testutil

// patientData holds the raw fields for a patient to be built.
type patientData struct {
	id      string
	name    string
	age     int
	gender  string
	disease string
}

// doctorData holds the raw fields for a doctor to be built.
type doctorData struct {
	id        string
	name      string
	age       int
	gender    string
	specialty string
	available bool
}

// appointmentData holds the raw fields for an appointment to be built.
type appointmentData struct {
	id        string
	patientID string
	doctorID  string
	date      string
}

func defaultPatient(id string) patientData {
	return patientData{id: id, name: "Patient " + id, age: 30, gender: "Female", disease: "Flu"}
}

func defaultDoctor(id string) doctorData {
	return doctorData{id: id, name: "Doctor " + id, age: 45, gender: "Male", specialty: "General", available: true}
}

// PatientOption configures a patient during builder setup.
type PatientOption func(*patientData)

// PatientName sets the patient name.
func PatientName(name string) PatientOption {
	return func(p *patientData) { p.name = name }
}

// PatientAge sets the patient age.
func PatientAge(age int) PatientOption {
	return func(p *patientData) { p.age = age }
}

// PatientGender sets the patient gender, in any case.
func PatientGender(gender string) PatientOption {
	return func(p *patientData) { p.gender = gender }
}

// Disease sets the patient disease.
func Disease(disease string) PatientOption {
	return func(p *patientData) { p.disease = disease }
}

// DoctorOption configures a doctor during builder setup.
type DoctorOption func(*doctorData)

// DoctorName sets the doctor name.
func DoctorName(name string) DoctorOption {
	return func(d *doctorData) { d.name = name }
}

// DoctorAge sets the doctor age.
func DoctorAge(age int) DoctorOption {
	return func(d *doctorData) { d.age = age }
}

// Specialty sets the doctor specialty.
func Specialty(specialty string) DoctorOption {
	return func(d *doctorData) { d.specialty = specialty }
}

// Unavailable marks the doctor as not taking appointments.
func Unavailable() DoctorOption {
	return func(d *doctorData) { d.available = false }
}
