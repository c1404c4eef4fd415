// Package testutil builds clinic fixtures for tests.
package testutil

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/stretchr/testify/require"

	"github.com/Baselsaber10/Hospital-Management-System/internal/clinic"
	"github.com/Baselsaber10/Hospital-Management-System/internal/paths"
)

// Builder accumulates patients, doctors and appointments. Entities go
// through the clinic constructors, so a bad fixture fails the test early.
type Builder struct {
	t            require.TestingT
	patients     []patientData
	doctors      []doctorData
	appointments []appointmentData
}

// NewBuilder creates an empty builder.
func NewBuilder(t require.TestingT) *Builder {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}
	return &Builder{t: t}
}

// WithPatient adds a patient with optional configuration.
func (b *Builder) WithPatient(id string, opts ...PatientOption) *Builder {
	p := defaultPatient(id)
	for _, opt := range opts {
		opt(&p)
	}
	b.patients = append(b.patients, p)
	return b
}

// WithDoctor adds a doctor with optional configuration.
func (b *Builder) WithDoctor(id string, opts ...DoctorOption) *Builder {
	d := defaultDoctor(id)
	for _, opt := range opts {
		opt(&d)
	}
	b.doctors = append(b.doctors, d)
	return b
}

// WithAppointment adds an appointment. References are not checked here;
// the clinic checks them on load.
func (b *Builder) WithAppointment(id, patientID, doctorID, date string) *Builder {
	b.appointments = append(b.appointments, appointmentData{id, patientID, doctorID, date})
	return b
}

// Snapshot builds the accumulated entities.
func (b *Builder) Snapshot() clinic.Snapshot {
	snap := clinic.Snapshot{
		Patients:     make([]clinic.Patient, 0, len(b.patients)),
		Doctors:      make([]clinic.Doctor, 0, len(b.doctors)),
		Appointments: make([]clinic.Appointment, 0, len(b.appointments)),
	}
	for _, p := range b.patients {
		patient, err := clinic.NewPatient(p.id, p.name, p.age, p.gender, p.disease)
		require.NoError(b.t, err)
		snap.Patients = append(snap.Patients, patient)
	}
	for _, d := range b.doctors {
		doctor, err := clinic.NewDoctor(d.id, d.name, d.age, d.gender, d.specialty, d.available)
		require.NoError(b.t, err)
		snap.Doctors = append(snap.Doctors, doctor)
	}
	for _, a := range b.appointments {
		appt, err := clinic.NewAppointment(a.id, a.patientID, a.doctorID, a.date)
		require.NoError(b.t, err)
		snap.Appointments = append(snap.Appointments, appt)
	}
	return snap
}

// WriteTextFiles writes the accumulated entities to the three record files
// under dir and returns their paths.
func (b *Builder) WriteTextFiles(dir string) paths.DataFiles {
	snap := b.Snapshot()
	files := paths.Files(dir)
	require.NoError(b.t, os.MkdirAll(dir, 0o750))
	writeLines(b.t, files.Patients, snap.Patients, clinic.EncodePatient)
	writeLines(b.t, files.Doctors, snap.Doctors, clinic.EncodeDoctor)
	writeLines(b.t, files.Appointments, snap.Appointments, clinic.EncodeAppointment)
	return files
}

func writeLines[T any](t require.TestingT, path string, items []T, encode func(T) string) {
	var sb strings.Builder
	for _, item := range items {
		sb.WriteString(encode(item))
		sb.WriteString("\n")
	}
	require.NoError(t, os.WriteFile(filepath.Clean(path), []byte(sb.String()), 0o600))
}
