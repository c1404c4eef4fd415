package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Baselsaber10/Hospital-Management-System/internal/clinic"
	"github.com/Baselsaber10/Hospital-Management-System/internal/log"
)

const (
	selectPatientsQuery     = `SELECT position, id, name, age, gender, disease FROM patients ORDER BY position`
	selectDoctorsQuery      = `SELECT position, id, name, age, gender, specialty, available FROM doctors ORDER BY position`
	selectAppointmentsQuery = `SELECT position, id, patient_id, doctor_id, date FROM appointments ORDER BY position`

	insertPatientQuery     = `INSERT INTO patients (position, id, name, age, gender, disease) VALUES (?, ?, ?, ?, ?, ?)`
	insertDoctorQuery      = `INSERT INTO doctors (position, id, name, age, gender, specialty, available) VALUES (?, ?, ?, ?, ?, ?, ?)`
	insertAppointmentQuery = `INSERT INTO appointments (position, id, patient_id, doctor_id, date) VALUES (?, ?, ?, ?, ?)`

	deletePatientsQuery     = `DELETE FROM patients`
	deleteDoctorsQuery      = `DELETE FROM doctors`
	deleteAppointmentsQuery = `DELETE FROM appointments`
)

// Store implements clinic.Store over the patients, doctors and appointments
// tables. Row order is kept in the position column.
type Store struct {
	conn *sql.DB
}

// Ensure Store implements clinic.Store.
var _ clinic.Store = (*Store)(nil)

// NewStore creates a Store on an open connection whose schema is already in place.
func NewStore(conn *sql.DB) *Store {
	return &Store{conn: conn}
}

// Open opens or creates the database at path and returns its Store.
func Open(path string) (*Store, error) {
	db, err := NewDB(path)
	if err != nil {
		return nil, err
	}
	return db.Store(), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// model is a table row that can be turned back into a clinic entity.
type model[T clinic.Entity] interface {
	toDomain() (T, error)
	record() string
}

func scanPatient(row rowScanner) (PatientModel, error) {
	var m PatientModel
	err := row.Scan(&m.Position, &m.ID, &m.Name, &m.Age, &m.Gender, &m.Disease)
	return m, err
}

func scanDoctor(row rowScanner) (DoctorModel, error) {
	var m DoctorModel
	err := row.Scan(&m.Position, &m.ID, &m.Name, &m.Age, &m.Gender, &m.Specialty, &m.Available)
	return m, err
}

func scanAppointment(row rowScanner) (AppointmentModel, error) {
	var m AppointmentModel
	err := row.Scan(&m.Position, &m.ID, &m.PatientID, &m.DoctorID, &m.Date)
	return m, err
}

// LoadAll reads every table. A table that cannot be queried is recorded in
// the report as Failed and treated as empty. Rows that fail validation are
// reported as Skipped.
func (s *Store) LoadAll(ctx context.Context) (clinic.Snapshot, clinic.LoadReport, error) {
	report := clinic.NewLoadReport()
	if err := ctx.Err(); err != nil {
		return clinic.Snapshot{}, report, err
	}
	snap := clinic.Snapshot{Lines: make(map[clinic.EntityType][]int, 3)}
	snap.Patients = loadTable[PatientModel, clinic.Patient](ctx, s.conn, clinic.EntityPatient, selectPatientsQuery, scanPatient, &snap, &report)
	snap.Doctors = loadTable[DoctorModel, clinic.Doctor](ctx, s.conn, clinic.EntityDoctor, selectDoctorsQuery, scanDoctor, &snap, &report)
	snap.Appointments = loadTable[AppointmentModel, clinic.Appointment](ctx, s.conn, clinic.EntityAppointment, selectAppointmentsQuery, scanAppointment, &snap, &report)
	return snap, report, nil
}

func loadTable[M model[T], T clinic.Entity](
	ctx context.Context,
	conn *sql.DB,
	entity clinic.EntityType,
	query string,
	scan func(rowScanner) (M, error),
	snap *clinic.Snapshot,
	report *clinic.LoadReport,
) []T {
	result := make([]T, 0)
	positions := make([]int, 0)

	rows, err := conn.QueryContext(ctx, query)
	if err != nil {
		log.ErrorErr(log.CatDB, "Failed to query table", err, "entity", entity)
		report.Failed[entity] = fmt.Errorf("failed to query %s rows: %w", entity, err)
		return result
	}
	defer func() { _ = rows.Close() }()

	row := 0
	for rows.Next() {
		row++
		m, err := scan(rows)
		if err != nil {
			log.Warn(log.CatDB, "Skipping unreadable row", "entity", entity, "row", row, "error", err)
			report.Skip(entity, row, "", err)
			continue
		}
		item, err := m.toDomain()
		if err != nil {
			log.Warn(log.CatDB, "Skipping invalid row", "entity", entity, "row", row, "error", err)
			report.Skip(entity, row, m.record(), err)
			continue
		}
		result = append(result, item)
		positions = append(positions, row)
	}
	if err := rows.Err(); err != nil {
		log.ErrorErr(log.CatDB, "Failed to iterate table", err, "entity", entity)
		report.Failed[entity] = fmt.Errorf("failed to read %s rows: %w", entity, err)
		return make([]T, 0)
	}

	snap.Lines[entity] = positions
	log.Debug(log.CatDB, "Loaded table", "entity", entity, "rows", len(result))
	return result
}

// SaveAll replaces the contents of every table in a single transaction.
// On failure the transaction is rolled back and the previous contents stay.
func (s *Store) SaveAll(ctx context.Context, snap clinic.Snapshot) (err error) {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				log.ErrorErr(log.CatDB, "Rollback failed", rbErr)
			}
		}
	}()

	for _, q := range []string{deleteAppointmentsQuery, deleteDoctorsQuery, deletePatientsQuery} {
		if _, err = tx.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("failed to clear table: %w", err)
		}
	}

	for i, p := range snap.Patients {
		m := toPatientModel(p, i+1)
		if _, err = tx.ExecContext(ctx, insertPatientQuery, m.Position, m.ID, m.Name, m.Age, m.Gender, m.Disease); err != nil {
			return fmt.Errorf("failed to insert patient %q: %w", m.ID, err)
		}
	}
	for i, d := range snap.Doctors {
		m := toDoctorModel(d, i+1)
		if _, err = tx.ExecContext(ctx, insertDoctorQuery, m.Position, m.ID, m.Name, m.Age, m.Gender, m.Specialty, m.Available); err != nil {
			return fmt.Errorf("failed to insert doctor %q: %w", m.ID, err)
		}
	}
	for i, a := range snap.Appointments {
		m := toAppointmentModel(a, i+1)
		if _, err = tx.ExecContext(ctx, insertAppointmentQuery, m.Position, m.ID, m.PatientID, m.DoctorID, m.Date); err != nil {
			return fmt.Errorf("failed to insert appointment %q: %w", m.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	log.Debug(log.CatDB, "Saved snapshot",
		"patients", len(snap.Patients), "doctors", len(snap.Doctors), "appointments", len(snap.Appointments))
	return nil
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	return s.conn.Close()
}
