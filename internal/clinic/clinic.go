package clinic

import (
	"context"
	"fmt"
	"slices"
	"time"
)

// Option configures a Clinic.
type Option func(*Clinic)

// WithClock overrides the clock used to decide what "today" is.
func WithClock(now func() time.Time) Option {
	return func(c *Clinic) {
		c.now = now
	}
}

// WithStrictLoad makes Load fail, leaving every registry empty, when any
// stored record had to be skipped.
func WithStrictLoad(strict bool) Option {
	return func(c *Clinic) {
		c.strictLoad = strict
	}
}

// WithWriteThrough controls whether every successful mutation is saved
// immediately. It defaults to true; when off, callers must call Save.
func WithWriteThrough(enabled bool) Option {
	return func(c *Clinic) {
		c.writeThrough = enabled
	}
}

// Clinic owns the patient, doctor and appointment registries and enforces the
// rules that span them. Every successful mutation is written through to the
// store. Clinic is not safe for concurrent use.
type Clinic struct {
	patients     *Registry[Patient]
	doctors      *Registry[Doctor]
	appointments *Registry[Appointment]

	store        Store
	now          func() time.Time
	strictLoad   bool
	writeThrough bool

	// dirty is set by every successful mutation and cleared by a save.
	dirty bool
	// unread lists the stores the last load could not read. Saving over
	// them would replace their contents with an empty registry.
	unread []EntityType
}

// New creates an empty Clinic backed by store. A nil store keeps everything
// in memory.
func New(store Store, opts ...Option) *Clinic {
	c := &Clinic{
		patients:     NewRegistry[Patient](EntityPatient),
		doctors:      NewRegistry[Doctor](EntityDoctor),
		appointments: NewRegistry[Appointment](EntityAppointment),
		store:        store,
		now:          time.Now,
		writeThrough: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.patients.SetDeleteGuard(c.referenceGuard(EntityPatient))
	c.doctors.SetDeleteGuard(c.referenceGuard(EntityDoctor))
	return c
}

// referenceGuard refuses to delete an entity that any appointment points at.
func (c *Clinic) referenceGuard(entity EntityType) DeleteGuard {
	return func(id string) error {
		refs := c.AppointmentsFor(entity, id)
		if len(refs) == 0 {
			return nil
		}
		ids := make([]string, len(refs))
		for i, a := range refs {
			ids[i] = a.ID()
		}
		return &ReferentialIntegrityError{Entity: entity, ID: id, AppointmentIDs: ids}
	}
}

// Load replaces the registries with the store contents. Duplicate ids keep
// the first record seen; appointments that reference an unknown patient or
// doctor are skipped. Both cases are reported in the LoadReport with the
// line the store read them from.
func (c *Clinic) Load(ctx context.Context) (LoadReport, error) {
	if c.store == nil {
		return NewLoadReport(), nil
	}
	snap, report, err := c.store.LoadAll(ctx)
	if err != nil {
		return report, &StoreError{Op: "load", Err: err}
	}
	if report.Loaded == nil {
		report.Loaded = make(map[EntityType]int)
	}
	if report.Failed == nil {
		report.Failed = make(map[EntityType]error)
	}
	c.reset()
	c.unread = c.unread[:0]
	for _, entity := range []EntityType{EntityPatient, EntityDoctor, EntityAppointment} {
		if _, failed := report.Failed[entity]; failed {
			c.unread = append(c.unread, entity)
		}
	}

	for i, p := range snap.Patients {
		if err := c.patients.Add(p); err != nil {
			report.Skip(EntityPatient, snap.Line(EntityPatient, i), EncodePatient(p), err)
		}
	}
	for i, d := range snap.Doctors {
		if err := c.doctors.Add(d); err != nil {
			report.Skip(EntityDoctor, snap.Line(EntityDoctor, i), EncodeDoctor(d), err)
		}
	}
	for i, a := range snap.Appointments {
		if err := c.checkReferences(a); err != nil {
			report.Skip(EntityAppointment, snap.Line(EntityAppointment, i), EncodeAppointment(a), err)
			continue
		}
		if err := c.appointments.Add(a); err != nil {
			report.Skip(EntityAppointment, snap.Line(EntityAppointment, i), EncodeAppointment(a), err)
		}
	}

	if c.strictLoad && report.SkippedCount() > 0 {
		c.reset()
		first := report.Skipped[0]
		return report, fmt.Errorf("strict load: %d record(s) skipped, first %s line %d: %w",
			report.SkippedCount(), first.Entity, first.Line, first.Err)
	}

	report.Loaded[EntityPatient] = c.patients.Len()
	report.Loaded[EntityDoctor] = c.doctors.Len()
	report.Loaded[EntityAppointment] = c.appointments.Len()
	return report, nil
}

// Save writes the current state to the store. It refuses while any store
// failed to load; a later clean Load lifts the refusal.
func (c *Clinic) Save(ctx context.Context) error {
	if c.store == nil {
		c.dirty = false
		return nil
	}
	if len(c.unread) > 0 {
		return &StoreError{Op: "save", Err: &UnreadStoreError{Entities: slices.Clone(c.unread)}}
	}
	if err := c.store.SaveAll(ctx, c.Snapshot()); err != nil {
		return &StoreError{Op: "save", Err: err}
	}
	c.dirty = false
	return nil
}

// Dirty reports whether a mutation has not reached the store yet.
func (c *Clinic) Dirty() bool {
	return c.dirty
}

// Snapshot returns the current state of every registry.
func (c *Clinic) Snapshot() Snapshot {
	return Snapshot{
		Patients:     c.patients.List(),
		Doctors:      c.doctors.List(),
		Appointments: c.appointments.List(),
	}
}

// persist marks the state dirty after a successful mutation and saves it
// when write-through is on.
func (c *Clinic) persist(ctx context.Context) error {
	c.dirty = true
	if !c.writeThrough {
		return nil
	}
	return c.Save(ctx)
}

func (c *Clinic) reset() {
	c.dirty = false
	c.patients.Reset()
	c.doctors.Reset()
	c.appointments.Reset()
}

// AddPatient registers a new patient.
func (c *Clinic) AddPatient(ctx context.Context, p Patient) error {
	if err := c.patients.Add(p); err != nil {
		return err
	}
	return c.persist(ctx)
}

// GetPatient returns the patient with the given id.
func (c *Clinic) GetPatient(id string) (Patient, error) {
	return c.patients.Get(id)
}

// UpdatePatient applies changes to an existing patient.
func (c *Clinic) UpdatePatient(ctx context.Context, id string, changes PatientChanges) (Patient, error) {
	p, err := c.patients.Update(id, func(p Patient) (Patient, error) {
		return p.Apply(changes)
	})
	if err != nil {
		return p, err
	}
	return p, c.persist(ctx)
}

// DeletePatient removes a patient that no appointment references.
func (c *Clinic) DeletePatient(ctx context.Context, id string) (Patient, error) {
	p, err := c.patients.Delete(id)
	if err != nil {
		return p, err
	}
	return p, c.persist(ctx)
}

// Patients lists every patient in insertion order.
func (c *Clinic) Patients() []Patient {
	return c.patients.List()
}

// AddDoctor registers a new doctor.
func (c *Clinic) AddDoctor(ctx context.Context, d Doctor) error {
	if err := c.doctors.Add(d); err != nil {
		return err
	}
	return c.persist(ctx)
}

// GetDoctor returns the doctor with the given id.
func (c *Clinic) GetDoctor(id string) (Doctor, error) {
	return c.doctors.Get(id)
}

// UpdateDoctor applies changes to an existing doctor.
func (c *Clinic) UpdateDoctor(ctx context.Context, id string, changes DoctorChanges) (Doctor, error) {
	d, err := c.doctors.Update(id, func(d Doctor) (Doctor, error) {
		return d.Apply(changes)
	})
	if err != nil {
		return d, err
	}
	return d, c.persist(ctx)
}

// DeleteDoctor removes a doctor that no appointment references.
func (c *Clinic) DeleteDoctor(ctx context.Context, id string) (Doctor, error) {
	d, err := c.doctors.Delete(id)
	if err != nil {
		return d, err
	}
	return d, c.persist(ctx)
}

// Doctors lists every doctor in insertion order.
func (c *Clinic) Doctors() []Doctor {
	return c.doctors.List()
}

// CreateAppointment books a patient with a doctor. The checks run in a fixed
// order and the first failure aborts the whole operation with no change:
// id present and unused, patient exists, doctor exists, doctor available,
// date well formed and not before today.
func (c *Clinic) CreateAppointment(ctx context.Context, id, patientID, doctorID, date string) (Appointment, error) {
	aid, err := ValidateID(id)
	if err != nil {
		return Appointment{}, err
	}
	if c.appointments.Has(aid) {
		return Appointment{}, &DuplicateIDError{Entity: EntityAppointment, ID: aid}
	}

	pid, err := validateID("patient_id", patientID)
	if err != nil {
		return Appointment{}, err
	}
	if !c.patients.Has(pid) {
		return Appointment{}, &NotFoundError{Entity: EntityPatient, ID: pid}
	}

	did, err := validateID("doctor_id", doctorID)
	if err != nil {
		return Appointment{}, err
	}
	doctor, err := c.doctors.Get(did)
	if err != nil {
		return Appointment{}, err
	}
	if !doctor.Available() {
		return Appointment{}, &UnavailableError{DoctorID: did}
	}

	a, err := NewAppointment(aid, pid, did, date)
	if err != nil {
		return Appointment{}, err
	}
	if err := c.checkNotPast(a, date); err != nil {
		return Appointment{}, err
	}

	if err := c.appointments.Add(a); err != nil {
		return Appointment{}, err
	}
	return a, c.persist(ctx)
}

// GetAppointment returns the appointment with the given id.
func (c *Clinic) GetAppointment(id string) (Appointment, error) {
	return c.appointments.Get(id)
}

// RescheduleAppointment moves an appointment to a new date, which must not
// be in the past.
func (c *Clinic) RescheduleAppointment(ctx context.Context, id, date string) (Appointment, error) {
	a, err := c.appointments.Update(id, func(a Appointment) (Appointment, error) {
		moved, err := a.Apply(AppointmentChanges{Date: &date})
		if err != nil {
			return a, err
		}
		if err := c.checkNotPast(moved, date); err != nil {
			return a, err
		}
		return moved, nil
	})
	if err != nil {
		return a, err
	}
	return a, c.persist(ctx)
}

// CancelAppointment removes an appointment. Appointments have no dependents.
func (c *Clinic) CancelAppointment(ctx context.Context, id string) (Appointment, error) {
	a, err := c.appointments.Delete(id)
	if err != nil {
		return a, err
	}
	return a, c.persist(ctx)
}

// Appointments lists every appointment in insertion order.
func (c *Clinic) Appointments() []Appointment {
	return c.appointments.List()
}

// AppointmentsFor lists the appointments that reference the given patient or doctor.
func (c *Clinic) AppointmentsFor(entity EntityType, id string) []Appointment {
	result := make([]Appointment, 0)
	for _, a := range c.appointments.List() {
		if a.References(entity, id) {
			result = append(result, a)
		}
	}
	return result
}

func (c *Clinic) checkReferences(a Appointment) error {
	if !c.patients.Has(a.PatientID()) {
		return &NotFoundError{Entity: EntityPatient, ID: a.PatientID()}
	}
	if !c.doctors.Has(a.DoctorID()) {
		return &NotFoundError{Entity: EntityDoctor, ID: a.DoctorID()}
	}
	return nil
}

func (c *Clinic) checkNotPast(a Appointment, raw string) error {
	if a.Date().Before(Today(c.now())) {
		return invalid("date", raw, PastDate)
	}
	return nil
}
