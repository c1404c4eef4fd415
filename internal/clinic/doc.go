// Package clinic implements the domain layer for the clinic record keeper.
//
// It holds only pure Go code: field validators, the Patient, Doctor and
// Appointment entities, the pipe-delimited record codec, the generic Registry,
// and the Clinic service that coordinates the three registries. Persistence is
// reached through the Store port; this package has no knowledge of files,
// databases or terminals.
//
// # Entities
//
// Entities are immutable values with unexported fields. They can only be
// obtained from NewPatient, NewDoctor, NewAppointment or the Decode functions,
// all of which run the same validators, so no partially valid value exists.
// Updates go through Apply, which returns a new value.
//
// # Errors
//
// Every failure wraps one of the package sentinels (ErrValidation,
// ErrDuplicateID, ErrNotFound, ErrReferentialIntegrity, ErrDoctorUnavailable,
// ErrIO). KindOf maps an error onto the closed Kind enumeration.
package clinic
