package clinic

import "context"

// Snapshot is the full persisted state, each slice in insertion order.
type Snapshot struct {
	Patients     []Patient
	Doctors      []Doctor
	Appointments []Appointment

	// Lines holds the 1-based source line or row of each loaded record,
	// parallel to its entity's slice. Stores fill it in LoadAll; snapshots
	// taken from a Clinic leave it nil.
	Lines map[EntityType][]int
}

// Line returns where the i-th record of entity came from, or its 1-based
// position in the snapshot when the store did not say.
func (s Snapshot) Line(entity EntityType, i int) int {
	if lines := s.Lines[entity]; i < len(lines) {
		return lines[i]
	}
	return i + 1
}

// SkippedRecord describes one stored record that was not loaded.
type SkippedRecord struct {
	Entity EntityType
	Line   int // 1-based line or row position within its store
	Record string
	Err    error
}

// LoadReport summarises a load. A store that fails to read is recorded in
// Failed and treated as empty; it does not abort the other stores.
type LoadReport struct {
	Loaded  map[EntityType]int
	Skipped []SkippedRecord
	Missing []EntityType
	Failed  map[EntityType]error
}

// NewLoadReport returns an empty report with its maps allocated.
func NewLoadReport() LoadReport {
	return LoadReport{
		Loaded: make(map[EntityType]int),
		Failed: make(map[EntityType]error),
	}
}

// Skip records a record that could not be loaded.
func (r *LoadReport) Skip(entity EntityType, line int, record string, err error) {
	r.Skipped = append(r.Skipped, SkippedRecord{Entity: entity, Line: line, Record: record, Err: err})
}

// SkippedCount returns the number of skipped records.
func (r LoadReport) SkippedCount() int {
	return len(r.Skipped)
}

// Store is the persistence port. Implementations load and save all three
// registries at once.
type Store interface {
	// LoadAll reads every store. A missing store is reported in
	// LoadReport.Missing and is not an error. Records that fail to decode are
	// reported in LoadReport.Skipped.
	LoadAll(ctx context.Context) (Snapshot, LoadReport, error)

	// SaveAll overwrites every store with the snapshot.
	SaveAll(ctx context.Context, snapshot Snapshot) error

	// Close releases any resources held by the store.
	Close() error
}
