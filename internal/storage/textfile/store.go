// Package textfile implements clinic.Store over three pipe-delimited text
// files, one record per line.
package textfile

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/Baselsaber10/Hospital-Management-System/internal/clinic"
	"github.com/Baselsaber10/Hospital-Management-System/internal/log"
	"github.com/Baselsaber10/Hospital-Management-System/internal/paths"
)

// Store reads and writes patients.txt, doctors.txt and appointments.txt in a
// single data directory.
type Store struct {
	files paths.DataFiles
}

var _ clinic.Store = (*Store)(nil)

// New creates a Store rooted at dataDir. Nothing is touched on disk until the
// first load or save.
func New(dataDir string) *Store {
	return &Store{files: paths.Files(dataDir)}
}

// Files returns the resolved store paths.
func (s *Store) Files() paths.DataFiles {
	return s.files
}

// LoadAll reads the three files. A missing file is reported as Missing, an
// unreadable one as Failed, and both are treated as empty. Blank lines are
// ignored; lines that fail to decode are reported as Skipped. Lines have no
// length limit.
func (s *Store) LoadAll(ctx context.Context) (clinic.Snapshot, clinic.LoadReport, error) {
	report := clinic.NewLoadReport()
	if err := ctx.Err(); err != nil {
		return clinic.Snapshot{}, report, err
	}
	snap := clinic.Snapshot{Lines: make(map[clinic.EntityType][]int, 3)}
	snap.Patients = readRecords(s.files.Patients, clinic.PatientCodec, &snap, &report)
	snap.Doctors = readRecords(s.files.Doctors, clinic.DoctorCodec, &snap, &report)
	snap.Appointments = readRecords(s.files.Appointments, clinic.AppointmentCodec, &snap, &report)
	return snap, report, nil
}

func readRecords[T clinic.Entity](path string, codec clinic.Codec[T], snap *clinic.Snapshot, report *clinic.LoadReport) []T {
	records := make([]T, 0)
	lines := make([]int, 0)

	f, err := os.Open(path) //nolint:gosec // G304: path is derived from the configured data dir
	if errors.Is(err, fs.ErrNotExist) {
		log.Info(log.CatStore, "Store file missing, starting empty", "entity", codec.Entity, "path", path)
		report.Missing = append(report.Missing, codec.Entity)
		return records
	}
	if err != nil {
		log.ErrorErr(log.CatStore, "Failed to open store file", err, "entity", codec.Entity, "path", path)
		report.Failed[codec.Entity] = err
		return records
	}
	defer func() { _ = f.Close() }()

	reader := bufio.NewReader(f)
	line := 0
	for {
		raw, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			log.ErrorErr(log.CatStore, "Failed to read store file", err, "entity", codec.Entity, "path", path, "line", line+1)
			report.Failed[codec.Entity] = err
			return make([]T, 0)
		}
		if raw == "" && err != nil {
			break
		}
		line++
		raw = strings.TrimSuffix(strings.TrimSuffix(raw, "\n"), "\r")
		if strings.TrimSpace(raw) != "" {
			record, decodeErr := codec.Decode(raw)
			if decodeErr != nil {
				log.Warn(log.CatStore, "Skipping malformed record",
					"entity", codec.Entity, "path", path, "line", line, "error", decodeErr)
				report.Skip(codec.Entity, line, raw, decodeErr)
			} else {
				records = append(records, record)
				lines = append(lines, line)
			}
		}
		if err != nil {
			break
		}
	}

	snap.Lines[codec.Entity] = lines
	log.Debug(log.CatStore, "Loaded store file", "entity", codec.Entity, "path", path, "records", len(records))
	return records
}

// SaveAll overwrites the three files. Each file is replaced atomically; a
// failure on one file does not stop the others from being written.
func (s *Store) SaveAll(ctx context.Context, snap clinic.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(s.files.Dir, 0o750); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	return errors.Join(
		writeRecords(s.files.Patients, clinic.PatientCodec, snap.Patients),
		writeRecords(s.files.Doctors, clinic.DoctorCodec, snap.Doctors),
		writeRecords(s.files.Appointments, clinic.AppointmentCodec, snap.Appointments),
	)
}

func writeRecords[T clinic.Entity](path string, codec clinic.Codec[T], records []T) error {
	var b strings.Builder
	for _, r := range records {
		b.WriteString(codec.Encode(r))
		b.WriteByte('\n')
	}
	if err := writeAtomic(path, []byte(b.String())); err != nil {
		log.ErrorErr(log.CatStore, "Failed to save store file", err, "entity", codec.Entity, "path", path)
		return fmt.Errorf("saving %s: %w", codec.Entity, err)
	}
	log.Debug(log.CatStore, "Saved store file", "entity", codec.Entity, "path", path, "records", len(records))
	return nil
}

// writeAtomic writes data to a temp file next to path and renames it into place.
func writeAtomic(path string, data []byte) error {
	temp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tempPath := temp.Name()

	if _, err := temp.Write(data); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// Close is a no-op; files are opened per call.
func (s *Store) Close() error {
	return nil
}
