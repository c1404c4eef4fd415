// Package paths provides path resolution utilities.
package paths

import (
	"os"
	"path/filepath"
	"strings"
)

// File names of the text stores inside the data directory.
const (
	PatientsFile     = "patients.txt"
	DoctorsFile      = "doctors.txt"
	AppointmentsFile = "appointments.txt"
)

// DataFiles holds the resolved paths of the three text stores.
type DataFiles struct {
	Dir          string
	Patients     string
	Doctors      string
	Appointments string
}

// ResolveDataDir normalizes the configured data directory.
//
// Input normalization:
//   - "" -> "."
//   - "~/clinic" -> "$HOME/clinic"
//   - "./data/../clinic" -> "clinic"
func ResolveDataDir(dir string) string {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return "."
	}
	if dir == "~" || strings.HasPrefix(dir, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, strings.TrimPrefix(dir, "~"))
		}
	}
	return filepath.Clean(dir)
}

// Files returns the store file paths for the given data directory.
func Files(dataDir string) DataFiles {
	dir := ResolveDataDir(dataDir)
	return DataFiles{
		Dir:          dir,
		Patients:     filepath.Join(dir, PatientsFile),
		Doctors:      filepath.Join(dir, DoctorsFile),
		Appointments: filepath.Join(dir, AppointmentsFile),
	}
}

// ConfigDir returns ~/.config/hms, or an empty string if the home directory
// cannot be determined.
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "hms")
}
