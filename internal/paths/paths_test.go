package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveDataDir(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		input string
		want  string
	}{
		{input: "", want: "."},
		{input: "  ", want: "."},
		{input: ".", want: "."},
		{input: "./data/../clinic", want: "clinic"},
		{input: "/var/lib/hms/", want: "/var/lib/hms"},
		{input: "~", want: home},
		{input: "~/clinic", want: filepath.Join(home, "clinic")},
		{input: "~user/clinic", want: "~user/clinic"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			require.Equal(t, tt.want, ResolveDataDir(tt.input))
		})
	}
}

func TestFiles(t *testing.T) {
	f := Files("/data")
	require.Equal(t, "/data", f.Dir)
	require.Equal(t, "/data/patients.txt", f.Patients)
	require.Equal(t, "/data/doctors.txt", f.Doctors)
	require.Equal(t, "/data/appointments.txt", f.Appointments)
}

func TestFiles_DefaultsToWorkingDir(t *testing.T) {
	f := Files("")
	require.Equal(t, "patients.txt", f.Patients)
}

func TestConfigDir(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(home, ".config", "hms"), ConfigDir())
}
