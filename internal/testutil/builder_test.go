package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Baselsaber10/Hospital-Management-System/internal/clinic"
	"github.com/Baselsaber10/Hospital-Management-System/internal/storage/textfile"
)

func TestBuilder_Snapshot(t *testing.T) {
	snap := NewBuilder(t).WithStandardClinic("2030-01-05").Snapshot()

	require.Len(t, snap.Patients, 2)
	require.Equal(t, clinic.Female, snap.Patients[0].Gender())
	require.Len(t, snap.Doctors, 2)
	require.False(t, snap.Doctors[1].Available())
	require.Len(t, snap.Appointments, 1)
	require.Equal(t, "2030-01-05", snap.Appointments[0].DateString())
}

func TestBuilder_WriteTextFilesLoads(t *testing.T) {
	dir := t.TempDir()
	NewBuilder(t).WithStandardClinic("2030-01-05").WriteTextFiles(dir)

	c := clinic.New(textfile.New(dir))
	report, err := c.Load(context.Background())

	require.NoError(t, err)
	require.Zero(t, report.SkippedCount())
	require.Equal(t, 2, report.Loaded[clinic.EntityPatient])
	require.Equal(t, 1, report.Loaded[clinic.EntityAppointment])
}
