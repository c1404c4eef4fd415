package presentation

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"

	"github.com/Baselsaber10/Hospital-Management-System/internal/clinic"
	"github.com/Baselsaber10/Hospital-Management-System/internal/config"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// Formatter handles output formatting
type Formatter struct {
	writer io.Writer
	format string
}

// NewFormatter creates a formatter writing in format ("table", "json" or
// "yaml"). An empty format means table.
func NewFormatter(writer io.Writer, format string) (*Formatter, error) {
	if format == "" {
		format = config.OutputTable
	}
	if err := config.ValidateOutput(format); err != nil {
		return nil, err
	}
	return &Formatter{writer: writer, format: format}, nil
}

// Format returns the output format in use.
func (f *Formatter) Format() string {
	return f.format
}

// FormatPatients writes a list of patients.
func (f *Formatter) FormatPatients(ps []clinic.Patient) error {
	return write(f, patientHeaders, FromPatients(ps), "patients")
}

// FormatPatient writes a single patient.
func (f *Formatter) FormatPatient(p clinic.Patient) error {
	return writeOne(f, patientHeaders, FromPatient(p))
}

// FormatDoctors writes a list of doctors.
func (f *Formatter) FormatDoctors(ds []clinic.Doctor) error {
	return write(f, doctorHeaders, FromDoctors(ds), "doctors")
}

// FormatDoctor writes a single doctor.
func (f *Formatter) FormatDoctor(d clinic.Doctor) error {
	return writeOne(f, doctorHeaders, FromDoctor(d))
}

// FormatAppointments writes a list of appointments.
func (f *Formatter) FormatAppointments(as []clinic.Appointment) error {
	return write(f, appointmentHeaders, FromAppointments(as), "appointments")
}

// FormatAppointment writes a single appointment.
func (f *Formatter) FormatAppointment(a clinic.Appointment) error {
	return writeOne(f, appointmentHeaders, FromAppointment(a))
}

type tableRow interface {
	row() []string
}

func write[T tableRow](f *Formatter, headers []string, items []T, plural string) error {
	if f.format == config.OutputTable && len(items) == 0 {
		_, err := fmt.Fprintf(f.writer, "No %s found.\n", plural)
		return err
	}
	rows := make([][]string, len(items))
	for i, item := range items {
		rows[i] = item.row()
	}
	return f.encode(items, headers, rows)
}

func writeOne[T tableRow](f *Formatter, headers []string, item T) error {
	return f.encode(item, headers, [][]string{item.row()})
}

// encode writes v as JSON or YAML, or rows as a table.
func (f *Formatter) encode(v any, headers []string, rows [][]string) error {
	switch f.format {
	case config.OutputJSON:
		encoder := json.NewEncoder(f.writer)
		encoder.SetIndent("", "  ")
		return encoder.Encode(v)
	case config.OutputYAML:
		encoder := yaml.NewEncoder(f.writer)
		encoder.SetIndent(2)
		if err := encoder.Encode(v); err != nil {
			return err
		}
		return encoder.Close()
	default:
		_, err := fmt.Fprintln(f.writer, renderTable(headers, rows))
		return err
	}
}

func renderTable(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Render()
}
