// Package menu implements the interactive numbered menu over an io.Reader and
// io.Writer.
package menu

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Baselsaber10/Hospital-Management-System/internal/clinic"
	"github.com/Baselsaber10/Hospital-Management-System/internal/config"
	"github.com/Baselsaber10/Hospital-Management-System/internal/log"
	"github.com/Baselsaber10/Hospital-Management-System/internal/presentation"
)

// Service is the set of clinic operations the menu drives.
type Service interface {
	AddPatient(ctx context.Context, p clinic.Patient) error
	Patients(ctx context.Context) []clinic.Patient
	DeletePatient(ctx context.Context, id string) (clinic.Patient, error)
	AddDoctor(ctx context.Context, d clinic.Doctor) error
	Doctors(ctx context.Context) []clinic.Doctor
	DeleteDoctor(ctx context.Context, id string) (clinic.Doctor, error)
	CreateAppointment(ctx context.Context, id, patientID, doctorID, date string) (clinic.Appointment, error)
	Appointments(ctx context.Context) []clinic.Appointment
	CancelAppointment(ctx context.Context, id string) (clinic.Appointment, error)
	Flush(ctx context.Context) error
}

// Option configures a Menu.
type Option func(*Menu)

// WithIDGenerator makes a blank id prompt use gen instead of failing.
func WithIDGenerator(gen func() string) Option {
	return func(m *Menu) {
		m.newID = gen
	}
}

// Menu is the interactive loop.
type Menu struct {
	svc       Service
	in        *bufio.Scanner
	out       io.Writer
	formatter *presentation.Formatter
	styles    styles
	newID     func() string
}

type entry struct {
	label  string
	action func(ctx context.Context) error
}

// New creates a Menu reading answers from in and writing to out.
func New(svc Service, in io.Reader, out io.Writer, opts ...Option) *Menu {
	formatter, _ := presentation.NewFormatter(out, config.OutputTable)
	m := &Menu{
		svc:       svc,
		in:        bufio.NewScanner(in),
		out:       out,
		formatter: formatter,
		styles:    newStyles(out),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// errExit ends the loop.
var errExit = errors.New("exit")

func (m *Menu) entries() []entry {
	return []entry{
		{"Add Patient", m.addPatient},
		{"View Patients", m.viewPatients},
		{"Delete Patient", m.deletePatient},
		{"Add Doctor", m.addDoctor},
		{"View Doctors", m.viewDoctors},
		{"Delete Doctor", m.deleteDoctor},
		{"Create Appointment", m.createAppointment},
		{"View Appointments", m.viewAppointments},
		{"Cancel Appointment", m.cancelAppointment},
		{"Exit", func(context.Context) error { return errExit }},
	}
}

// Run shows the menu until Exit is chosen or input ends, then saves any
// unsaved changes. Only the final save error is returned; failed operations
// are reported to the user and the loop continues.
func (m *Menu) Run(ctx context.Context) error {
	entries := m.entries()
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		m.printMenu(entries)
		choice, ok := m.ask(fmt.Sprintf("Enter your choice (1-%d): ", len(entries)))
		if !ok {
			break
		}
		n, err := strconv.Atoi(choice)
		if err != nil || n < 1 || n > len(entries) {
			m.println(m.styles.err, fmt.Sprintf("Invalid choice. Enter a number from 1 to %d.", len(entries)))
			continue
		}
		log.Debug(log.CatMenu, "Menu choice", "choice", n, "label", entries[n-1].label)
		err = entries[n-1].action(ctx)
		if errors.Is(err, errExit) {
			break
		}
		if err != nil {
			log.ErrorErr(log.CatMenu, "Menu action failed", err, "label", entries[n-1].label)
			m.println(m.styles.err, "Error: "+err.Error())
		}
	}

	m.println(m.styles.title, "Exiting system...")
	if err := m.svc.Flush(ctx); err != nil {
		m.println(m.styles.err, "Error saving data: "+err.Error())
		return err
	}
	return nil
}

func (m *Menu) printMenu(entries []entry) {
	m.println(m.styles.title, "\n===== Hospital Management System =====")
	for i, e := range entries {
		m.println(m.styles.item, fmt.Sprintf("%d. %s", i+1, e.label))
	}
}

// ask prompts and reads one trimmed line. It returns false at end of input.
func (m *Menu) ask(prompt string) (string, bool) {
	_, _ = fmt.Fprint(m.out, m.styles.prompt.Render(prompt))
	if !m.in.Scan() {
		_, _ = fmt.Fprintln(m.out)
		return "", false
	}
	return strings.TrimSpace(m.in.Text()), true
}

// askAll asks each prompt in turn. It returns false if input ends first.
func (m *Menu) askAll(prompts ...string) ([]string, bool) {
	answers := make([]string, len(prompts))
	for i, p := range prompts {
		answer, ok := m.ask(p)
		if !ok {
			return nil, false
		}
		answers[i] = answer
	}
	return answers, true
}

func (m *Menu) askID(prompt string) (string, bool) {
	if m.newID != nil {
		prompt = strings.TrimSuffix(prompt, ": ") + " (blank to generate): "
	}
	id, ok := m.ask(prompt)
	if ok && id == "" && m.newID != nil {
		id = m.newID()
		m.println(m.styles.item, "Generated ID "+id)
	}
	return id, ok
}

func (m *Menu) println(style lipgloss.Style, s string) {
	_, _ = fmt.Fprintln(m.out, style.Render(s))
}

// report prints the outcome of a mutating operation. A save failure means
// the change is held in memory only.
func (m *Menu) report(success string, err error) {
	switch {
	case err == nil:
		m.println(m.styles.success, success)
	case clinic.KindOf(err) == clinic.KindIO:
		m.println(m.styles.success, success)
		m.println(m.styles.warning, "Warning: change kept in memory but not saved: "+err.Error())
	default:
		m.println(m.styles.err, "Error: "+err.Error())
	}
}

func (m *Menu) addPatient(ctx context.Context) error {
	id, ok := m.askID("Enter Patient ID: ")
	if !ok {
		return errExit
	}
	answers, ok := m.askAll("Enter Name: ", "Enter Age: ", "Enter Gender (Male/Female): ", "Enter Disease: ")
	if !ok {
		return errExit
	}
	age, err := clinic.ParseAge(answers[1])
	if err != nil {
		m.report("", err)
		return nil
	}
	p, err := clinic.NewPatient(id, answers[0], age, answers[2], answers[3])
	if err == nil {
		err = m.svc.AddPatient(ctx, p)
	}
	m.report("Patient added successfully.", err)
	return nil
}

func (m *Menu) viewPatients(ctx context.Context) error {
	return m.formatter.FormatPatients(m.svc.Patients(ctx))
}

func (m *Menu) deletePatient(ctx context.Context) error {
	id, ok := m.ask("Enter Patient ID to delete: ")
	if !ok {
		return errExit
	}
	_, err := m.svc.DeletePatient(ctx, id)
	m.report("Patient deleted successfully.", err)
	return nil
}

func (m *Menu) addDoctor(ctx context.Context) error {
	id, ok := m.askID("Enter Doctor ID: ")
	if !ok {
		return errExit
	}
	answers, ok := m.askAll("Enter Name: ", "Enter Age: ", "Enter Gender (Male/Female): ", "Enter Specialty: ")
	if !ok {
		return errExit
	}
	age, err := clinic.ParseAge(answers[1])
	if err != nil {
		m.report("", err)
		return nil
	}
	d, err := clinic.NewDoctor(id, answers[0], age, answers[2], answers[3], true)
	if err == nil {
		err = m.svc.AddDoctor(ctx, d)
	}
	m.report("Doctor added successfully.", err)
	return nil
}

func (m *Menu) viewDoctors(ctx context.Context) error {
	return m.formatter.FormatDoctors(m.svc.Doctors(ctx))
}

func (m *Menu) deleteDoctor(ctx context.Context) error {
	id, ok := m.ask("Enter Doctor ID to delete: ")
	if !ok {
		return errExit
	}
	_, err := m.svc.DeleteDoctor(ctx, id)
	m.report("Doctor deleted successfully.", err)
	return nil
}

func (m *Menu) createAppointment(ctx context.Context) error {
	id, ok := m.askID("Enter Appointment ID: ")
	if !ok {
		return errExit
	}
	answers, ok := m.askAll("Enter Patient ID: ", "Enter Doctor ID: ", "Enter Appointment Date (YYYY-MM-DD): ")
	if !ok {
		return errExit
	}
	_, err := m.svc.CreateAppointment(ctx, id, answers[0], answers[1], answers[2])
	m.report("Appointment created successfully.", err)
	return nil
}

func (m *Menu) viewAppointments(ctx context.Context) error {
	return m.formatter.FormatAppointments(m.svc.Appointments(ctx))
}

func (m *Menu) cancelAppointment(ctx context.Context) error {
	id, ok := m.ask("Enter Appointment ID to cancel: ")
	if !ok {
		return errExit
	}
	_, err := m.svc.CancelAppointment(ctx, id)
	m.report("Appointment canceled successfully.", err)
	return nil
}
