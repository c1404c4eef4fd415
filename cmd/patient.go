package cmd

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Baselsaber10/Hospital-Management-System/internal/app"
	"github.com/Baselsaber10/Hospital-Management-System/internal/clinic"
)

var errNoChanges = errors.New("nothing to update: pass at least one field flag")

var patientCmd = &cobra.Command{
	Use:   "patient",
	Short: "Manage patients",
}

var patientAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register a new patient",
	Long: `Register a new patient. Gender is matched case-insensitively and stored
as Male or Female.

Examples:
  hms patient add --id P1 --name "Jane Doe" --age 30 --gender female --disease Flu
  hms patient add --generate-id --name "Jane Doe" --age 30 --gender female --disease Flu`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		id, err := entityID(cmd)
		if err != nil {
			return err
		}
		name, _ := cmd.Flags().GetString("name")
		age, _ := cmd.Flags().GetInt("age")
		gender, _ := cmd.Flags().GetString("gender")
		disease, _ := cmd.Flags().GetString("disease")

		p, err := clinic.NewPatient(id, name, age, gender, disease)
		if err != nil {
			return err
		}
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			if err := a.AddPatient(ctx, p); err != nil {
				return err
			}
			cmd.Printf("Patient %s added successfully.\n", p.ID())
			return nil
		})
	},
}

var patientListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all patients",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		f, err := newFormatter(cmd)
		if err != nil {
			return err
		}
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			return f.FormatPatients(a.Patients(ctx))
		})
	},
}

var patientShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one patient",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := newFormatter(cmd)
		if err != nil {
			return err
		}
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			p, err := a.GetPatient(ctx, args[0])
			if err != nil {
				return err
			}
			return f.FormatPatient(p)
		})
	},
}

var patientUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Change fields of a patient",
	Long: `Change one or more fields of a patient. Only the flags given are applied,
and each is validated like on add.

Example:
  hms patient update P1 --disease "Common cold" --age 31`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		changes := clinic.PatientChanges{
			Name:    changedString(cmd, "name"),
			Age:     changedInt(cmd, "age"),
			Gender:  changedString(cmd, "gender"),
			Disease: changedString(cmd, "disease"),
		}
		if changes.IsEmpty() {
			return errNoChanges
		}
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			p, err := a.UpdatePatient(ctx, args[0], changes)
			if err != nil {
				return err
			}
			cmd.Printf("Patient %s updated successfully.\n", p.ID())
			return nil
		})
	},
}

var patientDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a patient with no appointments",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			if _, err := a.DeletePatient(ctx, args[0]); err != nil {
				return err
			}
			cmd.Printf("Patient %s deleted successfully.\n", args[0])
			return nil
		})
	},
}

var patientAppointmentsCmd = &cobra.Command{
	Use:   "appointments <id>",
	Short: "List the appointments of a patient",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := newFormatter(cmd)
		if err != nil {
			return err
		}
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			if _, err := a.GetPatient(ctx, args[0]); err != nil {
				return err
			}
			return f.FormatAppointments(a.AppointmentsFor(ctx, clinic.EntityPatient, args[0]))
		})
	},
}

func init() {
	addIDFlags(patientAddCmd)
	for _, c := range []*cobra.Command{patientAddCmd, patientUpdateCmd} {
		c.Flags().String("name", "", "full name")
		c.Flags().Int("age", 0, "age in years, greater than zero")
		c.Flags().String("gender", "", `"Male" or "Female", any case`)
		c.Flags().String("disease", "", "diagnosed disease")
	}

	patientCmd.AddCommand(patientAddCmd, patientListCmd, patientShowCmd, patientUpdateCmd,
		patientDeleteCmd, patientAppointmentsCmd)
	rootCmd.AddCommand(patientCmd)
}

// addIDFlags adds --id and --generate-id to an add/create command.
func addIDFlags(c *cobra.Command) {
	c.Flags().String("id", "", "unique id")
	c.Flags().Bool("generate-id", false, "generate a random UUID for --id")
	c.MarkFlagsMutuallyExclusive("id", "generate-id")
}

// entityID returns --id, or a new UUID when --generate-id is set.
func entityID(cmd *cobra.Command) (string, error) {
	if generate, _ := cmd.Flags().GetBool("generate-id"); generate {
		return uuid.NewString(), nil
	}
	return cmd.Flags().GetString("id")
}

func changedString(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetString(name)
	return &v
}

func changedInt(cmd *cobra.Command, name string) *int {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetInt(name)
	return &v
}

func changedBool(cmd *cobra.Command, name string) *bool {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetBool(name)
	return &v
}
