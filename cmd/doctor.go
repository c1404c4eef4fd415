package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/Baselsaber10/Hospital-Management-System/internal/app"
	"github.com/Baselsaber10/Hospital-Management-System/internal/clinic"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Manage doctors",
}

var doctorAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register a new doctor",
	Long: `Register a new doctor. New doctors are available for appointments unless
--available=false is given.

Example:
  hms doctor add --id D1 --name "John Roe" --age 45 --gender male --specialty Cardiology`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		id, err := entityID(cmd)
		if err != nil {
			return err
		}
		name, _ := cmd.Flags().GetString("name")
		age, _ := cmd.Flags().GetInt("age")
		gender, _ := cmd.Flags().GetString("gender")
		specialty, _ := cmd.Flags().GetString("specialty")
		available, _ := cmd.Flags().GetBool("available")

		d, err := clinic.NewDoctor(id, name, age, gender, specialty, available)
		if err != nil {
			return err
		}
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			if err := a.AddDoctor(ctx, d); err != nil {
				return err
			}
			cmd.Printf("Doctor %s added successfully.\n", d.ID())
			return nil
		})
	},
}

var doctorListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all doctors",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		f, err := newFormatter(cmd)
		if err != nil {
			return err
		}
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			return f.FormatDoctors(a.Doctors(ctx))
		})
	},
}

var doctorShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one doctor",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := newFormatter(cmd)
		if err != nil {
			return err
		}
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			d, err := a.GetDoctor(ctx, args[0])
			if err != nil {
				return err
			}
			return f.FormatDoctor(d)
		})
	},
}

var doctorUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Change fields of a doctor",
	Long: `Change one or more fields of a doctor. Use --available=false to stop new
appointments being booked with the doctor.

Example:
  hms doctor update D1 --available=false`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		changes := clinic.DoctorChanges{
			Name:      changedString(cmd, "name"),
			Age:       changedInt(cmd, "age"),
			Gender:    changedString(cmd, "gender"),
			Specialty: changedString(cmd, "specialty"),
			Available: changedBool(cmd, "available"),
		}
		if changes.IsEmpty() {
			return errNoChanges
		}
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			d, err := a.UpdateDoctor(ctx, args[0], changes)
			if err != nil {
				return err
			}
			cmd.Printf("Doctor %s updated successfully.\n", d.ID())
			return nil
		})
	},
}

var doctorDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a doctor with no appointments",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			if _, err := a.DeleteDoctor(ctx, args[0]); err != nil {
				return err
			}
			cmd.Printf("Doctor %s deleted successfully.\n", args[0])
			return nil
		})
	},
}

var doctorAppointmentsCmd = &cobra.Command{
	Use:   "appointments <id>",
	Short: "List the appointments of a doctor",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := newFormatter(cmd)
		if err != nil {
			return err
		}
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			if _, err := a.GetDoctor(ctx, args[0]); err != nil {
				return err
			}
			return f.FormatAppointments(a.AppointmentsFor(ctx, clinic.EntityDoctor, args[0]))
		})
	},
}

func init() {
	addIDFlags(doctorAddCmd)
	for _, c := range []*cobra.Command{doctorAddCmd, doctorUpdateCmd} {
		c.Flags().String("name", "", "full name")
		c.Flags().Int("age", 0, "age in years, greater than zero")
		c.Flags().String("gender", "", `"Male" or "Female", any case`)
		c.Flags().String("specialty", "", "medical specialty")
		c.Flags().Bool("available", true, "whether new appointments can be booked")
	}

	doctorCmd.AddCommand(doctorAddCmd, doctorListCmd, doctorShowCmd, doctorUpdateCmd,
		doctorDeleteCmd, doctorAppointmentsCmd)
	rootCmd.AddCommand(doctorCmd)
}
