package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/Baselsaber10/Hospital-Management-System/internal/app"
)

var appointmentCmd = &cobra.Command{
	Use:     "appointment",
	Aliases: []string{"appt"},
	Short:   "Manage appointments",
}

var appointmentCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Book a patient with a doctor",
	Long: `Book a patient with an available doctor. The date is YYYY-MM-DD and must
not be before today.

Example:
  hms appointment create --id A1 --patient P1 --doctor D1 --date 2030-01-05`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		id, err := entityID(cmd)
		if err != nil {
			return err
		}
		patientID, _ := cmd.Flags().GetString("patient")
		doctorID, _ := cmd.Flags().GetString("doctor")
		date, _ := cmd.Flags().GetString("date")

		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			appt, err := a.CreateAppointment(ctx, id, patientID, doctorID, date)
			if err != nil {
				return err
			}
			cmd.Printf("Appointment %s created successfully.\n", appt.ID())
			return nil
		})
	},
}

var appointmentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all appointments",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		f, err := newFormatter(cmd)
		if err != nil {
			return err
		}
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			return f.FormatAppointments(a.Appointments(ctx))
		})
	},
}

var appointmentShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one appointment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := newFormatter(cmd)
		if err != nil {
			return err
		}
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			appt, err := a.GetAppointment(ctx, args[0])
			if err != nil {
				return err
			}
			return f.FormatAppointment(appt)
		})
	},
}

var appointmentRescheduleCmd = &cobra.Command{
	Use:   "reschedule <id> <date>",
	Short: "Move an appointment to another date",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			appt, err := a.RescheduleAppointment(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			cmd.Printf("Appointment %s moved to %s.\n", appt.ID(), appt.DateString())
			return nil
		})
	},
}

var appointmentCancelCmd = &cobra.Command{
	Use:   "cancel <id>",
	Short: "Cancel an appointment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			if _, err := a.CancelAppointment(ctx, args[0]); err != nil {
				return err
			}
			cmd.Printf("Appointment %s canceled successfully.\n", args[0])
			return nil
		})
	},
}

func init() {
	addIDFlags(appointmentCreateCmd)
	appointmentCreateCmd.Flags().String("patient", "", "patient id")
	appointmentCreateCmd.Flags().String("doctor", "", "doctor id")
	appointmentCreateCmd.Flags().String("date", "", "date as YYYY-MM-DD, today or later")

	appointmentCmd.AddCommand(appointmentCreateCmd, appointmentListCmd, appointmentShowCmd,
		appointmentRescheduleCmd, appointmentCancelCmd)
	rootCmd.AddCommand(appointmentCmd)
}
