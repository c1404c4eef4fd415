package cmd

import (
	"context"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Baselsaber10/Hospital-Management-System/internal/app"
	"github.com/Baselsaber10/Hospital-Management-System/internal/menu"
)

var generateIDs bool

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start the interactive menu",
	Long: `Start the numbered interactive menu. Choosing Exit, or closing input,
saves the data a final time.`,
	Args: cobra.NoArgs,
	RunE: runMenu,
}

func init() {
	for _, c := range []*cobra.Command{rootCmd, menuCmd} {
		c.Flags().BoolVar(&generateIDs, "generate-ids", false, "fill blank id answers with random UUIDs")
	}
	rootCmd.AddCommand(menuCmd)
}

func runMenu(cmd *cobra.Command, _ []string) error {
	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		var opts []menu.Option
		if generateIDs {
			opts = append(opts, menu.WithIDGenerator(uuid.NewString))
		}
		cmd.Println("Welcome to Hospital Management System!")
		return menu.New(a, cmd.InOrStdin(), cmd.OutOrStdout(), opts...).Run(ctx)
	})
}
