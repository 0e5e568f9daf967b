package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nvidalperez/cancha/internal/lesson"
)

func (a *App) clientCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "client",
		Short: "Manage clients",
	}
	cmd.AddCommand(a.clientAddCmd())
	cmd.AddCommand(a.clientListCmd())
	cmd.AddCommand(a.clientArchiveCmd())
	return cmd
}

func (a *App) clientAddCmd() *cobra.Command {
	var (
		email string
		phone string
	)

	cmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Add a new client",
		Example: `  cancha client add "Ana García" --email=ana@example.com
  cancha client add "Marco Ruiz" --phone="+34 600 000 000"`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			c, err := lesson.NewClient(args[0], email, phone)
			if err != nil {
				return err
			}

			if err := a.repo.CreateClient(context.Background(), c); err != nil {
				return fmt.Errorf("creating client: %w", err)
			}

			fmt.Printf("Created client %s: %s\n", c.ID, c.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Client email address")
	cmd.Flags().StringVar(&phone, "phone", "", "Client phone number")

	return cmd
}

func (a *App) clientListCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List clients",
		RunE: func(_ *cobra.Command, _ []string) error {
			clients, err := a.repo.ListClients(context.Background(), all)
			if err != nil {
				return fmt.Errorf("listing clients: %w", err)
			}

			if len(clients) == 0 {
				fmt.Println("No clients yet. Add one with: cancha client add \"Name\"")
				return nil
			}

			for _, c := range clients {
				line := fmt.Sprintf("  %s  %s", c.ID, c.Name)
				if c.Email != "" {
					line += formatMuted("  " + c.Email)
				}
				if c.Phone != "" {
					line += formatMuted("  " + c.Phone)
				}
				if c.Archived {
					line += formatMuted("  (archived)")
				}
				fmt.Println(line)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include archived clients")

	return cmd
}

func (a *App) clientArchiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "archive [id]",
		Short: "Archive a client",
		Long:  "Archive a client so they no longer appear in pickers. Their lesson history is kept.",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.repo.ArchiveClient(context.Background(), args[0]); err != nil {
				return fmt.Errorf("archiving client: %w", err)
			}
			fmt.Printf("Archived client %s\n", args[0])
			return nil
		},
	}
}
