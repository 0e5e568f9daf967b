package ui

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nvidalperez/cancha/internal/lesson"
)

func (a *App) statusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status [id] [scheduled|completed|cancelled|no_show]",
		Short: "Set a lesson's status",
		Example: `  cancha status 4f1c… completed
  cancha status 4f1c… cancelled`,
		Args: cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			status := lesson.Status(args[1])
			if !status.Valid() {
				return fmt.Errorf("%w: %q", lesson.ErrUnknownStatus, args[1])
			}

			ctx := context.Background()
			if err := a.repo.SetLessonStatus(ctx, args[0], status); err != nil {
				if errors.Is(err, lesson.ErrLessonNotFound) {
					return fmt.Errorf("no lesson with id %q", args[0])
				}
				return fmt.Errorf("setting status: %w", err)
			}

			l, err := a.repo.GetLesson(ctx, args[0])
			if err != nil {
				return fmt.Errorf("reloading lesson: %w", err)
			}
			fmt.Printf("%s %s is now %s\n", statusSymbol(l.Status), l.Title, l.Status)
			return nil
		},
	}
	return cmd
}

func (a *App) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a lesson permanently",
		Long:  "Delete a lesson. For a recurring lesson this removes the whole series; to skip a single occurrence, cancel it instead.",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.repo.DeleteLesson(context.Background(), args[0]); err != nil {
				if errors.Is(err, lesson.ErrLessonNotFound) {
					return fmt.Errorf("no lesson with id %q", args[0])
				}
				return fmt.Errorf("deleting lesson: %w", err)
			}
			fmt.Printf("Deleted lesson %s\n", args[0])
			return nil
		},
	}
}

func (a *App) paidCmd() *cobra.Command {
	var unpaid bool

	cmd := &cobra.Command{
		Use:   "paid [id]",
		Short: "Mark a lesson as paid",
		Example: `  cancha paid 4f1c…
  cancha paid 4f1c… --undo`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.repo.MarkPaid(context.Background(), args[0], !unpaid); err != nil {
				if errors.Is(err, lesson.ErrLessonNotFound) {
					return fmt.Errorf("no lesson with id %q", args[0])
				}
				return fmt.Errorf("marking paid: %w", err)
			}
			if unpaid {
				fmt.Printf("Lesson %s marked unpaid\n", args[0])
			} else {
				fmt.Printf("Lesson %s marked paid\n", args[0])
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&unpaid, "undo", false, "Mark as unpaid instead")

	return cmd
}
