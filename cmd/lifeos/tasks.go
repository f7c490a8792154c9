package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Veraticus/lifeos/internal/cli"
	"github.com/Veraticus/lifeos/internal/ledger"
	"github.com/Veraticus/lifeos/internal/model"
)

func tasksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tasks",
		Aliases: []string{"todo"},
		Short:   "Manage your to-do list",
	}

	cmd.AddCommand(addTaskCmd())
	cmd.AddCommand(listTasksCmd())
	cmd.AddCommand(toggleTaskCmd())
	cmd.AddCommand(deleteTaskCmd())

	return cmd
}

func taskID(t model.Task) string { return t.ID }

func addTaskCmd() *cobra.Command {
	var form ledger.TaskForm

	cmd := &cobra.Command{
		Use:   "add <text>",
		Short: "Add a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				editor := ledger.NewTaskEditor(a.store, a.session, a.desk)
				if _, err := editor.Open(nil); err != nil {
					return err
				}

				form.Text = args[0]
				id, err := editor.Submit(ctx, form)
				if err != nil {
					editor.Cancel()
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Added task %q (%s)", form.Text, shortID(id))))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&form.Priority, "priority", "p", "", "high, medium or low (default: medium)")
	cmd.Flags().StringVarP(&form.Tag, "tag", "t", "", "tag (default: general)")

	return cmd
}

func listTasksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tasks, pending first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				view, err := a.loadView(ctx)
				if err != nil {
					return err
				}

				if len(view.Tasks) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), cli.InfoStyle.Render("No tasks yet. Use 'lifeos tasks add' to create one."))
					return nil
				}
				printTasks(cmd.OutOrStdout(), view.Tasks)
				fmt.Fprintf(cmd.OutOrStdout(), "\n%d pending\n", view.Daily.PendingTasks)
				return nil
			})
		},
	}
}

func printTasks(w io.Writer, tasks []model.Task) {
	t := newTable(w, "ID", "", "Task", "Priority", "Tag")
	for _, task := range tasks {
		check := "[ ]"
		if task.Completed {
			check = cli.SuccessStyle.Render("[x]")
		}
		t.row(shortID(task.ID), check, task.Text, task.Priority, "#"+task.Tag)
	}
	t.flush()
}

func toggleTaskCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "done <id>",
		Aliases: []string{"toggle"},
		Short:   "Mark a task done, or pending again",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				view, err := a.loadView(ctx)
				if err != nil {
					return err
				}
				task, err := findByPrefix(view.Tasks, taskID, args[0])
				if err != nil {
					return err
				}

				if err := ledger.NewTaskEditor(a.store, a.session, a.desk).Toggle(ctx, task); err != nil {
					return err
				}
				state := "done"
				if task.Completed {
					state = "pending"
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Marked %q %s", task.Text, state)))
				return nil
			})
		},
	}
}

func deleteTaskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				view, err := a.loadView(ctx)
				if err != nil {
					return err
				}
				task, err := findByPrefix(view.Tasks, taskID, args[0])
				if err != nil {
					return err
				}

				outcome, err := ledger.NewTaskEditor(a.store, a.session, a.desk).RequestDelete(ctx, task, confirmer(cmd))
				if err != nil {
					return err
				}
				reportDelete(cmd.OutOrStdout(), fmt.Sprintf("task %q", task.Text), outcome)
				return nil
			})
		},
	}
	addYesFlag(cmd)
	return cmd
}
