package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/lifeos/internal/cli"
	"github.com/Veraticus/lifeos/internal/model"
	"github.com/Veraticus/lifeos/internal/training"
)

func plansCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plans",
		Short: "Manage workout plans and log sessions",
	}

	cmd.AddCommand(addPlanCmd())
	cmd.AddCommand(listPlansCmd())
	cmd.AddCommand(deletePlanCmd())
	cmd.AddCommand(logWorkoutCmd())

	return cmd
}

func addPlanCmd() *cobra.Command {
	var exercises []string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a workout plan",
		Long: `Create a workout plan. Each --exercise is NAME[:SETSxREPS]; sets and reps
default to 3x10.

Example:
  lifeos plans add "Leg day" -e "Squat:4x8" -e "Lunge" -e "Calf raise:3x15"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				m := training.NewWithConfig(a.store, a.session, a.cfg.TrainingConfig())
				if err := m.NewPlan(); err != nil {
					return err
				}
				if err := fillPlan(m, args[0], exercises); err != nil {
					m.Cancel()
					return err
				}
				if err := m.SavePlan(ctx); err != nil {
					m.Cancel()
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Saved plan %q", args[0])))
				return nil
			})
		},
	}

	cmd.Flags().StringArrayVarP(&exercises, "exercise", "e", nil, "exercise as NAME[:SETSxREPS] (repeatable)")
	return cmd
}

// fillPlan writes name and the exercise arguments into the open plan form.
func fillPlan(m *training.Machine, name string, args []string) error {
	if err := m.SetPlanName(name); err != nil {
		return err
	}

	// The form starts with one blank row.
	for i, arg := range args {
		if i > 0 {
			if err := m.AddExercise(); err != nil {
				return err
			}
		}

		exName, sets, reps, err := parseExercise(arg)
		if err != nil {
			return err
		}
		if err := m.SetExerciseField(i, training.FieldName, exName); err != nil {
			return err
		}
		if err := m.SetExerciseField(i, training.FieldSets, sets); err != nil {
			return err
		}
		if err := m.SetExerciseField(i, training.FieldReps, reps); err != nil {
			return err
		}
	}
	return nil
}

func parseExercise(arg string) (name, sets, reps string, err error) {
	name, scheme, found := strings.Cut(arg, ":")
	name = strings.TrimSpace(name)
	sets, reps = training.DefaultSets, training.DefaultReps
	if !found {
		return name, sets, reps, nil
	}

	s, r, ok := strings.Cut(strings.ToLower(strings.TrimSpace(scheme)), "x")
	if !ok || strings.TrimSpace(s) == "" || strings.TrimSpace(r) == "" {
		return "", "", "", fmt.Errorf("invalid exercise %q: want NAME:SETSxREPS", arg)
	}
	return name, strings.TrimSpace(s), strings.TrimSpace(r), nil
}

func listPlansCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List workout plans and recent sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				view, err := a.loadView(ctx)
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()

				if len(view.Workouts.Plans) == 0 {
					fmt.Fprintln(w, cli.InfoStyle.Render("No plans yet. Use 'lifeos plans add' to create one."))
				} else {
					t := newTable(w, "ID", "Plan", "Exercises")
					for _, p := range view.Workouts.Plans {
						names := make([]string, len(p.Plan.Exercises))
						for i, ex := range p.Plan.Exercises {
							names[i] = fmt.Sprintf("%s %sx%s", ex.Name, ex.TargetSets, ex.TargetReps)
						}
						t.row(shortID(p.Plan.ID), p.Plan.Name, strings.Join(names, ", "))
					}
					t.flush()
				}

				fmt.Fprintln(w)
				printWorkouts(w, view.Workouts)
				return nil
			})
		},
	}
}

func deletePlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a workout plan or a logged session",
		Long: `Delete a workout plan, or a logged session when the id belongs to one.
Logged sessions keep their own copy of the plan and are not affected by deleting it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				view, err := a.loadView(ctx)
				if err != nil {
					return err
				}
				m := training.NewWithConfig(a.store, a.session, a.cfg.TrainingConfig())

				if plan, err := findByPrefix(view.Plans, planID, args[0]); err == nil {
					outcome, err := m.DeletePlan(ctx, plan, confirmer(cmd))
					if err != nil {
						return err
					}
					reportDelete(cmd.OutOrStdout(), fmt.Sprintf("plan %q", plan.Name), outcome)
					return nil
				}

				log, err := findByPrefix(view.Logs, logID, args[0])
				if err != nil {
					return err
				}
				outcome, err := m.DeleteLog(ctx, log, confirmer(cmd))
				if err != nil {
					return err
				}
				reportDelete(cmd.OutOrStdout(), fmt.Sprintf("session %q from %s", log.PlanName, log.DateDisplay), outcome)
				return nil
			})
		},
	}
	addYesFlag(cmd)
	return cmd
}

func logWorkoutCmd() *cobra.Command {
	var (
		entries []string
		cardio  model.Cardio
	)

	cmd := &cobra.Command{
		Use:   "log <plan-id>",
		Short: "Log a workout session from a plan",
		Long: `Log a session from a plan. Each --set is WEIGHTxREPS for the exercises in
plan order; leave one empty ("") to keep the plan's reps and no weight.

Example:
  lifeos plans log 3f2a --set 60x8 --set "" --set 20x15 --time 20 --calories 180`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				view, err := a.loadView(ctx)
				if err != nil {
					return err
				}
				plan, err := findByPrefix(view.Plans, planID, args[0])
				if err != nil {
					return err
				}

				m := training.NewWithConfig(a.store, a.session, a.cfg.TrainingConfig())
				if err := m.StartWorkout(plan); err != nil {
					return err
				}
				if err := fillLog(m, entries, cardio); err != nil {
					m.Cancel()
					return err
				}
				if err := m.FinishWorkout(ctx); err != nil {
					m.Cancel()
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Logged %q", plan.Name)))
				return nil
			})
		},
	}

	cmd.Flags().StringArrayVarP(&entries, "set", "s", nil, "WEIGHTxREPS per exercise, in plan order (repeatable)")
	cmd.Flags().StringVar(&cardio.TimeMinutes, "time", "", "cardio minutes")
	cmd.Flags().StringVar(&cardio.Calories, "calories", "", "cardio calories")

	return cmd
}

func fillLog(m *training.Machine, specs []string, cardio model.Cardio) error {
	for i, spec := range specs {
		var entry training.Entry
		if spec = strings.TrimSpace(spec); spec != "" {
			weight, reps, ok := strings.Cut(strings.ToLower(spec), "x")
			if !ok {
				return fmt.Errorf("invalid set %q: want WEIGHTxREPS", spec)
			}
			entry = training.Entry{Weight: strings.TrimSpace(weight), Reps: strings.TrimSpace(reps)}
		}
		if err := m.SetEntry(i, entry); err != nil {
			return err
		}
	}
	return m.SetCardio(cardio)
}

func planID(p model.WorkoutPlan) string { return p.ID }
func logID(l model.WorkoutLog) string   { return l.ID }
