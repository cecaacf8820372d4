package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
	"github.com/spf13/cobra"

	"github.com/mkaraca/taskpad/internal/listview"
	"github.com/mkaraca/taskpad/internal/types"
	"github.com/mkaraca/taskpad/internal/ui"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks",
}

var taskAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Create a task",
	Long: `Create a task. With no arguments an interactive form collects the
name, priority, and due date. Due dates accept natural language such as
"tomorrow" or "next friday" as well as YYYY-MM-DD.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		task := &types.Task{
			Name: strings.Join(args, " "),
		}

		listID, _ := cmd.Flags().GetInt64("list")
		priority, _ := cmd.Flags().GetString("priority")
		due, _ := cmd.Flags().GetString("due")

		if len(args) == 0 {
			if err := runTaskForm(task, &priority, &due); err != nil {
				return err
			}
		}

		if priority != "" {
			task.Priority = types.Priority(priority)
		}
		if due != "" {
			d, err := parseDueDate(due)
			if err != nil {
				return err
			}
			task.DueDate = &d
		}
		if cmd.Flags().Changed("list") {
			task.ListID = listID
		} else {
			task.ListID = types.UnassignedListID
		}

		id, err := appClient.CreateTask(cmd.Context(), task)
		if err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Created task %d: %s", id, task.Name)))
		return nil
	},
}

var taskLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "Show tasks",
	Long: `Show tasks, optionally scoped to a list, a status, or a derived view
(important, scheduled, today, unassigned), and sorted by priority,
alphabetical, dueDate, or creationDate.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var (
			tasks []*types.Task
			err   error
		)
		view, _ := cmd.Flags().GetString("view")
		status, _ := cmd.Flags().GetString("status")
		switch {
		case view != "":
			switch view {
			case "important":
				tasks, err = appClient.ImportantTasks(ctx)
			case "scheduled":
				tasks, err = appClient.ScheduledTasks(ctx)
			case "today":
				tasks, err = appClient.TodayTasks(ctx)
			case "unassigned":
				tasks, err = appClient.UnassignedTasks(ctx)
			default:
				return fmt.Errorf("unknown view %q", view)
			}
		case cmd.Flags().Changed("list"):
			listID, _ := cmd.Flags().GetInt64("list")
			tasks, err = appClient.TasksByList(ctx, listID)
		case status != "":
			st := types.Status(status)
			if !st.Valid() {
				return fmt.Errorf("unknown status %q", status)
			}
			tasks, err = appClient.TasksByStatus(ctx, st)
		default:
			tasks, err = appClient.Tasks(ctx)
		}
		if err != nil {
			return err
		}

		if sortBy, _ := cmd.Flags().GetString("sort"); sortBy != "" {
			crit := listview.SortCriterion(sortBy)
			switch crit {
			case listview.SortByPriority, listview.SortAlphabetical, listview.SortByDueDate, listview.SortByCreationDate:
			default:
				return fmt.Errorf("unknown sort criterion %q", sortBy)
			}
			lv := listview.New()
			lv.SetTasks(tasks)
			lv.SortTasks(crit)
			tasks = lv.Tasks()
		}

		if len(tasks) == 0 {
			fmt.Println(ui.Muted("No tasks"))
			return nil
		}
		for _, t := range tasks {
			fmt.Println(ui.TaskRow(t))
		}
		return nil
	},
}

var taskDoneCmd = &cobra.Command{
	Use:   "done <id>",
	Short: "Toggle a task's completed flag",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := appClient.ToggleTaskCompleted(cmd.Context(), id); err != nil {
			return err
		}
		t, err := appClient.Task(cmd.Context(), id)
		if err != nil {
			return err
		}
		if t != nil {
			fmt.Println(ui.TaskRow(t))
		}
		return nil
	},
}

var taskRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := appClient.DeleteTask(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Deleted task %d", id)))
		return nil
	},
}

var taskEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Update fields of a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		patch := &types.TaskPatch{}
		if cmd.Flags().Changed("name") {
			v, _ := cmd.Flags().GetString("name")
			patch.Name = &v
		}
		if cmd.Flags().Changed("desc") {
			v, _ := cmd.Flags().GetString("desc")
			patch.Description = &v
		}
		if cmd.Flags().Changed("status") {
			v, _ := cmd.Flags().GetString("status")
			st := types.Status(v)
			patch.Status = &st
		}
		if cmd.Flags().Changed("priority") {
			v, _ := cmd.Flags().GetString("priority")
			p := types.Priority(v)
			patch.Priority = &p
		}
		if cmd.Flags().Changed("due") {
			v, _ := cmd.Flags().GetString("due")
			d, err := parseDueDate(v)
			if err != nil {
				return err
			}
			patch.DueDate = &d
		}
		if clear, _ := cmd.Flags().GetBool("clear-due"); clear {
			patch.ClearDue = true
		}
		if cmd.Flags().Changed("list") {
			v, _ := cmd.Flags().GetInt64("list")
			patch.ListID = &v
		}

		if err := appClient.UpdateTask(cmd.Context(), id, patch); err != nil {
			return err
		}

		t, err := appClient.Task(cmd.Context(), id)
		if err != nil {
			return err
		}
		if t != nil {
			fmt.Println(ui.TaskRow(t))
		}
		return nil
	},
}

var taskSearchCmd = &cobra.Command{
	Use:   "search <text>",
	Short: "Find tasks by name or description",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tasks, err := appClient.SearchTasks(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		if len(tasks) == 0 {
			fmt.Println(ui.Muted("No matching tasks"))
			return nil
		}
		for _, t := range tasks {
			fmt.Println(ui.TaskRow(t))
		}
		return nil
	},
}

var taskDueCmd = &cobra.Command{
	Use:   "due",
	Short: "Show tasks due today or later, soonest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		tasks, err := appClient.UpcomingTasks(cmd.Context())
		if err != nil {
			return err
		}
		if len(tasks) == 0 {
			fmt.Println(ui.Muted("Nothing scheduled"))
			return nil
		}
		for _, t := range tasks {
			fmt.Println(ui.TaskRow(t))
		}
		return nil
	},
}

// runTaskForm collects task fields interactively.
func runTaskForm(task *types.Task, priority, due *string) error {
	if *priority == "" {
		*priority = string(types.PriorityMedium)
	}
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Task name").
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return fmt.Errorf("name is required")
				}
				return nil
			}).
			Value(&task.Name),
		huh.NewSelect[string]().
			Title("Priority").
			Options(
				huh.NewOption("Low", string(types.PriorityLow)),
				huh.NewOption("Medium", string(types.PriorityMedium)),
				huh.NewOption("High", string(types.PriorityHigh)),
				huh.NewOption("Urgent", string(types.PriorityUrgent)),
			).
			Value(priority),
		huh.NewInput().
			Title("Due date").
			Description("YYYY-MM-DD or natural language, empty for none").
			Value(due),
	))
	return form.Run()
}

// parseDueDate accepts YYYY-MM-DD directly and falls back to natural
// language ("tomorrow", "next friday").
func parseDueDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if _, err := time.Parse(types.DueDateLayout, s); err == nil {
		return s, nil
	}

	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)

	r, err := w.Parse(s, time.Now())
	if err != nil {
		return "", fmt.Errorf("failed to parse due date %q: %w", s, err)
	}
	if r == nil {
		return "", fmt.Errorf("could not understand due date %q", s)
	}
	return r.Time.Format(types.DueDateLayout), nil
}

func init() {
	taskAddCmd.Flags().Int64("list", 0, "List to place the task on")
	taskAddCmd.Flags().String("priority", "", "Priority (low, medium, high, urgent)")
	taskAddCmd.Flags().String("due", "", "Due date")

	taskLsCmd.Flags().Int64("list", 0, "Only tasks on this list")
	taskLsCmd.Flags().String("status", "", "Only tasks with this status")
	taskLsCmd.Flags().String("view", "", "Derived view (important, scheduled, today, unassigned)")
	taskLsCmd.Flags().String("sort", "", "Sort criterion (priority, alphabetical, dueDate, creationDate)")

	taskEditCmd.Flags().String("name", "", "New name")
	taskEditCmd.Flags().String("desc", "", "New description")
	taskEditCmd.Flags().String("status", "", "New status")
	taskEditCmd.Flags().String("priority", "", "New priority")
	taskEditCmd.Flags().String("due", "", "New due date")
	taskEditCmd.Flags().Bool("clear-due", false, "Remove the due date")
	taskEditCmd.Flags().Int64("list", 0, "Move to this list")

	taskCmd.AddCommand(taskAddCmd, taskLsCmd, taskDoneCmd, taskRmCmd, taskEditCmd, taskSearchCmd, taskDueCmd)
	rootCmd.AddCommand(taskCmd)
}
