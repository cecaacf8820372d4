package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/mkaraca/taskpad/internal/types"
	"github.com/mkaraca/taskpad/internal/ui"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Manage task lists",
}

var listAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Create a new list",
	Long: `Create a new list. With no name the list is created immediately as
"Untitled" and a prompt opens to rename it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.Join(args, " ")
		if name != "" {
			id, err := appClient.CreateList(cmd.Context(), name)
			if err != nil {
				return err
			}
			fmt.Println(ui.Success(fmt.Sprintf("Created list %d: %s", id, name)))
			return nil
		}

		// The list exists before it has a real name, like a new-list
		// screen opening.
		id, err := appClient.CreateList(cmd.Context(), types.DefaultListName)
		if err != nil {
			return err
		}

		name = types.DefaultListName
		form := huh.NewForm(huh.NewGroup(
			huh.NewInput().Title("List name").Value(&name),
		))
		if err := form.Run(); err != nil {
			return err
		}
		if name != types.DefaultListName && strings.TrimSpace(name) != "" {
			if err := appClient.RenameList(cmd.Context(), id, name); err != nil {
				return err
			}
		}
		fmt.Println(ui.Success(fmt.Sprintf("Created list %d: %s", id, name)))
		return nil
	},
}

var listLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "Show all lists",
	RunE: func(cmd *cobra.Command, args []string) error {
		lists, err := appClient.Lists(cmd.Context())
		if err != nil {
			return err
		}
		if len(lists) == 0 {
			fmt.Println(ui.Muted("No lists yet. Create one with: taskpad list add <name>"))
			return nil
		}
		for _, l := range lists {
			tasks, err := appClient.TasksByList(cmd.Context(), l.ID)
			if err != nil {
				return err
			}
			fmt.Println(ui.ListRow(l, len(tasks)))
		}
		return nil
	},
}

var listRenameCmd = &cobra.Command{
	Use:   "rename <id> [name]",
	Short: "Rename a list",
	Long: `Rename a list. When the new name is omitted an interactive prompt
opens pre-filled with the current name.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		l, err := appClient.List(cmd.Context(), id)
		if err != nil {
			return err
		}
		if l == nil {
			return fmt.Errorf("list %d not found", id)
		}

		var name string
		if len(args) == 2 {
			name = args[1]
		} else {
			name = l.Name
			form := huh.NewForm(huh.NewGroup(
				huh.NewInput().Title("List name").Value(&name),
			))
			if err := form.Run(); err != nil {
				return err
			}
		}

		if err := appClient.RenameList(cmd.Context(), id, name); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Renamed list %d to %s", id, name)))
		return nil
	},
}

var listRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a list",
	Long: `Delete a list. Tasks on the list are kept and become unassigned;
remove them separately with taskpad task rm.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := appClient.DeleteList(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Deleted list %d", id)))
		return nil
	},
}

var listSearchCmd = &cobra.Command{
	Use:   "search <text>",
	Short: "Find lists by name",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lists, err := appClient.SearchLists(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		if len(lists) == 0 {
			fmt.Println(ui.Muted("No matching lists"))
			return nil
		}
		for _, l := range lists {
			fmt.Printf("%-4d %s\n", l.ID, l.Name)
		}
		return nil
	},
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func init() {
	listCmd.AddCommand(listAddCmd, listLsCmd, listRenameCmd, listRmCmd, listSearchCmd)
	rootCmd.AddCommand(listCmd)
}
