package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mkaraca/taskpad/internal/export"
	"github.com/mkaraca/taskpad/internal/ui"
)

var exportCmd = &cobra.Command{
	Use:   "export <list-id>",
	Short: "Export a list as HTML or YAML",
	Long: `Export a list and its tasks. The HTML format is a printable snapshot
with pending and completed sections; the YAML format is machine-readable.
Output goes to stdout unless --out is given.`,
	Args: cobra.ExactArgs(1),
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

		tasks, err := appClient.TasksByList(cmd.Context(), id)
		if err != nil {
			return err
		}

		out := os.Stdout
		path, _ := cmd.Flags().GetString("out")
		if path != "" {
			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", path, err)
			}
			defer f.Close()
			out = f
		}

		format, _ := cmd.Flags().GetString("format")
		switch format {
		case "html":
			err = export.WriteHTML(out, l.Name, tasks, time.Now())
		case "yaml":
			err = export.WriteYAML(out, l.Name, tasks, time.Now())
		default:
			return fmt.Errorf("unknown format %q (want html or yaml)", format)
		}
		if err != nil {
			return err
		}

		if path != "" {
			fmt.Println(ui.Success("Exported " + l.Name + " to " + path))
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().String("format", "html", "Output format (html, yaml)")
	exportCmd.Flags().String("out", "", "Write to file instead of stdout")
	rootCmd.AddCommand(exportCmd)
}
