package export

import (
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mkaraca/taskpad/internal/types"
)

type yamlTask struct {
	ID          int64  `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Status      string `yaml:"status"`
	Priority    string `yaml:"priority"`
	Completed   bool   `yaml:"completed"`
	DueDate     string `yaml:"due_date,omitempty"`
	CreatedAt   string `yaml:"created_at,omitempty"`
}

type yamlList struct {
	List       string     `yaml:"list"`
	ExportedAt string     `yaml:"exported_at"`
	Tasks      []yamlTask `yaml:"tasks"`
}

// WriteYAML emits a machine-readable snapshot of a list and its tasks.
func WriteYAML(w io.Writer, listName string, tasks []*types.Task, now time.Time) error {
	out := yamlList{
		List:       listName,
		ExportedAt: now.UTC().Format(time.RFC3339),
		Tasks:      make([]yamlTask, 0, len(tasks)),
	}
	for _, t := range tasks {
		yt := yamlTask{
			ID:        t.ID,
			Name:      t.Name,
			Status:    string(t.Status),
			Priority:  string(t.Priority),
			Completed: t.IsCompleted,
		}
		yt.Description = t.Description
		if t.DueDate != nil {
			yt.DueDate = *t.DueDate
		}
		if !t.CreatedAt.IsZero() {
			yt.CreatedAt = t.CreatedAt.UTC().Format(time.RFC3339)
		}
		out.Tasks = append(out.Tasks, yt)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("failed to encode list %q: %w", listName, err)
	}
	return enc.Close()
}
