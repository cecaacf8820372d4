// Package export renders task lists into shareable documents.
package export

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/mkaraca/taskpad/internal/types"
)

const printDateLayout = "02.01.2006"

var htmlTmpl = template.Must(template.New("print").Parse(`<!DOCTYPE html>
<html>
  <head>
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <style>
      @page { margin: 20px; }
      body {
        font-family: 'Helvetica Neue', Arial, sans-serif;
        line-height: 1.6;
        color: #333;
        max-width: 800px;
        margin: 0 auto;
        padding: 20px;
      }
      .header {
        text-align: center;
        border-bottom: 2px solid #007AFF;
        padding-bottom: 20px;
        margin-bottom: 30px;
      }
      .header h1 { color: #007AFF; font-size: 28px; margin: 0; font-weight: 300; }
      .date { color: #666; font-size: 14px; margin-top: 10px; }
      .stats {
        display: flex;
        justify-content: space-around;
        background: #f8f9fa;
        padding: 15px;
        border-radius: 8px;
        margin-bottom: 30px;
      }
      .stat { text-align: center; }
      .stat-number { font-size: 24px; font-weight: bold; color: #007AFF; }
      .stat-label { font-size: 12px; color: #666; text-transform: uppercase; }
      .section { margin-bottom: 30px; }
      .section-title {
        font-size: 18px;
        font-weight: 600;
        margin-bottom: 15px;
        padding-bottom: 8px;
        border-bottom: 1px solid #eee;
      }
      .completed { color: #34C759; }
      .pending { color: #FF9500; }
      .task-item {
        display: flex;
        align-items: center;
        padding: 12px 0;
        border-bottom: 1px solid #f0f0f0;
      }
      .task-item:last-child { border-bottom: none; }
      .task-icon { font-size: 18px; margin-right: 12px; width: 20px; }
      .task-text { flex: 1; font-size: 16px; }
      .completed-task { text-decoration: line-through; color: #999; }
      .footer {
        margin-top: 40px;
        text-align: center;
        font-size: 12px;
        color: #999;
        border-top: 1px solid #eee;
        padding-top: 20px;
      }
    </style>
  </head>
  <body>
    <div class="header">
      <h1>&#128203; {{.ListName}}</h1>
      <div class="date">Printed on {{.Date}}</div>
    </div>

    <div class="stats">
      <div class="stat">
        <div class="stat-number">{{.Total}}</div>
        <div class="stat-label">Total Tasks</div>
      </div>
      <div class="stat">
        <div class="stat-number">{{len .Completed}}</div>
        <div class="stat-label">Completed</div>
      </div>
      <div class="stat">
        <div class="stat-number">{{len .Pending}}</div>
        <div class="stat-label">Pending</div>
      </div>
    </div>

    {{if .Pending}}
    <div class="section">
      <h2 class="section-title pending">&#9203; Pending Tasks ({{len .Pending}})</h2>
      {{range .Pending}}
      <div class="task-item">
        <span class="task-icon">&#11093;</span>
        <span class="task-text">{{.Name}}</span>
      </div>
      {{end}}
    </div>
    {{end}}

    {{if .Completed}}
    <div class="section">
      <h2 class="section-title completed">&#9989; Completed Tasks ({{len .Completed}})</h2>
      {{range .Completed}}
      <div class="task-item">
        <span class="task-icon">&#9989;</span>
        <span class="task-text completed-task">{{.Name}}</span>
      </div>
      {{end}}
    </div>
    {{end}}

    <div class="footer">
      Generated by taskpad.
    </div>
  </body>
</html>
`))

type htmlData struct {
	ListName  string
	Date      string
	Total     int
	Completed []*types.Task
	Pending   []*types.Task
}

// Partition splits tasks into completed and pending by the is_completed
// flag, preserving input order within each group.
func Partition(tasks []*types.Task) (completed, pending []*types.Task) {
	for _, t := range tasks {
		if t.IsCompleted {
			completed = append(completed, t)
		} else {
			pending = append(pending, t)
		}
	}
	return completed, pending
}

// WriteHTML renders a printable snapshot of a list and its tasks.
func WriteHTML(w io.Writer, listName string, tasks []*types.Task, now time.Time) error {
	completed, pending := Partition(tasks)
	data := htmlData{
		ListName:  listName,
		Date:      now.Format(printDateLayout),
		Total:     len(tasks),
		Completed: completed,
		Pending:   pending,
	}
	if err := htmlTmpl.Execute(w, data); err != nil {
		return fmt.Errorf("failed to render list %q: %w", listName, err)
	}
	return nil
}
