package listview

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/mkaraca/taskpad/internal/types"
)

// SortCriterion selects the comparator applied by Store.SortTasks.
type SortCriterion string

const (
	SortByPriority     SortCriterion = "priority"
	SortAlphabetical   SortCriterion = "alphabetical"
	SortByDueDate      SortCriterion = "dueDate"
	SortByCreationDate SortCriterion = "creationDate"
)

// sortTasks reorders tasks in place. All sorts are stable so that equal
// elements keep their relative order, which the dueDate rules require for
// undated tasks.
func sortTasks(tasks []*types.Task, criterion SortCriterion, coll *collate.Collator) {
	switch criterion {
	case SortByPriority:
		// Descending severity: urgent > high > medium > low; unknown last.
		sort.SliceStable(tasks, func(i, j int) bool {
			return tasks[i].Priority.Rank() > tasks[j].Priority.Rank()
		})

	case SortAlphabetical:
		if coll == nil {
			coll = collate.New(language.Und)
		}
		sort.SliceStable(tasks, func(i, j int) bool {
			return coll.CompareString(tasks[i].Name, tasks[j].Name) < 0
		})

	case SortByDueDate:
		// Ascending by date; undated tasks after all dated ones, keeping
		// their relative order.
		sort.SliceStable(tasks, func(i, j int) bool {
			di, iOK := tasks[i].Due()
			dj, jOK := tasks[j].Due()
			switch {
			case iOK && jOK:
				return di.Before(dj)
			case iOK:
				return true
			default:
				return false
			}
		})

	case SortByCreationDate:
		// Newest first.
		sort.SliceStable(tasks, func(i, j int) bool {
			return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
		})
	}
}
