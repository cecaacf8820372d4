package query

import (
	"strconv"
	"strings"
	"sync"
)

// Cache keys, by resource and parameters. Derived task views share the
// "tasks" prefix so that any task mutation invalidates them together with
// the base set they are computed from.
const (
	keyLists          = "lists"
	keyTasks          = "tasks"
	keyTasksImportant = "tasks/important"
	keyTasksScheduled = "tasks/scheduled"
	keyTasksToday     = "tasks/today"
	keyTasksUnassign  = "tasks/unassigned"
)

func keyList(id int64) string {
	return "list/" + strconv.FormatInt(id, 10)
}

func keyTask(id int64) string {
	return "task/" + strconv.FormatInt(id, 10)
}

func keyTasksList(id int64) string {
	return "tasks/list/" + strconv.FormatInt(id, 10)
}

// cache is a simple keyed result cache. Entries never expire on their own;
// mutations invalidate affected keys explicitly.
type cache struct {
	mu      sync.RWMutex
	entries map[string]interface{}
}

func newCache() *cache {
	return &cache{entries: make(map[string]interface{})}
}

func (c *cache) get(key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[key]
	return v, ok
}

func (c *cache) set(key string, v interface{}) {
	c.mu.Lock()
	c.entries[key] = v
	c.mu.Unlock()
}

// invalidatePrefix drops every entry whose key starts with one of the
// given prefixes. "task" covers both "task/<id>" and all "tasks*" keys,
// including the per-list and derived-view entries; list membership can
// change on any task mutation, so the per-list keys must never survive one.
func (c *cache) invalidatePrefix(prefixes ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		for _, p := range prefixes {
			if strings.HasPrefix(key, p) {
				delete(c.entries, key)
				break
			}
		}
	}
}

func (c *cache) invalidate(keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.entries, key)
	}
}

func (c *cache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
