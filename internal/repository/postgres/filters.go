package postgres

import (
	"fmt"
	"strings"
)

// whereBuilder accumulates AND-ed conditions with positional placeholders.
type whereBuilder struct {
	conditions []string
	args       []interface{}
}

// add appends a condition; every "?" in cond becomes the next placeholder
// bound to the matching value.
func (w *whereBuilder) add(cond string, values ...interface{}) {
	for _, v := range values {
		w.args = append(w.args, v)
		cond = strings.Replace(cond, "?", fmt.Sprintf("$%d", len(w.args)), 1)
	}
	w.conditions = append(w.conditions, cond)
}

// addIf appends cond only when value is a non-blank string.
func (w *whereBuilder) addIf(cond string, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	w.add(cond, strings.TrimSpace(value))
}

func (w *whereBuilder) clause() string {
	if len(w.conditions) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conditions, " AND ")
}
