// Package condexpr parses the condition-clause grammar used by `condition`
// steps: `{{path}} <op> 'literal'`. It is used both by the interpreter at
// run time and by domain.Workflow.Validate() at creation time, so malformed
// clauses are rejected up front instead of silently evaluating false.
package condexpr

import (
	"fmt"
	"regexp"
	"strings"
)

// Op is the closed set of comparison operators a clause may use.
type Op string

const (
	OpContains    Op = "contains"
	OpEquals      Op = "equals"
	OpNotContains Op = "not contains"
	OpNotEquals   Op = "not equals"
)

// Expr is a parsed clause: compare the value at Path against Literal using
// Op, case-insensitively after stringification.
type Expr struct {
	Path    string
	Op      Op
	Literal string
}

// clausePattern matches `{{dotted.path}} <op> '<literal>'` or the same with
// double quotes around the literal.
var clausePattern = regexp.MustCompile(
	`^\{\{\s*([a-zA-Z0-9_.]+)\s*\}\}\s+(not contains|not equals|contains|equals)\s+` +
		`(?:'([^']*)'|"([^"]*)")\s*$`,
)

// Parse parses a clause expression. It returns an error naming the
// malformed input rather than guessing.
func Parse(raw string) (*Expr, error) {
	m := clausePattern.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return nil, fmt.Errorf("condexpr: malformed clause %q", raw)
	}

	literal := m[3]
	if m[4] != "" {
		literal = m[4]
	}

	return &Expr{
		Path:    m[1],
		Op:      Op(m[2]),
		Literal: literal,
	}, nil
}

// Eval resolves e.Path against data by dotted traversal (missing keys
// yield an empty string) and applies e.Op against e.Literal, matching
// case-insensitively after stringification.
func (e *Expr) Eval(data map[string]any) bool {
	value := strings.ToLower(stringify(lookup(data, e.Path)))
	literal := strings.ToLower(e.Literal)

	switch e.Op {
	case OpContains:
		return strings.Contains(value, literal)
	case OpNotContains:
		return !strings.Contains(value, literal)
	case OpEquals:
		return value == literal
	case OpNotEquals:
		return value != literal
	default:
		return false
	}
}

func lookup(data map[string]any, path string) any {
	var cur any = data

	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}

		cur, ok = m[part]
		if !ok {
			return nil
		}
	}

	return cur
}

func stringify(v any) string {
	if v == nil {
		return ""
	}

	if s, ok := v.(string); ok {
		return s
	}

	return fmt.Sprintf("%v", v)
}
