// Package markup holds the wiki dialect the formatter renders into: a fixed
// table from formatting roles to the rules that wrap text in markup.
package markup

import (
	"errors"
	"fmt"
	"strings"
)

// Role is a semantic rendering intent resolved to markup by a Registry.
type Role int

const (
	Section1 Role = iota
	Section2
	Italics
	Bold
	ColorGrey
	ColorRed
	Normal
	Table
	TableRow
	TableHeaderCell
	TableDataCell
	Failed
)

var roleNames = map[Role]string{
	Section1:        "SECTION1",
	Section2:        "SECTION2",
	Italics:         "ITALICS",
	Bold:            "BOLD",
	ColorGrey:       "COLOR_GREY",
	ColorRed:        "COLOR_RED",
	Normal:          "NORMAL",
	Table:           "TABLE",
	TableRow:        "TABLE_ROW",
	TableHeaderCell: "TABLE_HEAD",
	TableDataCell:   "TABLE_CELL",
	Failed:          "FAILED",
}

// Roles lists every role in declaration order.
func Roles() []Role {
	roles := make([]Role, 0, len(roleNames))
	for r := Section1; r <= Failed; r++ {
		roles = append(roles, r)
	}
	return roles
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Role(%d)", int(r))
}

// roleAliases are the generic names of roles whose canonical name is
// dialect specific.
var roleAliases = map[string]Role{
	"COLOR_A":           ColorGrey,
	"COLOR_B":           ColorRed,
	"TABLE_HEADER_CELL": TableHeaderCell,
	"TABLE_DATA_CELL":   TableDataCell,
}

// ParseRole resolves a role by its name or alias, case-insensitively.
func ParseRole(name string) (Role, error) {
	for r, n := range roleNames {
		if strings.EqualFold(n, name) {
			return r, nil
		}
	}
	if r, ok := roleAliases[strings.ToUpper(name)]; ok {
		return r, nil
	}
	return 0, &ConfigurationError{Name: name}
}

// Rule wraps text in markup. Rules are pure.
type Rule func(text string) string

// Dialect tokens.
const (
	TableOpen       = `<table style="border:none">`
	TableClose      = `</table>`
	InformationSign = "{{color|blue|<big>ℹ</big>}}"
)

// ErrNoRule is matched by every ConfigurationError.
var ErrNoRule = errors.New("no formatting rule")

// ConfigurationError reports a lookup for a role the registry has no rule
// for. It is a programming error in the caller, never a user error.
type ConfigurationError struct {
	Role Role
	Name string
}

func (e *ConfigurationError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("no formatting rule for key %q", e.Name)
	}
	return fmt.Sprintf("no formatting rule for role %s", e.Role)
}

func (e *ConfigurationError) Unwrap() error { return ErrNoRule }

// Registry maps roles to rules. It is never mutated after construction and
// may be shared between goroutines.
type Registry struct {
	rules map[Role]Rule
}

// NewRegistry builds a registry from a copy of rules.
func NewRegistry(rules map[Role]Rule) *Registry {
	copied := make(map[Role]Rule, len(rules))
	for role, rule := range rules {
		if rule != nil {
			copied[role] = rule
		}
	}
	return &Registry{rules: copied}
}

// Lookup returns the rule for role.
func (r *Registry) Lookup(role Role) (Rule, error) {
	rule, ok := r.rules[role]
	if !ok {
		return nil, &ConfigurationError{Role: role}
	}
	return rule, nil
}

// LookupName returns the rule for the role called name.
func (r *Registry) LookupName(name string) (Rule, error) {
	role, err := ParseRole(name)
	if err != nil {
		return nil, err
	}
	return r.Lookup(role)
}

var wiki = NewRegistry(map[Role]Rule{
	Section1:        enclose("="),
	Section2:        enclose("=="),
	Italics:         enclose("''"),
	Bold:            enclose("'''"),
	Normal:          enclose(""),
	ColorGrey:       color("grey"),
	ColorRed:        color("red"),
	Failed:          color("red"),
	Table:           htmlTag("table", "border:none"),
	TableRow:        htmlTag("tr", ""),
	TableHeaderCell: htmlTag("th", "border:none"),
	TableDataCell:   htmlTag("td", "border:none"),
})

// Default returns the wiki registry.
func Default() *Registry {
	return wiki
}

func enclose(marker string) Rule {
	return func(text string) string {
		return marker + text + marker
	}
}

// template renders {{settings...text}}.
func template(settings string) Rule {
	return func(text string) string {
		return "{{" + settings + text + "}}"
	}
}

func color(name string) Rule {
	return template("color|" + name + "|")
}

func htmlTag(name, style string) Rule {
	open := "<" + name + ">"
	if style != "" {
		open = "<" + name + ` style="` + style + `">`
	}
	closing := "</" + name + ">"
	return func(text string) string {
		return open + strings.TrimSpace(text) + closing
	}
}
