package search

import (
	"fmt"
	"strings"
)

// ClauseKind identifies the shape of a clause.
type ClauseKind string

const (
	// ClauseTerm is a bare word matched against the default fields
	ClauseTerm ClauseKind = "term"

	// ClauseFieldEquals matches when a field equals one of the values
	ClauseFieldEquals ClauseKind = "fieldEquals"

	// ClauseFieldIn matches when every word of the value occurs in one of the fields
	ClauseFieldIn ClauseKind = "fieldIn"
)

// AnyValue as the single value of a fieldEquals clause matches any entry
// that has a value for the field.
const AnyValue = "*"

// Clause is one conjunct of a parsed query.
type Clause struct {
	Kind    ClauseKind `json:"kind"`
	Fields  []string   `json:"fields,omitempty"`
	Values  []string   `json:"values,omitempty"`
	Value   string     `json:"value,omitempty"`
	Negated bool       `json:"negated,omitempty"`
}

// Term builds a bare term clause.
func Term(value string) Clause {
	return Clause{Kind: ClauseTerm, Value: value}
}

// FieldEquals builds a single-field equality clause.
func FieldEquals(field string, negated bool, values ...string) Clause {
	return Clause{Kind: ClauseFieldEquals, Fields: []string{field}, Values: values, Negated: negated}
}

// FieldIn builds a containment clause over one or more fields.
func FieldIn(value string, fields ...string) Clause {
	return Clause{Kind: ClauseFieldIn, Fields: fields, Value: value}
}

// String renders the clause back into query syntax.
func (c Clause) String() string {
	switch c.Kind {
	case ClauseFieldEquals:
		prefix := ""
		if c.Negated {
			prefix = "-"
		}
		if len(c.Values) == 1 && c.Values[0] == AnyValue && c.Negated {
			return prefix + strings.Join(c.Fields, ",")
		}
		values := make([]string, 0, len(c.Values))
		for _, v := range c.Values {
			values = append(values, quoteIfNeeded(v))
		}
		return fmt.Sprintf("%s%s:%s", prefix, strings.Join(c.Fields, ","), strings.Join(values, ","))
	case ClauseFieldIn:
		return fmt.Sprintf("%s in %s", c.Value, strings.Join(c.Fields, ","))
	default:
		return quoteIfNeeded(c.Value)
	}
}

func quoteIfNeeded(v string) string {
	if strings.ContainsAny(v, " \t\n;,:") {
		return `"` + v + `"`
	}
	return v
}

// SyntaxError reports where strict parsing failed.
type SyntaxError struct {
	Msg    string
	Offset int
	Line   int
	Column int
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at line %d, column %d: %s", e.Line, e.Column, e.Msg)
}

func newSyntaxError(input string, offset int, format string, args ...any) *SyntaxError {
	line, col := 1, 1
	for i, r := range input {
		if i >= offset {
			break
		}
		if r == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return &SyntaxError{
		Msg:    fmt.Sprintf(format, args...),
		Offset: offset,
		Line:   line,
		Column: col,
	}
}
