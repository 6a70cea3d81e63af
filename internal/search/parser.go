package search

import (
	"strings"

	"github.com/jakoblorz/go-codestart/internal/catalog"
)

// Parse reads a filter string leniently against the default field set.
// It never fails: anything that is not a well formed clause becomes a term.
func Parse(input string) []Clause {
	return ParseWithFields(input, catalog.DefaultFieldSet())
}

// ParseWithFields is Parse with an explicit set of known field keys,
// usually Index.Fields.
func ParseWithFields(input string, fields catalog.FieldSet) []Clause {
	p := &parser{input: input, fields: fields}
	_ = p.run()
	return p.clauses
}

// ParseStrict reads a filter string and reports the first syntax error.
func ParseStrict(input string) ([]Clause, error) {
	return ParseStrictWithFields(input, catalog.DefaultFieldSet())
}

// ParseStrictWithFields is ParseStrict with an explicit set of known fields.
func ParseStrictWithFields(input string, fields catalog.FieldSet) ([]Clause, error) {
	p := &parser{input: input, fields: fields, strict: true}
	if err := p.run(); err != nil {
		return nil, err
	}
	return p.clauses, nil
}

type token struct {
	text  string
	start int
	sep   bool

	// openQuote is the offset of an unterminated quote, or -1
	openQuote int
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// tokenize splits on whitespace and ';' outside of double quotes. An
// unterminated quote runs to the end of the input.
func tokenize(input string) []token {
	var tokens []token
	i := 0
	for i < len(input) {
		c := input[i]
		switch {
		case c == ';':
			tokens = append(tokens, token{text: ";", start: i, sep: true, openQuote: -1})
			i++
		case isSpace(c):
			i++
		default:
			start := i
			inQuote := false
			quoteAt := -1
			for i < len(input) {
				c = input[i]
				if c == '"' {
					inQuote = !inQuote
					if inQuote {
						quoteAt = i
					}
				} else if !inQuote && (isSpace(c) || c == ';') {
					break
				}
				i++
			}
			tok := token{text: input[start:i], start: start, openQuote: -1}
			if inQuote {
				tok.openQuote = quoteAt
			}
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

func unquote(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, `"`, ""))
}

func indexOutsideQuotes(s string, sep byte) int {
	inQuote := false
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] == '"':
			inQuote = !inQuote
		case s[i] == sep && !inQuote:
			return i
		}
	}
	return -1
}

// splitList splits a comma separated list outside of quotes, dropping
// blank items.
func splitList(s string) []string {
	var out []string
	for {
		i := indexOutsideQuotes(s, ',')
		item := s
		if i >= 0 {
			item = s[:i]
		}
		if v := unquote(item); v != "" {
			out = append(out, v)
		}
		if i < 0 {
			return out
		}
		s = s[i+1:]
	}
}

// fieldToken is a token shaped like [-!]key:values or [-!]key.
type fieldToken struct {
	key     string
	negated bool
	values  string
	bare    bool
}

func splitFieldToken(text string) (fieldToken, bool) {
	var ft fieldToken
	body := text
	if len(body) > 1 && (body[0] == '-' || body[0] == '!') {
		ft.negated = true
		body = body[1:]
	}

	colon := indexOutsideQuotes(body, ':')
	if colon < 0 {
		if !ft.negated || strings.Contains(body, `"`) {
			return ft, false
		}
		ft.key = body
		ft.bare = true
		return ft, true
	}
	if colon == 0 || strings.Contains(body[:colon], `"`) {
		return ft, false
	}

	ft.key = body[:colon]
	ft.values = body[colon+1:]
	return ft, true
}

type parser struct {
	input   string
	fields  catalog.FieldSet
	strict  bool
	clauses []Clause
	pending []string
}

func (p *parser) run() error {
	p.clauses = []Clause{}
	tokens := tokenize(p.input)

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if tok.openQuote >= 0 && p.strict {
			return newSyntaxError(p.input, tok.openQuote, "unterminated quote")
		}
		if tok.sep {
			p.flush()
			continue
		}

		if strings.EqualFold(tok.text, "in") {
			consumed, err := p.parseIn(tokens, i)
			if err != nil {
				return err
			}
			if consumed {
				i++
				continue
			}
		} else {
			handled, err := p.parseField(tok)
			if err != nil {
				return err
			}
			if handled {
				continue
			}
		}

		if word := unquote(tok.text); word != "" {
			p.pending = append(p.pending, word)
		}
	}

	p.flush()
	return nil
}

func (p *parser) flush() {
	for _, word := range p.pending {
		p.clauses = append(p.clauses, Term(word))
	}
	p.pending = nil
}

func (p *parser) parseIn(tokens []token, i int) (bool, error) {
	if len(p.pending) == 0 || i+1 >= len(tokens) || tokens[i+1].sep {
		if p.strict {
			return false, newSyntaxError(p.input, tokens[i].start, `"in" needs words before it and fields after it`)
		}
		return false, nil
	}

	next := tokens[i+1]
	if next.openQuote >= 0 && p.strict {
		return false, newSyntaxError(p.input, next.openQuote, "unterminated quote")
	}

	var fields []string
	seen := make(map[string]struct{})
	for _, raw := range splitList(next.text) {
		if !p.fields.Has(raw) {
			if p.strict {
				return false, newSyntaxError(p.input, next.start, "unknown field %q", raw)
			}
			continue
		}
		key := catalog.CanonicalField(raw)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		fields = append(fields, key)
	}
	if len(fields) == 0 {
		if p.strict {
			return false, newSyntaxError(p.input, next.start, "missing field list after \"in\"")
		}
		return false, nil
	}

	p.clauses = append(p.clauses, FieldIn(strings.Join(p.pending, " "), fields...))
	p.pending = nil
	return true, nil
}

func (p *parser) parseField(tok token) (bool, error) {
	ft, ok := splitFieldToken(tok.text)
	if !ok {
		return false, nil
	}

	if !p.fields.Has(ft.key) {
		if p.strict && !ft.bare {
			return false, newSyntaxError(p.input, tok.start, "unknown field %q", ft.key)
		}
		return false, nil
	}

	key := catalog.CanonicalField(ft.key)
	if ft.bare {
		p.flush()
		p.clauses = append(p.clauses, FieldEquals(key, true, AnyValue))
		return true, nil
	}

	values := splitList(ft.values)
	if len(values) == 0 {
		if p.strict {
			return false, newSyntaxError(p.input, tok.start+len(tok.text), "missing value for field %q", ft.key)
		}
		return false, nil
	}

	p.flush()
	p.clauses = append(p.clauses, FieldEquals(key, ft.negated, values...))
	return true, nil
}
