package interpret

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/intecdocs/docfinder/internal/classify"
	"github.com/intecdocs/docfinder/internal/models"
)

// yearRe matches the first 4-digit year token in the 2000s.
var yearRe = regexp.MustCompile(`\b20\d\d\b`)

// monthEntry keeps the month table ordered; scanning stops at the first name
// found in the query.
type monthEntry struct {
	name  string
	month int
}

var monthTable = []monthEntry{
	{"enero", 1},
	{"febrero", 2},
	{"marzo", 3},
	{"abril", 4},
	{"mayo", 5},
	{"junio", 6},
	{"julio", 7},
	{"agosto", 8},
	{"septiembre", 9},
	{"octubre", 10},
	{"noviembre", 11},
	{"diciembre", 12},
}

// stopWords are filler tokens that never become search keywords. Tokens of 3
// runes or fewer are dropped separately, so short fillers are not listed.
var stopWords = map[string]struct{}{
	"busca":      {},
	"buscar":     {},
	"búsqueda":   {},
	"documento":  {},
	"documentos": {},
	"archivo":    {},
	"archivos":   {},
	"todos":      {},
	"todas":      {},
	"sobre":      {},
	"desde":      {},
	"hasta":      {},
	"antes":      {},
	"después":    {},
	"entre":      {},
	"para":       {},
	"tipo":       {},
	"quiero":     {},
	"necesito":   {},
	"muestra":    {},
	"encuentra":  {},
	"subidos":    {},
	"subidas":    {},
}

// RuleInterpreter is the rule-based Interpreter: an ordered list of pattern
// rules (category, year, month, extension, keywords) applied to the
// lowercased query. It never fails; a query with no recognizable signal
// yields empty parameters.
type RuleInterpreter struct {
	now func() time.Time
}

// RuleOption configures a RuleInterpreter.
type RuleOption func(*RuleInterpreter)

// WithClock overrides the clock used for month ranges. Tests use this.
func WithClock(now func() time.Time) RuleOption {
	return func(r *RuleInterpreter) { r.now = now }
}

// NewRuleInterpreter returns a rule-based interpreter.
func NewRuleInterpreter(opts ...RuleOption) *RuleInterpreter {
	r := &RuleInterpreter{now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Interpret applies the rules in fixed order. The month rule overwrites any
// year-derived range, and every month is given "31" as its last day; both are
// long-standing compatibility quirks that downstream tooling depends on.
func (r *RuleInterpreter) Interpret(ctx context.Context, query string) (*models.QueryParameters, error) {
	q := strings.ToLower(query)
	params := &models.QueryParameters{Keywords: []string{}}

	// Rule 1: category — first taxonomy name found as a substring wins.
	for _, cat := range classify.Taxonomy {
		if strings.Contains(q, strings.ToLower(cat.Name)) {
			params.Category = cat.Name
			break
		}
	}

	// Rule 2: year, optionally bounded to one side by desde/después or hasta/antes.
	if year := yearRe.FindString(q); year != "" {
		switch {
		case strings.Contains(q, "desde") || strings.Contains(q, "después"):
			params.DateFrom = year + "-01-01"
		case strings.Contains(q, "hasta") || strings.Contains(q, "antes"):
			params.DateTo = year + "-12-31"
		default:
			params.DateFrom = year + "-01-01"
			params.DateTo = year + "-12-31"
		}
	}

	// Rule 3: month of the current year. Overwrites the year range when both
	// appear; runs after the year rule on purpose.
	for _, m := range monthTable {
		if strings.Contains(q, m.name) {
			year := r.now().Year()
			params.DateFrom = fmt.Sprintf("%04d-%02d-01", year, m.month)
			params.DateTo = fmt.Sprintf("%04d-%02d-31", year, m.month)
			break
		}
	}

	// Rule 4: extension. Any image mention normalizes to ".jpg".
	switch {
	case strings.Contains(q, "pdf"):
		params.Extension = ".pdf"
	case strings.Contains(q, "imagen"), strings.Contains(q, "jpg"), strings.Contains(q, "png"):
		params.Extension = ".jpg"
	}

	// Rule 5: keywords — whitespace tokens minus stop words and short tokens,
	// original order, duplicates kept.
	for _, tok := range strings.Fields(q) {
		if _, stop := stopWords[tok]; stop {
			continue
		}
		if utf8.RuneCountInString(tok) <= 3 {
			continue
		}
		params.Keywords = append(params.Keywords, tok)
	}

	params.Explanation = buildExplanation(params)
	return params, nil
}

// buildExplanation assembles the human-readable summary of what was understood.
func buildExplanation(p *models.QueryParameters) string {
	var parts []string
	if p.Category != "" {
		parts = append(parts, fmt.Sprintf("documentos de tipo '%s'", p.Category))
	}
	if p.HasDateBound() {
		parts = append(parts, "del período especificado")
	}
	if len(p.Keywords) > 0 {
		head := p.Keywords
		if len(head) > 3 {
			head = head[:3]
		}
		parts = append(parts, "que contengan: "+strings.Join(head, ", "))
	}
	if len(parts) == 0 {
		return "Búsqueda general en todos los documentos"
	}
	return "Buscar " + strings.Join(parts, " y ")
}
