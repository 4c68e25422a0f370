package query

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"gorm.io/gorm"
)

// Stage is one step in a list-query execution plan. The set is closed:
// Match, Lookup, Unwind, Project and Sort. Stages are applied in that fixed
// order no matter how the caller arranges them, so pipeline semantics stay
// predictable. Pagination is not a stage; it comes from the PageRequest and
// always runs last.
type Stage interface {
	isStage()
}

// Match filters rows. Eq entries are ANDed field-equality conditions.
// Contains entries are case-insensitive substring conditions ORed together,
// used for free-text query parameters against title/description/content
// fields.
type Match struct {
	Eq       map[string]interface{}
	Contains map[string]string
}

// Lookup left-joins a foreign table. As aliases the joined table; an Unwind
// stage naming the same alias promotes the join to an inner one.
type Lookup struct {
	From       string
	LocalKey   string
	ForeignKey string
	As         string
}

// Unwind requires the named Lookup to have matched: rows without a joined
// counterpart are dropped, mirroring an inner join.
type Unwind struct {
	Field string
}

// Project reshapes output rows: alias (snake_case result column) -> source
// column expression.
type Project struct {
	Fields map[string]string
}

// Sort orders rows by a single key. Without a Sort stage the pipeline
// defaults to created_at descending.
type Sort struct {
	Key  string
	Desc bool
}

func (Match) isStage()   {}
func (Lookup) isStage()  {}
func (Unwind) isStage()  {}
func (Project) isStage() {}
func (Sort) isStage()    {}

// identRe matches the identifiers we are willing to splice into SQL. Stage
// fields are developer-supplied, never raw client input, but the pipeline
// still refuses anything that is not a plain (optionally qualified) column
// reference.
var identRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*(\.[a-zA-Z_][a-zA-Z0-9_]*)?$`)

func checkIdent(name string) error {
	if !identRe.MatchString(name) {
		return fmt.Errorf("invalid identifier %q", name)
	}
	return nil
}

// plan is the normalized pipeline after sorting stages into execution order.
type plan struct {
	match     *Match
	lookups   []Lookup
	unwinds   map[string]bool
	project   *Project
	sortStage *Sort
}

func buildPlan(stages []Stage) (*plan, error) {
	p := &plan{unwinds: make(map[string]bool)}
	for _, s := range stages {
		switch st := s.(type) {
		case Match:
			if p.match != nil {
				return nil, fmt.Errorf("pipeline has more than one Match stage")
			}
			m := st
			p.match = &m
		case Lookup:
			p.lookups = append(p.lookups, st)
		case Unwind:
			p.unwinds[st.Field] = true
		case Project:
			if p.project != nil {
				return nil, fmt.Errorf("pipeline has more than one Project stage")
			}
			pr := st
			p.project = &pr
		case Sort:
			if p.sortStage != nil {
				return nil, fmt.Errorf("pipeline has more than one Sort stage")
			}
			so := st
			p.sortStage = &so
		default:
			return nil, fmt.Errorf("unknown stage %T", s)
		}
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// validate checks every identifier the plan would splice into SQL. It runs
// at plan time so a bad sort key or projection is rejected even when the
// filtered set turns out to be empty.
func (p *plan) validate() error {
	for _, l := range p.lookups {
		for _, ident := range []string{l.From, l.LocalKey, l.ForeignKey, l.As} {
			if err := checkIdent(ident); err != nil {
				return err
			}
		}
	}
	if p.match != nil {
		for field := range p.match.Eq {
			if err := checkIdent(field); err != nil {
				return err
			}
		}
		for field := range p.match.Contains {
			if err := checkIdent(field); err != nil {
				return err
			}
		}
	}
	if p.project != nil {
		for alias, expr := range p.project.Fields {
			if err := checkIdent(alias); err != nil {
				return err
			}
			if err := checkIdent(expr); err != nil {
				return err
			}
		}
	}
	if p.sortStage != nil {
		return checkIdent(p.sortStage.Key)
	}
	return nil
}

// applyFilters attaches match conditions and joins to tx. Used for both the
// count query and the page query so totals always reflect the post-filter
// row set. Identifiers were validated when the plan was built.
func (p *plan) applyFilters(tx *gorm.DB, table string) *gorm.DB {
	for _, l := range p.lookups {
		kind := "LEFT JOIN"
		if p.unwinds[l.As] {
			kind = "INNER JOIN"
		}
		alias := l.As
		join := fmt.Sprintf("%s %s AS %s ON %s = %s.%s",
			kind, l.From, alias, qualify(table, l.LocalKey), alias, l.ForeignKey)
		tx = tx.Joins(join)
	}

	if p.match != nil {
		for _, field := range sortedKeys(p.match.Eq) {
			tx = tx.Where(fmt.Sprintf("%s = ?", field), p.match.Eq[field])
		}

		if len(p.match.Contains) > 0 {
			var clauses []string
			var args []interface{}
			fields := make([]string, 0, len(p.match.Contains))
			for f := range p.match.Contains {
				fields = append(fields, f)
			}
			sort.Strings(fields)
			for _, f := range fields {
				clauses = append(clauses, fmt.Sprintf("LOWER(%s) LIKE ?", f))
				args = append(args, "%"+strings.ToLower(p.match.Contains[f])+"%")
			}
			tx = tx.Where(strings.Join(clauses, " OR "), args...)
		}
	}

	return tx
}

// applyShape attaches projection and ordering.
func (p *plan) applyShape(tx *gorm.DB, table string) *gorm.DB {
	if p.project != nil {
		parts := make([]string, 0, len(p.project.Fields))
		for _, alias := range sortedKeys2(p.project.Fields) {
			expr := p.project.Fields[alias]
			parts = append(parts, fmt.Sprintf("%s AS %s", expr, alias))
		}
		tx = tx.Select(strings.Join(parts, ", "))
	}

	key := qualify(table, "created_at")
	desc := true
	if p.sortStage != nil {
		key = p.sortStage.Key
		desc = p.sortStage.Desc
	}
	dir := "ASC"
	if desc {
		dir = "DESC"
	}
	return tx.Order(fmt.Sprintf("%s %s", key, dir))
}

// qualify prefixes an unqualified column with the base table name so joined
// pipelines stay unambiguous.
func qualify(table, col string) string {
	if strings.Contains(col, ".") {
		return col
	}
	return table + "." + col
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedKeys2(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
