package domain

import (
	"fmt"
	"strings"
)

// Criteria are the account search filters supplied by the caller.
type Criteria struct {
	Location     string
	Languages    []string
	MinFollowers int
	Created      string
	Repos        string
}

// Validate checks that at least one primary filter is present.
func (c Criteria) Validate() error {
	if strings.TrimSpace(c.Location) == "" && len(c.Languages) == 0 {
		return ErrNoCriteria
	}
	return nil
}

// Queries returns one search query per language, or a single query
// when no or one language is given. Multi-language OR queries are
// unreliable on the search endpoint, so each language is searched alone.
func (c Criteria) Queries() []string {
	if len(c.Languages) <= 1 {
		return []string{c.Query()}
	}
	queries := make([]string, 0, len(c.Languages))
	for _, lang := range c.Languages {
		single := c
		single.Languages = []string{lang}
		queries = append(queries, single.Query())
	}
	return queries
}

// Query composes the search query string. It always includes type:user.
func (c Criteria) Query() string {
	var parts []string

	if loc := strings.TrimSpace(c.Location); loc != "" {
		parts = append(parts, `location:"`+loc+`"`)
	}

	switch len(c.Languages) {
	case 0:
	case 1:
		parts = append(parts, "language:"+c.Languages[0])
	default:
		langs := make([]string, 0, len(c.Languages))
		for _, lang := range c.Languages {
			langs = append(langs, "language:"+lang)
		}
		parts = append(parts, "("+strings.Join(langs, " OR ")+")")
	}

	if c.MinFollowers > 0 {
		parts = append(parts, fmt.Sprintf("followers:>=%d", c.MinFollowers))
	}
	if c.Created != "" {
		parts = append(parts, "created:"+c.Created)
	}
	if c.Repos != "" {
		parts = append(parts, "repos:"+c.Repos)
	}

	parts = append(parts, "type:user")
	return strings.Join(parts, " ")
}

// ParseLanguages splits a comma-separated language list, dropping blanks.
func ParseLanguages(s string) []string {
	var langs []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			langs = append(langs, part)
		}
	}
	return langs
}
