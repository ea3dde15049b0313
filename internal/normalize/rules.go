// UniSearch - University Ranking Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unisearch

package normalize

import "regexp"

// expansionRule rewrites one abbreviation at token boundaries.
// Every replacement is chosen so that it can never be matched again by any rule.
type expansionRule struct {
	pattern     *regexp.Regexp
	replacement string
}

// expansionRules are applied in order, case-insensitively.
var expansionRules = []expansionRule{
	{regexp.MustCompile(`(?i)\bUniv\b\.?`), "University"},
	{regexp.MustCompile(`(?i)\bU\.?\s`), "University "},
	{regexp.MustCompile(`(?i)\bTU\b\.?`), "Technical University"},

	// Localized institution terms, after accent folding
	{regexp.MustCompile(`(?i)\b(?:Universitat|Universitaet|Universite|Universita|Universiteit|Universitet|Universidad|Universidade)\b`), "University"},
	{regexp.MustCompile(`(?i)\bTechnische\b`), "Technical"},

	{regexp.MustCompile(`(?i)\bInst\b\.?`), "Institute"},
	{regexp.MustCompile(`(?i)\bTech\b\.?`), "Technology"},
	{regexp.MustCompile(`(?i)\bColl\b\.?`), "College"},
	{regexp.MustCompile(`(?i)\bSci\b\.?`), "Science"},
	{regexp.MustCompile(`(?i)\bEng\b\.?`), "Engineering"},
	{regexp.MustCompile(`(?i)\bMed\b\.?`), "Medical"},
	{regexp.MustCompile(`(?i)\bBus\b\.?`), "Business"},
	{regexp.MustCompile(`(?i)\bInt'?l\b\.?`), "International"},
	{regexp.MustCompile(`(?i)\bNat'?l\b\.?`), "National"},
	{regexp.MustCompile(`(?i)\bSt\.`), "Saint"},
	{regexp.MustCompile(`(?i)\bMt\.`), "Mount"},
}

// Trailing noise, stripped repeatedly until nothing matches.
var (
	trailingParenRe = regexp.MustCompile(`\s*\([^()]*\)?\s*$`)
	trailingDashRe  = regexp.MustCompile(`(?:\s+[-–—]|\s*[–—]).*$`)
	trailingCommaRe = regexp.MustCompile(`\s*,.*$`)
	leadingTheRe    = regexp.MustCompile(`(?i)^the\s+`)
	whitespaceRe    = regexp.MustCompile(`\s+`)
)

// City suffixes: a trailing parenthetical or a ", XX" state/country code.
var (
	cityParenRe = regexp.MustCompile(`\s*\([^()]*\)\s*$`)
	cityStateRe = regexp.MustCompile(`\s*,\s*[A-Z]{2,}$`)
)

// Embedded US/UK abbreviations inside free-text country values.
var (
	countryUSRe = regexp.MustCompile(`(?i)(^|\s)U\.?S\.?A?\.?(\s|$)`)
	countryUKRe = regexp.MustCompile(`(?i)(^|\s)U\.?K\.?(\s|$)`)
)

// stopwords stay lowercase unless they are the first token.
var stopwords = map[string]bool{
	"of": true, "the": true, "and": true, "in": true, "at": true, "by": true,
	"for": true, "to": true, "into": true, "with": true, "from": true,
	"up": true, "on": true, "off": true, "over": true, "under": true,
}
