// UniSearch - University Ranking Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unisearch

package normalize

import "strings"

// countryAliases maps a lookup key (lowercase, periods removed) to the
// canonical country name. Canonical names map to themselves.
var countryAliases = map[string]string{
	"us":                       "United States",
	"usa":                      "United States",
	"united states":            "United States",
	"united states of america": "United States",
	"america":                  "United States",

	"uk":               "United Kingdom",
	"gb":               "United Kingdom",
	"united kingdom":   "United Kingdom",
	"great britain":    "United Kingdom",
	"britain":          "United Kingdom",
	"england":          "United Kingdom",
	"scotland":         "United Kingdom",
	"wales":            "United Kingdom",
	"northern ireland": "United Kingdom",

	"russia":             "Russian Federation",
	"ru":                 "Russian Federation",
	"russian federation": "Russian Federation",

	"south korea":       "Republic of Korea",
	"korea":             "Republic of Korea",
	"korea, south":      "Republic of Korea",
	"kr":                "Republic of Korea",
	"republic of korea": "Republic of Korea",

	"north korea":                           "Democratic People's Republic of Korea",
	"democratic people's republic of korea": "Democratic People's Republic of Korea",

	"iran":                     "Islamic Republic of Iran",
	"ir":                       "Islamic Republic of Iran",
	"islamic republic of iran": "Islamic Republic of Iran",

	"vietnam":  "Viet Nam",
	"vn":       "Viet Nam",
	"viet nam": "Viet Nam",

	"czech republic": "Czechia",
	"cz":             "Czechia",
	"czechia":        "Czechia",

	"macedonia":       "North Macedonia",
	"mk":              "North Macedonia",
	"north macedonia": "North Macedonia",

	"myanmar":         "Myanmar (Burma)",
	"burma":           "Myanmar (Burma)",
	"mm":              "Myanmar (Burma)",
	"myanmar (burma)": "Myanmar (Burma)",

	"congo":                            "Democratic Republic of the Congo",
	"dr congo":                         "Democratic Republic of the Congo",
	"drc":                              "Democratic Republic of the Congo",
	"cd":                               "Democratic Republic of the Congo",
	"democratic republic of the congo": "Democratic Republic of the Congo",

	"holland":         "Netherlands",
	"the netherlands": "Netherlands",
	"nl":              "Netherlands",
	"netherlands":     "Netherlands",

	"deutschland": "Germany",
	"de":          "Germany",
	"germany":     "Germany",

	"ca":     "Canada",
	"canada": "Canada",

	"au":        "Australia",
	"australia": "Australia",

	"fr":     "France",
	"france": "France",

	"ch":          "Switzerland",
	"schweiz":     "Switzerland",
	"suisse":      "Switzerland",
	"switzerland": "Switzerland",

	"cn":               "China",
	"prc":              "China",
	"china (mainland)": "China",
	"mainland china":   "China",
	"china":            "China",

	"hk":            "Hong Kong SAR",
	"hong kong":     "Hong Kong SAR",
	"hong kong sar": "Hong Kong SAR",

	"jp":    "Japan",
	"japan": "Japan",

	"sg":        "Singapore",
	"singapore": "Singapore",

	"in":    "India",
	"india": "India",

	"it":    "Italy",
	"italy": "Italy",

	"es":    "Spain",
	"spain": "Spain",

	"se":     "Sweden",
	"sweden": "Sweden",

	"nz":          "New Zealand",
	"new zealand": "New Zealand",

	"ie":      "Ireland",
	"ireland": "Ireland",

	"br":     "Brazil",
	"brazil": "Brazil",
	"brasil": "Brazil",

	"mx":     "Mexico",
	"mexico": "Mexico",
}

// countryCodes are the short uppercase codes that may trail a raw institution
// name ("University of Toronto CA"); they are stripped as noise.
var countryCodes = func() map[string]bool {
	codes := make(map[string]bool)
	for key := range countryAliases {
		if len(key) >= 2 && len(key) <= 3 && !strings.Contains(key, " ") {
			codes[strings.ToUpper(key)] = true
		}
	}
	return codes
}()

// countryKey is the alias lookup key for a folded, collapsed country string.
func countryKey(s string) string {
	return collapseSpace(strings.ReplaceAll(strings.ToLower(s), ".", ""))
}

// normalizeCountry resolves aliases and ISO codes, then standardizes embedded
// U.S./U.K. forms and title-cases whatever remains. Empty input stays empty.
func normalizeCountry(raw string) string {
	s := collapseSpace(foldAccents(raw))
	if s == "" {
		return ""
	}
	if canonical, ok := countryAliases[countryKey(s)]; ok {
		return canonical
	}

	s = collapseSpace(expandCountryAbbrevs(s))
	if canonical, ok := countryAliases[countryKey(s)]; ok {
		return canonical
	}
	return titleCase(s)
}

// expandCountryAbbrevs rewrites embedded U.S./U.K. forms until none remain.
// Adjacent abbreviations share the separating space, so one pass can leave
// the second one untouched.
func expandCountryAbbrevs(s string) string {
	for {
		next := countryUSRe.ReplaceAllString(s, "${1}United States${2}")
		next = countryUKRe.ReplaceAllString(next, "${1}United Kingdom${2}")
		if next == s {
			return s
		}
		s = next
	}
}
