// UniSearch - University Ranking Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unisearch

package normalize

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var quoteReplacer = strings.NewReplacer(
	"’", "'",
	"‘", "'",
	"\u00a0", " ",
)

// foldAccents strips combining marks ("Universität München" becomes
// "Universitat Munchen") and maps compatibility forms to their plain letters.
// A transform chain carries state, so one is built per call.
func foldAccents(s string) string {
	if isPlainASCII(s) {
		return s
	}
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return quoteReplacer.Replace(s)
	}
	return quoteReplacer.Replace(out)
}

func isPlainASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// collapseSpace trims and collapses internal whitespace runs to one space.
func collapseSpace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// titleCase capitalizes each token. Stopwords stay lowercase except in first
// position. Inside a token, a letter that follows a hyphen, period, slash or
// opening parenthesis is capitalized too; apostrophes do not start a word.
func titleCase(s string) string {
	if s == "" {
		return s
	}
	tokens := strings.Split(s, " ")
	for i, tok := range tokens {
		lower := strings.ToLower(tok)
		if i > 0 && stopwords[lower] {
			tokens[i] = lower
			continue
		}
		tokens[i] = capitalizeToken(lower)
	}
	return strings.Join(tokens, " ")
}

func capitalizeToken(lower string) string {
	var b strings.Builder
	b.Grow(len(lower))
	startOfWord := true
	for _, r := range lower {
		switch {
		case unicode.IsLetter(r):
			if startOfWord {
				b.WriteRune(unicode.ToUpper(r))
			} else {
				b.WriteRune(r)
			}
			startOfWord = false
		case unicode.IsDigit(r):
			b.WriteRune(r)
			startOfWord = false
		default:
			b.WriteRune(r)
			startOfWord = r == '-' || r == '.' || r == '/' || r == '('
		}
	}
	return b.String()
}
