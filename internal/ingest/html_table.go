// UniSearch - University Ranking Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unisearch

package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/tomtom215/unisearch/internal/logging"
	"github.com/tomtom215/unisearch/internal/models"
)

// htmlAliases maps ranking table header cells to field keys.
var htmlAliases = map[string]string{
	"institution":      FieldName,
	"institution name": FieldName,
	"university":       FieldName,
	"university name":  FieldName,
	"name":             FieldName,
	"country":          FieldCountry,
	"country/region":   FieldCountry,
	"location":         FieldCountry,
	"city":             FieldCity,
	"website":          FieldWebsiteURL,
}

// HTMLTableReader reads a saved ranking page. Two layouts are understood:
// card lists of div.ranking-item elements, and plain <table> elements whose
// first row holds the column headers.
type HTMLTableReader struct {
	path       string
	rankField  string
	scoreField string
}

// NewHTMLTableReader creates a reader for the page at path. The page's rank
// and score columns are stored as THE rank and score.
func NewHTMLTableReader(path string) *HTMLTableReader {
	return &HTMLTableReader{path: path, rankField: FieldTHERank, scoreField: FieldTHEScore}
}

// Source implements Reader.
func (r *HTMLTableReader) Source() string { return models.SourceHTMLRanking }

// Read parses the page. Card layouts take precedence over tables.
func (r *HTMLTableReader) Read(ctx context.Context) ([]models.RawRecord, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(r.path), err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			logging.Warn().Err(closeErr).Str("path", r.path).Msg("Error closing source file")
		}
	}()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("parse HTML failed: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if items := doc.Find("div.ranking-item"); items.Length() > 0 {
		return r.readCards(items), nil
	}
	return r.readTables(doc), nil
}

func (r *HTMLTableReader) readCards(items *goquery.Selection) []models.RawRecord {
	out := make([]models.RawRecord, 0, items.Length())
	items.Each(func(_ int, item *goquery.Selection) {
		name := cellText(item.Find(".university-name").First())
		if name == "" {
			return
		}
		raw := models.RawRecord{FieldName: name}
		setIfPresent(raw, r.rankField, cellText(item.Find(".rank").First()))
		setIfPresent(raw, r.scoreField, cellText(item.Find(".score").First()))
		setIfPresent(raw, FieldCountry, cellText(item.Find(".country").First()))
		setIfPresent(raw, FieldCity, cellText(item.Find(".location").First()))
		if href, ok := item.Find("a[href]").First().Attr("href"); ok && strings.HasPrefix(href, "http") {
			raw[FieldWebsiteURL] = href
		}
		out = append(out, raw)
	})
	return out
}

func (r *HTMLTableReader) readTables(doc *goquery.Document) []models.RawRecord {
	aliases := make(map[string]string, len(htmlAliases)+4)
	for k, v := range htmlAliases {
		aliases[k] = v
	}
	aliases["rank"] = r.rankField
	aliases["#"] = r.rankField
	aliases["score"] = r.scoreField
	aliases["overall score"] = r.scoreField

	var out []models.RawRecord
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		rows := table.Find("tr")
		if rows.Length() < 2 {
			return
		}
		var header []string
		rows.First().Find("th, td").Each(func(_ int, c *goquery.Selection) {
			header = append(header, cellText(c))
		})
		fields := mapHeader(header, aliases)
		if !slices.Contains(fields, FieldName) {
			return
		}

		rows.Slice(1, rows.Length()).Each(func(_ int, tr *goquery.Selection) {
			var cells []string
			tr.Find("td, th").Each(func(_ int, c *goquery.Selection) {
				cells = append(cells, cellText(c))
			})
			raw := rowToRaw(fields, cells)
			if raw.String(FieldName) == "" {
				return
			}
			out = append(out, raw)
		})
	})
	return out
}

func cellText(s *goquery.Selection) string {
	return strings.Join(strings.Fields(s.Text()), " ")
}

func setIfPresent(raw models.RawRecord, field, value string) {
	if value != "" {
		raw[field] = value
	}
}
