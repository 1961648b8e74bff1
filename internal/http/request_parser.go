// Package http serves the ledger dashboard as a JSON API.
//
// This file implements utilities for reading filter, category and sort
// parameters from query strings and request bodies.

package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"ledgerdash/internal/cache"
	"ledgerdash/internal/ledger"
	"ledgerdash/internal/services"
)

// maxBodyBytes bounds request bodies; filter forms are tiny
const maxBodyBytes = 64 << 10

// FilterParams holds the raw filter inputs. Dates stay unparsed so the
// dashboard can reject them as a whole.
type FilterParams struct {
	Start    string
	End      string
	Team     string
	Employee string
}

// filterFrom reads filter fields through lookup. A missing team or employee
// means the wildcard; a present but empty one selects the empty key.
func filterFrom(lookup func(string) (string, bool)) FilterParams {
	p := FilterParams{
		Start:    valueOf(lookup, "start"),
		End:      valueOf(lookup, "end"),
		Team:     ledger.AllTeams,
		Employee: ledger.AnyEmployee,
	}
	if v, ok := lookup("team"); ok {
		p.Team = v
	}
	if v, ok := lookup("employee"); ok {
		p.Employee = v
	}
	return p
}

func valueOf(lookup func(string) (string, bool), key string) string {
	v, _ := lookup(key)
	return v
}

// valuesLookup reports the sanitized first value of key and whether key was sent.
func valuesLookup(values url.Values) func(string) (string, bool) {
	return func(key string) (string, bool) {
		vs, ok := values[key]
		if !ok || len(vs) == 0 {
			return "", false
		}
		return sanitizeInput(vs[0]), true
	}
}

// ParseFilterParams extracts filter fields from url values.
func ParseFilterParams(form url.Values) FilterParams {
	return filterFrom(valuesLookup(form))
}

// ParseCategories returns the category labels of a request. Labels may
// contain commas, so only repeated parameters are accepted, never a
// comma-separated list.
func ParseCategories(values url.Values) []string {
	var out []string
	for _, key := range []string{"categories", "category"} {
		for _, v := range values[key] {
			if v = sanitizeInput(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

// ParseQuery builds a stateless dashboard query from query parameters.
func ParseQuery(values url.Values) (services.Query, error) {
	f := ParseFilterParams(values)
	q := services.Query{
		Start:      f.Start,
		End:        f.End,
		Team:       f.Team,
		Employee:   f.Employee,
		Categories: ParseCategories(values),
	}

	if v := strings.TrimSpace(values.Get("all_categories")); v != "" {
		all, err := strconv.ParseBool(v)
		if err != nil {
			return services.Query{}, fmt.Errorf("all_categories: %w", err)
		}
		q.AllCategories = all
	}

	if v := strings.TrimSpace(values.Get("sort")); v != "" {
		col, err := ledger.ParseColumn(v)
		if err != nil {
			return services.Query{}, err
		}
		q.Sort = ledger.SortSpec{Column: col, Direction: ledger.ParseDirection(values.Get("dir"))}
	}
	return q, nil
}

// QueryCacheKey renders q canonically: category order and duplicates do not
// change the key, and an explicit default sort equals no sort.
func QueryCacheKey(generation uint64, q services.Query) string {
	cats := []string{"*"}
	if !q.AllCategories {
		cats = slices.Clone(q.Categories)
		slices.Sort(cats)
		cats = slices.Compact(cats)
	}
	spec := q.Sort
	if spec.Column == "" {
		spec = ledger.DefaultSort()
	}
	if spec.Direction == "" {
		spec.Direction = ledger.Ascending
	}
	return cache.GenerationKey(generation,
		q.Start, q.End, q.Team, q.Employee,
		strings.Join(cats, "\x1f"),
		string(spec.Column), string(spec.Direction))
}

// RequestBodyParser handles different content types for request body parsing.
// It supports both JSON objects and form-encoded data; query parameters
// fill in anything the body leaves out.
type RequestBodyParser struct {
	body     []byte
	query    url.Values
	jsonData map[string]any
	formData url.Values
	parsed   bool
	err      error
}

// NewRequestBodyParser reads the body of r once.
func NewRequestBodyParser(w http.ResponseWriter, r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{query: r.URL.Query()}
	if r.Body != nil {
		p.body, p.err = io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	}
	return p
}

// Parse attempts to parse the body as JSON or form data.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}

	body := strings.TrimSpace(string(p.body))
	switch {
	case body == "":
		p.formData = url.Values{}
	case body[0] == '{':
		p.jsonData = make(map[string]any)
		p.err = json.Unmarshal(p.body, &p.jsonData)
	default:
		p.formData, p.err = url.ParseQuery(body)
	}
	return p.err
}

// Lookup returns a sanitized value and whether the request carried key at
// all. The body wins over the query string; a JSON null counts as missing.
func (p *RequestBodyParser) Lookup(key string) (string, bool) {
	if val, ok := p.jsonData[key]; ok && val != nil {
		return sanitizeInput(stringValue(val)), true
	}
	if vs, ok := p.formData[key]; ok && len(vs) > 0 {
		return sanitizeInput(vs[0]), true
	}
	return valuesLookup(p.query)(key)
}

// Filter reads the filter fields from the parsed request.
func (p *RequestBodyParser) Filter() FilterParams {
	return filterFrom(p.Lookup)
}

// IsJSON returns true if the parsed content was JSON.
func (p *RequestBodyParser) IsJSON() bool {
	return p.jsonData != nil
}

// stringValue converts a decoded JSON value to string.
func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// sanitizeInput drops control characters and trims whitespace.
func sanitizeInput(s string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' {
			return -1
		}
		return r
	}, s))
}
