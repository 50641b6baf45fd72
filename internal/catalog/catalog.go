// Package catalog loads the fragrance catalog and derives the searchable
// representation used by the retrieval engine.
//
// Each catalog row becomes one Document with a stable Position equal to its
// row index at load time. Position correlates the document with its row in
// the embedding matrix and its token list in the lexical index, so the
// ordering produced here is load-bearing for the whole engine.
package catalog

import (
	"encoding/csv"
	"io"
	"log/slog"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	scenterrors "github.com/scentlab/scentmatch/internal/errors"
)

// Document is one catalog row in searchable form.
type Document struct {
	// Position is the row index at load time. Unique and contiguous.
	Position int

	// Brand and Name are display strings; empty if absent, never missing.
	Brand string
	Name  string

	// Year is the release year; nil when the source value is missing
	// or non-numeric.
	Year *int

	// SearchText is the normalized category + note text used for both
	// embedding and tokenization.
	SearchText string

	// Raw preserves the original row fields verbatim for pass-through
	// output (image reference, original category/note payload).
	Raw map[string]string
}

// noteBagKeys are the known note-structure keys checked, in order, when a
// field parses as a JSON object.
var noteBagKeys = []string{
	"top", "middle", "base",
	"middleNotes", "baseNotes", "topNotes",
	"Categorys", "Note",
}

// Load reads the catalog CSV and returns documents in row order.
// Bookkeeping columns (Unnamed*) are dropped. A malformed individual field
// degrades to its zero value; only an unreadable source fails the load.
func Load(path string) ([]Document, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, scenterrors.New(scenterrors.ErrCodeCatalogNotFound,
				"catalog file not found: "+path, err).
				WithSuggestion("set SCENTMATCH_CATALOG_PATH to the catalog CSV")
		}
		return nil, scenterrors.CatalogError("open catalog "+path, err)
	}
	defer func() { _ = f.Close() }()

	docs, err := Parse(f)
	if err != nil {
		return nil, scenterrors.CatalogError("parse catalog "+path, err)
	}
	return docs, nil
}

// Parse reads catalog rows from r. Exposed separately so tests and
// alternative sources can feed CSV data directly.
func Parse(r io.Reader) ([]Document, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // tolerate ragged rows

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return []Document{}, nil
		}
		return nil, err
	}

	// Identify data columns, dropping pandas-style bookkeeping columns.
	type column struct {
		name string
		idx  int
	}
	columns := make([]column, 0, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if strings.HasPrefix(name, "Unnamed") {
			continue
		}
		columns = append(columns, column{name: name, idx: i})
	}

	var docs []Document
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		raw := make(map[string]string, len(columns))
		for _, col := range columns {
			if col.idx < len(record) {
				raw[col.name] = record[col.idx]
			} else {
				raw[col.name] = ""
			}
		}

		pos := len(docs)
		catText := NormalizeField(raw["Categorys"])
		noteText := NormalizeField(raw["Note"])

		docs = append(docs, Document{
			Position:   pos,
			Brand:      raw["Brand"],
			Name:       raw["Name"],
			Year:       parseYear(raw["Year"], pos),
			SearchText: strings.TrimSpace(catText + " " + noteText),
			Raw:        raw,
		})
	}

	return docs, nil
}

// NormalizeField flattens structured category/note values into plain
// searchable text:
//   - JSON array  -> space-joined elements
//   - JSON object -> space-joined list values under the known note keys,
//     falling back to all list values when none of those keys are present
//   - anything else -> the raw string, trimmed
func NormalizeField(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	if !strings.HasPrefix(s, "{") && !strings.HasPrefix(s, "[") {
		return s
	}

	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return s
	}

	switch t := v.(type) {
	case []any:
		return joinValues(t)
	case map[string]any:
		var bag []string
		for _, key := range noteBagKeys {
			if list, ok := t[key].([]any); ok {
				bag = append(bag, splitValues(list)...)
			}
		}
		if len(bag) == 0 {
			// Sorted keys keep SearchText stable across runs; map order
			// would reshuffle the embedding input.
			keys := make([]string, 0, len(t))
			for key := range t {
				keys = append(keys, key)
			}
			sort.Strings(keys)
			for _, key := range keys {
				if list, ok := t[key].([]any); ok {
					bag = append(bag, splitValues(list)...)
				}
			}
		}
		return strings.Join(bag, " ")
	default:
		return s
	}
}

// joinValues stringifies a JSON array into space-joined text.
func joinValues(list []any) string {
	return strings.Join(splitValues(list), " ")
}

func splitValues(list []any) []string {
	out := make([]string, 0, len(list))
	for _, v := range list {
		out = append(out, stringify(v))
	}
	return out
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		// JSON numbers decode as float64; render integers without decimals.
		if t == math.Trunc(t) && !math.IsInf(t, 0) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case nil:
		return ""
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// parseYear converts the raw Year field to an optional int.
// Accepts integer and float renderings ("1999", "1999.0"); anything else
// degrades to nil with a log line rather than failing the row.
func parseYear(raw string, position int) *int {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}

	if n, err := strconv.Atoi(s); err == nil {
		return &n
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
		n := int(f)
		return &n
	}

	slog.Debug("catalog_year_unparseable",
		slog.Int("position", position),
		slog.String("value", s))
	return nil
}
