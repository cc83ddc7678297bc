package ingest

import (
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"
)

// Row is a single record keyed by header name.
type Row map[string]string

// Table is the raw parsed input: header names plus one Row per data line.
type Table struct {
	Headers []string
	Rows    []Row
}

// ParseError reports input that cannot be turned into a Table.
type ParseError struct {
	Msg string
	Err error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

var (
	lineBreak  = regexp.MustCompile(`\r?\n`)
	delimiters = []byte{',', ';', '\t', '|'}
)

// ParseCSV parses delimited text. The delimiter is detected from the header line.
func ParseCSV(text string) (*Table, error) {
	text = strings.TrimPrefix(text, "\ufeff")

	var lines []string
	for _, l := range lineBreak.Split(text, -1) {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	if len(lines) < 2 {
		return nil, &ParseError{Msg: "CSV requires at least one data row."}
	}

	delim := DetectDelimiter(lines[0])
	records := make([][]string, 0, len(lines))
	for _, l := range lines {
		records = append(records, ParseLine(l, delim))
	}

	log.Debug().Str("delimiter", string(delim)).Int("lines", len(lines)).Msg("Parsed delimited text")
	return newTable(records[0], records[1:]), nil
}

// DetectDelimiter picks the candidate that splits the header into the most fields.
// Ties keep the earlier candidate, so comma wins over the rest.
func DetectDelimiter(header string) byte {
	best := delimiters[0]
	bestCount := 0
	for _, d := range delimiters {
		count := strings.Count(header, string(d)) + 1
		if count > bestCount {
			best = d
			bestCount = count
		}
	}
	return best
}

// ParseLine splits one line on delim, honouring double quotes.
// A doubled quote inside a quoted section is a literal quote. Fields are trimmed.
func ParseLine(line string, delim byte) []string {
	var fields []string
	var current strings.Builder
	inQuotes := false

	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case ch == '"':
			if inQuotes && i+1 < len(line) && line[i+1] == '"' {
				current.WriteByte('"')
				i++
				continue
			}
			inQuotes = !inQuotes
		case ch == delim && !inQuotes:
			fields = append(fields, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteByte(ch)
		}
	}
	return append(fields, strings.TrimSpace(current.String()))
}

func newTable(headers []string, records [][]string) *Table {
	t := &Table{
		Headers: headers,
		Rows:    make([]Row, 0, len(records)),
	}
	for _, rec := range records {
		row := make(Row, len(headers))
		for i, h := range headers {
			// Later duplicates of a header overwrite earlier ones.
			if i < len(rec) {
				row[h] = rec[i]
			} else {
				row[h] = ""
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}
