package ingest

import (
	"errors"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestParseCSV(t *testing.T) {
	text := "date,sales\r\n2024-01-01,10\n\n   \n2024-01-02,12\n"
	table, err := ParseCSV(text)
	require.NoError(t, err)

	assert.Equal(t, []string{"date", "sales"}, table.Headers)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "2024-01-02", table.Rows[1]["date"])
	assert.Equal(t, "12", table.Rows[1]["sales"])
}

func TestParseCSV_RequiresDataRow(t *testing.T) {
	for _, text := range []string{"", "date,sales", "date,sales\n\n  \n"} {
		_, err := ParseCSV(text)
		var pe *ParseError
		require.True(t, errors.As(err, &pe), "input %q", text)
		assert.Equal(t, "CSV requires at least one data row.", pe.Error())
	}
}

func TestParseCSV_MissingTrailingFields(t *testing.T) {
	table, err := ParseCSV("a;b;c\n1;2\n")
	require.NoError(t, err)
	assert.Equal(t, Row{"a": "1", "b": "2", "c": ""}, table.Rows[0])
}

func TestParseCSV_StripsByteOrderMark(t *testing.T) {
	table, err := ParseCSV("\ufeffdate,y\n2024-01-01,1\n")
	require.NoError(t, err)
	assert.Equal(t, "date", table.Headers[0])
}

func TestDetectDelimiter(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   byte
	}{
		{"Comma", "date,sales,region", ','},
		{"Semicolon", "date;sales;region", ';'},
		{"Tab", "date\tsales", '\t'},
		{"Pipe", "date|sales|x", '|'},
		{"TieFavorsComma", "a,b;c", ','},
		{"SingleColumn", "date", ','},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, string(tt.want), string(DetectDelimiter(tt.header)))
		})
	}
}

func TestParseLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{"Plain", "a, b ,c", []string{"a", "b", "c"}},
		{"QuotedDelimiter", `"Acme, Inc",5`, []string{"Acme, Inc", "5"}},
		{"EscapedQuote", `"say ""hi""",1`, []string{`say "hi"`, "1"}},
		{"EmptyFields", ",,", []string{"", "", ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLine(tt.line, ','))
		})
	}
}

func TestParseNumericValue(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{"1.234,56", 1234.56},
		{"1,234.56", 1234.56},
		{"12,5", 12.5},
		{"$ 1,000", 1000},
		{"45%", 45},
		{"€ 3.000,5", 3000.5},
		{"-3.5", -3.5},
		{"1,234", 1.234},
		{"₹2,50,000", 250000},
		{" 7 ", 7},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.InDelta(t, tt.want, ParseNumericValue(tt.raw), 1e-9)
		})
	}

	for _, raw := range []string{"", "abc", "$", "12abc"} {
		assert.True(t, math.IsNaN(ParseNumericValue(raw)), "input %q", raw)
	}
}

func TestParseDateValue(t *testing.T) {
	day := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}

	tests := []struct {
		name string
		raw  string
		want time.Time
	}{
		{"Serial", "44197", day(2021, time.January, 1)},
		{"SerialFraction", "44197.5", day(2021, time.January, 1).Add(12 * time.Hour)},
		{"ISODate", "2024-03-05", day(2024, time.March, 5)},
		{"ISOSlashes", "2024/03/05", day(2024, time.March, 5)},
		{"ISOUnpadded", "2024-1-5", day(2024, time.January, 5)},
		{"ISOUnpaddedSlashes", "2024/1/5", day(2024, time.January, 5)},
		{"ISOUnpaddedDay", "2024-01-5", day(2024, time.January, 5)},
		{"SpaceSeparatedZulu", "2024-01-05 10:00:00Z", day(2024, time.January, 5).Add(10 * time.Hour)},
		{"SpaceSeparatedOffset", "2024-01-05 10:00:00+02:00", day(2024, time.January, 5).Add(8 * time.Hour)},
		{"OffsetNormalizedToUTC", "2024-01-01T23:30:00-05:00", day(2024, time.January, 2).Add(4*time.Hour + 30*time.Minute)},
		{"MonthName", "Jan 5, 2024", day(2024, time.January, 5)},
		{"DayFirstWhenAbove12", "25/12/2024", day(2024, time.December, 25)},
		{"MonthFirstOtherwise", "03/04/2024", day(2024, time.March, 4)},
		{"TwoDigitYear", "5-1-24", day(2024, time.May, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDateValue(tt.raw)
			require.True(t, ok)
			assert.True(t, tt.want.Equal(got), "got %v, want %v", got, tt.want)
		})
	}

	for _, raw := range []string{"", "not a date", "13/13/2024", "25000", "0/5/2024"} {
		_, ok := ParseDateValue(raw)
		assert.False(t, ok, "input %q", raw)
	}
}

func TestGuessColumns(t *testing.T) {
	tests := []struct {
		name       string
		headers    []string
		wantDate   string
		wantTarget string
	}{
		{"Prophet", []string{"ds", "y"}, "ds", "y"},
		{"Named", []string{"region", "Order Date", "Sales"}, "Order Date", "Sales"},
		{"Fallback", []string{"when", "amount", "note"}, "when", "amount"},
		{"SingleColumn", []string{"only"}, "only", "only"},
		{"Empty", nil, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, v := GuessColumns(tt.headers)
			assert.Equal(t, tt.wantDate, d)
			assert.Equal(t, tt.wantTarget, v)
		})
	}
}

func TestReadFile_Workbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demand.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"date", "units"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{44197, 12.5}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]interface{}{44198, 7}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	table, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"date", "units"}, table.Headers)
	require.Len(t, table.Rows, 2)

	dt, ok := ParseDateValue(table.Rows[0]["date"])
	require.True(t, ok)
	assert.Equal(t, "2021-01-01", dt.Format("2006-01-02"))
	assert.InDelta(t, 12.5, ParseNumericValue(table.Rows[0]["units"]), 1e-9)
}

func TestReadFile_DelimitedText(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
}
