package ingest

import "regexp"

var (
	dateHeader   = regexp.MustCompile(`(?i)date|ds|timestamp`)
	targetHeader = regexp.MustCompile(`(?i)demand|sales|qty|quantity|target|y`)
)

// GuessColumns suggests the date and target columns from header names.
// It is only a default; callers may pick any column.
func GuessColumns(headers []string) (dateCol, targetCol string) {
	if len(headers) == 0 {
		return "", ""
	}

	dateCol = headers[0]
	for _, h := range headers {
		if dateHeader.MatchString(h) {
			dateCol = h
			break
		}
	}

	targetCol = headers[min(1, len(headers)-1)]
	for _, h := range headers {
		if targetHeader.MatchString(h) {
			targetCol = h
			break
		}
	}
	return dateCol, targetCol
}
