// Package survey scores free-text survey responses and summarises them.
package survey

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/PUSHPAK-96/cartwise/internal/common"
	"github.com/PUSHPAK-96/cartwise/internal/model"
)

// Column names recognised in survey exports.
const (
	ColumnFreeText = "free_text"
	ColumnRating   = "rating"
	ColumnSegment  = "segment"
)

var (
	htmlTag    = regexp.MustCompile(`<[^>]+>`)
	whitespace = regexp.MustCompile(`\s+`)
)

// CleanText strips HTML tags, collapses whitespace and lower-cases.
func CleanText(s string) string {
	s = htmlTag.ReplaceAllString(s, " ")
	return whitespace.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), " ")
}

// LoadResponsesFile opens and parses a survey CSV.
func LoadResponsesFile(path string) ([]model.SurveyResponse, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open survey file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return LoadResponses(f)
}

// LoadResponses parses a survey CSV. The free_text column is required;
// rating and segment are picked up when present and any other column is
// kept in Extra. Empty input yields no responses.
func LoadResponses(r io.Reader) ([]model.SurveyResponse, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return []model.SurveyResponse{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read survey header: %w", err)
	}

	headers := make([]string, len(header))
	index := make(map[string]int, len(header))
	for i, h := range header {
		headers[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		index[headers[i]] = i
	}

	textIdx, ok := index[ColumnFreeText]
	if !ok {
		return nil, common.NewSchemaError(headers, ColumnFreeText)
	}
	ratingIdx, hasRating := index[ColumnRating]
	segmentIdx, hasSegment := index[ColumnSegment]

	responses := make([]model.SurveyResponse, 0)
	for row := 0; ; row++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read survey row %d: %w", row+1, err)
		}

		resp := model.SurveyResponse{
			Row:      row,
			FreeText: CleanText(field(record, textIdx)),
		}
		if hasRating {
			resp.Rating = parseRating(field(record, ratingIdx))
		}
		if hasSegment {
			resp.Segment = strings.TrimSpace(field(record, segmentIdx))
		}
		for i, h := range headers {
			if i == textIdx || (hasRating && i == ratingIdx) || (hasSegment && i == segmentIdx) {
				continue
			}
			if resp.Extra == nil {
				resp.Extra = make(map[string]string)
			}
			resp.Extra[h] = field(record, i)
		}
		responses = append(responses, resp)
	}

	return responses, nil
}

func field(record []string, i int) string {
	if i < len(record) {
		return record[i]
	}
	return ""
}

// parseRating coerces a rating cell; blanks, garbage and infinities become nil.
func parseRating(s string) *float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
