package corpus

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/phrazzld/hifz-api/internal/domain"
)

// ErrMissingColumn is returned when the chapter CSV lacks a required column.
var ErrMissingColumn = errors.New("missing required column")

// Required CSV header columns. Surah is the transliterated name, Arabic
// and English the other name forms, Length the page count, Page the
// start page.
var requiredColumns = []string{"Surah", "Arabic", "English", "Length", "Page"}

// ParseCSV reads the tabular chapter source and produces the descriptor
// set. Ordinals are assigned by row order and the end page is derived as
// startPage + length - 1, which keeps PageCount consistent with the page
// range regardless of any inconsistency in the source's length column
// relative to neighboring rows.
func ParseCSV(r io.Reader) ([]domain.ChapterDescriptor, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	for _, name := range requiredColumns {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
	}

	var chapters []domain.ChapterDescriptor
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}

		ordinal := len(chapters) + 1

		length, err := strconv.Atoi(strings.TrimSpace(row[col["Length"]]))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid Length: %w", ordinal, err)
		}
		startPage, err := strconv.Atoi(strings.TrimSpace(row[col["Page"]]))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid Page: %w", ordinal, err)
		}

		chapter := domain.ChapterDescriptor{
			Ordinal:             ordinal,
			NamePrimary:         strings.TrimSpace(row[col["English"]]),
			NameAlternate:       strings.TrimSpace(row[col["Arabic"]]),
			NameTransliteration: strings.TrimSpace(row[col["Surah"]]),
			StartPage:           startPage,
			EndPage:             startPage + length - 1,
			PageCount:           length,
		}

		if err := chapter.Validate(); err != nil {
			return nil, fmt.Errorf("row %d: %w", ordinal, err)
		}

		chapters = append(chapters, chapter)
	}

	if len(chapters) == 0 {
		return nil, ErrEmptyCorpus
	}

	return chapters, nil
}
