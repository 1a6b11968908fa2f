package airlevel

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// minStationCells is the fewest td cells a row needs to count as a station.
const minStationCells = 3

var (
	ErrNoTable = errors.New("no table found")
	ErrNoRows  = errors.New("station table has no data rows")
)

// ExtractStations reads the first table of a city page, one Record per row.
// Columns are keyed by the header row; rows fall back to FixedFields when the
// header gives no labels. ErrNoTable and ErrNoRows come with an empty list.
func ExtractStations(body []byte) ([]*Record, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, ErrNoTable
	}

	rows := table.Find("tr")
	if rows.Length() <= 1 {
		return nil, ErrNoRows
	}

	var headers []string
	rows.First().Find("th, td").Each(func(i int, s *goquery.Selection) {
		headers = append(headers, cellText(s))
	})

	var records []*Record
	rows.Slice(1, goquery.ToEnd).Each(func(i int, row *goquery.Selection) {
		cols := row.Find("td")
		if cols.Length() < minStationCells {
			return
		}

		cells := make([]string, 0, cols.Length())
		cols.Each(func(j int, s *goquery.Selection) {
			cells = append(cells, cellText(s))
		})

		records = append(records, stationRecord(headers, cells))
	})

	return records, nil
}

func stationRecord(headers, cells []string) *Record {
	r := NewRecord(HeaderMapped)
	for i, v := range cells {
		if i >= len(headers) {
			break
		}
		r.Set(headers[i], v)
	}

	if r.Len() > 0 {
		return r
	}

	return fixedRecord(cells)
}

func fixedRecord(cells []string) *Record {
	r := NewRecord(Fixed)
	for i, field := range FixedFields {
		v := NotAvailable
		if i < len(cells) {
			v = cells[i]
		}
		r.Set(field, v)
	}

	return r
}

func cellText(s *goquery.Selection) string {
	return strings.TrimSpace(s.Text())
}
