// Package boxoffice imports the manually curated box-office CSV (the
// spreadsheet export used when the JSON feed lags). The file format is
// fixed; rows are keyed by title and folded to the highest cumulative
// admissions before being written as boxoffice_daily snapshots for the
// cutoff date.
package boxoffice

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"estrenos-monitor/catalog"
	"estrenos-monitor/models"
	"estrenos-monitor/storage"
	"estrenos-monitor/utils"
)

// Expected header of the manual export, in order.
var expectedHeader = []string{
	"TITULO", "ENTRADAS_ACUMULADAS", "RECAUDACION_ACUMULADA", "PANTALLAS", "FECHA_CORTE",
}

// ImportCSV reads the manual export at path and upserts one snapshot
// per title for the file's cutoff date. Returns the number of titles
// written.
func ImportCSV(path string, store storage.SnapshotStore, logger *utils.Logger) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("boxoffice: open %q: %w", path, err)
	}
	defer f.Close()

	snaps, err := parse(f)
	if err != nil {
		return 0, fmt.Errorf("boxoffice: %q: %w", path, err)
	}

	for _, snap := range snaps {
		if err := store.UpsertBoxOffice(snap); err != nil {
			return 0, err
		}
	}

	logger.Info("[boxoffice] Imported %d titles from %s", len(snaps), path)
	return len(snaps), nil
}

func parse(r io.Reader) ([]*models.BoxOfficeSnapshot, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if err := checkHeader(header); err != nil {
		return nil, err
	}

	byKey := make(map[string]*models.BoxOfficeSnapshot)
	var order []string

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if len(record) < len(expectedHeader) {
			continue
		}

		title := strings.TrimSpace(record[0])
		if title == "" {
			continue
		}
		key := catalog.TitleKey(title)

		date, ok := catalog.ParseDate(record[4])
		if !ok {
			return nil, fmt.Errorf("row for %q: bad FECHA_CORTE %q", title, record[4])
		}

		snap := &models.BoxOfficeSnapshot{
			Date:     date.Format(storage.DateLayout),
			TitleKey: key,
			BoxOfficeStats: models.BoxOfficeStats{
				Cume:    catalog.ParseLatinInt(record[1]),
				Gross:   catalog.ParseLatinInt(record[2]),
				Screens: catalog.ParseLatinInt(record[3]),
			},
		}

		// Duplicate titles keep the row with the higher cume.
		if prev, dup := byKey[key]; dup {
			if cume(snap) >= cume(prev) {
				byKey[key] = snap
			}
			continue
		}
		byKey[key] = snap
		order = append(order, key)
	}

	out := make([]*models.BoxOfficeSnapshot, 0, len(order))
	for _, key := range order {
		out = append(out, byKey[key])
	}
	return out, nil
}

func checkHeader(header []string) error {
	if len(header) < len(expectedHeader) {
		return fmt.Errorf("header %v: want %v", header, expectedHeader)
	}
	for i, want := range expectedHeader {
		got := strings.ToUpper(strings.TrimSpace(strings.TrimPrefix(header[i], "\uFEFF")))
		if got != want {
			return fmt.Errorf("header column %d is %q, want %q", i, header[i], want)
		}
	}
	return nil
}

func cume(s *models.BoxOfficeSnapshot) int64 {
	if s.Cume == nil {
		return 0
	}
	return *s.Cume
}
