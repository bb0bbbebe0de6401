package boxoffice

import (
	"strings"
	"testing"
)

const sampleCSV = `TITULO,ENTRADAS_ACUMULADAS,RECAUDACION_ACUMULADA,PANTALLAS,FECHA_CORTE
El Campeón,49.988,125.000.000,210,2026-08-30
Otra Historia,12.345,,95,2026-08-30
`

func TestParseManualExport(t *testing.T) {
	snaps, err := parse(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(snaps) != 2 {
		t.Fatalf("expected 2 snapshots, got %d", len(snaps))
	}

	first := snaps[0]
	if first.TitleKey != "el campeon" {
		t.Errorf("title key = %q", first.TitleKey)
	}
	if first.Date != "2026-08-30" {
		t.Errorf("date = %q", first.Date)
	}
	if first.Cume == nil || *first.Cume != 49988 {
		t.Errorf("cume = %v", first.Cume)
	}
	if first.Gross == nil || *first.Gross != 125000000 {
		t.Errorf("gross = %v", first.Gross)
	}
	if first.Screens == nil || *first.Screens != 210 {
		t.Errorf("screens = %v", first.Screens)
	}

	second := snaps[1]
	if second.Gross != nil {
		t.Errorf("empty gross should stay absent, got %v", *second.Gross)
	}
}

func TestParseDuplicateKeepsHigherCume(t *testing.T) {
	csv := `TITULO,ENTRADAS_ACUMULADAS,RECAUDACION_ACUMULADA,PANTALLAS,FECHA_CORTE
El Campeón,100,1000,10,2026-08-30
EL CAMPEÓN,49.988,125.000.000,210,2026-08-30
El Campeón,200,2000,20,2026-08-30
`
	snaps, err := parse(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(snaps) != 1 {
		t.Fatalf("expected 1 snapshot after dedupe, got %d", len(snaps))
	}
	if snaps[0].Cume == nil || *snaps[0].Cume != 49988 {
		t.Errorf("should keep the higher cume row, got %v", snaps[0].Cume)
	}
}

func TestParseRejectsWrongHeader(t *testing.T) {
	csv := `PELICULA,ENTRADAS,RECAUDACION,SALAS,FECHA
El Campeón,100,1000,10,2026-08-30
`
	if _, err := parse(strings.NewReader(csv)); err == nil {
		t.Fatal("expected header error")
	}
}

func TestParseRejectsBadCutoffDate(t *testing.T) {
	csv := `TITULO,ENTRADAS_ACUMULADAS,RECAUDACION_ACUMULADA,PANTALLAS,FECHA_CORTE
El Campeón,100,1000,10,not-a-date
`
	if _, err := parse(strings.NewReader(csv)); err == nil {
		t.Fatal("expected date error")
	}
}

func TestParseSkipsBlankTitles(t *testing.T) {
	csv := `TITULO,ENTRADAS_ACUMULADAS,RECAUDACION_ACUMULADA,PANTALLAS,FECHA_CORTE
,100,1000,10,2026-08-30
El Campeón,200,2000,20,2026-08-30
`
	snaps, err := parse(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(snaps) != 1 {
		t.Fatalf("expected blank title skipped, got %d rows", len(snaps))
	}
}
