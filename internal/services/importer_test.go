package services_test

import (
	"context"
	stdcsv "encoding/csv"
	"errors"
	"strings"
	"testing"

	"github.com/yishak-cs/bites/internal/models"
	"github.com/yishak-cs/bites/internal/services"
)

func TestImportCreatesEveryRow(t *testing.T) {
	e := setupTestEnv(t, true)
	importer := services.NewCSVImporter(e.restaurants, 4)

	csv := `name,location,cuisines
Trattoria,"12.49,41.89",italian|pizza
Noodle Bar,"139.69,35.68",japanese
Corner Cafe,"-0.12,51.50",
`
	n, err := importer.Import(context.Background(), strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if n != 3 {
		t.Errorf("expected 3 imported restaurants, got %d", n)
	}

	listed, err := e.restaurants.List(context.Background(), models.PageQuery{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(listed) != 3 {
		t.Errorf("expected 3 indexed restaurants, got %d", len(listed))
	}

	italian, err := e.restaurants.ListByCuisine(context.Background(), "pizza")
	if err != nil {
		t.Fatalf("ListByCuisine failed: %v", err)
	}
	if len(italian) != 1 || italian[0].Name != "Trattoria" {
		t.Errorf("expected Trattoria under pizza, got %+v", italian)
	}
}

func TestImportRejectsMissingColumn(t *testing.T) {
	e := setupTestEnv(t, true)
	importer := services.NewCSVImporter(e.restaurants, 1)

	_, err := importer.Import(context.Background(), strings.NewReader("name,cuisines\nX,thai\n"))
	if !errors.Is(err, models.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestImportStopsOnInvalidRow(t *testing.T) {
	e := setupTestEnv(t, true)
	importer := services.NewCSVImporter(e.restaurants, 1)

	csv := "name,location,cuisines\nGood,\"1,2\",thai\nBad,nowhere,thai\n"
	_, err := importer.Import(context.Background(), strings.NewReader(csv))
	if !errors.Is(err, models.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(err.Error(), "line 3") {
		t.Errorf("expected failing line in error, got %v", err)
	}
}

func TestImportReadErrorKeepsRowFailures(t *testing.T) {
	e := setupTestEnv(t, true)
	importer := services.NewCSVImporter(e.restaurants, 1)

	// Given: an invalid row followed by a bare quote
	csv := "name,location,cuisines\n,\"1,2\",thai\nBro\"ken,\"1,2\",thai\n"
	_, err := importer.Import(context.Background(), strings.NewReader(csv))

	var parseErr *stdcsv.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected CSV parse error, got %v", err)
	}
	if !errors.Is(err, models.ErrValidation) {
		t.Errorf("expected the failed row to be reported too, got %v", err)
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Errorf("expected failing row line in error, got %v", err)
	}
}
