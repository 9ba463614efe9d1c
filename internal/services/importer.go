package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync/atomic"

	"github.com/yishak-cs/bites/internal/models"
	"golang.org/x/sync/errgroup"
)

// CSVImporter seeds the directory from a CSV file with the header
// name,location,cuisines where cuisines are separated by "|".
type CSVImporter struct {
	restaurants *RestaurantService
	concurrency int
}

// NewCSVImporter creates a new CSV importer
func NewCSVImporter(restaurants *RestaurantService, concurrency int) *CSVImporter {
	if concurrency < 1 {
		concurrency = 1
	}
	return &CSVImporter{restaurants: restaurants, concurrency: concurrency}
}

// ImportFile imports every row of the CSV file at path.
func (i *CSVImporter) ImportFile(ctx context.Context, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer f.Close()

	return i.Import(ctx, f)
}

// Import creates one restaurant per CSV row and returns how many were created.
// Rows are created concurrently; the first failure stops the import.
func (i *CSVImporter) Import(ctx context.Context, r io.Reader) (int, error) {
	log.Println("Starting CSV import process...")

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("failed to read CSV header: %w", err)
	}
	columns, err := columnIndex(header, "name", "location", "cuisines")
	if err != nil {
		return 0, err
	}

	var imported atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(i.concurrency)

	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			readErr := fmt.Errorf("failed to read CSV line %d: %w", line, err)
			return int(imported.Load()), errors.Join(readErr, g.Wait())
		}

		req := models.CreateRestaurantRequest{
			Name:     record[columns["name"]],
			Location: record[columns["location"]],
			Cuisines: splitCuisines(record[columns["cuisines"]]),
		}
		row := line
		g.Go(func() error {
			if _, err := i.restaurants.Create(gctx, req); err != nil {
				return fmt.Errorf("line %d: %w", row, err)
			}
			imported.Add(1)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return int(imported.Load()), fmt.Errorf("failed to import restaurants: %w", err)
	}

	log.Printf("CSV import process completed: %d restaurants", imported.Load())
	return int(imported.Load()), nil
}

func columnIndex(header []string, names ...string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, name := range names {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("%w: CSV header is missing column %q", models.ErrValidation, name)
		}
	}
	return index, nil
}

func splitCuisines(raw string) []string {
	var cuisines []string
	for _, c := range strings.Split(raw, "|") {
		if c = strings.TrimSpace(c); c != "" {
			cuisines = append(cuisines, c)
		}
	}
	return cuisines
}
