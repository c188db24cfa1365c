package backup

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/ch1kkapo0m/scraping-auto/internal/core/domain"
)

// CSVDumpWriter выгружает записи в CSV-файл с таймштампом в имени.
type CSVDumpWriter struct {
	dir string
}

// NewCSVDumpWriter создает писатель и каталог для дампов, если его нет.
func NewCSVDumpWriter(dir string) (*CSVDumpWriter, error) {
	if dir == "" {
		return nil, fmt.Errorf("dump directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create dump directory %s: %w", dir, err)
	}
	return &CSVDumpWriter{dir: dir}, nil
}

// Write сохраняет записи в файл вида cars_20060102_150405.csv и возвращает
// путь к нему. NULL-поля пишутся пустыми ячейками.
func (w *CSVDumpWriter) Write(ctx context.Context, records []domain.CarRecord) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := fmt.Sprintf("cars_%s.csv", time.Now().Format("20060102_150405"))
	path := filepath.Join(w.dir, name)

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create dump file %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	header := []string{
		"url", "title", "price_usd", "odometer", "username", "phone_number",
		"image_url", "images_count", "car_number", "car_vin", "datetime_found",
	}
	if err := writer.Write(header); err != nil {
		return "", fmt.Errorf("failed to write dump header: %w", err)
	}

	for _, rec := range records {
		row := []string{
			rec.URL,
			strOrEmpty(rec.Title),
			intOrEmpty(rec.PriceUSD),
			intOrEmpty(rec.Odometer),
			strOrEmpty(rec.Username),
			int64OrEmpty(rec.PhoneNumber),
			strOrEmpty(rec.ImageURL),
			intOrEmpty(rec.ImagesCount),
			strOrEmpty(rec.CarNumber),
			strOrEmpty(rec.CarVIN),
			rec.FoundAt.Format(time.RFC3339),
		}
		if err := writer.Write(row); err != nil {
			return "", fmt.Errorf("failed to write dump row for %s: %w", rec.URL, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("failed to flush dump file: %w", err)
	}

	return path, nil
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func intOrEmpty(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func int64OrEmpty(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}
