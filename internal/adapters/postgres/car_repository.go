package postgres

import (
	"context"
	"fmt"

	"github.com/ch1kkapo0m/scraping-auto/internal/core/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresCarRepository реализует CarStoragePort для PostgreSQL.
type PostgresCarRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresCarRepository создает новый экземпляр адаптера.
func NewPostgresCarRepository(pool *pgxpool.Pool) (*PostgresCarRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &PostgresCarRepository{
		pool: pool,
	}, nil
}

// Bootstrap создает таблицу `cars`, если ее еще нет.
func (r *PostgresCarRepository) Bootstrap(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS cars (
			id SERIAL PRIMARY KEY,
			url TEXT UNIQUE NOT NULL,
			title TEXT,
			price_usd INTEGER,
			odometer INTEGER,
			username TEXT,
			phone_number BIGINT,
			image_url TEXT,
			images_count INTEGER,
			car_number TEXT,
			car_vin TEXT,
			datetime_found TIMESTAMP DEFAULT NOW()
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to create cars table: %w", err)
	}
	return nil
}

// FilterKnown возвращает подмножество URL, которые уже есть в базе.
// Один batched-запрос на всю страницу; пустой вход — без запроса вообще.
func (r *PostgresCarRepository) FilterKnown(ctx context.Context, urls []string) (map[string]struct{}, error) {
	known := make(map[string]struct{})
	if len(urls) == 0 {
		return known, nil
	}

	rows, err := r.pool.Query(ctx, `SELECT url FROM cars WHERE url = ANY($1)`, urls)
	if err != nil {
		return nil, fmt.Errorf("failed to query known urls: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("failed to scan known url: %w", err)
		}
		known[u] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read known urls: %w", err)
	}

	return known, nil
}

// Save вставляет запись; существующая строка с тем же URL остается
// нетронутой. Это штатная политика конвейера сбора: повторное извлечение
// могло быть неполным, и затирать им уже сохраненные данные нельзя.
func (r *PostgresCarRepository) Save(ctx context.Context, record domain.CarRecord) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO cars(
			url, title, price_usd, odometer, username, phone_number,
			image_url, images_count, car_number, car_vin, datetime_found
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		ON CONFLICT (url) DO NOTHING
	`,
		record.URL,
		record.Title,
		record.PriceUSD,
		record.Odometer,
		record.Username,
		record.PhoneNumber,
		record.ImageURL,
		record.ImagesCount,
		record.CarNumber,
		record.CarVIN,
		record.FoundAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert car record: %w", err)
	}
	return nil
}

// SaveOverwrite — отдельная операция обслуживания: при конфликте поля
// перезаписываются. datetime_found не трогаем — время первого обнаружения
// неизменно.
func (r *PostgresCarRepository) SaveOverwrite(ctx context.Context, record domain.CarRecord) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO cars(
			url, title, price_usd, odometer, username, phone_number,
			image_url, images_count, car_number, car_vin, datetime_found
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		ON CONFLICT (url) DO UPDATE SET
			title = EXCLUDED.title,
			price_usd = EXCLUDED.price_usd,
			odometer = EXCLUDED.odometer,
			username = EXCLUDED.username,
			phone_number = EXCLUDED.phone_number,
			image_url = EXCLUDED.image_url,
			images_count = EXCLUDED.images_count,
			car_number = EXCLUDED.car_number,
			car_vin = EXCLUDED.car_vin
	`,
		record.URL,
		record.Title,
		record.PriceUSD,
		record.Odometer,
		record.Username,
		record.PhoneNumber,
		record.ImageURL,
		record.ImagesCount,
		record.CarNumber,
		record.CarVIN,
		record.FoundAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert car record: %w", err)
	}
	return nil
}

// CountCars возвращает общее количество сохраненных записей.
func (r *PostgresCarRepository) CountCars(ctx context.Context) (int64, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM cars`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count cars: %w", err)
	}
	return count, nil
}

// ListAll возвращает все сохраненные записи в порядке вставки.
func (r *PostgresCarRepository) ListAll(ctx context.Context) ([]domain.CarRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT url, title, price_usd, odometer, username, phone_number,
		       image_url, images_count, car_number, car_vin, datetime_found
		FROM cars
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query cars: %w", err)
	}
	defer rows.Close()

	var records []domain.CarRecord
	for rows.Next() {
		var rec domain.CarRecord
		if err := rows.Scan(
			&rec.URL,
			&rec.Title,
			&rec.PriceUSD,
			&rec.Odometer,
			&rec.Username,
			&rec.PhoneNumber,
			&rec.ImageURL,
			&rec.ImagesCount,
			&rec.CarNumber,
			&rec.CarVIN,
			&rec.FoundAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan car record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read car records: %w", err)
	}

	return records, nil
}
