// Command seed imports ingredients and tags from CSV files.
//
//	go run ./cmd/seed -db foodgram.db -dir ./data
//
// ingredients.csv: name,measurement_unit
// tags.csv: name,color,slug
//
// Files have no header row. A broken file is logged and skipped.
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"foodgram/internal/database"
	"foodgram/internal/domain"
	"foodgram/internal/pkg/logger"
	"foodgram/internal/pkg/validator"
	"foodgram/internal/repository"
)

const batchSize = 500

func main() {
	_ = godotenv.Load()

	dsn := flag.String("db", envOr("DATABASE_URL", "foodgram.db"), "database DSN or sqlite file")
	dir := flag.String("dir", "./data", "directory with ingredients.csv and tags.csv")
	flag.Parse()

	logger.Init(logger.Config{Level: os.Getenv("LOG_LEVEL"), Format: "console"})

	db, err := database.Connect(*dsn)
	if err != nil {
		logger.Fatal().Err(err).Msg("DB connection failed")
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal().Err(err).Msg("AutoMigrate failed")
	}

	ctx := context.Background()
	ingredients := repository.NewIngredientRepository(db)
	tags := repository.NewTagRepository(db)

	if err := importIngredients(ctx, ingredients, filepath.Join(*dir, "ingredients.csv")); err != nil {
		logger.Error().Err(err).Msg("ingredients import failed")
	}
	if err := importTags(ctx, tags, filepath.Join(*dir, "tags.csv")); err != nil {
		logger.Error().Err(err).Msg("tags import failed")
	}
}

type ingredientWriter interface {
	List(ctx context.Context, prefix string) ([]domain.Ingredient, error)
	CreateBatch(ctx context.Context, items []domain.Ingredient, batchSize int) (int64, error)
}

type tagWriter interface {
	CreateBatch(ctx context.Context, tags []domain.Tag, batchSize int) (int64, error)
}

func importIngredients(ctx context.Context, repo ingredientWriter, path string) error {
	// у ингредиентов нет уникального ключа, повторный импорт задублирует справочник
	existing, err := repo.List(ctx, "")
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		logger.Info().Int("count", len(existing)).Msg("ingredients already imported, skipping")
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	items, err := readIngredients(f)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	n, err := repo.CreateBatch(ctx, items, batchSize)
	if err != nil {
		return err
	}
	logger.Info().Int64("inserted", n).Str("file", path).Msg("ingredients imported")
	return nil
}

func importTags(ctx context.Context, repo tagWriter, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	items, err := readTags(f)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	n, err := repo.CreateBatch(ctx, items, batchSize)
	if err != nil {
		return err
	}
	logger.Info().Int64("inserted", n).Int("read", len(items)).Str("file", path).Msg("tags imported")
	return nil
}

func readIngredients(r io.Reader) ([]domain.Ingredient, error) {
	rows, err := readRows(r, 2)
	if err != nil {
		return nil, err
	}

	items := make([]domain.Ingredient, 0, len(rows))
	for i, row := range rows {
		name, unit := strings.TrimSpace(row[0]), strings.TrimSpace(row[1])
		if name == "" || unit == "" {
			logger.Warn().Int("line", i+1).Msg("empty ingredient name or unit, skipped")
			continue
		}
		items = append(items, domain.Ingredient{Name: name, MeasurementUnit: unit})
	}
	return items, nil
}

// readTags drops rows that fail validation (bad hex color, empty fields).
func readTags(r io.Reader) ([]domain.Tag, error) {
	rows, err := readRows(r, 3)
	if err != nil {
		return nil, err
	}

	items := make([]domain.Tag, 0, len(rows))
	for i, row := range rows {
		t := domain.Tag{
			Name:  strings.TrimSpace(row[0]),
			Color: strings.ToUpper(strings.TrimSpace(row[1])),
			Slug:  strings.TrimSpace(row[2]),
		}
		if errs := validator.Validate(t); errs != nil {
			logger.Warn().Int("line", i+1).Interface("errors", errs).Msg("invalid tag, skipped")
			continue
		}
		items = append(items, t)
	}
	return items, nil
}

func readRows(r io.Reader, fields int) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = fields
	cr.TrimLeadingSpace = true

	var rows [][]string
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
