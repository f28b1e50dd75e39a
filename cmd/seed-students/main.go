package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mkkmani/musicbackend/internal/config"
	"github.com/mkkmani/musicbackend/internal/database"
	"github.com/mkkmani/musicbackend/internal/logger"
	"github.com/mkkmani/musicbackend/internal/model"
	"github.com/mkkmani/musicbackend/internal/repository"
	"github.com/mkkmani/musicbackend/internal/service"
	"github.com/mkkmani/musicbackend/internal/validator"
)

// seed-students imports students from a CSV file with the header
// name,mobile,email,profile,password. Every row goes through the normal
// registration workflow, so duplicates are skipped rather than inserted.
func main() {
	var file string
	flag.StringVar(&file, "file", "students.csv", "CSV file to import")
	flag.Parse()

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	validator.Setup()

	f, err := os.Open(file)
	if err != nil {
		log.Fatal().Err(err).Str("file", file).Msg("Failed to open CSV")
	}
	defer f.Close()

	rows, err := parseStudents(f)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to parse CSV")
	}

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	hasher, err := service.NewPasswordHasher(cfg.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize password hasher")
	}
	studentService := service.NewStudentService(
		repository.NewStudentRepository(pool),
		hasher,
		service.NewAuthService(cfg),
		nil,
		log,
	)

	fmt.Printf("=== Seeding %d Students ===\n", len(rows))

	var created, skipped, failed int
	for i, row := range rows {
		line := i + 2 // header is line 1
		if fields := validator.Validate(&row); fields != nil {
			fmt.Printf("Line %d: invalid row %v\n", line, fields)
			failed++
			continue
		}

		_, err := studentService.Register(ctx, row)
		switch {
		case err == nil:
			created++
			if created%10 == 0 {
				fmt.Printf("Created %d students...\n", created)
			}
		case errors.Is(err, service.ErrConflict):
			fmt.Printf("Line %d: %s already registered, skipping\n", line, row.Email)
			skipped++
		default:
			fmt.Printf("Line %d: error creating %s: %v\n", line, row.Email, err)
			failed++
		}
	}

	fmt.Printf("\nSeed completed! created=%d skipped=%d failed=%d\n", created, skipped, failed)
}

var studentColumns = []string{"name", "mobile", "email", "profile", "password"}

// parseStudents reads registration requests from CSV. Columns are located by
// header name, so their order does not matter.
func parseStudents(r io.Reader) ([]model.RegisterPrincipalRequest, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, col := range header {
		index[strings.ToLower(strings.TrimSpace(col))] = i
	}
	for _, col := range studentColumns {
		if col == "profile" {
			continue
		}
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}

	get := func(record []string, col string) string {
		i, ok := index[col]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var rows []model.RegisterPrincipalRequest
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		rows = append(rows, model.RegisterPrincipalRequest{
			Name:     get(record, "name"),
			Mobile:   get(record, "mobile"),
			Email:    get(record, "email"),
			Profile:  get(record, "profile"),
			Password: get(record, "password"),
		})
	}
	return rows, nil
}
