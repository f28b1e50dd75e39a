package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"syscall"

	"github.com/mkkmani/musicbackend/internal/config"
	"github.com/mkkmani/musicbackend/internal/database"
	"github.com/mkkmani/musicbackend/internal/logger"
	"github.com/mkkmani/musicbackend/internal/model"
	"github.com/mkkmani/musicbackend/internal/repository"
	"github.com/mkkmani/musicbackend/internal/service"
	"github.com/mkkmani/musicbackend/internal/validator"
	"golang.org/x/term"
)

// create-admin registers an administrator directly against the database.
// It is the out-of-band path for creating the first admin, since the
// /add-admin endpoint itself requires an admin token.
func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	validator.Setup()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Initialize Service ────────────────────────────────────────────
	hasher, err := service.NewPasswordHasher(cfg.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize password hasher")
	}
	adminService := service.NewAdminService(
		repository.NewAdminRepository(pool),
		hasher,
		service.NewAuthService(cfg),
		nil,
		log,
	)

	// ─── CLI Input ─────────────────────────────────────────────────────
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Create New Admin User ===")

	name := prompt(reader, "Enter Name: ")
	mobile := prompt(reader, "Enter Mobile: ")
	email := prompt(reader, "Enter Email: ")
	profile := prompt(reader, "Enter Profile (optional): ")

	fmt.Print("Enter Password: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		fmt.Println("\nError reading password")
		return
	}
	fmt.Println() // Newline after password input

	req, fields := newAdminRequest(name, mobile, email, profile, string(bytePassword))
	if fields != nil {
		for _, field := range sortedKeys(fields) {
			fmt.Printf("Error: %s\n", fields[field])
		}
		os.Exit(1)
	}

	// ─── Logic ─────────────────────────────────────────────────────────
	admin, err := adminService.Register(ctx, req)
	if err != nil {
		if errors.Is(err, service.ErrConflict) {
			fmt.Println("Error: An admin with this mobile or email already exists")
			os.Exit(1)
		}
		log.Fatal().Err(err).Msg("Failed to create admin")
	}

	fmt.Printf("\nSuccess! Admin '%s' (%s) created with ID: %d\n", admin.Name, admin.Email, admin.ID)
}

// newAdminRequest builds the registration payload from prompt answers and
// checks it against the same rules as /add-admin. fields is nil when valid.
func newAdminRequest(name, mobile, email, profile, password string) (model.RegisterPrincipalRequest, map[string]string) {
	req := model.RegisterPrincipalRequest{
		Name:     name,
		Mobile:   mobile,
		Email:    email,
		Profile:  profile,
		Password: password,
	}
	req.Normalize()
	return req, validator.Validate(&req)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func prompt(reader *bufio.Reader, label string) string {
	fmt.Print(label)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}
