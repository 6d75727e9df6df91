// seed prepara una base recién migrada: crea el administrador de plataforma y, opcionalmente,
// una empresa con sus categorías de gasto por defecto.
//
// Uso: go run ./cmd/seed <email-admin> [codigo-empresa nombre-empresa]
// La contraseña se lee de SEED_ADMIN_PASSWORD. Volver a correrlo no duplica datos.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Gastos-api/internal/domain"
	"github.com/jhoicas/Gastos-api/internal/domain/entity"
	"github.com/jhoicas/Gastos-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Gastos-api/pkg/config"
)

var defaultCategories = []string{
	"Travel - Airfare",
	"Travel - Train/Bus",
	"Travel - Taxi/Cab",
	"Lodging/Hotel",
	"Food & Meals",
	"Client Entertainment",
	"Office Supplies",
	"Phone/Internet",
	"Miscellaneous",
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "uso: seed <email-admin> [codigo-empresa nombre-empresa]")
		os.Exit(2)
	}
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if len(password) < 8 {
		fmt.Fprintln(os.Stderr, "SEED_ADMIN_PASSWORD es obligatoria (mínimo 8 caracteres)")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cargar configuración:", err)
		os.Exit(1)
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintln(os.Stderr, "conexión a PostgreSQL:", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := seedPlatformAdmin(ctx, postgres.NewUserRepository(pool), os.Args[1], password); err != nil {
		fmt.Fprintln(os.Stderr, "administrador de plataforma:", err)
		os.Exit(1)
	}

	if len(os.Args) >= 4 {
		companies := postgres.NewCompanyRepository(pool)
		categories := postgres.NewCategoryRepository(pool)
		companyID, err := seedCompany(ctx, companies, os.Args[2], strings.Join(os.Args[3:], " "))
		if err != nil {
			fmt.Fprintln(os.Stderr, "empresa:", err)
			os.Exit(1)
		}
		if err := seedCategories(ctx, categories, companyID); err != nil {
			fmt.Fprintln(os.Stderr, "categorías:", err)
			os.Exit(1)
		}
	}
}

func seedPlatformAdmin(ctx context.Context, users *postgres.UserRepo, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	existing, err := users.GetByEmail(ctx, "", email)
	if err != nil {
		return err
	}
	if existing != nil {
		fmt.Printf("administrador %s ya existe\n", email)
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	err = users.Create(ctx, &entity.User{
		ID:           uuid.New().String(),
		FullName:     "Platform Admin",
		Email:        email,
		PasswordHash: string(hash),
		Roles:        []string{entity.RolePlatformAdmin},
		CreatedAt:    time.Now(),
	})
	if err != nil {
		return err
	}
	fmt.Printf("administrador %s creado\n", email)
	return nil
}

func seedCompany(ctx context.Context, companies *postgres.CompanyRepo, code, name string) (string, error) {
	code = entity.NormalizeCompanyCode(code)
	if !entity.ValidCompanyCode(code) {
		return "", fmt.Errorf("código %q inválido (A-Z, 0-9, _ y -)", code)
	}
	existing, err := companies.GetByCode(ctx, code)
	if err != nil {
		return "", err
	}
	if existing != nil {
		fmt.Printf("empresa %s ya existe\n", code)
		return existing.ID, nil
	}
	c := &entity.Company{ID: uuid.New().String(), Name: strings.TrimSpace(name), Code: code, CreatedAt: time.Now()}
	if err := companies.Create(ctx, c); err != nil {
		return "", err
	}
	fmt.Printf("empresa %s creada\n", code)
	return c.ID, nil
}

func seedCategories(ctx context.Context, categories *postgres.CategoryRepo, companyID string) error {
	for _, name := range defaultCategories {
		err := categories.Create(ctx, &entity.ExpenseCategory{
			ID: uuid.New().String(), CompanyID: companyID, Name: name, IsActive: true, CreatedAt: time.Now(),
		})
		switch {
		case errors.Is(err, domain.ErrDuplicate):
			fmt.Printf("  categoría ya existe: %s\n", name)
		case err != nil:
			return err
		default:
			fmt.Printf("  categoría creada: %s\n", name)
		}
	}
	return nil
}
