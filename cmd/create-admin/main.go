package main

import (
	"errors"
	"flag"
	"log"
	"os"
	"strings"

	"github.com/yourusername/survey-api/internal/config"
	"github.com/yourusername/survey-api/internal/domain/entity"
	apperrors "github.com/yourusername/survey-api/internal/pkg/errors"
	pgRepo "github.com/yourusername/survey-api/internal/repository/postgres"
	"github.com/yourusername/survey-api/pkg/database"
)

// Утилита первичной настройки: создает администратора, без которого
// вход и все защищенные маршруты недоступны.
//
//	go run ./cmd/create-admin -email admin@example.com -name "Админ" -password secret
func main() {
	email := flag.String("email", "", "email администратора (обязательно)")
	name := flag.String("name", "", "отображаемое имя (обязательно)")
	password := flag.String("password", "", "пароль; можно передать через ADMIN_PASSWORD")
	flag.Parse()

	if *password == "" {
		*password = os.Getenv("ADMIN_PASSWORD")
	}
	// Email хранится в каноническом виде — так же его нормализует вход
	*email = strings.ToLower(strings.TrimSpace(*email))
	if *email == "" || *name == "" || *password == "" {
		flag.Usage()
		log.Fatal("email, name и password обязательны")
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.MigrateDB(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	adminRepo := pgRepo.NewAdminRepo(db)

	if existing, err := adminRepo.GetByEmail(*email); err == nil {
		log.Fatalf("Администратор с email %s уже существует (ID=%d)", existing.Email, existing.ID)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		log.Fatalf("Failed to check existing admin: %v", err)
	}

	// Пароль хешируется bcrypt в хуке BeforeSave
	admin := &entity.Admin{
		Email:    *email,
		Name:     *name,
		Password: *password,
	}
	if err := adminRepo.Create(admin); err != nil {
		log.Fatalf("Failed to create admin: %v", err)
	}

	log.Printf("Администратор создан: ID=%d, email=%s", admin.ID, admin.Email)
}
