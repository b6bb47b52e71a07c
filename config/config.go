package config

import (
	"fmt"
	"log"

	"github.com/caarlos0/env/v11"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/lkoehl/threesixty-server/models"
)

var DB *gorm.DB

// Settings is populated from the environment once at startup.
type Settings struct {
	Port    string `env:"PORT" envDefault:"8080"`
	BaseURL string `env:"BASE_URL" envDefault:"http://localhost:8080"`

	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"postgres"`
	DBPassword string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME" envDefault:"threesixty"`

	TokenSecret   string `env:"TOKEN_SECRET,required"`
	TokenTTLHours int    `env:"TOKEN_TTL_HOURS" envDefault:"0"` // 0 = links never expire

	AdminKeyHash string `env:"ADMIN_KEY_HASH"`

	MailProvider string `env:"MAIL_PROVIDER" envDefault:"smtp"` // smtp | resend
	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     string `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser     string `env:"SMTP_USER"`
	SMTPPassword string `env:"SMTP_PASS"`
	ResendAPIKey string `env:"RESEND_API_KEY"`
}

var Env Settings

// LoadSettings parses the environment into Env.
func LoadSettings() error {
	return env.Parse(&Env)
}

// ConnectDB opens the PostgreSQL connection and migrates the schema.
func ConnectDB() {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		Env.DBHost, Env.DBUser, Env.DBPassword, Env.DBName, Env.DBPort)

	// TranslateError turns driver unique violations into gorm.ErrDuplicatedKey,
	// which the answer and participant handlers rely on.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	if err := Migrate(db); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	DB = db
	log.Println("Connected to PostgreSQL & migrated successfully")
}

// Migrate creates or updates the schema for all models.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Survey{},
		&models.Question{},
		&models.Participant{},
		&models.Answer{},
		&models.ExportJob{},
	)
}
