package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort string
	BaseURL    string

	DatabaseDSN string

	KafkaBroker         string
	KafkaTopic          string
	KafkaReconcileTopic string
	KafkaGroupID        string
	KafkaUsername       string
	KafkaPassword       string

	CloudinaryURL string

	IdentityBaseURL    string
	IdentityServiceKey string

	ResendAPIKey string
	MailFrom     string
	MailFromName string
	ClubInbox    string

	AccessSecret string
}

func LoadConfig() Config {
	if os.Getenv("ENV") != "prod" {
		if err := godotenv.Overload(); err != nil {
			log.Println("Warning: .env not loaded:", err)
		}
	}

	return Config{
		ServerPort: os.Getenv("SERVER_PORT"),
		BaseURL:    os.Getenv("BASE_URL"),

		DatabaseDSN: os.Getenv("DATABASE_DSN"),

		KafkaBroker:         os.Getenv("KAFKA_BROKER"),
		KafkaTopic:          os.Getenv("KAFKA_TOPIC"),
		KafkaReconcileTopic: os.Getenv("KAFKA_RECONCILE_TOPIC"),
		KafkaGroupID:        os.Getenv("KAFKA_GROUP_ID"),
		KafkaUsername:       os.Getenv("KAFKA_USERNAME"),
		KafkaPassword:       os.Getenv("KAFKA_PASSWORD"),

		CloudinaryURL: os.Getenv("CLOUDINARY_URL"),

		IdentityBaseURL:    os.Getenv("IDENTITY_BASE_URL"),
		IdentityServiceKey: os.Getenv("IDENTITY_SERVICE_KEY"),

		ResendAPIKey: os.Getenv("RESEND_API_KEY"),
		MailFrom:     os.Getenv("MAIL_FROM"),
		MailFromName: os.Getenv("MAIL_FROM_NAME"),
		ClubInbox:    os.Getenv("CLUB_INBOX"),

		AccessSecret: os.Getenv("ACCESS_SECRET"),
	}
}
