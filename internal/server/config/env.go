package config

import (
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/clicon/internal/flagx"
	"github.com/joho/godotenv"
)

// parseEnv overlays values from environment variables. A .env file (or the
// file named by -env) is loaded first when present; variables already set in
// the process environment win over the file.
func parseEnv(config *Config) {
	if path := flagx.EnvFileFlag(); path != "" {
		if err := godotenv.Load(path); err != nil {
			panic(err)
		}
	} else {
		_ = godotenv.Load()
	}

	setString(&config.HTTPAddr, "HTTP_ADDR")
	setString(&config.GRPCAddr, "GRPC_ADDR")
	setString(&config.Storage, "STORAGE_BACKEND")
	setString(&config.MongoURI, "MONGODB_URI")
	setString(&config.DatabaseName, "DATABASE_NAME")
	setString(&config.DatabaseDSN, "DATABASE_DSN")
	setString(&config.SecretKey, "JWT_SECRET")
	setDuration(&config.AccessTokenValidityDuration, "ACCESS_TOKEN_TTL")
	setDuration(&config.PendingRegistrationTTL, "PENDING_REGISTRATION_TTL")
	setBool(&config.EnforcePendingExpiry, "ENFORCE_PENDING_EXPIRY")
	setString(&config.S3RootUser, "AWS_ACCESS_KEY_ID")
	setString(&config.S3RootPassword, "AWS_SECRET_ACCESS_KEY")
	setString(&config.S3Bucket, "AWS_BUCKET_NAME")
	setString(&config.S3Region, "AWS_REGION")
	setString(&config.S3BaseEndpoint, "S3_ENDPOINT")
	setString(&config.SMTPHost, "SMTP_HOST")
	setInt(&config.SMTPPort, "SMTP_PORT")
	setString(&config.SMTPUsername, "SMTP_USERNAME")
	setString(&config.SMTPPassword, "SMTP_PASSWORD")
	setString(&config.MailFrom, "MAIL_FROM")
	setString(&config.MailReplyTo, "MAIL_REPLY_TO")
	setString(&config.LogBackend, "LOG_BACKEND")
	setBool(&config.CookieSecure, "COOKIE_SECURE")
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
