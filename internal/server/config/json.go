package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/clicon/internal/flagx"
	"github.com/dmitrijs2005/clicon/internal/timex"
)

// JsonConfig is the on-disk shape of the optional JSON config file. Duration
// fields accept either strings such as "5m" or integer nanoseconds.
//
// Only non-zero values are copied onto the runtime Config, so a partial file
// overrides just the keys it names.
type JsonConfig struct {
	HTTPAddr                    string         `json:"http_addr"`
	GRPCAddr                    string         `json:"grpc_addr"`
	Storage                     string         `json:"storage"`
	MongoURI                    string         `json:"mongo_uri"`
	DatabaseName                string         `json:"database_name"`
	DatabaseDSN                 string         `json:"database_dsn"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	PendingRegistrationTTL      timex.Duration `json:"pending_registration_ttl"`
	EnforcePendingExpiry        *bool          `json:"enforce_pending_expiry"`
	S3RootUser                  string         `json:"s3_root_user"`
	S3RootPassword              string         `json:"s3_root_password"`
	S3Bucket                    string         `json:"s3_bucket"`
	S3Region                    string         `json:"s3_region"`
	S3BaseEndpoint              string         `json:"s3_base_endpoint"`
	SMTPHost                    string         `json:"smtp_host"`
	SMTPPort                    int            `json:"smtp_port"`
	SMTPUsername                string         `json:"smtp_username"`
	SMTPPassword                string         `json:"smtp_password"`
	MailFrom                    string         `json:"mail_from"`
	MailReplyTo                 string         `json:"mail_reply_to"`
	LogBackend                  string         `json:"log_backend"`
	CookieSecure                *bool          `json:"cookie_secure"`
	MaxUploadSize               int64          `json:"max_upload_size"`
	DBTimeout                   timex.Duration `json:"db_timeout"`
	MailTimeout                 timex.Duration `json:"mail_timeout"`
	StorageTimeout              timex.Duration `json:"storage_timeout"`
}

// parseJson loads the file named by -c / -config, if any, and overlays its
// non-zero values onto config. It panics when the file cannot be read or
// is not valid JSON.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigFileFlag()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	c.apply(config)
}

func (c *JsonConfig) apply(config *Config) {
	overlay(&config.HTTPAddr, c.HTTPAddr)
	overlay(&config.GRPCAddr, c.GRPCAddr)
	overlay(&config.Storage, c.Storage)
	overlay(&config.MongoURI, c.MongoURI)
	overlay(&config.DatabaseName, c.DatabaseName)
	overlay(&config.DatabaseDSN, c.DatabaseDSN)
	overlay(&config.SecretKey, c.SecretKey)
	overlay(&config.AccessTokenValidityDuration, c.AccessTokenValidityDuration.Duration)
	overlay(&config.PendingRegistrationTTL, c.PendingRegistrationTTL.Duration)
	if c.EnforcePendingExpiry != nil {
		config.EnforcePendingExpiry = *c.EnforcePendingExpiry
	}
	overlay(&config.S3RootUser, c.S3RootUser)
	overlay(&config.S3RootPassword, c.S3RootPassword)
	overlay(&config.S3Bucket, c.S3Bucket)
	overlay(&config.S3Region, c.S3Region)
	overlay(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	overlay(&config.SMTPHost, c.SMTPHost)
	overlay(&config.SMTPPort, c.SMTPPort)
	overlay(&config.SMTPUsername, c.SMTPUsername)
	overlay(&config.SMTPPassword, c.SMTPPassword)
	overlay(&config.MailFrom, c.MailFrom)
	overlay(&config.MailReplyTo, c.MailReplyTo)
	overlay(&config.LogBackend, c.LogBackend)
	if c.CookieSecure != nil {
		config.CookieSecure = *c.CookieSecure
	}
	overlay(&config.MaxUploadSize, c.MaxUploadSize)
	overlay(&config.DBTimeout, c.DBTimeout.Duration)
	overlay(&config.MailTimeout, c.MailTimeout.Duration)
	overlay(&config.StorageTimeout, c.StorageTimeout.Duration)
}

func overlay[T comparable](dst *T, v T) {
	var zero T
	if v != zero {
		*dst = v
	}
}
