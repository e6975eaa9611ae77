package config

import (
	"os"
)

type Config struct {
	DBHost          string
	DBPort          string
	DBUser          string
	DBPassword      string
	DBName          string
	RedisHost       string
	RedisPort       string
	SessionSecret   string
	GinMode         string
	MailDomain      string
	AdminEmail      string
	AdminPassword   string
	DefaultPassword string
	RecoveryCode    string
}

func Load() *Config {
	return &Config{
		DBHost:          getEnv("DB_HOST", "localhost"),
		DBPort:          getEnv("DB_PORT", "3306"),
		DBUser:          getEnv("DB_USER", "workunit"),
		DBPassword:      getEnv("DB_PASSWORD", "workunit"),
		DBName:          getEnv("DB_NAME", "workunit"),
		RedisHost:       getEnv("REDIS_HOST", "localhost"),
		RedisPort:       getEnv("REDIS_PORT", "6379"),
		SessionSecret:   getEnv("SESSION_SECRET", "default-secret-key-change-me"),
		GinMode:         getEnv("GIN_MODE", "debug"),
		MailDomain:      getEnv("MAIL_DOMAIN", "gdt.gov.vn"),
		AdminEmail:      getEnv("ADMIN_EMAIL", "admin@gdt.gov.vn"),
		AdminPassword:   getEnv("ADMIN_PASSWORD", "admin@2025"),
		DefaultPassword: getEnv("DEFAULT_PASSWORD", "123456"),
		RecoveryCode:    getEnv("RECOVERY_CODE", "GDT-RESET-2025"),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
