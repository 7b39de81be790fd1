package config

import (
	"fmt"
	"os"
)

func GetDSN() string {
	DATABASE_HOST := os.Getenv("DATABASE_HOST")
	DATABASE_PORT := os.Getenv("DATABASE_PORT")
	DATABASE_SSLMODE := os.Getenv("DATABASE_SSLMODE")
	DATABASE_TIMEZONE := os.Getenv("DATABASE_TIMEZONE")
	DATABASE_USER := os.Getenv("DATABASE_USER")
	DATABASE_PASSWORD := os.Getenv("DATABASE_PASSWORD")
	DATABASE_NAME := os.Getenv("DATABASE_NAME")
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s", DATABASE_HOST, DATABASE_USER, DATABASE_PASSWORD, DATABASE_NAME, DATABASE_PORT, DATABASE_SSLMODE, DATABASE_TIMEZONE)
	return dsn
}

const DATE_PARSE_FORMAT = "2006-01-02"

// TAX_RATE is the fixed receipt tax rate.
const TAX_RATE = 0.12

func GetBusinessName() string {
	if name := os.Getenv("BUSINESS_NAME"); name != "" {
		return name
	}
	return "Cater & Co. Catering Services"
}

func GetBusinessAddress() string {
	return os.Getenv("BUSINESS_ADDRESS")
}

func GetBusinessPhone() string {
	return os.Getenv("BUSINESS_PHONE")
}
