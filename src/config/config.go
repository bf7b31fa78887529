package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
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

// GetGatewayTimeout bounds every call to the payment gateway. When the
// deadline fires the final intent status is unknown, so callers report a
// gateway error and never assume success.
func GetGatewayTimeout() time.Duration {
	raw := os.Getenv("GATEWAY_TIMEOUT_SECONDS")
	secs, err := strconv.Atoi(raw)
	if err != nil || secs <= 0 {
		return 15 * time.Second
	}
	return time.Duration(secs) * time.Second
}

const TIME_PARSE_FORMAT = "2006-01-02 15:04:05 -07:00"
