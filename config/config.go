package config

import (
	"os"

	"github.com/joho/godotenv"
)

// LoadEnv nạp biến môi trường từ tệp `.env`
func LoadEnv() error {
	return godotenv.Load()
}

// GetEnv đọc một biến môi trường
func GetEnv(key string) string {
	return os.Getenv(key)
}
