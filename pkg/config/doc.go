// Package config loads typed configuration from environment variables and
// optional dotenv files using caarlos0/env struct tags and joho/godotenv.
package config
