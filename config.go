package main

import (
	"os"
	"time"
)

// loadConfig reads the service configuration from the environment.
// A .env file, if present, must be loaded before calling it.
func loadConfig() Config {
	return Config{
		Port:                   getEnvString("PORT", "8080"),
		IsProduction:           os.Getenv("GIN_MODE") == "release" || os.Getenv("ENV") == "production",
		WordListPath:           getEnvString("WORDLIST_PATH", "data/br-5-letras.txt"),
		LexiconDB:              os.Getenv("LEXICON_DB"),
		LexiconPath:            os.Getenv("LEXICON_PATH"),
		WatchWordList:          getEnvBool("WORDLIST_WATCH", true),
		SessionTimeout:         getEnvDuration("SESSION_TIMEOUT", 2*time.Hour),
		SessionCleanupInterval: getEnvDuration("SESSION_CLEANUP_INTERVAL", 10*time.Minute),
		CookieMaxAge:           getEnvDuration("COOKIE_MAX_AGE", 2*time.Hour),
		RateLimitRPS:           getEnvInt("RATE_LIMIT_RPS", 5),
		RateLimitBurst:         getEnvInt("RATE_LIMIT_BURST", 10),
	}
}
