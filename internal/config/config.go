package config

import (
	"os"
	"path/filepath"
	"strconv"
)

// Config holds all runtime configuration, loaded from environment variables.
type Config struct {
	// Server
	Port int

	// Resource catalog
	CatalogPath string

	// Playback
	LocalPlayback bool // also play on the default audio device via portaudio

	// Narration provider (text-to-speech)
	TTSEndpoint    string
	TTSLanguage    string
	TTSVoice       string
	TTSPitch       float64
	TTSRate        float64
	CredentialPath string // persisted provider credential

	// Logging
	LogLevel  string
	LogFormat string
}

// Load reads configuration from environment variables with sane defaults.
func Load() Config {
	return Config{
		Port: envInt("STORYDECK_PORT", 8080),

		CatalogPath: envStr("STORYDECK_CATALOG", "catalog.yaml"),

		LocalPlayback: envBool("STORYDECK_LOCAL_PLAYBACK", false),

		TTSEndpoint:    envStr("STORYDECK_TTS_ENDPOINT", "https://texttospeech.googleapis.com"),
		TTSLanguage:    envStr("STORYDECK_TTS_LANGUAGE", "en-GB"),
		TTSVoice:       envStr("STORYDECK_TTS_VOICE", "en-GB-Wavenet-B"),
		TTSPitch:       envFloat("STORYDECK_TTS_PITCH", -2.0),
		TTSRate:        envFloat("STORYDECK_TTS_RATE", 0.95),
		CredentialPath: envStr("STORYDECK_CREDENTIAL_PATH", DefaultCredentialPath()),

		LogLevel:  envStr("STORYDECK_LOG_LEVEL", "info"),
		LogFormat: envStr("STORYDECK_LOG_FORMAT", "console"),
	}
}

// DefaultCredentialPath is the well-known location of the persisted
// provider credential.
func DefaultCredentialPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", ".storydeck-credential")
	}
	return filepath.Join(dir, "storydeck", "credential")
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
