package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type Config struct {
	APIBaseURL      string
	CacheDir        string
	DBPath          string
	LogPath         string
	RequestTimeout  time.Duration
	ProfileTimeout  time.Duration
	PostListTTL     time.Duration
	PostTTL         time.Duration
	RestoreProfile  bool
	VerifyOnRestore bool
}

func Default() Config {
	cacheDir := filepath.Join(userConfigDir(), "quill")
	return Config{
		APIBaseURL:     "http://localhost:8000/api/v1",
		CacheDir:       cacheDir,
		DBPath:         filepath.Join(cacheDir, "quill.db"),
		LogPath:        filepath.Join(cacheDir, "debug.log"),
		RequestTimeout: 10 * time.Second,
		ProfileTimeout: 5 * time.Second,
		PostListTTL:    60 * time.Second,
		PostTTL:        5 * time.Minute,
	}
}

// FromEnv returns Default with QUILL_* environment overrides applied.
func FromEnv() Config {
	cfg := Default()
	if v := os.Getenv("QUILL_API_URL"); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv("QUILL_CACHE_DIR"); v != "" {
		cfg.CacheDir = v
		cfg.DBPath = filepath.Join(v, "quill.db")
		cfg.LogPath = filepath.Join(v, "debug.log")
	}
	cfg.RestoreProfile = envBool("QUILL_RESTORE_PROFILE", cfg.RestoreProfile)
	cfg.VerifyOnRestore = envBool("QUILL_VERIFY_SESSION", cfg.VerifyOnRestore)
	return cfg
}

func envBool(name string, def bool) bool {
	v, ok := os.LookupEnv(name)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func userConfigDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config")
}
