package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type APIConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout string `yaml:"timeout"`
}

type CacheConfig struct {
	Dir string `yaml:"dir"`
}

type OTPConfig struct {
	Length       int    `yaml:"length"`
	ResendWindow string `yaml:"resend_window"`
}

type OAuthConfig struct {
	CallbackAddr string `yaml:"callback_addr"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type ConfigFile struct {
	API   APIConfig   `yaml:"api"`
	Cache CacheConfig `yaml:"cache"`
	OTP   OTPConfig   `yaml:"otp"`
	OAuth OAuthConfig `yaml:"oauth"`
	Log   LogConfig   `yaml:"log"`
}

type Config struct {
	APIBaseURL        string
	APITimeout        time.Duration
	CacheDir          string
	OTPLength         int
	OTPResendWindow   time.Duration
	OAuthCallbackAddr string
	LogLevel          string
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// Load reads config/config.yml when present and falls back to environment
// variables and defaults otherwise, so the client runs with zero setup.
func Load() (*Config, error) {
	return LoadFrom("config/config.yml")
}

// LoadFrom loads configuration from an explicit file path.
func LoadFrom(path string) (*Config, error) {
	configFile, err := loadConfigFile(path)
	if err != nil {
		// A missing file is fine; env and defaults carry the client.
		if !os.IsNotExist(err) {
			return nil, err
		}
		configFile = &ConfigFile{}
	}

	timeout, err := parseDuration(configFile.API.Timeout, env("URBANSTAY_API_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid api timeout: %w", err)
	}

	resendWindow, err := parseDuration(configFile.OTP.ResendWindow, env("URBANSTAY_OTP_RESEND_WINDOW", "60s"))
	if err != nil {
		return nil, fmt.Errorf("invalid otp resend window: %w", err)
	}

	otpLength := configFile.OTP.Length
	if otpLength == 0 {
		otpLength = 4
	}

	cacheDir := configFile.Cache.Dir
	if cacheDir == "" {
		cacheDir = env("URBANSTAY_CACHE_DIR", defaultCacheDir())
	}

	baseURL := configFile.API.BaseURL
	if baseURL == "" {
		baseURL = env("URBANSTAY_API_URL", "http://localhost:5000/api")
	}

	callbackAddr := configFile.OAuth.CallbackAddr
	if callbackAddr == "" {
		callbackAddr = env("URBANSTAY_OAUTH_CALLBACK", "127.0.0.1:8917")
	}

	logLevel := configFile.Log.Level
	if logLevel == "" {
		logLevel = env("URBANSTAY_LOG_LEVEL", "info")
	}

	return &Config{
		APIBaseURL:        baseURL,
		APITimeout:        timeout,
		CacheDir:          cacheDir,
		OTPLength:         otpLength,
		OTPResendWindow:   resendWindow,
		OAuthCallbackAddr: callbackAddr,
		LogLevel:          logLevel,
	}, nil
}

func loadConfigFile(path string) (*ConfigFile, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config ConfigFile
	if err := yaml.Unmarshal(bytes, &config); err != nil {
		return nil, fmt.Errorf("could not parse config yaml: %w", err)
	}

	return &config, nil
}

func parseDuration(fromFile, fallback string) (time.Duration, error) {
	s := fromFile
	if s == "" {
		s = fallback
	}
	return time.ParseDuration(s)
}

func defaultCacheDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ".urbanstay"
	}
	return filepath.Join(base, "urbanstay")
}
