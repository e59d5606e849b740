package config

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/argon2"
	"gopkg.in/yaml.v3"

	"bloop/internal/domain"
)

// DefaultPath is the config file used when neither --config nor
// BLOOP_CONFIG is given.
const DefaultPath = "bloop.yaml"

// OnboardingVersion is stamped into the profile when a run completes.
const OnboardingVersion = 1

// Config is the top-level application configuration.
type Config struct {
	Onboarding OnboardingConfig `yaml:"onboarding"`
	Remote     RemoteConfig     `yaml:"remote"`
	Profile    domain.Profile   `yaml:"profile"`
	Logger     LoggerConfig     `yaml:"logger"`
	Tracer     TracerConfig     `yaml:"tracer"`
	Includes   []string         `yaml:"includes,omitempty"`
}

// OnboardingConfig controls the first-run wizard.
type OnboardingConfig struct {
	// SelfServe collapses the wizard to the single self-serve notice.
	SelfServe bool `yaml:"self_serve"`
	// ClampCursor keeps the cursor within the step path.
	ClampCursor bool `yaml:"clamp_cursor"`
	// SkipFeatures jumps from the data form straight past the feature tour.
	SkipFeatures bool `yaml:"skip_features"`
	// IndexFolder pre-fills the folder step.
	IndexFolder string `yaml:"index_folder"`
	// ScanDepth bounds the local repository walk.
	ScanDepth int `yaml:"scan_depth"`
	// HookTimeout bounds each remote or scanner call made by a step.
	HookTimeout time.Duration `yaml:"hook_timeout"`
}

// RemoteConfig holds code-hosting account settings.
type RemoteConfig struct {
	Provider string   `yaml:"provider"` // "github"
	Token    string   `yaml:"token,omitempty"`
	Account  string   `yaml:"account,omitempty"`
	Repos    []string `yaml:"repos,omitempty"`
	// ConnectPerMinute limits token submissions on the connect step.
	ConnectPerMinute int           `yaml:"connect_per_minute"`
	Breaker          BreakerConfig `yaml:"breaker"`
}

// BreakerConfig configures the circuit breaker around remote calls.
type BreakerConfig struct {
	MaxFailures uint32        `yaml:"max_failures"`
	Timeout     time.Duration `yaml:"timeout"`
	Interval    time.Duration `yaml:"interval"`
}

// LoggerConfig holds logging settings.
type LoggerConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// TracerConfig holds tracing settings.
type TracerConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Exporter string `yaml:"exporter"`
	Endpoint string `yaml:"endpoint"`
}

// defaultStateDir returns $HOME/.bloop, or ".bloop" if $HOME cannot be
// determined.
func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".bloop"
	}
	return filepath.Join(home, ".bloop")
}

// Defaults returns a Config with sensible defaults.
func Defaults() *Config {
	indexFolder, err := os.UserHomeDir()
	if err != nil {
		indexFolder = "."
	}
	return &Config{
		Onboarding: OnboardingConfig{
			IndexFolder: indexFolder,
			ScanDepth:   3,
			HookTimeout: 15 * time.Second,
		},
		Remote: RemoteConfig{
			Provider:         "github",
			ConnectPerMinute: 6,
			Breaker: BreakerConfig{
				MaxFailures: 3,
				Timeout:     30 * time.Second,
				Interval:    60 * time.Second,
			},
		},
		Logger: LoggerConfig{
			Level:  "info",
			Format: "text",
			Output: filepath.Join(defaultStateDir(), "bloop.log"),
		},
		Tracer: TracerConfig{
			Enabled:  false,
			Exporter: "noop",
		},
	}
}

// Load reads a YAML config file, applies env var overrides, and decrypts secrets.
// A missing file is not an error: defaults plus overrides are returned.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			ApplyEnvOverrides(cfg)
			if err := Validate(cfg); err != nil {
				return nil, err
			}
			return cfg, nil
		}
		return nil, domain.NewDomainError("config.Load", domain.ErrConfigLoad, err.Error())
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}

	if err := validatePermissions(absPath); err != nil {
		return nil, err
	}

	// First pass: unmarshal to get the includes list.
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, domain.NewDomainError("config.Load", domain.ErrConfigLoad, "parse: "+err.Error())
	}

	if len(cfg.Includes) > 0 {
		visited := map[string]bool{absPath: true}
		if err := processIncludes(cfg, filepath.Dir(absPath), visited, 0); err != nil {
			return nil, err
		}

		// Second pass: the main file takes precedence over includes.
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config (second pass): %w", err)
		}
		cfg.Includes = nil
	}

	ApplyEnvOverrides(cfg)

	if passphrase := os.Getenv("BLOOP_CONFIG_KEY"); passphrase != "" {
		if err := decryptSecrets(cfg, passphrase); err != nil {
			return nil, fmt.Errorf("decrypt secrets: %w", err)
		}
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ApplyEnvOverrides maps BLOOP_* env vars to config fields.
func ApplyEnvOverrides(cfg *Config) {
	if v, ok := envBool("BLOOP_SELF_SERVE"); ok {
		cfg.Onboarding.SelfServe = v
	}
	if v, ok := envBool("BLOOP_CLAMP_CURSOR"); ok {
		cfg.Onboarding.ClampCursor = v
	}
	if v, ok := envBool("BLOOP_SKIP_FEATURES"); ok {
		cfg.Onboarding.SkipFeatures = v
	}
	if v := os.Getenv("BLOOP_INDEX_FOLDER"); v != "" {
		cfg.Onboarding.IndexFolder = v
	}
	if v := os.Getenv("BLOOP_SCAN_DEPTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Onboarding.ScanDepth = n
		}
	}
	if v := os.Getenv("BLOOP_HOOK_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Onboarding.HookTimeout = d
		}
	}
	if v := os.Getenv("BLOOP_GITHUB_TOKEN"); v != "" {
		cfg.Remote.Token = v
	}
	if v := os.Getenv("BLOOP_GITHUB_REPOS"); v != "" {
		cfg.Remote.Repos = splitAndTrim(v, ",")
	}
	if v := os.Getenv("BLOOP_LOGGER_LEVEL"); v != "" {
		cfg.Logger.Level = v
	}
	if v := os.Getenv("BLOOP_LOGGER_OUTPUT"); v != "" {
		cfg.Logger.Output = v
	}
	if v := os.Getenv("BLOOP_TRACER_ENABLED"); v == "true" {
		cfg.Tracer.Enabled = true
	}
	if v := os.Getenv("BLOOP_TRACER_EXPORTER"); v != "" {
		cfg.Tracer.Exporter = v
	}
	if v := os.Getenv("BLOOP_TRACER_ENDPOINT"); v != "" {
		cfg.Tracer.Endpoint = v
	}
}

func envBool(key string) (bool, bool) {
	v := os.Getenv(key)
	if v == "" {
		return false, false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, false
	}
	return b, true
}

// splitAndTrim splits s by sep, trims whitespace and drops empty elements.
func splitAndTrim(s, sep string) []string {
	parts := strings.Split(s, sep)
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// decryptSecrets replaces an "enc:..." remote token with its plaintext.
func decryptSecrets(cfg *Config, passphrase string) error {
	if !strings.HasPrefix(cfg.Remote.Token, "enc:") {
		return nil
	}
	decrypted, err := DecryptValue(strings.TrimPrefix(cfg.Remote.Token, "enc:"), passphrase)
	if err != nil {
		return fmt.Errorf("remote token: %w", err)
	}
	cfg.Remote.Token = decrypted
	return nil
}

// Save validates cfg and writes it to path with 0600 permissions. When
// BLOOP_CONFIG_KEY is set the remote token is stored encrypted.
func Save(cfg *Config, path string) error {
	if err := Validate(cfg); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	out := *cfg
	if passphrase := os.Getenv("BLOOP_CONFIG_KEY"); passphrase != "" && out.Remote.Token != "" &&
		!strings.HasPrefix(out.Remote.Token, "enc:") {
		enc, err := EncryptValue(out.Remote.Token, passphrase)
		if err != nil {
			return domain.WrapOp("config.Save", err)
		}
		out.Remote.Token = "enc:" + enc
	}

	data, err := yaml.Marshal(&out)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// EncryptValue encrypts a plaintext value with AES-256-GCM using a passphrase.
func EncryptValue(plaintext, passphrase string) (string, error) {
	salt := make([]byte, 16)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("%w: generate salt: %v", domain.ErrEncryption, err)
	}

	gcm, err := newGCM(passphrase, salt)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrEncryption, err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("%w: generate nonce: %v", domain.ErrEncryption, err)
	}

	ciphertext := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	// Format: hex(salt) + ":" + hex(nonce+ciphertext)
	return hex.EncodeToString(salt) + ":" + hex.EncodeToString(ciphertext), nil
}

// DecryptValue decrypts a value produced by EncryptValue.
func DecryptValue(encrypted, passphrase string) (string, error) {
	parts := strings.SplitN(encrypted, ":", 2)
	if len(parts) != 2 {
		return "", fmt.Errorf("%w: invalid encrypted format", domain.ErrDecryption)
	}

	salt, err := hex.DecodeString(parts[0])
	if err != nil {
		return "", fmt.Errorf("%w: decode salt: %v", domain.ErrDecryption, err)
	}

	data, err := hex.DecodeString(parts[1])
	if err != nil {
		return "", fmt.Errorf("%w: decode ciphertext: %v", domain.ErrDecryption, err)
	}

	gcm, err := newGCM(passphrase, salt)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrDecryption, err)
	}

	nonceSize := gcm.NonceSize()
	if len(data) < nonceSize {
		return "", fmt.Errorf("%w: ciphertext too short", domain.ErrDecryption)
	}

	nonce, ciphertext := data[:nonceSize], data[nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrDecryption, err)
	}

	return string(plaintext), nil
}

func newGCM(passphrase string, salt []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(deriveKey(passphrase, salt))
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}
	return gcm, nil
}

// deriveKey uses Argon2id to derive a 32-byte key from passphrase + salt.
func deriveKey(passphrase string, salt []byte) []byte {
	return argon2.IDKey([]byte(passphrase), salt, 1, 64*1024, 4, 32)
}

// validatePermissions checks the config file has restrictive permissions.
func validatePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat config: %w", err)
	}
	mode := info.Mode().Perm()
	// Allow 0600 and 0644 (readable by others but not writable)
	if mode&0o077 > 0o044 {
		return fmt.Errorf("config file %s has insecure permissions %o (want 0600 or 0644)", path, mode)
	}
	return nil
}
