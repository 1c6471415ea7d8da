// Package config loads environment variables and provides a typed Config used across the service.
// It applies sensible defaults so the bot can run locally with only a Telegram token.
// Use Validate to check credentials for the enabled platforms.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/onnwee/memerelay/content"
)

type Config struct {
	// Telegram
	TelegramToken string

	// Platform toggles
	ParsePikabu    bool
	ParseReddit    bool
	ParseX         bool
	ParsePinterest bool

	// Reddit API (client credentials)
	RedditClientID     string
	RedditClientSecret string
	RedditUserAgent    string

	// Outbound HTTP
	UserAgent      string
	AcceptLanguage string
	FetchTimeout   time.Duration
	MediaTimeout   time.Duration

	// Headless browser
	ChromeBin       string
	BrowserHeadless bool

	// Media
	TempDir           string
	FFmpegBin         string
	RemuxPassthrough  bool
	MaxConcurrentJobs int

	// Ops
	HTTPAddr string
}

// Load reads environment variables and applies defaults. It doesn't fail on
// missing credentials; call Validate before starting the bot.
func Load() (*Config, error) {
	cfg := &Config{}
	var err error

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")

	if cfg.ParsePikabu, err = envFlag("PARSE_PIKABU", true); err != nil {
		return nil, err
	}
	if cfg.ParseReddit, err = envFlag("PARSE_REDDIT", true); err != nil {
		return nil, err
	}
	if cfg.ParseX, err = envFlag("PARSE_X", true); err != nil {
		return nil, err
	}
	if cfg.ParsePinterest, err = envFlag("PARSE_PINTEREST", true); err != nil {
		return nil, err
	}

	cfg.RedditClientID = os.Getenv("REDDIT_CLIENT_ID")
	cfg.RedditClientSecret = os.Getenv("REDDIT_CLIENT_SECRET")
	cfg.RedditUserAgent = os.Getenv("REDDIT_USER_AGENT")
	if cfg.RedditUserAgent == "" {
		cfg.RedditUserAgent = "memerelay/1.0"
	}

	cfg.UserAgent = os.Getenv("HTTP_USER_AGENT")
	if cfg.UserAgent == "" {
		cfg.UserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
	}
	cfg.AcceptLanguage = os.Getenv("HTTP_ACCEPT_LANGUAGE")
	if cfg.AcceptLanguage == "" {
		cfg.AcceptLanguage = "en-US,en;q=0.9,ru;q=0.8"
	}
	if cfg.FetchTimeout, err = envDuration("FETCH_TIMEOUT", 20*time.Second); err != nil {
		return nil, err
	}
	if cfg.MediaTimeout, err = envDuration("MEDIA_TIMEOUT", 120*time.Second); err != nil {
		return nil, err
	}

	cfg.ChromeBin = os.Getenv("CHROME_BIN")
	if cfg.BrowserHeadless, err = envFlag("BROWSER_HEADLESS", true); err != nil {
		return nil, err
	}

	cfg.TempDir = os.Getenv("TEMP_DIR")
	if cfg.TempDir == "" {
		cfg.TempDir = filepath.Join(os.TempDir(), "memerelay")
	}
	cfg.FFmpegBin = os.Getenv("FFMPEG_BIN")
	if cfg.FFmpegBin == "" {
		cfg.FFmpegBin = "ffmpeg"
	}
	if cfg.RemuxPassthrough, err = envFlag("REMUX_PASSTHROUGH", true); err != nil {
		return nil, err
	}
	cfg.MaxConcurrentJobs = 4
	if s := os.Getenv("MAX_CONCURRENT_JOBS"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid MAX_CONCURRENT_JOBS %q", s)
		}
		cfg.MaxConcurrentJobs = n
	}

	cfg.HTTPAddr = os.Getenv("HTTP_ADDR")
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}

	return cfg, nil
}

// Enabled reports whether link handling for k is switched on.
func (c *Config) Enabled(k content.Kind) bool {
	switch k {
	case content.Pikabu:
		return c.ParsePikabu
	case content.Reddit:
		return c.ParseReddit
	case content.X:
		return c.ParseX
	case content.Pinterest:
		return c.ParsePinterest
	}
	return false
}

// EnabledKinds returns the enabled platforms in priority order.
func (c *Config) EnabledKinds() []content.Kind {
	var out []content.Kind
	for _, k := range content.Kinds {
		if c.Enabled(k) {
			out = append(out, k)
		}
	}
	return out
}

// Validate checks the credentials required by the enabled features.
func (c *Config) Validate() error {
	if c.TelegramToken == "" {
		return fmt.Errorf("missing TELEGRAM_TOKEN")
	}
	if c.ParseReddit && (c.RedditClientID == "" || c.RedditClientSecret == "") {
		return fmt.Errorf("reddit enabled: require REDDIT_CLIENT_ID and REDDIT_CLIENT_SECRET (or set PARSE_REDDIT=0)")
	}
	return nil
}

func envFlag(key string, def bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return b, nil
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s %q", key, v)
	}
	return d, nil
}
