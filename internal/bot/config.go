package bot

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/example/fransbot/internal/database"
	"github.com/example/fransbot/internal/scheduler"
)

// Config represents the configuration for the bot
type Config struct {
	Token        string
	AdminUserIDs map[int64]bool

	Database database.Config
	// Optional spreadsheet loaded into the item table at startup
	DataFile string

	ExcludePrevious  bool
	StrictWhitespace bool

	EnableScheduler       bool
	NotificationStartHour int
	NotificationEndHour   int
	// Hour used when /notify on is sent without one
	DefaultNotificationHour int

	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string
}

// DefaultConfig returns the default bot configuration
func DefaultConfig() *Config {
	return &Config{
		AdminUserIDs:            make(map[int64]bool),
		Database:                database.Config{Type: database.TypeSQLite},
		EnableScheduler:         true,
		NotificationStartHour:   scheduler.DefaultNotificationStartHour,
		NotificationEndHour:     scheduler.DefaultNotificationEndHour,
		DefaultNotificationHour: 9,
	}
}

// LoadConfig reads the configuration from environment variables on top of the defaults
func LoadConfig() (*Config, error) {
	config := DefaultConfig()

	config.Token = os.Getenv("TELEGRAM_BOT_TOKEN")
	config.AdminUserIDs = parseAdminIDs(os.Getenv("ADMIN_USER_IDS"))

	if v := os.Getenv("DB_TYPE"); v != "" {
		config.Database.Type = v
	}
	config.Database.Path = os.Getenv("DB_PATH")
	config.Database.URL = os.Getenv("DATABASE_URL")
	config.DataFile = os.Getenv("DATA_FILE")

	config.ExcludePrevious = envBool("EXCLUDE_PREVIOUS", false)
	config.StrictWhitespace = envBool("STRICT_WHITESPACE", false)
	config.EnableScheduler = os.Getenv("ENABLE_SCHEDULER") != "false"

	var err error
	if config.NotificationStartHour, err = envHour("NOTIFICATION_START_HOUR", config.NotificationStartHour); err != nil {
		return nil, err
	}
	if config.NotificationEndHour, err = envHour("NOTIFICATION_END_HOUR", config.NotificationEndHour); err != nil {
		return nil, err
	}
	if config.NotificationStartHour > config.NotificationEndHour {
		return nil, fmt.Errorf("notification window %d-%d is empty", config.NotificationStartHour, config.NotificationEndHour)
	}

	config.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	config.OpenAIModel = os.Getenv("OPENAI_MODEL")
	config.OpenAIBaseURL = os.Getenv("OPENAI_BASE_URL")

	return config, nil
}

// Validate checks the settings needed to talk to Telegram
func (c *Config) Validate() error {
	if c.Token == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable is not set")
	}
	return nil
}

func parseAdminIDs(s string) map[int64]bool {
	ids := make(map[int64]bool)
	if s == "" {
		return ids
	}
	for _, idStr := range strings.Split(s, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(idStr), 10, 64)
		if err != nil {
			log.Printf("Warning: Invalid admin user ID: %s", idStr)
			continue
		}
		ids[id] = true
	}
	return ids
}

func envBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("Warning: Invalid boolean for %s: %s", key, v)
		return def
	}
	return b
}

func envHour(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	hour, err := strconv.Atoi(v)
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return hour, nil
}
