package cli

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Config holds CLI configuration
type Config struct {
	ServerURL  string
	PlayerID   string
	PlayerFile string
	Name       string
	Output     string
	Verbose    bool
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL:  getEnvOrDefault("GAMEROOM_SERVER", "http://localhost:8080"),
		PlayerID:   os.Getenv("GAMEROOM_PLAYER_ID"),
		PlayerFile: getEnvOrDefault("GAMEROOM_PLAYER_FILE", defaultPlayerFile()),
		Name:       getEnvOrDefault("GAMEROOM_NAME", "player"),
		Output:     "text",
		Verbose:    false,
	}
}

// LoadPlayerID loads the player ID from file, generating and saving a
// fresh one on first use so the same identity is reused across runs
func (c *Config) LoadPlayerID() error {
	if c.PlayerID != "" {
		return nil
	}

	data, err := os.ReadFile(c.PlayerFile)
	if err == nil && len(data) > 0 {
		c.PlayerID = string(data)
		return nil
	}
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	c.PlayerID = uuid.NewString()

	dir := filepath.Dir(c.PlayerFile)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}
	return os.WriteFile(c.PlayerFile, []byte(c.PlayerID), 0600)
}

func defaultPlayerFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".gameroom/player"
	}
	return filepath.Join(home, ".gameroom", "player")
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
