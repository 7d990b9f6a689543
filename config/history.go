package config

import (
	"fmt"

	"github.com/agendex/agendex/infra/history"
)

// HistoryConfig defines where run records are persisted.
type HistoryConfig struct {
	// Backend selects the store type: "none", "jsonl" or "clickhouse".
	Backend string `json:"backend"`
	// Path is the file location of the jsonl store.
	Path string `json:"path"`
	// ClickHouse configures the clickhouse backend.
	ClickHouse history.ClickHouseOptions `json:"clickhouse"`
}

// SetDefaults applies sane defaults.
func (c *HistoryConfig) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "jsonl"
	}
	if c.Path == "" {
		c.Path = "runs.jsonl"
	}
}

// Validate checks mandatory fields.
func (c HistoryConfig) Validate() error {
	switch c.Backend {
	case "none", "jsonl":
	case "clickhouse":
		if c.ClickHouse.Addr == "" {
			return fmt.Errorf("clickhouse history requires addr")
		}
	default:
		return fmt.Errorf("unknown history backend %s", c.Backend)
	}
	return nil
}
