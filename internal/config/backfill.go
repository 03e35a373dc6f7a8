package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

// BackfillConfig holds configuration for the backfill command.
type BackfillConfig struct {
	Midgard         MidgardConfig
	From            string
	To              string
	ChainMap        map[string]string
	Out             string
	PGDSN           string
	StateFile       string
	Pause           time.Duration
	ContinueOnError bool
	LogLevel        string
}

// LoadBackfill merges config file, environment variables, and flags into BackfillConfig.
func LoadBackfill(cfgFile string, flags *pflag.FlagSet) (BackfillConfig, error) {
	v, err := newViper(cfgFile, flags)
	if err != nil {
		return BackfillConfig{}, err
	}

	cfg := BackfillConfig{
		Midgard:         midgardConfig(v),
		From:            v.GetString("from"),
		To:              v.GetString("to"),
		ChainMap:        getStringMap(v, "chain-map"),
		Out:             v.GetString("out"),
		PGDSN:           v.GetString("pg-dsn"),
		StateFile:       v.GetString("state-file"),
		Pause:           v.GetDuration("pause"),
		ContinueOnError: v.GetBool("continue-on-error"),
		LogLevel:        v.GetString("log-level"),
	}

	return cfg, nil
}

// ParseDay parses a day given as YYYY-MM-DD, RFC3339 or unix seconds.
// An empty input yields the zero time.
func ParseDay(input string) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return time.Time{}, nil
	}

	if isNumeric(input) {
		val, err := strconv.ParseInt(input, 10, 64)
		if err != nil {
			return time.Time{}, err
		}
		return time.Unix(val, 0).UTC(), nil
	}

	if tm, err := time.Parse(time.DateOnly, input); err == nil {
		return tm, nil
	}

	tm, err := time.Parse(time.RFC3339, input)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day %q: want YYYY-MM-DD, RFC3339 or unix seconds", input)
	}
	return tm.UTC(), nil
}

func isNumeric(input string) bool {
	for _, r := range input {
		if r < '0' || r > '9' {
			return false
		}
	}
	return input != ""
}
