package util

import (
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

var environmentLogger = log.With().Str("logger_name", "util::environment").Logger()

type engineEnvironment struct {
	DisableDelays string
	LogLevel      string
	StartingChips string
	SmallBlind    string
	BigBlind      string
	DelayConfig   string
}

// EngineEnvironment is a helper object for accessing environment variables.
var EngineEnvironment = &engineEnvironment{
	DisableDelays: "DISABLE_DELAYS",
	LogLevel:      "LOG_LEVEL",
	StartingChips: "STARTING_CHIPS",
	SmallBlind:    "SMALL_BLIND",
	BigBlind:      "BIG_BLIND",
	DelayConfig:   "DELAY_CONFIG",
}

func (e *engineEnvironment) ShouldDisableDelays() bool {
	v := os.Getenv(e.DisableDelays)
	return v == "1" || strings.ToLower(v) == "true"
}

func (e *engineEnvironment) GetLogLevel() string {
	v := os.Getenv(e.LogLevel)
	if v == "" {
		return "info"
	}
	return v
}

func (e *engineEnvironment) GetDelayConfigFile() string {
	return os.Getenv(e.DelayConfig)
}

func (e *engineEnvironment) GetStartingChips(defaultChips int32) int32 {
	return e.getInt32(e.StartingChips, defaultChips)
}

func (e *engineEnvironment) GetSmallBlind(defaultBlind int32) int32 {
	return e.getInt32(e.SmallBlind, defaultBlind)
}

func (e *engineEnvironment) GetBigBlind(defaultBlind int32) int32 {
	return e.getInt32(e.BigBlind, defaultBlind)
}

func (e *engineEnvironment) getInt32(key string, defaultVal int32) int32 {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		environmentLogger.Warn().Msgf("Invalid value [%s] for %s. Using default %d", v, key, defaultVal)
		return defaultVal
	}
	return int32(n)
}
