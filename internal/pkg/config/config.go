package config

import (
	"io"
	"time"
)

// TimeConfig defines helpers for retrieving time-based configuration values.
type TimeConfig interface {
	// GetSecond retrieves the configuration value associated with the given key as seconds.
	// If the key does not exist or the value cannot be converted to an integer,
	// the implementation should handle it accordingly (e.g., return a default value).
	GetSecond(key string) time.Duration

	// GetMinute retrieves the configuration value associated with the given key as minutes.
	// If the key does not exist or the value cannot be converted to an integer,
	// the implementation should handle it accordingly (e.g., return a default value).
	GetMinute(key string) time.Duration
}

// Config defines a set of methods for retrieving configuration values of various types.
// Implementations of this interface should handle the retrieval and type conversion
// of configuration data, providing default behaviors or error handling as necessary.
type Config interface {
	io.Closer
	TimeConfig

	// GetInt retrieves the configuration value associated with the given key as an int.
	GetInt(key string) int

	// GetFloat64 retrieves the configuration value associated with the given key as a float64.
	GetFloat64(key string) float64

	// GetBool retrieves the configuration value associated with the given key as a bool.
	// If the key does not exist or the value cannot be converted to a boolean,
	// the implementation should handle it accordingly (e.g., return a default value).
	GetBool(key string) bool

	// GetString retrieves the configuration value associated with the given key as a string.
	// If the key does not exist, the implementation should handle it accordingly.
	GetString(key string) string

	// GetArray retrieves the configuration value associated with the given key as a slice of strings.
	// Configuration value is stored with format <element1>,<element2>,...
	// Blank elements are dropped, so an unset key yields an empty slice.
	GetArray(key string) []string
}
