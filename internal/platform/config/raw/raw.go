// Package raw reads bootstrap settings before the logger exists
// It must not import the logger package
package raw

import (
	"os"
	"strconv"
	"strings"
)

// Conf looks a key up under each of its prefixes in order, first hit wins
// New("CHEMLOAD_", "").Prefix("LOG_") reads CHEMLOAD_LOG_LEVEL, then LOG_LEVEL
type Conf struct{ prefixes []string }

// New returns a Conf over prefixes; no prefixes means the bare key
func New(prefixes ...string) Conf {
	if len(prefixes) == 0 {
		prefixes = []string{""}
	}
	return Conf{prefixes: prefixes}
}

// Prefix appends p to every prefix
func (c Conf) Prefix(p string) Conf {
	base := c.prefixes
	if len(base) == 0 {
		base = []string{""}
	}
	out := make([]string, len(base))
	for i, b := range base {
		out[i] = b + p
	}
	return Conf{prefixes: out}
}

// Keys lists the env names consulted for key, in lookup order
func (c Conf) Keys(key string) []string {
	out := make([]string, 0, len(c.prefixes))
	for _, p := range c.prefixes {
		out = append(out, p+key)
	}
	return out
}

func (c Conf) lookup(key string) (string, bool) {
	for _, k := range c.Keys(key) {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v, true
		}
	}
	return "", false
}

// Get returns the trimmed value or def
func (c Conf) Get(key, def string) string {
	if v, ok := c.lookup(key); ok {
		return v
	}
	return def
}

// GetBool accepts 1/true/yes/on and 0/false/no/off; anything else is def
func (c Conf) GetBool(key string, def bool) bool {
	v, ok := c.lookup(key)
	if !ok {
		return def
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return def
}

// GetInt parses a non-negative integer; anything else is def
func (c Conf) GetInt(key string, def int) int {
	v, ok := c.lookup(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}
