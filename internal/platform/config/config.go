// Package config reads loader settings from CHEMLOAD_* environment variables
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"chemload/internal/platform/logger"

	"github.com/dustin/go-humanize"
)

// Conf is a namespaced view over environment variables (e.g. "CHEMLOAD_", "DB_")
// Prefix nests, so New().Prefix("CHEMLOAD_").Prefix("DB_") reads CHEMLOAD_DB_*
type Conf struct{ prefix string }

// New creates a root Conf (no prefix)
func New() Conf { return Conf{} }

// Prefix creates a child Conf with an additional prefix
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

// Key returns the fully-qualified env var name for k
func (c Conf) Key(k string) string { return c.prefix + k }

// lookup returns the trimmed value; blank counts as unset
func (c Conf) lookup(key string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(c.Key(key)))
	return v, v != ""
}

// fallback logs a value that did not parse and hands back def
func (c Conf) fallback(key, value, want string, def any) {
	logger.Named("config").Warn().
		Str("key", c.Key(key)).
		Str("value", value).
		Interface("default", def).
		Msgf("invalid %s; using default", want)
}

// MayString returns the value or def if missing/empty
func (c Conf) MayString(key, def string) string {
	if v, ok := c.lookup(key); ok {
		return v
	}
	return def
}

// MayInt returns the value or def if missing/empty; logs and returns def if invalid
func (c Conf) MayInt(key string, def int) int {
	s, ok := c.lookup(key)
	if !ok {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		c.fallback(key, s, "int", def)
		return def
	}
	return v
}

// MayBool returns the value or def if missing/empty; logs and returns def if invalid
func (c Conf) MayBool(key string, def bool) bool {
	s, ok := c.lookup(key)
	if !ok {
		return def
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		c.fallback(key, s, "bool", def)
		return def
	}
	return v
}

// MayDuration returns the value or def if missing/empty; logs and returns def if invalid
func (c Conf) MayDuration(key string, def time.Duration) time.Duration {
	s, ok := c.lookup(key)
	if !ok {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		c.fallback(key, s, "duration", def)
		return def
	}
	return d
}

// MayBytes reads a byte size such as "65536", "64KiB" or "32MB"
// missing, invalid or out of int range values fall back to def
func (c Conf) MayBytes(key string, def int) int {
	s, ok := c.lookup(key)
	if !ok {
		return def
	}
	n, err := humanize.ParseBytes(s)
	if err != nil || n > uint64(maxInt) {
		c.fallback(key, s, "byte size", def)
		return def
	}
	return int(n)
}

// MayEnum returns the value when it is one of allowed (case-insensitive), lower-cased;
// def otherwise
func (c Conf) MayEnum(key, def string, allowed ...string) string {
	s, ok := c.lookup(key)
	if !ok {
		return def
	}
	for _, a := range allowed {
		if strings.EqualFold(s, a) {
			return strings.ToLower(a)
		}
	}
	c.fallback(key, s, "value (allowed: "+strings.Join(allowed, "|")+")", def)
	return def
}

const maxInt = int(^uint(0) >> 1)
