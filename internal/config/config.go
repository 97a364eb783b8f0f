// Package config resolves the client configuration from flags, environment,
// the TOML config file and the settings stored in the local database.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/MarkBevz50/focusflow/internal/calendar"
	"github.com/MarkBevz50/focusflow/internal/constants"
	"github.com/MarkBevz50/focusflow/internal/models"
)

// Source records where a configuration value came from.
type Source string

const (
	SourceDefault  Source = "default"
	SourceSettings Source = "settings"
	SourceFile     Source = "config file"
	SourceFlag     Source = "flag/env"
)

// Keys accepted by `config set` and reported by `config show`.
const (
	KeyAPIURL            = "api_url"
	KeyWeekStart         = "week_start"
	KeyOnlySelectedDay   = "only_selected_day"
	KeyTokenBackend      = "token_backend"
	KeyTimeout           = "timeout"
	KeyRequestsPerSecond = "requests_per_second"
)

// Duration decodes TOML strings such as "5s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// File is the on-disk config.toml. Unset keys keep their zero value.
type File struct {
	APIURL            string    `toml:"api_url,omitempty"`
	WeekStart         string    `toml:"week_start,omitempty"`
	OnlySelectedDay   *bool     `toml:"only_selected_day,omitempty"`
	TokenBackend      string    `toml:"token_backend,omitempty"`
	Timeout           *Duration `toml:"timeout,omitempty"`
	RequestsPerSecond float64   `toml:"requests_per_second,omitempty"`
}

// Overrides are values given on the command line or through FOCUSFLOW_*
// environment variables. Empty fields do not override.
type Overrides struct {
	APIURL            string
	WeekStart         string
	TokenBackend      string
	Timeout           time.Duration
	RequestsPerSecond float64
}

// Config is the resolved configuration.
type Config struct {
	APIURL            string
	WeekStart         time.Weekday
	OnlySelectedDay   bool
	TokenBackend      constants.TokenBackend
	Timeout           time.Duration
	RequestsPerSecond float64

	Sources map[string]Source
}

// LoadFile reads a config file. A missing file yields an empty File.
func LoadFile(path string) (File, error) {
	var f File
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return f, nil
	}
	md, err := toml.DecodeFile(path, &f)
	if err != nil {
		return File{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return File{}, fmt.Errorf("unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return f, nil
}

// SaveFile writes f to path, creating the directory if needed.
func SaveFile(path string, f File) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	out, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	if err := toml.NewEncoder(out).Encode(f); err != nil {
		out.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return out.Close()
}

// Resolve merges the sources. Precedence, highest first: overrides, file,
// settings, defaults.
func Resolve(f File, settings models.Settings, ov Overrides) (*Config, error) {
	c := &Config{
		APIURL:            constants.DefaultAPIURL,
		WeekStart:         time.Sunday,
		TokenBackend:      constants.TokenBackendAuto,
		RequestsPerSecond: constants.DefaultRequestsPerSecond,
		Sources:           make(map[string]Source),
	}
	for _, k := range Keys() {
		c.Sources[k] = SourceDefault
	}

	weekStart := ""
	pickString(&c.APIURL, c.Sources, KeyAPIURL,
		layer{settings.APIURL, SourceSettings}, layer{f.APIURL, SourceFile}, layer{ov.APIURL, SourceFlag})
	pickString(&weekStart, c.Sources, KeyWeekStart,
		layer{settings.WeekStart, SourceSettings}, layer{f.WeekStart, SourceFile}, layer{ov.WeekStart, SourceFlag})

	backend := string(c.TokenBackend)
	pickString(&backend, c.Sources, KeyTokenBackend,
		layer{f.TokenBackend, SourceFile}, layer{ov.TokenBackend, SourceFlag})
	c.TokenBackend = constants.TokenBackend(backend)
	switch c.TokenBackend {
	case constants.TokenBackendAuto, constants.TokenBackendKeyring, constants.TokenBackendLocal:
	default:
		return nil, fmt.Errorf("invalid %s %q (want auto, keyring or local)", KeyTokenBackend, backend)
	}

	wd, err := calendar.ParseWeekday(weekStart)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", KeyWeekStart, err)
	}
	c.WeekStart = wd

	if settings.OnlySelectedDay {
		c.OnlySelectedDay = true
		c.Sources[KeyOnlySelectedDay] = SourceSettings
	}
	if f.OnlySelectedDay != nil {
		c.OnlySelectedDay = *f.OnlySelectedDay
		c.Sources[KeyOnlySelectedDay] = SourceFile
	}

	if f.Timeout != nil {
		c.Timeout = f.Timeout.Duration
		c.Sources[KeyTimeout] = SourceFile
	}
	if ov.Timeout > 0 {
		c.Timeout = ov.Timeout
		c.Sources[KeyTimeout] = SourceFlag
	}
	if c.Timeout < 0 {
		return nil, fmt.Errorf("invalid %s %s", KeyTimeout, c.Timeout)
	}

	if f.RequestsPerSecond > 0 {
		c.RequestsPerSecond = f.RequestsPerSecond
		c.Sources[KeyRequestsPerSecond] = SourceFile
	}
	if ov.RequestsPerSecond > 0 {
		c.RequestsPerSecond = ov.RequestsPerSecond
		c.Sources[KeyRequestsPerSecond] = SourceFlag
	}

	c.APIURL = strings.TrimRight(c.APIURL, "/")
	return c, nil
}

type layer struct {
	value  string
	source Source
}

func pickString(dst *string, sources map[string]Source, key string, layers ...layer) {
	for _, l := range layers {
		if v := strings.TrimSpace(l.value); v != "" {
			*dst = v
			sources[key] = l.source
		}
	}
}

// Keys lists every configuration key in display order.
func Keys() []string {
	return []string{KeyAPIURL, KeyWeekStart, KeyOnlySelectedDay, KeyTokenBackend, KeyTimeout, KeyRequestsPerSecond}
}

// Entry is one row of `config show`.
type Entry struct {
	Key    string
	Value  string
	Source Source
}

// Entries returns the resolved values in display order.
func (c *Config) Entries() []Entry {
	timeout := "transport default"
	if c.Timeout > 0 {
		timeout = c.Timeout.String()
	}
	values := map[string]string{
		KeyAPIURL:            c.APIURL,
		KeyWeekStart:         strings.ToLower(c.WeekStart.String()),
		KeyOnlySelectedDay:   strconv.FormatBool(c.OnlySelectedDay),
		KeyTokenBackend:      string(c.TokenBackend),
		KeyTimeout:           timeout,
		KeyRequestsPerSecond: strconv.FormatFloat(c.RequestsPerSecond, 'g', -1, 64),
	}
	out := make([]Entry, 0, len(values))
	for _, k := range Keys() {
		out = append(out, Entry{Key: k, Value: values[k], Source: c.Sources[k]})
	}
	return out
}

// SettingKeys are the keys stored in the local settings table.
func SettingKeys() []string {
	keys := []string{KeyAPIURL, KeyWeekStart, KeyOnlySelectedDay}
	sort.Strings(keys)
	return keys
}

// ApplySetting validates value and stores it on s.
func ApplySetting(s *models.Settings, key, value string) error {
	switch key {
	case KeyAPIURL:
		s.APIURL = strings.TrimRight(strings.TrimSpace(value), "/")
	case KeyWeekStart:
		wd, err := calendar.ParseWeekday(value)
		if err != nil {
			return err
		}
		s.WeekStart = strings.ToLower(wd.String())
	case KeyOnlySelectedDay:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid %s %q: want true or false", key, value)
		}
		s.OnlySelectedDay = b
	default:
		return fmt.Errorf("unknown setting %q (want one of %s)", key, strings.Join(SettingKeys(), ", "))
	}
	return nil
}

// ApplyFileKey validates value and stores it on f.
func ApplyFileKey(f *File, key, value string) error {
	switch key {
	case KeyAPIURL:
		f.APIURL = strings.TrimRight(strings.TrimSpace(value), "/")
	case KeyWeekStart:
		wd, err := calendar.ParseWeekday(value)
		if err != nil {
			return err
		}
		f.WeekStart = strings.ToLower(wd.String())
	case KeyOnlySelectedDay:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid %s %q: want true or false", key, value)
		}
		f.OnlySelectedDay = &b
	case KeyTokenBackend:
		switch constants.TokenBackend(value) {
		case constants.TokenBackendAuto, constants.TokenBackendKeyring, constants.TokenBackendLocal:
			f.TokenBackend = value
		default:
			return fmt.Errorf("invalid %s %q (want auto, keyring or local)", key, value)
		}
	case KeyTimeout:
		d, err := time.ParseDuration(value)
		if err != nil || d < 0 {
			return fmt.Errorf("invalid %s %q", key, value)
		}
		f.Timeout = &Duration{d}
	case KeyRequestsPerSecond:
		rps, err := strconv.ParseFloat(value, 64)
		if err != nil || rps <= 0 {
			return fmt.Errorf("invalid %s %q", key, value)
		}
		f.RequestsPerSecond = rps
	default:
		return fmt.Errorf("unknown key %q (want one of %s)", key, strings.Join(Keys(), ", "))
	}
	return nil
}
