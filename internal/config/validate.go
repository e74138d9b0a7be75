package config

import (
	"errors"
	"fmt"

	"golang.org/x/text/language"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateCorpus(); err != nil {
		return err
	}
	if err := c.validateFetch(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if c.Paths.DestRoot == "" {
		return errors.New("paths.dest_root must be set")
	}
	return nil
}

func (c *Config) validateCorpus() error {
	if _, err := language.Parse(c.Corpus.Language); err != nil {
		return fmt.Errorf("corpus.language: %q is not a valid language tag: %w", c.Corpus.Language, err)
	}
	return nil
}

func (c *Config) validateFetch() error {
	if c.Fetch.RequestTimeout <= 0 {
		return errors.New("fetch.request_timeout must be positive")
	}
	if c.Fetch.ProbeTimeout <= 0 {
		return errors.New("fetch.probe_timeout must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
