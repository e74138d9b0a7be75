package config

import "strings"

// normalize trims and expands user-supplied values and applies floors so the
// rest of the program never sees an empty or nonsensical setting.
func (c *Config) normalize() error {
	c.Paths.DestRoot = strings.TrimSpace(c.Paths.DestRoot)
	if c.Paths.DestRoot == "" {
		c.Paths.DestRoot = defaultDestRoot
	}
	expanded, err := expandPath(c.Paths.DestRoot)
	if err != nil {
		return err
	}
	c.Paths.DestRoot = expanded

	c.Paths.LogDir = strings.TrimSpace(c.Paths.LogDir)
	if c.Paths.LogDir != "" {
		expanded, err := expandPath(c.Paths.LogDir)
		if err != nil {
			return err
		}
		c.Paths.LogDir = expanded
	}

	c.Corpus.Language = strings.ToLower(strings.TrimSpace(c.Corpus.Language))
	if c.Corpus.Language == "" {
		c.Corpus.Language = defaultLanguage
	}

	if c.Fetch.RequestTimeout <= 0 {
		c.Fetch.RequestTimeout = defaultFetchRequestTimeout
	}
	if c.Fetch.ProbeTimeout <= 0 {
		c.Fetch.ProbeTimeout = defaultFetchProbeTimeout
	}
	c.Fetch.UserAgent = strings.TrimSpace(c.Fetch.UserAgent)
	if c.Fetch.UserAgent == "" {
		c.Fetch.UserAgent = defaultFetchUserAgent
	}

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}

	return nil
}
