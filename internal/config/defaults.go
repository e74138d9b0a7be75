package config

const (
	defaultDestRoot            = "data"
	defaultLanguage            = "en"
	defaultFetchProbe          = true
	defaultFetchRequestTimeout = 3600
	defaultFetchProbeTimeout   = 15
	defaultFetchUserAgent      = "fetchcorpus/dev"
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DestRoot: defaultDestRoot,
		},
		Corpus: Corpus{
			Language: defaultLanguage,
		},
		Fetch: Fetch{
			Probe:          defaultFetchProbe,
			RequestTimeout: defaultFetchRequestTimeout,
			ProbeTimeout:   defaultFetchProbeTimeout,
			UserAgent:      defaultFetchUserAgent,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
