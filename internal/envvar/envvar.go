package envvar

const (
	// NarrateEnv is the environment variable used to determine the environment
	NarrateEnv = "NARRATE_ENV"

	// NarrateConfig is the environment variable used to locate the config file
	NarrateConfig = "NARRATE_CONFIG"

	// NarrateLogFile is the environment variable used to enable file logging
	NarrateLogFile = "NARRATE_LOG_FILE"

	// Port is the environment variable used to determine the HTTP port
	Port = "PORT"
)
