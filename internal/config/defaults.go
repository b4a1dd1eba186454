package config

const (
	defaultLogDir         = "~/.local/share/vidladder/logs"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
	defaultTranscoder     = "ffmpeg"
	defaultProbe          = "ffprobe"
	defaultLadderWorkers  = 1
	defaultTimeoutSeconds = 0
)

// DefaultRungs returns the builtin encoding ladder, highest quality first.
func DefaultRungs() []Rung {
	return []Rung{
		{Resolution: "1920:1080", Bitrate: "1000k"},
		{Resolution: "1280:720", Bitrate: "500k"},
		{Resolution: "854:480", Bitrate: "250k"},
		{Resolution: "640:360", Bitrate: "125k"},
	}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir: defaultLogDir,
		},
		Transcoder: Transcoder{
			Binary:         defaultTranscoder,
			ProbeBinary:    defaultProbe,
			TimeoutSeconds: defaultTimeoutSeconds,
		},
		Ladder: Ladder{
			Workers: defaultLadderWorkers,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
