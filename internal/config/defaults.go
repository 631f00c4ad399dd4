package config

const (
	defaultDataDir      = "~/.local/share/vigil"
	defaultDownloadDir  = "~/downloads"
	defaultAPIBind      = "127.0.0.1:7491"
	defaultSweepHour    = 4
	defaultFetchBinary  = "yt-dlp"
	defaultFetchFormat  = "bestvideo[ext=mp4]+bestaudio[ext=m4a]/best[ext=mp4]"
	defaultArchiveName  = ".archive.txt"
	defaultFetchTimeout = 0
	defaultLogFormat    = "console"
	defaultLogLevel     = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:     defaultDataDir,
			DownloadDir: defaultDownloadDir,
			APIBind:     defaultAPIBind,
		},
		Sweep: Sweep{
			Hour:         defaultSweepHour,
			FetchTimeout: defaultFetchTimeout,
		},
		Fetch: Fetch{
			Binary:      defaultFetchBinary,
			Format:      defaultFetchFormat,
			ArchiveName: defaultArchiveName,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
