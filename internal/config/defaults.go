package config

const (
	defaultDataDir            = "~/.local/share/lectern"
	defaultLogDir             = "~/.local/share/lectern/logs"
	defaultExportDir          = "~/lecture-notes"
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	defaultCourse             = "General"
	defaultLLMBaseURL         = "https://openrouter.ai/api/v1/chat/completions"
	defaultTranscriptionModel = "google/gemini-3-flash-preview"
	defaultNotesModel         = "google/gemini-3-flash-preview"
	defaultLLMReferer         = "https://github.com/lectern/lectern"
	defaultLLMTimeoutSeconds  = 180
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:   defaultDataDir,
			LogDir:    defaultLogDir,
			ExportDir: defaultExportDir,
		},
		LLM: LLM{
			BaseURL:            defaultLLMBaseURL,
			TranscriptionModel: defaultTranscriptionModel,
			NotesModel:         defaultNotesModel,
			Referer:            defaultLLMReferer,
			TimeoutSeconds:     defaultLLMTimeoutSeconds,
		},
		Session: Session{
			DefaultCourse: defaultCourse,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
