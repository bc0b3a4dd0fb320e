package config

import "os"

type Config struct {
	Port            string
	GeminiAPIKey    string
	GeminiModel     string
	ElevenLabsKey   string
	ElevenLabsVoice string
	AudioDir        string
	DBPath          string
	LogPath         string
	LogMode         string
	DevFake         bool
}

func Load() Config {
	return Config{
		Port:            getenv("PORT", "8000"),
		GeminiAPIKey:    getenv("GEMINI_API_KEY", ""),
		GeminiModel:     getenv("GEMINI_MODEL", "gemini-2.0-flash"),
		ElevenLabsKey:   getenv("ELEVENLABS_API_KEY", ""),
		ElevenLabsVoice: getenv("ELEVENLABS_VOICE", "Bella"),
		AudioDir:        getenv("PROFAI_AUDIO_DIR", "outputs"),
		DBPath:          getenv("PROFAI_DB_PATH", "profai.db"),
		LogPath:         getenv("PROFAI_LOG_PATH", ""),
		LogMode:         getenv("PROFAI_LOG_MODE", "dev"),
		DevFake:         truthy(os.Getenv("PROFAI_DEV_FAKE")),
	}
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func truthy(v string) bool {
	switch v {
	case "1", "true", "yes":
		return true
	}
	return false
}
