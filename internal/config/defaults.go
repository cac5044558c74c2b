package config

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = "json"
	}
	if cfg.Storage.IndexPath == "" {
		cfg.Storage.IndexPath = "/usr/local/var/docfinder/data/index.json"
	}
	if cfg.Storage.SQLitePath == "" {
		cfg.Storage.SQLitePath = "/usr/local/var/docfinder/data/documents.db"
	}
	if cfg.Storage.FilesDir == "" {
		cfg.Storage.FilesDir = "/usr/local/var/docfinder/data/files"
	}
	if cfg.Intake.Extensions == nil {
		cfg.Intake.Extensions = []string{".pdf", ".jpg", ".jpeg", ".png"}
	}
	if cfg.Interpreter.Backend == "" {
		cfg.Interpreter.Backend = "rules"
	}
	if cfg.Interpreter.BaseURL == "" {
		cfg.Interpreter.BaseURL = "https://api.deepseek.com"
	}
	if cfg.Interpreter.Model == "" {
		cfg.Interpreter.Model = "deepseek-chat"
	}
	if cfg.Interpreter.APIKeyEnv == "" {
		cfg.Interpreter.APIKeyEnv = "DEEPSEEK_API_KEY"
	}
	if cfg.Interpreter.TimeoutSeconds == 0 {
		cfg.Interpreter.TimeoutSeconds = 30
	}
	if cfg.Limits.UploadsPerSecond == 0 {
		cfg.Limits.UploadsPerSecond = 5
	}
	if cfg.Limits.Burst == 0 {
		cfg.Limits.Burst = 10
	}
	if cfg.Limits.MaxUploadMB == 0 {
		cfg.Limits.MaxUploadMB = 200
	}
}
