package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Mode != "stdio" {
		t.Errorf("Expected default mode to be 'stdio', got '%s'", cfg.Mode)
	}

	if cfg.Host != "127.0.0.1" {
		t.Errorf("Expected default host to be '127.0.0.1', got '%s'", cfg.Host)
	}

	if cfg.Port != 8080 {
		t.Errorf("Expected default port to be 8080, got %d", cfg.Port)
	}

	if cfg.Version != "1.0.0" {
		t.Errorf("Expected default version to be '1.0.0', got '%s'", cfg.Version)
	}

	if cfg.ServerName != "mcp-pdf-form-filler" {
		t.Errorf("Expected default server name to be 'mcp-pdf-form-filler', got '%s'", cfg.ServerName)
	}

	if cfg.LogLevel != "info" {
		t.Errorf("Expected default log level to be 'info', got '%s'", cfg.LogLevel)
	}

	if cfg.MaxFileSize != 100*1024*1024 {
		t.Errorf("Expected default max file size to be 100MB, got %d", cfg.MaxFileSize)
	}

	if cfg.OutputDirectory != "" {
		t.Errorf("Expected default output directory to be empty, got '%s'", cfg.OutputDirectory)
	}

	// The PDF directory defaults to the current working directory
	currentDir, _ := os.Getwd()
	if cfg.PDFDirectory != currentDir {
		t.Errorf("Expected default PDF directory to be '%s', got '%s'", currentDir, cfg.PDFDirectory)
	}
}

func TestConfigValidate(t *testing.T) {
	tempDir := t.TempDir()

	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{
			name:    "valid config - stdio mode",
			config:  DefaultConfig(),
			wantErr: false,
		},
		{
			name: "valid config - server mode",
			config: &Config{
				Mode:         "server",
				Host:         "127.0.0.1",
				Port:         8080,
				PDFDirectory: tempDir,
				LogLevel:     "info",
				MaxFileSize:  1024,
			},
			wantErr: false,
		},
		{
			name: "valid config - separate export directory",
			config: &Config{
				Mode:            "stdio",
				Host:            "127.0.0.1",
				Port:            8080,
				PDFDirectory:    tempDir,
				OutputDirectory: filepath.Join(tempDir, "filled"),
				LogLevel:        "info",
				MaxFileSize:     1024,
			},
			wantErr: false,
		},
		{
			name: "invalid mode",
			config: &Config{
				Mode:         "invalid",
				Host:         "127.0.0.1",
				Port:         8080,
				PDFDirectory: tempDir,
				LogLevel:     "info",
				MaxFileSize:  1024,
			},
			wantErr: true,
		},
		{
			name: "invalid port - too low (server mode)",
			config: &Config{
				Mode:         "server",
				Host:         "127.0.0.1",
				Port:         0,
				PDFDirectory: tempDir,
				LogLevel:     "info",
				MaxFileSize:  1024,
			},
			wantErr: true,
		},
		{
			name: "invalid port - too high (server mode)",
			config: &Config{
				Mode:         "server",
				Host:         "127.0.0.1",
				Port:         70000,
				PDFDirectory: tempDir,
				LogLevel:     "info",
				MaxFileSize:  1024,
			},
			wantErr: true,
		},
		{
			name: "invalid port ignored in stdio mode",
			config: &Config{
				Mode:         "stdio",
				Host:         "127.0.0.1",
				Port:         0,
				PDFDirectory: tempDir,
				LogLevel:     "info",
				MaxFileSize:  1024,
			},
			wantErr: false,
		},
		{
			name: "empty PDF directory",
			config: &Config{
				Mode:         "stdio",
				Host:         "127.0.0.1",
				Port:         8080,
				PDFDirectory: "",
				LogLevel:     "info",
				MaxFileSize:  1024,
			},
			wantErr: true,
		},
		{
			name: "invalid log level",
			config: &Config{
				Mode:         "stdio",
				Host:         "127.0.0.1",
				Port:         8080,
				PDFDirectory: tempDir,
				LogLevel:     "invalid",
				MaxFileSize:  1024,
			},
			wantErr: true,
		},
		{
			name: "invalid max file size",
			config: &Config{
				Mode:         "stdio",
				Host:         "127.0.0.1",
				Port:         8080,
				PDFDirectory: tempDir,
				LogLevel:     "info",
				MaxFileSize:  0,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Config.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigValidateCreatesMissingDirectories(t *testing.T) {
	tempParent := t.TempDir()
	pdfDir := filepath.Join(tempParent, "forms")
	outDir := filepath.Join(tempParent, "forms", "filled")

	cfg := &Config{
		Mode:            "stdio",
		Host:            "127.0.0.1",
		Port:            8080,
		PDFDirectory:    pdfDir,
		OutputDirectory: outDir,
		LogLevel:        "info",
		MaxFileSize:     1024,
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Config.Validate() error = %v", err)
	}

	for _, dir := range []string{pdfDir, outDir} {
		if _, err := os.Stat(dir); err != nil {
			t.Errorf("Directory should have been created: %s (%v)", dir, err)
		}
	}
}

func TestConfigExportDirectory(t *testing.T) {
	cfg := &Config{PDFDirectory: "/forms"}
	if got := cfg.ExportDirectory(); got != "/forms" {
		t.Errorf("Config.ExportDirectory() = %v, want /forms", got)
	}

	cfg.OutputDirectory = "/forms/filled"
	if got := cfg.ExportDirectory(); got != "/forms/filled" {
		t.Errorf("Config.ExportDirectory() = %v, want /forms/filled", got)
	}
}

func TestConfigAddress(t *testing.T) {
	cfg := &Config{
		Host: "192.168.1.1",
		Port: 9090,
	}

	expected := "192.168.1.1:9090"
	if got := cfg.Address(); got != expected {
		t.Errorf("Config.Address() = %v, want %v", got, expected)
	}
}

func TestConfigIsDebug(t *testing.T) {
	tests := []struct {
		name     string
		logLevel string
		want     bool
	}{
		{name: "debug level", logLevel: "debug", want: true},
		{name: "info level", logLevel: "info", want: false},
		{name: "warn level", logLevel: "warn", want: false},
		{name: "error level", logLevel: "error", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{LogLevel: tt.logLevel}
			if got := cfg.IsDebug(); got != tt.want {
				t.Errorf("Config.IsDebug() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConfigString(t *testing.T) {
	cfg := &Config{
		Mode:            "server",
		Host:            "localhost",
		Port:            8080,
		PDFDirectory:    "/home/user/forms",
		OutputDirectory: "/home/user/forms/filled",
		LogLevel:        "debug",
		MaxFileSize:     1024,
	}

	result := cfg.String()

	expectedSubstrings := []string{
		"Mode: server",
		"Host: localhost",
		"Port: 8080",
		"PDFDirectory: /home/user/forms",
		"OutputDirectory: /home/user/forms/filled",
		"LogLevel: debug",
		"MaxFileSize: 1024",
	}

	for _, substr := range expectedSubstrings {
		if !strings.Contains(result, substr) {
			t.Errorf("Config.String() result doesn't contain expected substring: %s\nGot: %s", substr, result)
		}
	}
}

func TestConfigValidateLogLevels(t *testing.T) {
	validLevels := []string{"debug", "info", "warn", "error"}
	invalidLevels := []string{"DEBUG", "INFO", "trace", "fatal", ""}

	tempDir := t.TempDir()

	for _, level := range validLevels {
		t.Run("valid_"+level, func(t *testing.T) {
			cfg := &Config{
				Mode:         "stdio",
				Host:         "127.0.0.1",
				Port:         8080,
				PDFDirectory: tempDir,
				LogLevel:     level,
				MaxFileSize:  1024,
			}

			if err := cfg.Validate(); err != nil {
				t.Errorf("Config.Validate() should accept log level '%s', got error: %v", level, err)
			}
		})
	}

	for _, level := range invalidLevels {
		t.Run("invalid_"+level, func(t *testing.T) {
			cfg := &Config{
				Mode:         "stdio",
				Host:         "127.0.0.1",
				Port:         8080,
				PDFDirectory: tempDir,
				LogLevel:     level,
				MaxFileSize:  1024,
			}

			if err := cfg.Validate(); err == nil {
				t.Errorf("Config.Validate() should reject log level '%s'", level)
			}
		})
	}
}

func TestConfigIsServerMode(t *testing.T) {
	tests := []struct {
		name string
		mode string
		want bool
	}{
		{name: "server mode", mode: "server", want: true},
		{name: "stdio mode", mode: "stdio", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Mode: tt.mode}
			if got := cfg.IsServerMode(); got != tt.want {
				t.Errorf("Config.IsServerMode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConfigIsStdioMode(t *testing.T) {
	tests := []struct {
		name string
		mode string
		want bool
	}{
		{name: "stdio mode", mode: "stdio", want: true},
		{name: "server mode", mode: "server", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Mode: tt.mode}
			if got := cfg.IsStdioMode(); got != tt.want {
				t.Errorf("Config.IsStdioMode() = %v, want %v", got, tt.want)
			}
		})
	}
}
