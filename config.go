package main

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

type Config struct {
	DataDirectory   string
	ExportDirectory string
	UserName        string
	StartMenu       bool
	Confirmations   bool
}

func loadConfig() *Config {
	config := &Config{
		DataDirectory:   "",
		ExportDirectory: "",
		UserName:        "local",
		StartMenu:       true,
		Confirmations:   true,
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return config
	}
	config.DataDirectory = filepath.Join(homeDir, ".korq")

	configPath := filepath.Join(homeDir, ".korqrc")
	file, err := os.Open(configPath)
	if err != nil {
		return config
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		switch strings.ToLower(key) {
		case "datadirectory", "data_directory", "datadir":
			config.DataDirectory = expandPath(value, homeDir)
		case "exportdirectory", "export_directory", "exportdir":
			config.ExportDirectory = expandPath(value, homeDir)
		case "username", "user_name", "user":
			if value != "" {
				config.UserName = value
			}
		case "startmenu", "start_menu":
			config.StartMenu = strings.ToLower(value) == "true"
		case "confirmations", "confirm":
			config.Confirmations = strings.ToLower(value) == "true"
		}
	}

	return config
}

func expandPath(value, homeDir string) string {
	if strings.HasPrefix(value, "~") {
		value = filepath.Join(homeDir, strings.TrimPrefix(value, "~"))
	}
	if !filepath.IsAbs(value) {
		if absPath, err := filepath.Abs(value); err == nil {
			value = absPath
		}
	}
	return value
}

// DatabasePath returns the SQLite file path, creating the data
// directory when needed.
func (c *Config) DatabasePath() string {
	os.MkdirAll(c.DataDirectory, 0755)
	return filepath.Join(c.DataDirectory, "korq.db")
}

// LogPath returns the diagnostics log path inside the data directory.
func (c *Config) LogPath() string {
	os.MkdirAll(c.DataDirectory, 0755)
	return filepath.Join(c.DataDirectory, "korq.log")
}

// GetExportPath resolves where a PNG export lands.
func (c *Config) GetExportPath(filename string) string {
	if c.ExportDirectory == "" {
		return filename
	}
	os.MkdirAll(c.ExportDirectory, 0755)
	return filepath.Join(c.ExportDirectory, filename)
}
