// Package config loads formview.yaml, the settings file read by the CLI.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the settings file looked up in the working directory.
const DefaultFile = "formview.yaml"

// ErrInvalid is returned when a setting is out of range.
var ErrInvalid = errors.New("config: invalid")

// Config holds every setting. Zero values in a file keep the defaults.
type Config struct {
	PagesDir string `json:"pages_dir" yaml:"pages_dir"`
	MainPage string `json:"main_page" yaml:"main_page"`
	Toolkit  string `json:"toolkit" yaml:"toolkit"`
	Images   Images `json:"images" yaml:"images"`
	Log      Log    `json:"log" yaml:"log"`
}

// Images sizes the pictures pages display.
type Images struct {
	IconSize    int `json:"icon_size" yaml:"icon_size"`
	PictureSize int `json:"picture_size" yaml:"picture_size"`
}

// Log configures the zap logger.
type Log struct {
	Level       string `json:"level" yaml:"level"`
	Development bool   `json:"development" yaml:"development"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		PagesDir: "gui_pages",
		MainPage: "main.html",
		Toolkit:  "prompt",
		Images:   Images{IconSize: 20, PictureSize: 250},
		Log:      Log{Level: "info"},
	}
}

// Parse reads data as JSON, falling back to YAML, on top of the defaults.
func Parse(data []byte, source string) (Config, error) {
	cfg := Default()
	if len(strings.TrimSpace(string(data))) == 0 {
		return cfg, nil
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		cfg = Default()
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: invalid JSON or YAML: %w", source, err)
		}
	}
	cfg.fill()
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", source, err)
	}
	return cfg, nil
}

// Load reads the settings file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// LoadFS reads the settings file name from fsys.
func LoadFS(fsys fs.FS, name string) (Config, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", name, err)
	}
	return Parse(data, name)
}

// LoadOptional reads path when it exists and returns the defaults otherwise.
func LoadOptional(path string) (Config, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return Load(path)
}

func (c *Config) fill() {
	def := Default()
	if strings.TrimSpace(c.PagesDir) == "" {
		c.PagesDir = def.PagesDir
	}
	if strings.TrimSpace(c.MainPage) == "" {
		c.MainPage = def.MainPage
	}
	if strings.TrimSpace(c.Toolkit) == "" {
		c.Toolkit = def.Toolkit
	}
	if c.Images.IconSize == 0 {
		c.Images.IconSize = def.Images.IconSize
	}
	if c.Images.PictureSize == 0 {
		c.Images.PictureSize = def.Images.PictureSize
	}
	if strings.TrimSpace(c.Log.Level) == "" {
		c.Log.Level = def.Log.Level
	}
}

// Validate checks the settings.
func (c Config) Validate() error {
	var problems []string
	if c.Images.IconSize < 0 {
		problems = append(problems, "images.icon_size must be positive")
	}
	if c.Images.PictureSize < 0 {
		problems = append(problems, "images.picture_size must be positive")
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		problems = append(problems, fmt.Sprintf("log.level %q is not a zap level", c.Log.Level))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}

// MainPath returns the main page path. Relative pages live in the pages
// directory.
func (c Config) MainPath() string {
	if filepath.IsAbs(c.MainPage) {
		return c.MainPage
	}
	return filepath.Join(c.PagesDir, c.MainPage)
}

// Logger builds the zap logger described by the log settings.
func (c Config) Logger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	zcfg := zap.NewProductionConfig()
	if c.Log.Development {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	return zcfg.Build()
}
