package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/babarot/trashcan/internal/env"
	"github.com/babarot/trashcan/internal/utils/duration"
	"github.com/go-playground/validator/v10"
	"github.com/muesli/reflow/indent"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Core    Core          `yaml:"core"`
	Logging LoggingConfig `yaml:"logging"`
}

type Core struct {
	HoldingDir  string        `yaml:"holding_dir" validate:"validDirPath"`
	Store       StoreConfig   `yaml:"store"`
	Retention   string        `yaml:"retention" validate:"required,validDuration"`
	AutoExpire  bool          `yaml:"auto_expire"`
	CrossDevice bool          `yaml:"cross_device"`
	Verbose     bool          `yaml:"verbose"`
	Purge       PurgeConfig   `yaml:"purge"`
	List        ListConfig    `yaml:"list"`
	Restore     RestoreConfig `yaml:"restore"`
}

type StoreConfig struct {
	Backend string `yaml:"backend" validate:"required,oneof=file sqlite"`
}

type PurgeConfig struct {
	Confirm bool `yaml:"confirm"`
}

type ListConfig struct {
	TimeFormat string `yaml:"time_format"`
}

type RestoreConfig struct {
	Verbose bool `yaml:"verbose"`
}

type LoggingConfig struct {
	Enabled  bool           `yaml:"enabled"`
	Level    string         `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	Rotation RotationConfig `yaml:"rotation"`
}

type RotationConfig struct {
	MaxSize  string `yaml:"max_size" validate:"omitempty,validSize"`
	MaxFiles int    `yaml:"max_files" validate:"gte=0"`
}

// RetentionPeriod returns the parsed default retention window
func (c Config) RetentionPeriod() (time.Duration, error) {
	return duration.Parse(c.Core.Retention)
}

var validate *validator.Validate

type parser struct{}

type configError struct {
	configPath string
	parser     parser
	err        error
}

func (e configError) Error() string {
	return heredoc.Docf(`
		Couldn't read the "%s" config file.
		Please try again after fixing it or specifying a valid config path.
		The recommended config path is %s (default).
		Example YAML file contents:
		---
		%s
		---
		Original error:
		%s
		`,
		e.configPath,
		env.TRASHCAN_CONFIG_PATH,
		e.parser.getDefaultConfigContents(),
		indent.String(e.err.Error(), 2),
	)
}

func (e configError) Unwrap() error {
	return e.err
}

type parsingError struct {
	err error
}

func (e parsingError) Error() string {
	return fmt.Sprintf("failed to parse config: %v", e.err)
}

func (e parsingError) Unwrap() error {
	return e.err
}

func (p parser) getDefaultConfigContents() string {
	content, _ := yaml.Marshal(NewDefaultConfig())
	return string(content)
}

func (p parser) ensureDirExists(dirPath string) error {
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		slog.Warn("creating directory as it does not exist", "dir", dirPath)
		if err := os.MkdirAll(dirPath, os.ModePerm); err != nil {
			return err
		}
	}
	return nil
}

func (p parser) createConfigFile(path string) error {
	if err := p.ensureDirExists(filepath.Dir(path)); err != nil {
		return err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		slog.Warn("creating config file as it does not exist", "config-file", path)
		f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0666)
		if err != nil {
			return err
		}
		defer f.Close()

		if _, err := f.WriteString(p.getDefaultConfigContents()); err != nil {
			return err
		}
	}

	return nil
}

func (p parser) ensureConfigFile() (string, error) {
	path := env.TRASHCAN_CONFIG_PATH
	if err := p.createConfigFile(path); err != nil {
		return "", configError{
			configPath: path,
			parser:     p,
			err:        err,
		}
	}
	return path, nil
}

func (p parser) readConfigFile(path string) (Config, error) {
	// Keys missing from the file keep their default values
	cfg := *NewDefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, configError{
			configPath: path,
			parser:     p,
			err:        err,
		}
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, configError{
			configPath: path,
			parser:     p,
			err:        err,
		}
	}

	if cfg.Core.HoldingDir, err = expandPath(cfg.Core.HoldingDir); err != nil {
		return cfg, fmt.Errorf("holding_dir: %w", err)
	}

	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return cfg, fmt.Errorf("validation error: Field %s, %q is invalid", verrs[0].Namespace(), verrs[0].Value())
		}
		return cfg, err
	}
	return cfg, nil
}

func initParser() parser {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.Split(fld.Tag.Get("yaml"), ",")[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation("validSize", validateSize)
	_ = validate.RegisterValidation("validDuration", validateDuration)
	_ = validate.RegisterValidation("validDirPath", validateDirPath)

	return parser{}
}

// Parse reads the config file at path. An empty path means the default
// location, which is created with default contents when missing.
func Parse(path string) (Config, error) {
	parser := initParser()

	var configPath string
	if path == "" {
		p, err := parser.ensureConfigFile()
		if err != nil {
			return *NewDefaultConfig(), parsingError{err: err}
		}
		configPath = p
	} else {
		configPath = path
	}
	slog.Debug("config file found", "config-file", configPath)

	cfg, err := parser.readConfigFile(configPath)
	if err != nil {
		return cfg, parsingError{err: err}
	}

	return cfg, nil
}
