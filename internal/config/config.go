package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var ErrConfigNotFound = errors.New("configuration not found")

const (
	AuthAPIToken            = "api_token"
	AuthPersonalAccessToken = "personal_access_token"

	DefaultOutputDir = "./docs/02-requirements"
)

type Settings struct {
	Jira     JiraConfig    `yaml:"jira"`
	Output   OutputConfig  `yaml:"output"`
	Sections []Section     `yaml:"sections,omitempty"`
	Logging  LoggingConfig `yaml:"logging"`
}

type JiraConfig struct {
	URL        string     `yaml:"url"`
	Email      string     `yaml:"email"`
	AuthMethod AuthMethod `yaml:"auth_method"`
}

type AuthMethod struct {
	Type  string `yaml:"type"`
	Token string `yaml:"token"`
}

type OutputConfig struct {
	Dir     string  `yaml:"dir"`
	Buckets Buckets `yaml:"buckets"`
}

// Buckets names the status directories documents are filed under.
type Buckets struct {
	InProgress string `yaml:"in_progress"`
	Completed  string `yaml:"completed"`
	Backlog    string `yaml:"backlog"`
}

// Section maps a custom field onto a document heading.
type Section struct {
	Heading string `yaml:"heading"`
	Field   string `yaml:"field"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Defaults() *Settings {
	return &Settings{
		Jira: JiraConfig{
			AuthMethod: AuthMethod{Type: AuthAPIToken},
		},
		Output: OutputConfig{
			Dir:     DefaultOutputDir,
			Buckets: DefaultBuckets(),
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

func DefaultBuckets() Buckets {
	return Buckets{
		InProgress: "in-progress",
		Completed:  "completed",
		Backlog:    "backlog",
	}
}

// Load reads the config file on top of the defaults.
func Load() (*Settings, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	settings := Defaults()
	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return settings, nil
}

// Resolve loads the config file when present, falls back to defaults when it
// is not, and applies environment overrides either way.
func Resolve() (*Settings, error) {
	settings, err := Load()
	if err != nil {
		if !errors.Is(err, ErrConfigNotFound) {
			return nil, err
		}
		settings = Defaults()
	}
	settings.ApplyEnv()
	return settings, nil
}

// ApplyEnv overrides settings from the process environment and a .env file
// in the working directory, if one exists.
func (s *Settings) ApplyEnv() {
	_ = godotenv.Load()

	setFromEnv(&s.Jira.URL, "JIRA_URL")
	setFromEnv(&s.Jira.Email, "JIRA_EMAIL")
	setFromEnv(&s.Jira.AuthMethod.Token, "JIRA_API_TOKEN")
	setFromEnv(&s.Jira.AuthMethod.Type, "JIRA_AUTH_TYPE")
	setFromEnv(&s.Output.Dir, "JIRA2MD_OUTPUT_DIR")
	setFromEnv(&s.Logging.Level, "JIRA2MD_LOG_LEVEL")
	setFromEnv(&s.Logging.Format, "JIRA2MD_LOG_FORMAT")

	s.Jira.URL = strings.TrimRight(s.Jira.URL, "/")
}

func setFromEnv(target *string, key string) {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		*target = value
	}
}

func (s *Settings) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := os.Chmod(path, 0o600); err != nil {
		return fmt.Errorf("chmod config: %w", err)
	}

	return nil
}

func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".jira2md"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Validate checks everything a local conversion needs. Jira credentials are
// checked separately since only the fetch commands use them.
func (s *Settings) Validate() error {
	return validation.ValidateStruct(s,
		validation.Field(&s.Output),
		validation.Field(&s.Sections),
		validation.Field(&s.Logging),
	)
}

func (o OutputConfig) Validate() error {
	return validation.ValidateStruct(&o,
		validation.Field(&o.Dir, validation.Required),
		validation.Field(&o.Buckets),
	)
}

func (b Buckets) Validate() error {
	return validation.ValidateStruct(&b,
		validation.Field(&b.InProgress, validation.Required, validation.By(plainDirName)),
		validation.Field(&b.Completed, validation.Required, validation.By(plainDirName)),
		validation.Field(&b.Backlog, validation.Required, validation.By(plainDirName)),
	)
}

func (s Section) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Heading, validation.Required),
		validation.Field(&s.Field, validation.Required),
	)
}

func (l LoggingConfig) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Level, validation.In("trace", "debug", "info", "warn", "warning", "error", "fatal")),
		validation.Field(&l.Format, validation.In("console", "json", "pretty")),
	)
}

func (j JiraConfig) Validate() error {
	return validation.ValidateStruct(&j,
		validation.Field(&j.URL, validation.Required),
		validation.Field(&j.Email, validation.When(j.AuthMethod.Type != AuthPersonalAccessToken, validation.Required)),
		validation.Field(&j.AuthMethod),
	)
}

func (a AuthMethod) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Type, validation.Required, validation.In(AuthAPIToken, AuthPersonalAccessToken)),
		validation.Field(&a.Token, validation.Required),
	)
}

func plainDirName(value interface{}) error {
	name, _ := value.(string)
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return errors.New("must be a single directory name")
	}
	return nil
}

func MaskToken(token string) string {
	if len(token) <= 4 {
		return strings.Repeat("*", len(token))
	}
	head := token[:min(4, len(token))]
	tail := token[max(0, len(token)-4):]
	return fmt.Sprintf("%s***%s", head, tail)
}
