package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/rulectx/rulectx/pkg/yaml"
)

var (
	ErrEmptyRepo       = errors.New("repository must not be empty")
	ErrUnknownSource   = errors.New("unknown rule source")
	ErrNegativeBudget  = errors.New("selection budgets must not be negative")
	ErrUnknownCategory = errors.New("unknown prompt category")
)

type ConfigValidator interface {
	Validate(data any) error
}

// ConfigLoader validates and decodes one configuration document.
type ConfigLoader struct {
	cv   ConfigValidator
	data []byte
}

type ConfigLoaderOpt func(*ConfigLoader)

func WithConfigValidator(cv ConfigValidator) ConfigLoaderOpt {
	return func(cl *ConfigLoader) {
		cl.cv = cv
	}
}

func NewConfigLoaderFromBytes(data []byte, opts ...ConfigLoaderOpt) *ConfigLoader {
	cl := &ConfigLoader{
		cv:   DefaultValidator,
		data: data,
	}
	for _, opt := range opts {
		opt(cl)
	}

	return cl
}

func NewConfigLoaderFromFile(path string, opts ...ConfigLoaderOpt) (*ConfigLoader, error) {
	data, err := readConfig(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	return NewConfigLoaderFromBytes(data, opts...), nil
}

// Validate checks the raw document against the JSON schema without loading
// it into a [Config].
func (cl *ConfigLoader) Validate() error {
	var anyConfig any

	dec := yaml.NewDecoder(bytes.NewReader(cl.data))

	err := dec.Decode(&anyConfig)
	if err != nil {
		return fmt.Errorf("decode config: %w", err)
	}

	err = cl.cv.Validate(anyConfig)
	if err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	return nil
}

// Load decodes the document, applies defaults, and runs the Go validation
// for requirements the schema cannot represent.
func (cl *ConfigLoader) Load() (*Config, error) {
	c := &Config{}
	dec := yaml.NewDecoder(bytes.NewReader(cl.data))

	err := dec.Decode(c)
	if err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	c.EnsureDefaults()

	err = c.Validate()
	if err != nil {
		return nil, err
	}

	return c, nil
}

func readConfig(path string) ([]byte, error) {
	pathInfo, err := os.Stat(path)
	if pathInfo != nil {
		if err == nil && pathInfo.IsDir() {
			return nil, fmt.Errorf("%s: path is a directory", path)
		}

		if err == nil && !pathInfo.Mode().IsRegular() {
			return nil, fmt.Errorf("%s: unknown file state", path)
		}
	}

	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}

	data, err := os.ReadFile(path) //nolint:gosec // G304: Potential file inclusion via variable.
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}
