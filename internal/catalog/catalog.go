// Package catalog maps validation failure keys to the user-facing strings of the form.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/carddelivery/internal/dates"
	"github.com/julianstephens/carddelivery/internal/rules"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// ErrIncomplete is returned when a catalog does not define every failure key.
var ErrIncomplete = errors.New("catalog is incomplete")

// UI holds the non-error strings of the form.
type UI struct {
	NotificationTitle  string `yaml:"notification_title"`
	ConfirmationPrefix string `yaml:"confirmation_prefix"`
	SubmitButton       string `yaml:"submit_button"`
}

// Catalog is a versioned set of form strings. It is read-only after loading.
type Catalog struct {
	Version  int                  `yaml:"version"`
	Locale   string               `yaml:"locale"`
	Messages map[rules.Key]string `yaml:"messages"`
	UI       UI                   `yaml:"ui"`
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := Parse(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded catalog invalid: %v", err))
	}
	return c
}

// Load reads a catalog file. An empty path returns the built-in catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file %q: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog file %q: %w", path, err)
	}
	return c, nil
}

// Parse decodes and checks a YAML catalog.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	if err := c.check(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) check() error {
	if c.Version < 1 {
		return fmt.Errorf("%w: version must be at least 1", ErrIncomplete)
	}
	for _, key := range rules.Keys {
		msg, ok := c.Messages[key]
		if !ok {
			return fmt.Errorf("%w: missing message %q", ErrIncomplete, key)
		}
		if msg == "" && key != rules.NotAccepted {
			return fmt.Errorf("%w: empty message %q", ErrIncomplete, key)
		}
	}
	if c.UI.ConfirmationPrefix == "" {
		return fmt.Errorf("%w: missing ui.confirmation_prefix", ErrIncomplete)
	}
	return nil
}

// Message returns the text for key. Keys without text (the agreement flag) and
// unknown keys return "".
func (c *Catalog) Message(key rules.Key) string {
	return c.Messages[key]
}

// Lookup finds the key whose message equals text.
func (c *Catalog) Lookup(text string) (rules.Key, bool) {
	if text == "" {
		return rules.OK, false
	}
	for _, key := range rules.Keys {
		if c.Messages[key] == text {
			return key, true
		}
	}
	return rules.OK, false
}

// Confirmation renders the success notification text for a booked date.
func (c *Catalog) Confirmation(date time.Time) string {
	return c.UI.ConfirmationPrefix + " " + dates.Format(date)
}
