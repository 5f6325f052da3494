package campus

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/davidahmann/campusguard/internal/digest"
)

// RequiredSections lists the top-level keys every campus document carries,
// in the order they are checked.
var RequiredSections = []string{
	"campus",
	"infrastructure",
	"risk_zones",
	"emergency_contacts",
	"incident_policies",
	"user_roles",
	"privacy_rules",
	"governance",
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads a campus document (YAML or JSON) and returns a validated Store.
func Load(path string) (*Store, error) {
	// #nosec G304 -- path comes from operator-configured campus config path.
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigNotFound, err)
	}

	store, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("load campus config %s: %w", path, err)
	}
	store.path = path
	return store, nil
}

// Parse decodes and validates a campus document held in memory. The document
// is used verbatim, so the hash identifies exactly what is evaluated.
func Parse(data []byte) (*Store, error) {
	var sections map[string]any
	if err := yaml.Unmarshal(data, &sections); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigInvalid, err)
	}
	for _, section := range RequiredSections {
		if _, ok := sections[section]; !ok {
			return nil, &MissingSectionError{Section: section}
		}
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigInvalid, err)
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigInvalid, err)
	}

	return &Store{
		cfg:  cfg,
		hash: digest.Sum(data),
	}, nil
}
