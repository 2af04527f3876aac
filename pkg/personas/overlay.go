package personas

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Overlay is the YAML document that adds or customizes personas:
//
//	personas:
//	  - id: pirate
//	    name: Pirate
//	    instruction: You talk like a pirate.
//	  - id: doctor
//	    greeting: Ahoy, what ails ye?
type Overlay struct {
	Personas []*Persona `yaml:"personas"`
}

func DecodeOverlay(data []byte) (*Overlay, error) {
	ret := &Overlay{}
	if err := yaml.Unmarshal(data, ret); err != nil {
		return nil, errors.Wrap(err, "could not parse persona overlay")
	}
	return ret, nil
}

func LoadOverlay(path string) (*Overlay, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read persona overlay %s", path)
	}
	ret, err := DecodeOverlay(data)
	if err != nil {
		return nil, errors.Wrapf(err, "persona overlay %s", path)
	}

	// Custom personas report the modification time of the file they come from.
	createdAt := time.Now().UTC()
	if info, err := os.Stat(path); err == nil {
		createdAt = info.ModTime().UTC()
	}
	for _, p := range ret.Personas {
		if p != nil && p.CreatedAt.IsZero() {
			p.CreatedAt = createdAt
		}
	}
	return ret, nil
}

// Load returns the built-in catalog, overlaid with the personas file when path
// is set.
func Load(path string) (*Catalog, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	overlay, err := LoadOverlay(path)
	if err != nil {
		return nil, err
	}
	return c.Merge(overlay.Personas)
}
