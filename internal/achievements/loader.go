package achievements

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultCatalog []byte

// Default returns the built-in catalog. It panics if the embedded file is invalid.
func Default() *Catalog {
	c, err := Parse(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("embedded achievement catalog: %v", err))
	}
	return c
}

// Load reads a catalog file; an empty path yields the built-in catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	c, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", path, err)
	}
	c.Path = path
	return c, nil
}

func Parse(b []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	applyDefaults(&c)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func applyDefaults(c *Catalog) {
	for i := range c.Achievements {
		d := &c.Achievements[i]
		if d.Icon == "" {
			d.Icon = defaultIcon(d.Category)
		}
	}
}

func defaultIcon(c Category) string {
	switch c {
	case CategoryStreak:
		return "flame"
	case CategoryQuiz:
		return "lightbulb"
	case CategoryCourse:
		return "school"
	case CategorySocial:
		return "people"
	default:
		return "trophy"
	}
}
