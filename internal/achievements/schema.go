package achievements

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	CatalogKind            = "achievement_catalog"
	SupportedSchemaVersion = 1
)

var idPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{2,63}$`)

type Category string

const (
	CategoryProgress Category = "progress"
	CategoryStreak   Category = "streak"
	CategoryQuiz     Category = "quiz"
	CategoryCourse   Category = "course"
	CategorySocial   Category = "social"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryProgress, CategoryStreak, CategoryQuiz, CategoryCourse, CategorySocial:
		return true
	}
	return false
}

type Catalog struct {
	Kind          string       `yaml:"kind"`
	SchemaVersion int          `yaml:"schema_version"`
	Achievements  []Definition `yaml:"achievements"`

	Path string `yaml:"-"`
}

type Definition struct {
	ID          string   `yaml:"id"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Icon        string   `yaml:"icon"`
	Category    Category `yaml:"category"`
	Rule        Rule     `yaml:"rule"`
}

// Rule unlocks an achievement once Metric reaches AtLeast.
type Rule struct {
	Metric  string  `yaml:"metric"`
	AtLeast float64 `yaml:"at_least"`
}

func (c Catalog) Validate() error {
	if c.Kind != CatalogKind {
		return fmt.Errorf("kind must be %q", CatalogKind)
	}
	if c.SchemaVersion == 0 {
		return fmt.Errorf("schema_version is required")
	}
	if c.SchemaVersion > SupportedSchemaVersion {
		return fmt.Errorf("unsupported catalog schema_version %d (max supported %d)", c.SchemaVersion, SupportedSchemaVersion)
	}
	seen := map[string]struct{}{}
	for _, d := range c.Achievements {
		if err := d.Validate(); err != nil {
			return err
		}
		if _, ok := seen[d.ID]; ok {
			return fmt.Errorf("duplicate achievement id %q", d.ID)
		}
		seen[d.ID] = struct{}{}
	}
	return nil
}

func (d Definition) Validate() error {
	if !idPattern.MatchString(d.ID) {
		return fmt.Errorf("invalid achievement id %q", d.ID)
	}
	if d.Title == "" {
		return fmt.Errorf("achievement %q: title is required", d.ID)
	}
	if !d.Category.Valid() {
		return fmt.Errorf("achievement %q: invalid category %q", d.ID, d.Category)
	}
	if !KnownMetric(d.Rule.Metric) {
		return fmt.Errorf("achievement %q: unknown rule.metric %q (known: %s)", d.ID, d.Rule.Metric, strings.Join(Metrics(), ", "))
	}
	if d.Rule.AtLeast <= 0 {
		return fmt.Errorf("achievement %q: rule.at_least must be >0", d.ID)
	}
	return nil
}
