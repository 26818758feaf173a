package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"

	"love-dice/internal/random"
)

//go:embed dares.yaml
var embeddedCatalog []byte

var (
	ErrInvalidCatalog = errors.New("invalid dare catalog")
	ErrNoDare         = errors.New("no dare available for roll")
)

// Entry is one canned dare.
type Entry struct {
	RollNumber int      `yaml:"roll_number" json:"roll_number"`
	GenderTag  string   `yaml:"gender_tag" json:"gender_tag"`
	DareText   string   `yaml:"dare_text" json:"dare_text"`
	Severity   string   `yaml:"severity" json:"severity"`
	DateStage  string   `yaml:"date_stage" json:"date_stage"`
	SafeTags   []string `yaml:"safe_tags" json:"safe_tags"`
}

type file struct {
	Version  string  `yaml:"version"`
	DieSides int     `yaml:"die_sides"`
	Entries  []Entry `yaml:"entries"`
}

type poolKey struct {
	roll   int
	gender string
}

// Catalog is an immutable, versioned dare table indexed by (roll, gender).
type Catalog struct {
	version  string
	dieSides int
	entries  []Entry
	pools    map[poolKey][]Entry
	genders  []string
}

// Draw is the result of one roll against the catalog.
type Draw struct {
	RollNumber int
	Entry      Entry
}

// Default parses the catalog compiled into the binary.
func Default() (*Catalog, error) {
	return Parse(embeddedCatalog)
}

// Load reads a catalog from path, or the embedded one when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dare catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML catalog.
func Parse(data []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	return New(f.Version, f.DieSides, f.Entries)
}

// New builds a catalog from in-memory entries.
func New(version string, dieSides int, entries []Entry) (*Catalog, error) {
	if version == "" {
		return nil, fmt.Errorf("%w: version is required", ErrInvalidCatalog)
	}
	if dieSides < 1 {
		return nil, fmt.Errorf("%w: die_sides must be positive, got %d", ErrInvalidCatalog, dieSides)
	}

	c := &Catalog{
		version:  version,
		dieSides: dieSides,
		pools:    make(map[poolKey][]Entry),
	}
	seen := make(map[string]bool)
	for i, e := range entries {
		e.GenderTag = NormalizeGender(e.GenderTag)
		e.DareText = strings.TrimSpace(e.DareText)
		if e.RollNumber < 1 || e.RollNumber > dieSides {
			return nil, fmt.Errorf("%w: entry %d roll_number %d outside 1..%d", ErrInvalidCatalog, i, e.RollNumber, dieSides)
		}
		if e.GenderTag == "" {
			return nil, fmt.Errorf("%w: entry %d has no gender_tag", ErrInvalidCatalog, i)
		}
		if e.DareText == "" {
			return nil, fmt.Errorf("%w: entry %d has no dare_text", ErrInvalidCatalog, i)
		}
		key := poolKey{roll: e.RollNumber, gender: e.GenderTag}
		c.pools[key] = append(c.pools[key], e)
		c.entries = append(c.entries, e)
		if !seen[e.GenderTag] {
			seen[e.GenderTag] = true
			c.genders = append(c.genders, e.GenderTag)
		}
	}
	sort.Strings(c.genders)
	return c, nil
}

// NormalizeGender lowercases and trims a gender tag.
func NormalizeGender(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

func (c *Catalog) Version() string { return c.version }

func (c *Catalog) DieSides() int { return c.dieSides }

func (c *Catalog) Genders() []string {
	out := make([]string, len(c.genders))
	copy(out, c.genders)
	return out
}

// HasGender reports whether any entry carries the tag.
func (c *Catalog) HasGender(tag string) bool {
	tag = NormalizeGender(tag)
	for _, g := range c.genders {
		if g == tag {
			return true
		}
	}
	return false
}

// Pool returns a copy of the entries matching (roll, gender).
func (c *Catalog) Pool(roll int, gender string) []Entry {
	pool := c.pools[poolKey{roll: roll, gender: NormalizeGender(gender)}]
	out := make([]Entry, len(pool))
	copy(out, pool)
	return out
}

// CountByGender returns the number of entries per gender tag.
func (c *Catalog) CountByGender() map[string]int {
	counts := make(map[string]int, len(c.genders))
	for _, e := range c.entries {
		counts[e.GenderTag]++
	}
	return counts
}

// Roll draws a die value uniformly from 1..DieSides and then one entry
// uniformly from the matching pool. An empty pool yields ErrNoDare along
// with the rolled value.
func (c *Catalog) Roll(src random.Source, gender string) (Draw, error) {
	n, err := src.IntN(c.dieSides)
	if err != nil {
		return Draw{}, fmt.Errorf("failed to roll die: %w", err)
	}
	roll := n + 1

	pool := c.pools[poolKey{roll: roll, gender: NormalizeGender(gender)}]
	if len(pool) == 0 {
		return Draw{RollNumber: roll}, ErrNoDare
	}

	idx, err := src.IntN(len(pool))
	if err != nil {
		return Draw{}, fmt.Errorf("failed to pick dare: %w", err)
	}
	return Draw{RollNumber: roll, Entry: pool[idx]}, nil
}
