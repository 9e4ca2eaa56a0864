// Package presets holds named mkfsbwfs sizing presets (e.g. "small",
// "default"), loaded from an embedded CSV the same way the teacher's
// disk-geometry table is loaded.
package presets

import (
	_ "embed"
	"fmt"
	"io"
	"strings"

	"github.com/gocarina/gocsv"
)

// Preset is one named total_blocks value a caller can pick by slug instead
// of spelling out a raw block count.
type Preset struct {
	Name        string `csv:"name"`
	Slug        string `csv:"slug"`
	TotalBlocks uint32 `csv:"total_blocks"`
	Notes       string `csv:"notes"`
}

//go:embed presets.csv
var rawCSV string

var bySlug map[string]Preset

func init() {
	bySlug = make(map[string]Preset)
	reader := strings.NewReader(rawCSV)
	err := gocsv.UnmarshalToCallback(reader, func(row Preset) error {
		if _, exists := bySlug[row.Slug]; exists {
			return fmt.Errorf("duplicate preset slug %q", row.Slug)
		}
		bySlug[row.Slug] = row
		return nil
	})
	if err != nil && err != io.EOF {
		panic(err)
	}
}

// Lookup returns the preset registered under slug, if any.
func Lookup(slug string) (Preset, bool) {
	p, ok := bySlug[slug]
	return p, ok
}

// Slugs returns every registered preset slug, for help text and -h output.
func Slugs() []string {
	slugs := make([]string, 0, len(bySlug))
	for s := range bySlug {
		slugs = append(slugs, s)
	}
	return slugs
}
