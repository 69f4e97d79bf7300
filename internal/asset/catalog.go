package asset

import (
	"errors"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"strings"

	"github.com/ugaemi/binsort-server/internal/game"
)

// Image categories, one directory each under the asset root.
const (
	Category15c        = "15c"
	Category25c        = "25c"
	CategoryGlassWhite = "glass-white"
	CategoryGlassBrown = "glass-brown"
	CategoryGlassGreen = "glass-green"
)

var categories = []string{
	Category15c,
	Category25c,
	CategoryGlassWhite,
	CategoryGlassBrown,
	CategoryGlassGreen,
}

// fallbacks are served when a category directory is missing or empty.
var fallbacks = map[string]string{
	Category15c:        "beer-can-15c.png",
	Category25c:        "plastic-bottle-25c.png",
	CategoryGlassWhite: "glass-bottle-white.png",
	CategoryGlassBrown: "glass-bottle-brown.png",
	CategoryGlassGreen: "glass-bottle-green.png",
}

var imageExt = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".svg": true}

// Catalog maps items to image URLs. It is read-only after Scan and safe for
// concurrent use.
type Catalog struct {
	prefix string
	images map[string][]string
}

// NewCatalog returns a catalog that only knows the fallback images.
func NewCatalog(prefix string) *Catalog {
	return &Catalog{
		prefix: strings.TrimSuffix(prefix, "/"),
		images: make(map[string][]string),
	}
}

// Scan lists the image files of every category in fsys. A missing category
// directory is not an error; the category falls back to its default image.
func Scan(fsys fs.FS, prefix string) (*Catalog, error) {
	c := NewCatalog(prefix)
	for _, cat := range categories {
		entries, err := fs.ReadDir(fsys, cat)
		if errors.Is(err, fs.ErrNotExist) {
			slog.Warn("asset category missing, using fallback", "category", cat)
			continue
		}
		if err != nil {
			return nil, err
		}

		var files []string
		for _, e := range entries {
			if e.IsDir() || !imageExt[strings.ToLower(path.Ext(e.Name()))] {
				continue
			}
			files = append(files, e.Name())
		}
		sort.Strings(files)
		c.images[cat] = files
	}
	return c, nil
}

// CategoryFor names the image category of an item.
func CategoryFor(item game.Item) string {
	switch item.Material {
	case game.MaterialPlastic:
		if item.DepositValue == 25 {
			return Category25c
		}
		return Category15c
	case game.MaterialAluminum:
		return Category15c
	case game.MaterialGlass:
		switch item.Color {
		case game.ColorGreen:
			return CategoryGlassGreen
		case game.ColorBrown:
			return CategoryGlassBrown
		default:
			return CategoryGlassWhite
		}
	}
	return Category15c
}

// Resolve returns the image URL for an item. The choice within a category is
// keyed on the item id so an item keeps its image for its whole life.
func (c *Catalog) Resolve(item game.Item) string {
	cat := CategoryFor(item)
	files := c.images[cat]
	if len(files) == 0 {
		return c.prefix + "/" + cat + "/" + fallbacks[cat]
	}
	idx := item.ID % len(files)
	if idx < 0 {
		idx += len(files)
	}
	return c.prefix + "/" + cat + "/" + files[idx]
}

// Stats counts images per category.
func (c *Catalog) Stats() map[string]int {
	out := make(map[string]int, len(categories))
	for _, cat := range categories {
		out[cat] = len(c.images[cat])
	}
	return out
}
