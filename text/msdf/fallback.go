package msdf

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"sync"

	"github.com/zokrezyl/yetty/text"
)

// colorBitmapTables are the OpenType tables that mark a font as
// color-bitmap (and therefore unusable for MSDF, which requires a
// scalable outline).
var colorBitmapTables = map[string]bool{
	"CBDT": true,
	"CBLC": true,
	"sbix": true,
}

// FallbackFinder searches a set of host font directories for a font
// containing a requested codepoint, rejecting color-bitmap fonts.
// There is no fontconfig-equivalent library in the dependency set
// available to this module, so discovery is a plain directory scan
// validated by parsing each candidate with golang.org/x/image's sfnt
// backend (the same parser the primary font loader uses).
type FallbackFinder struct {
	mu sync.Mutex

	dirs      []string
	extractor *text.OutlineExtractor

	// cache holds already-opened candidate sources, keyed by path.
	cache map[string]*text.FontSource
	// scanned is true once Dirs has been walked into candidatePaths.
	scanned       bool
	candidatePaths []string
}

// DefaultFontDirs returns the conventional font install locations on
// Linux, macOS, and Windows. Directories that do not exist are
// skipped silently during Find.
func DefaultFontDirs() []string {
	home, _ := os.UserHomeDir()
	dirs := []string{
		"/usr/share/fonts",
		"/usr/local/share/fonts",
		"/System/Library/Fonts",
		"/Library/Fonts",
	}
	if home != "" {
		dirs = append(dirs,
			filepath.Join(home, ".fonts"),
			filepath.Join(home, ".local/share/fonts"),
			filepath.Join(home, "Library/Fonts"),
		)
	}
	return dirs
}

// NewFallbackFinder creates a finder that scans dirs for candidate
// fonts. Pass nil to use DefaultFontDirs.
func NewFallbackFinder(dirs []string) *FallbackFinder {
	if dirs == nil {
		dirs = DefaultFontDirs()
	}
	return &FallbackFinder{
		dirs:      dirs,
		extractor: text.NewOutlineExtractor(),
		cache:     make(map[string]*text.FontSource),
	}
}

// Find searches candidate fonts in directory order for one containing
// codepoint with a non-empty scalable outline. Returns the extracted
// outline and true on success.
func (f *FallbackFinder) Find(codepoint rune, fontSize float64) (*text.GlyphOutline, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.scanned {
		f.candidatePaths = scanFontFiles(f.dirs)
		f.scanned = true
	}

	for _, path := range f.candidatePaths {
		src, ok := f.cache[path]
		if !ok {
			data, err := os.ReadFile(path) // #nosec G304 -- scanned from fixed font directories
			if err != nil {
				continue
			}
			if isColorBitmapFont(data) {
				continue
			}
			src, err = text.NewFontSource(data)
			if err != nil {
				continue
			}
			f.cache[path] = src
		}

		gid := src.Parsed().GlyphIndex(codepoint)
		if gid == 0 {
			continue
		}
		outline, err := f.extractor.ExtractOutline(src.Parsed(), text.GlyphID(gid), fontSize)
		if err != nil || outline == nil || outline.IsEmpty() {
			continue
		}
		return outline, true
	}
	return nil, false
}

// scanFontFiles walks dirs recursively, collecting .ttf/.otf/.ttc paths.
func scanFontFiles(dirs []string) []string {
	var out []string
	for _, dir := range dirs {
		_ = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return nil //nolint:nilerr // best-effort scan, skip unreadable entries
			}
			switch filepath.Ext(path) {
			case ".ttf", ".otf", ".ttc":
				out = append(out, path)
			}
			return nil
		})
	}
	return out
}

// isColorBitmapFont reports whether data's OpenType table directory
// contains a color-bitmap table (CBDT/CBLC/sbix). Returns false (and
// lets the caller proceed) if the table directory cannot be parsed;
// NewFontSource will reject genuinely malformed data on its own.
func isColorBitmapFont(data []byte) bool {
	if len(data) < 12 {
		return false
	}
	numTables := int(binary.BigEndian.Uint16(data[4:6]))
	const recordSize = 16
	const headerSize = 12
	for i := 0; i < numTables; i++ {
		off := headerSize + i*recordSize
		if off+4 > len(data) {
			break
		}
		tag := string(data[off : off+4])
		if colorBitmapTables[tag] {
			return true
		}
	}
	return false
}
