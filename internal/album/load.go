package album

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ErrNoAlbums is returned when a directory holds no album artwork.
var ErrNoAlbums = errors.New("no album artwork found")

// artworkExt is the only extension treated as album artwork.
const artworkExt = ".jpg"

// LoadNames lists the album artwork file names in dir.
//
// Names are NFC normalized before sorting so that visually identical names
// produced by different filesystems (macOS stores NFD) sort identically.
// Subdirectories are not scanned.
func LoadNames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read album directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.ToLower(filepath.Ext(entry.Name())) != artworkExt {
			continue
		}
		names = append(names, norm.NFC.String(entry.Name()))
	}

	if len(names) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoAlbums, dir)
	}

	sort.Strings(names)
	return names, nil
}
