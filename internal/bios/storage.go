// Package bios implements the coordination surface the front-end launcher
// owns: storage discovery, overlay-daemon lifecycle, launch sequencing, and
// game process lifecycle (§4.4). Cartridge parsing, the launcher UI, and
// save-archiving are external collaborators named only at their interface.
package bios

import (
	"os"
	"path/filepath"
)

// StorageMedium is one entry in the ordered list of places cartridges can
// live: the internal disk is always first, followed by external media
// discovered under /media or /run/media (§4.4 Device discovery).
type StorageMedium struct {
	Label    string
	Path     string
	Internal bool
}

const internalStorageLabel = "Internal"

// internalStorageRoot is where the internal disk's cartridge tree lives.
// It is a fixed path: KAZETA_PROJECT_ROOT does not change it.
var internalStorageRoot = "/var/kazeta/data/carts"

var externalMountRoots = []string{"/media", "/run/media"}

// DiscoverStorage refreshes the ordered medium list on demand (§4.4: "is
// refreshed on demand", not cached across calls). The internal disk is
// always present as the first entry even if its directory does not yet
// exist, since a missing directory is a legitimate "no carts yet" state,
// not an absent medium.
func DiscoverStorage() []StorageMedium {
	media := []StorageMedium{{Label: internalStorageLabel, Path: internalStorageRoot, Internal: true}}

	for _, root := range externalMountRoots {
		entries, err := os.ReadDir(root)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if !e.IsDir() {
				continue
			}
			media = append(media, StorageMedium{
				Label: e.Name(),
				Path:  filepath.Join(root, e.Name()),
			})
		}
	}
	return media
}
