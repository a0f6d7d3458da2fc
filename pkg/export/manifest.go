package export

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"

	"github.com/voluzi/peaktrace/pkg/utils"
)

// BuildManifest walks dir and returns a relative-path to sha256 digest
// map covering every regular file, so a downloaded bundle can be
// verified file by file.
func BuildManifest(dir string) (map[string]string, error) {
	manifest := make(map[string]string)

	err := filepath.Walk(dir, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || strings.HasSuffix(info.Name(), ".tmp") {
			return nil
		}

		relPath, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		digest, err := utils.Sha256File(path)
		if err != nil {
			return err
		}
		manifest[relPath] = digest
		return nil
	})
	return manifest, err
}

// ManifestDigest condenses a manifest into a single digest, stamped on
// the bundle object so it can be paired with its manifest later.
func ManifestDigest(manifest map[string]string) string {
	b, _ := json.Marshal(manifest)
	return utils.Sha256(string(b))
}
