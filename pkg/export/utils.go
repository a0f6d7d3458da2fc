package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/c2h5oh/datasize"

	"github.com/voluzi/peaktrace/pkg/utils"
)

// GetDirSize calculates the total size of a directory and its contents.
func GetDirSize(path string) (datasize.ByteSize, error) {
	totalSize, err := utils.DirSize(path)
	if err != nil {
		return 0, fmt.Errorf("failed to calculate directory size: %v", err)
	}
	return datasize.ByteSize(totalSize), nil
}

func bundleMetadata(dir string) map[string]string {
	hostname, _ := os.Hostname()
	return map[string]string{
		"source": filepath.Base(dir),
		"host":   hostname,
	}
}
