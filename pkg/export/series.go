package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"

	"github.com/voluzi/peaktrace/pkg/monitor"
)

// WriteSeries persists a snapshot as JSON. The write is atomic: data
// is staged in a sibling file and renamed into place, so a concurrent
// reader never observes a partial series.
func WriteSeries(path string, snapshot monitor.Snapshot) error {
	if len(snapshot.Timestamps) != len(snapshot.Usages) {
		return fmt.Errorf("corrupt snapshot: %d timestamps vs %d usages",
			len(snapshot.Timestamps), len(snapshot.Usages))
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func ReadSeries(path string) (monitor.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return monitor.Snapshot{}, err
	}

	var snapshot monitor.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return monitor.Snapshot{}, fmt.Errorf("parsing %s: %v", path, err)
	}
	if len(snapshot.Timestamps) != len(snapshot.Usages) {
		return monitor.Snapshot{}, fmt.Errorf("corrupt series %s: %d timestamps vs %d usages",
			path, len(snapshot.Timestamps), len(snapshot.Usages))
	}
	return snapshot, nil
}
