package memusage

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/shirou/gopsutil/mem"
	log "github.com/sirupsen/logrus"
)

// DefaultMeminfoPath is where container runtimes expose the cgroup view
// of /proc/meminfo. Values are in kB, like the host file.
const DefaultMeminfoPath = "/sys/fs/cgroup/memory/memory.meminfo"

// SystemProvider reports used bytes of system memory, preferring the
// cgroup meminfo of the container over the host total. On CPU devices
// the result is divided by the local world size, so that each training
// process on the node is attributed an equal share.
type SystemProvider struct {
	meminfoPath string
	worldSize   int
}

func NewSystemProvider(opts ...Option) *SystemProvider {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	worldSize := options.WorldSize
	if worldSize < 1 {
		log.WithField("world_size", worldSize).Warn("invalid local world size, using 1")
		worldSize = 1
	}

	return &SystemProvider{
		meminfoPath: options.MeminfoPath,
		worldSize:   worldSize,
	}
}

func (s *SystemProvider) Sample(ctx context.Context, device Device) (uint64, error) {
	if device.Kind != DeviceCPU {
		return 0, Terminal(fmt.Errorf("system provider cannot sample device %q", device))
	}

	used, err := s.usedBytes(ctx)
	if err != nil {
		return 0, err
	}
	return used / uint64(s.worldSize), nil
}

func (s *SystemProvider) usedBytes(ctx context.Context) (uint64, error) {
	f, err := os.Open(s.meminfoPath)
	if err != nil {
		if os.IsNotExist(err) {
			// Not inside a memory cgroup, fall back to host memory.
			vm, err := mem.VirtualMemoryWithContext(ctx)
			if err != nil {
				return 0, err
			}
			return vm.Used, nil
		}
		return 0, err
	}
	defer f.Close()

	fields, err := parseMeminfo(f)
	if err != nil {
		return 0, Terminal(fmt.Errorf("parsing %s: %w", s.meminfoPath, err))
	}

	total := fields["MemTotal"]
	free := fields["MemFree"]
	cached := fields["Cached"]
	buffers := fields["Buffers"]

	// Cached pages are reclaimable, so they do not count as used. Some
	// kernels report cached larger than total-free; clamp in that case.
	if free+cached+buffers > total {
		return total - free, nil
	}
	return total - free - cached - buffers, nil
}

func parseMeminfo(f *os.File) (map[string]uint64, error) {
	fields := make(map[string]uint64)

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		name, value, found := strings.Cut(scanner.Text(), ":")
		if !found {
			continue
		}
		kb, err := strconv.ParseUint(strings.TrimSuffix(strings.TrimSpace(value), " kB"), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", name, err)
		}
		fields[name] = kb * 1024
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	for _, required := range []string{"MemTotal", "MemFree"} {
		if _, ok := fields[required]; !ok {
			return nil, fmt.Errorf("field %s missing", required)
		}
	}
	return fields, nil
}
