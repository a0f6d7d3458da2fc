package memusage

import (
	"context"
	"fmt"
	"sync"

	"github.com/shirou/gopsutil/process"
)

// ProcessProvider reports the resident set size of a single training
// process, addressed by PID or by executable name. The process handle
// is cached after the first successful lookup. Safe for concurrent use;
// the sampling loop and on-demand HTTP sampling share one instance.
type ProcessProvider struct {
	pid  int32
	name string

	mu   sync.Mutex
	proc *process.Process
}

func NewProcessProvider(opts ...Option) (*ProcessProvider, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	if options.PID == 0 && options.ProcessName == "" {
		return nil, fmt.Errorf("process provider requires a pid or a process name")
	}

	return &ProcessProvider{
		pid:  options.PID,
		name: options.ProcessName,
	}, nil
}

func (p *ProcessProvider) Sample(ctx context.Context, _ Device) (uint64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	proc, err := p.getProcess(ctx)
	if err != nil {
		// The training process may simply not have started yet.
		return 0, err
	}

	info, err := proc.MemoryInfoWithContext(ctx)
	if err != nil {
		if running, _ := process.PidExistsWithContext(ctx, proc.Pid); !running {
			p.proc = nil
			return 0, Terminal(fmt.Errorf("process %d is gone: %w", proc.Pid, err))
		}
		return 0, err
	}
	return info.RSS, nil
}

func (p *ProcessProvider) getProcess(ctx context.Context) (*process.Process, error) {
	if p.proc != nil {
		return p.proc, nil
	}

	var err error
	if p.pid != 0 {
		p.proc, err = process.NewProcessWithContext(ctx, p.pid)
	} else {
		p.proc, err = findProcessByName(ctx, p.name)
	}
	return p.proc, err
}

// findProcessByName searches for a process by name using gopsutil
func findProcessByName(ctx context.Context, name string) (*process.Process, error) {
	processes, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, err
	}

	for _, proc := range processes {
		pname, err := proc.NameWithContext(ctx)
		if err == nil && pname == name {
			return proc, nil
		}
	}
	return nil, fmt.Errorf("process %s not found", name)
}
