// Package memusage provides memory usage providers for the devices a
// training process allocates on. A provider answers "how many bytes are
// in use right now" for a given device; the sampling monitor polls it.
package memusage

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

type DeviceKind string

const (
	DeviceCPU DeviceKind = "cpu"
	DeviceGPU DeviceKind = "gpu"
)

// Device addresses a single resource to sample. CPU devices have no
// index; GPU devices are addressed as gpu:N.
type Device struct {
	Kind  DeviceKind
	Index int
}

func (d Device) String() string {
	if d.Kind == DeviceGPU {
		return fmt.Sprintf("%s:%d", d.Kind, d.Index)
	}
	return string(d.Kind)
}

func ParseDevice(s string) (Device, error) {
	kind, index, indexed := strings.Cut(s, ":")

	device := Device{Kind: DeviceKind(kind)}
	switch device.Kind {
	case DeviceCPU:
		if indexed {
			return Device{}, fmt.Errorf("cpu devices are not indexed: %q", s)
		}
	case DeviceGPU:
		if indexed {
			i, err := strconv.Atoi(index)
			if err != nil || i < 0 {
				return Device{}, fmt.Errorf("invalid gpu index in %q", s)
			}
			device.Index = i
		}
	default:
		return Device{}, fmt.Errorf("unknown device %q", s)
	}
	return device, nil
}

// Provider reports current memory usage of a device in bytes.
//
// Sample must be cheap and must not block longer than a bounded, short
// duration; the sampling loop calls it on every tick. A provider MAY
// reset an internal peak counter as a side effect of sampling, so
// callers must not assume re-sampling is free of side effects.
//
// Errors returned from Sample are recoverable by default: the tick that
// hit the fault is skipped and sampling continues. Faults that cannot
// heal on a retry must be wrapped with Terminal.
type Provider interface {
	Sample(ctx context.Context, device Device) (uint64, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context, device Device) (uint64, error)

func (f ProviderFunc) Sample(ctx context.Context, device Device) (uint64, error) {
	return f(ctx, device)
}

// Dispatch routes samples to a provider by device kind.
type Dispatch map[DeviceKind]Provider

func (d Dispatch) Sample(ctx context.Context, device Device) (uint64, error) {
	provider, ok := d[device.Kind]
	if !ok {
		return 0, Terminal(fmt.Errorf("no provider registered for device %q", device))
	}
	return provider.Sample(ctx, device)
}
