package player

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/finchley/moodfm/internal/services"
	"github.com/finchley/moodfm/internal/shared"
)

// DeviceLister lists the remote playback devices visible to the account.
//
// Implemented by [services.SpotifyClient].
type DeviceLister interface {
	Devices(ctx context.Context) ([]services.Device, error)
}

// ConnectOpts contains configuration options for creating a [SpotifyConnector].
type ConnectOpts struct {
	Devices      DeviceLister
	DeviceName   string
	Timeout      time.Duration
	PollInterval time.Duration
	Logger       *log.Logger
}

// SpotifyConnector waits for a Spotify Connect device to report ready.
//
// It polls the devices endpoint until a device with the configured name
// appears, falling back to whichever device is currently active.
type SpotifyConnector struct {
	devices      DeviceLister
	deviceName   string
	timeout      time.Duration
	pollInterval time.Duration
	logger       *log.Logger
}

// NewSpotifyConnector creates a [SpotifyConnector] from the given options.
func NewSpotifyConnector(opts ConnectOpts) *SpotifyConnector {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = 2 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	return &SpotifyConnector{
		devices:      opts.Devices,
		deviceName:   opts.DeviceName,
		timeout:      opts.Timeout,
		pollInterval: opts.PollInterval,
		logger:       opts.Logger,
	}
}

// Connect implements [Connector].
func (c *SpotifyConnector) Connect(ctx context.Context) (DeviceHandle, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		devices, err := c.devices.Devices(ctx)
		switch {
		case errors.Is(err, shared.ErrNotAuthenticated), errors.Is(err, shared.ErrRefreshFailed):
			return DeviceHandle{}, fmt.Errorf("%w: %v", ErrAuthentication, err)
		case errors.Is(err, shared.ErrTrackNotPlayable):
			return DeviceHandle{}, fmt.Errorf("%w: %v", ErrAccount, err)
		case err != nil:
			return DeviceHandle{}, fmt.Errorf("%w: %v", ErrInitialization, err)
		}

		if handle, ok := c.pick(devices); ok {
			return handle, nil
		}

		c.logger.Debug("no matching playback device yet", "want", c.deviceName, "seen", len(devices))

		select {
		case <-ctx.Done():
			return DeviceHandle{}, fmt.Errorf("%w: %w", ErrInitialization, shared.ErrDeviceNotFound)
		case <-ticker.C:
		}
	}
}

// pick prefers the configured device name, then the active device.
func (c *SpotifyConnector) pick(devices []services.Device) (DeviceHandle, bool) {
	for _, d := range devices {
		if c.deviceName != "" && d.Name == c.deviceName {
			return DeviceHandle{DeviceID: d.ID, Name: d.Name}, true
		}
	}
	for _, d := range devices {
		if d.Active {
			return DeviceHandle{DeviceID: d.ID, Name: d.Name}, true
		}
	}
	return DeviceHandle{}, false
}
