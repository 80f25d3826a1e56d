// Package player controls remote playback devices.
//
// The device session is established by a [Connector], a single awaitable
// connect operation that either yields a [DeviceHandle] or fails with a typed
// reason. [Controller] owns the handle and gates every play command on it:
// playing before the device is ready is a precondition failure reported
// immediately, not a network call.
package player

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/finchley/moodfm/internal/shared"
)

// Connect failure reasons.
var (
	ErrInitialization = fmt.Errorf("player initialization error")
	ErrAuthentication = fmt.Errorf("player authentication error")
	ErrAccount        = fmt.Errorf("player account error")
)

// DeviceHandle identifies an active remote playback session.
type DeviceHandle struct {
	DeviceID string
	Name     string
}

// Connector establishes a playback device session.
//
// Connect blocks until the device reports ready, the context is done, or the
// connection fails with one of the typed reasons above.
type Connector interface {
	Connect(ctx context.Context) (DeviceHandle, error)
}

// CommandAPI issues play commands scoped to a device.
//
// Implemented by [services.SpotifyClient].
type CommandAPI interface {
	PlayTrack(ctx context.Context, deviceID, trackURI string) error
}

// Controller owns the playback device handle and issues play commands.
type Controller struct {
	api       CommandAPI
	connector Connector
	logger    *log.Logger

	mu        sync.Mutex
	handle    *DeviceHandle
	connected bool
}

// NewController creates a [Controller] with the given command API and connector.
func NewController(api CommandAPI, connector Connector, logger *log.Logger) *Controller {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Controller{api: api, connector: connector, logger: logger}
}

// Initialize establishes the device session once.
//
// Repeated calls after a successful connect are no-ops; a failed connect may
// be retried.
func (c *Controller) Initialize(ctx context.Context) error {
	c.mu.Lock()
	if c.connected {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	handle, err := c.connector.Connect(ctx)
	if err != nil {
		c.logger.Error("playback device connection failed", "error", err)
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.connected {
		// Lost the race to a concurrent Initialize; keep the first handle.
		return nil
	}
	c.handle = &handle
	c.connected = true

	c.logger.Info("playback device ready", "device_id", handle.DeviceID, "name", handle.Name)
	return nil
}

// Ready reports whether a device handle has been obtained.
func (c *Controller) Ready() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// Device returns the current device handle, if any.
func (c *Controller) Device() (DeviceHandle, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.connected {
		return DeviceHandle{}, false
	}
	return *c.handle, true
}

// Play issues a play command for the given track URI on the connected device.
//
// Without a device handle this fails with [shared.ErrPlayerNotReady] before
// touching the network. Playback failures are logged and returned but never
// invalidate the device session.
func (c *Controller) Play(ctx context.Context, trackURI string) error {
	handle, ok := c.Device()
	if !ok {
		return shared.ErrPlayerNotReady
	}

	if err := c.api.PlayTrack(ctx, handle.DeviceID, trackURI); err != nil {
		c.logger.Error("play command failed", "uri", trackURI, "device_id", handle.DeviceID, "error", err)
		return err
	}

	c.logger.Info("playback started", "uri", trackURI, "device_id", handle.DeviceID)
	return nil
}
