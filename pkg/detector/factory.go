package detector

import (
	"fmt"
	"os"

	"pointerapp/internal/config"
	"pointerapp/pkg/integrations/terminal"
	"pointerapp/pkg/integrations/x11"
	"pointerapp/pkg/window"
)

// NewNative returns a backend that opens a native window. Wayland sessions
// are served through XWayland when DISPLAY is set.
func NewNative(cfg *config.Config) (window.Backend, error) {
	server := DetectDisplayServer()
	if os.Getenv("DISPLAY") == "" {
		return nil, fmt.Errorf("no X display available (display server: %s)", server)
	}

	backend, err := x11.NewBackend(cfg.Window.Width, cfg.Window.Height, cfg.Window.Background)
	if err != nil {
		return nil, err
	}
	return backend, nil
}

// NewTerminal returns a backend drawing on the controlling terminal
func NewTerminal(cfg *config.Config) (window.Backend, error) {
	backend, err := terminal.NewBackend(nil, cfg.Window.Background)
	if err != nil {
		return nil, err
	}
	return backend, nil
}

func DetectDisplayServer() string {
	sessionType := os.Getenv("XDG_SESSION_TYPE")
	waylandDisplay := os.Getenv("WAYLAND_DISPLAY")
	x11Display := os.Getenv("DISPLAY")

	if sessionType == "wayland" || waylandDisplay != "" {
		return "wayland"
	}

	if sessionType == "x11" || x11Display != "" {
		return "x11"
	}

	return "unknown"
}
