package config

import (
	"fmt"
	"time"

	"pointerapp/pkg/window"
)

// Config holds all application configuration
type Config struct {
	// Window configuration
	Window WindowConfig

	// Annotation configuration
	Annotation AnnotationConfig

	// Frame loop configuration
	Frame FrameConfig

	// Journal configuration
	Journal JournalConfig
}

// WindowConfig holds native window configuration
type WindowConfig struct {
	Title      string       // Window title
	Width      uint16       // Initial width in pixels
	Height     uint16       // Initial height in pixels
	Background window.Color // Clear color
}

// AnnotationConfig holds what is painted near the pointer and when
type AnnotationConfig struct {
	IdleMessage       string        // Shown by the idle variant
	DecorativeMessage string        // Shown every frame by the decorative variants
	IdleThreshold     time.Duration // Time without movement before the idle message shows
	Offset            window.Vec    // Offset from the pointer, in pointer units
	FontSize          float64       // Monospace font size
	Color             window.Color  // Text color
}

// FrameConfig holds frame loop configuration
type FrameConfig struct {
	Interval     time.Duration // Frame interval while repaint is requested
	IdleInterval time.Duration // Frame interval when the app stops requesting repaint
}

// JournalConfig holds the session journal configuration
type JournalConfig struct {
	Enabled bool   // Record idle episodes for the exit summary
	DSN     string // SQLite DSN, in-memory so nothing outlives the process
}

// Default returns the configuration every variant runs with
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:      "Pointer App",
			Width:      800,
			Height:     600,
			Background: window.Black,
		},
		Annotation: AnnotationConfig{
			IdleMessage:       "You are not moving the pointer",
			DecorativeMessage: "<*> here <*>",
			IdleThreshold:     200 * time.Millisecond,
			Offset:            window.Vec{X: 10, Y: 10},
			FontSize:          16,
			Color:             window.White,
		},
		Frame: FrameConfig{
			Interval:     16 * time.Millisecond, // ~60 frames per second
			IdleInterval: 250 * time.Millisecond,
		},
		Journal: JournalConfig{
			Enabled: true,
			DSN:     ":memory:",
		},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Window.Title == "" {
		return fmt.Errorf("window title cannot be empty")
	}

	if c.Window.Width == 0 || c.Window.Height == 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}

	if c.Annotation.IdleThreshold < 0 {
		return fmt.Errorf("idle threshold cannot be negative")
	}

	if c.Annotation.FontSize <= 0 {
		return fmt.Errorf("font size must be positive, got %v", c.Annotation.FontSize)
	}

	if c.Frame.Interval <= 0 {
		return fmt.Errorf("frame interval must be positive, got %v", c.Frame.Interval)
	}

	if c.Frame.IdleInterval < c.Frame.Interval {
		return fmt.Errorf("idle frame interval (%v) cannot be less than frame interval (%v)",
			c.Frame.IdleInterval, c.Frame.Interval)
	}

	if c.Journal.Enabled && c.Journal.DSN == "" {
		return fmt.Errorf("journal DSN cannot be empty when the journal is enabled")
	}

	return nil
}

// FramesPerSecond returns the nominal frame rate
func (c *Config) FramesPerSecond() float64 {
	return float64(time.Second) / float64(c.Frame.Interval)
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf(`Configuration:
  Window:
    Title: %s
    Size: %dx%d
  Annotation:
    Idle Message: %q
    Decorative Message: %q
    Idle Threshold: %v
    Offset: (%g, %g)
    Font Size: %g
  Frame:
    Interval: %v
    Idle Interval: %v
  Journal:
    Enabled: %v`,
		c.Window.Title,
		c.Window.Width,
		c.Window.Height,
		c.Annotation.IdleMessage,
		c.Annotation.DecorativeMessage,
		c.Annotation.IdleThreshold,
		c.Annotation.Offset.X,
		c.Annotation.Offset.Y,
		c.Annotation.FontSize,
		c.Frame.Interval,
		c.Frame.IdleInterval,
		c.Journal.Enabled,
	)
}
