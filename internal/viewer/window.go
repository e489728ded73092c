// Package viewer handles SDL2 window creation and framebuffer display for
// the texture viewer.
package viewer

import (
	"fmt"
	"runtime"
	"unsafe"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/sherman/internal/logger"
)

func init() {
	// SDL calls must be made from the main thread
	runtime.LockOSThread()
}

// Config holds window configuration.
type Config struct {
	Title  string
	Width  int
	Height int
	// Scale is the integer upscale factor applied to the window size.
	Scale int
}

// Window wraps an SDL2 window with a streaming texture the size of the
// displayed image.
type Window struct {
	config    Config
	sdlWindow *sdl.Window
	renderer  *sdl.Renderer
	texture   *sdl.Texture
}

// New creates a window sized Width*Scale by Height*Scale with a streaming
// texture of the unscaled image size.
func New(cfg Config) (*Window, error) {
	if cfg.Scale < 1 {
		cfg.Scale = 1
	}
	w := &Window{config: cfg}

	logger.Info("initializing SDL2")
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("SDL_Init failed: %w", err)
	}

	var err error
	w.sdlWindow, err = sdl.CreateWindow(
		cfg.Title,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		int32(cfg.Width*cfg.Scale),
		int32(cfg.Height*cfg.Scale),
		sdl.WINDOW_SHOWN,
	)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("SDL_CreateWindow failed: %w", err)
	}

	w.renderer, err = sdl.CreateRenderer(w.sdlWindow, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		w.sdlWindow.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("SDL_CreateRenderer failed: %w", err)
	}

	w.texture, err = w.renderer.CreateTexture(
		sdl.PIXELFORMAT_RGB888,
		sdl.TEXTUREACCESS_STREAMING,
		int32(cfg.Width),
		int32(cfg.Height),
	)
	if err != nil {
		w.renderer.Destroy()
		w.sdlWindow.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("SDL_CreateTexture failed: %w", err)
	}

	logger.Sugar.Infow("window created",
		"title", cfg.Title,
		"width", cfg.Width,
		"height", cfg.Height,
		"scale", cfg.Scale,
	)

	return w, nil
}

// Close destroys the window and cleans up SDL2.
func (w *Window) Close() {
	logger.Info("closing window")

	if w.texture != nil {
		w.texture.Destroy()
	}
	if w.renderer != nil {
		w.renderer.Destroy()
	}
	if w.sdlWindow != nil {
		w.sdlWindow.Destroy()
	}

	sdl.Quit()
}

// Present uploads a 0RGB framebuffer to the streaming texture and renders
// it scaled to the window.
func (w *Window) Present(pixels []uint32) error {
	if len(pixels) != w.config.Width*w.config.Height {
		return fmt.Errorf("framebuffer size %d does not match %dx%d",
			len(pixels), w.config.Width, w.config.Height)
	}
	// A 0x0 texture passes the size check with an empty slice.
	if len(pixels) == 0 {
		return fmt.Errorf("empty framebuffer, nothing to present")
	}

	if err := w.texture.Update(nil, unsafe.Pointer(&pixels[0]), w.config.Width*4); err != nil {
		return fmt.Errorf("texture update failed: %w", err)
	}

	if err := w.renderer.Clear(); err != nil {
		return err
	}
	if err := w.renderer.Copy(w.texture, nil, nil); err != nil {
		return err
	}
	w.renderer.Present()
	return nil
}

// Input is the state of the viewer's keys after polling.
type Input struct {
	Quit bool
	// Toggle is true while the F key is held.
	Toggle bool
}

// Poll drains pending SDL events and returns the current input state.
func (w *Window) Poll() Input {
	var in Input
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			in.Quit = true
		case *sdl.KeyboardEvent:
			if e.Type == sdl.KEYDOWN && e.Keysym.Sym == sdl.K_ESCAPE {
				in.Quit = true
			}
		}
	}

	state := sdl.GetKeyboardState()
	in.Toggle = state[sdl.SCANCODE_F] != 0
	return in
}
