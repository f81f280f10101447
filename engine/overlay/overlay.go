// Package overlay runs one overlay frame inside a hooked swap call and then
// hands the call on to the real library.
package overlay

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/hubastard/grove-overlay/engine/gfx"
	"github.com/hubastard/grove-overlay/engine/gfx/glstate"
	"github.com/hubastard/grove-overlay/engine/gfx/painter"
	"github.com/hubastard/grove-overlay/engine/gfx/texcache"
	"github.com/hubastard/grove-overlay/engine/logging"
	"github.com/hubastard/grove-overlay/engine/paint"
	"github.com/hubastard/grove-overlay/engine/profiler"
)

var (
	ErrPanic     = errors.New("overlay: panic during frame")
	ErrReentered = errors.New("overlay: swap called while initializing")
)

// Binding is a real windowing library: GLX or EGL.
type Binding interface {
	Name() string
	// SwapFunction is the symbol name of the hooked swap entry point.
	SwapFunction() string
	Open() error
	GetProcAddress(name string) unsafe.Pointer
}

// UI produces what the overlay shows each frame.
type UI interface {
	Run(in paint.FrameInput) (paint.FullOutput, error)
	Tessellate(shapes []paint.ClippedShape) ([]paint.ClippedPrimitive, error)
}

// DeviceLoader builds a gfx.Device from an opened binding.
type DeviceLoader func(b Binding) (gfx.Device, error)

// UIFactory builds the UI once the device exists.
type UIFactory func(dev gfx.Device) (UI, error)

// Host is shared by every trampoline in the process. Its lock serializes
// overlay frames across bindings and threads.
type Host struct {
	mu sync.Mutex

	NewUI UIFactory
	// Fatal reports an error the overlay cannot continue after. The default
	// logs it and exits with status 1.
	Fatal func(err error)
	// AfterFrame, if set, runs after every drawn frame while the lock is held.
	AfterFrame func(s Stats)
}

func NewHost(newUI UIFactory) *Host {
	return &Host{NewUI: newUI, Fatal: exit}
}

func exit(err error) {
	logging.Thread().Error("fatal", "err", err)
	fmt.Fprintf(os.Stderr, "grove-overlay: fatal: %v\n", err)
	os.Exit(1)
}

// Stats counts what a trampoline has done.
type Stats struct {
	Frames  int // overlay frames drawn
	Skipped int // frames skipped after an error
	Uploads int // texture uploads
	Draws   int // draw calls
}

type state uint8

const (
	uninitialized state = iota
	initialized
	failed
)

// Trampoline is the hooked swap function of one binding.
type Trampoline struct {
	host    *Host
	binding Binding
	load    DeviceLoader

	state state

	// initializing is read without the lock so a call back into the hook
	// from inside the real library's setup does not deadlock.
	initializing atomic.Bool

	dev     gfx.Device
	cache   *texcache.Cache
	painter *painter.Painter
	ui      UI
	stats   Stats
}

func NewTrampoline(host *Host, b Binding, load DeviceLoader) *Trampoline {
	return &Trampoline{host: host, binding: b, load: load}
}

func (t *Trampoline) Stats() Stats {
	t.host.mu.Lock()
	defer t.host.mu.Unlock()
	return t.stats
}

// Swap draws one overlay frame, then calls forward and returns its result.
// forward always runs, outside the lock, whatever happened to the frame.
func Swap[R any](t *Trampoline, forward func() R) R {
	t.frame()
	return forward()
}

// GetProcAddress answers a get-proc-address call made through the hook:
// the swap function resolves to self, anything else to real.
func (t *Trampoline) GetProcAddress(name string, self unsafe.Pointer, real func(string) unsafe.Pointer) unsafe.Pointer {
	if name == t.binding.SwapFunction() {
		return self
	}
	if err := t.binding.Open(); err != nil {
		t.host.Fatal(err)
		return nil
	}
	return real(name)
}

// Close releases GPU objects. The context they were created in must be
// current.
func (t *Trampoline) Close() {
	t.host.mu.Lock()
	defer t.host.mu.Unlock()
	if t.state != initialized {
		return
	}
	t.painter.Release()
	t.cache.Release()
	t.state = uninitialized
}

// logger is only built on paths that log.
func (t *Trampoline) logger() *slog.Logger {
	return logging.Thread().With("binding", t.binding.Name())
}

func (t *Trampoline) frame() {
	if t.initializing.Load() {
		t.logger().Warn("skip frame", "err", ErrReentered)
		return
	}

	t.host.mu.Lock()
	defer t.host.mu.Unlock()

	switch t.state {
	case failed:
		return
	case uninitialized:
		if err := t.init(); err != nil {
			t.state = failed
			t.host.Fatal(fmt.Errorf("init %s overlay: %w", t.binding.Name(), err))
			return
		}
	}

	if err := t.draw(); err != nil {
		t.stats.Skipped++
		t.logger().Error("overlay frame skipped", "frame", t.stats.Frames+t.stats.Skipped, "err", err)
		return
	}
	t.stats.Frames++
	t.stats.Uploads = t.painter.Uploads()
	t.stats.Draws = t.painter.Draws()
	if t.host.AfterFrame != nil {
		t.host.AfterFrame(t.stats)
	}
}

func (t *Trampoline) init() error {
	defer profiler.Start("overlay.init")()
	t.initializing.Store(true)
	defer t.initializing.Store(false)

	if err := t.binding.Open(); err != nil {
		return err
	}
	dev, err := t.load(t.binding)
	if err != nil {
		return err
	}

	// Building the painter binds buffers and a vertex array.
	snap := glstate.Capture(dev)
	defer glstate.Restore(dev, snap)

	version := painter.DetectShaderVersion(dev)
	cache := texcache.New(dev, version.InternalFormat())
	p, err := painter.New(dev, cache)
	if err != nil {
		return err
	}
	ui, err := t.host.NewUI(dev)
	if err != nil {
		p.Release()
		return err
	}

	t.dev, t.cache, t.painter, t.ui = dev, cache, p, ui
	t.state = initialized
	t.logger().Info("overlay initialized",
		"vendor", dev.GetString(gfx.Vendor),
		"renderer", dev.GetString(gfx.Renderer),
		"version", dev.GetString(gfx.Version),
		"shaders", p.Version())
	return nil
}

func (t *Trampoline) draw() (err error) {
	defer profiler.Start("overlay.frame")()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v\n%s", ErrPanic, r, debug.Stack())
		}
	}()

	viewport := gfx.GetInteger4(t.dev, gfx.Viewport)
	maxSide := gfx.GetInteger(t.dev, gfx.MaxTextureSize)
	const ppp = 1.0
	screen := paint.RectFromXYWH(0, 0, float32(viewport[2])/ppp, float32(viewport[3])/ppp)

	out, err := t.ui.Run(paint.NewFrameInput(screen, ppp, int(maxSide)))
	if err != nil {
		return fmt.Errorf("ui run: %w", err)
	}

	// The UI hands each texture delta over once, so it is applied as soon
	// as Run returns, whatever happens later in the frame.
	snap := glstate.Capture(t.dev)
	defer glstate.Restore(t.dev, snap)
	// Frees run after painting so textures freed this frame can still be
	// drawn in it.
	defer t.cache.Free(out.Textures.Free)

	setErr := t.cache.Set(out.Textures.Set)
	prims, err := t.ui.Tessellate(out.Shapes)
	if err != nil {
		return fmt.Errorf("tessellate: %w", err)
	}
	if setErr != nil {
		return setErr
	}
	return t.painter.Draw(prims, ppp, viewport)
}
