package tessera

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Engine batches sprite quads into as few draw calls as the device's texture
// units and the items' blend modes allow, while drawing them exactly as an
// item-by-item loop would.
//
// An Engine is bound to one Device and must only be used from the goroutine
// owning that device's context. Submit and Flush must not be called
// re-entrantly.
type Engine struct {
	dev Device
	cfg Config
	log zerolog.Logger

	pending []DrawItem

	shaders shaderCache
	pool    vertexBufferPool
	packer  packer
	grouper grouper
	exec    *executor
	indices Buffer
	lost    bool
	closed  bool
	frame   uint64
	stats   FrameStats
}

// NewEngine creates an engine drawing on dev. Shader probing and buffer
// creation are deferred to the first flush.
func NewEngine(dev Device, cfg Config) (*Engine, error) {
	if dev == nil {
		return nil, errors.New("tessera: nil device")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		dev:     dev,
		cfg:     cfg,
		log:     cfg.Logger,
		pending: make([]DrawItem, 0, cfg.MaxBatchSize),
		packer:  packer{pixelSnap: cfg.PixelSnap, resolution: float32(cfg.Resolution)},
	}
	e.shaders = shaderCache{dev: dev, log: cfg.Logger, unitCap: cfg.MaxTextures}
	return e, nil
}

// Device returns the device the engine draws on.
func (e *Engine) Device() Device { return e.dev }

// Config returns the engine configuration.
func (e *Engine) Config() Config { return e.cfg }

// MaxTextureUnits returns the number of texture units one draw call may use,
// probing the device's shader compiler on first call.
func (e *Engine) MaxTextureUnits() (int, error) {
	if err := e.checkContext(); err != nil {
		return 0, err
	}
	n, err := e.shaders.maxUnits()
	if err != nil {
		return 0, e.fail(err)
	}
	return n, nil
}

// Pending returns the number of items waiting for the next flush.
func (e *Engine) Pending() int { return len(e.pending) }

// Stats returns the counters of the current frame.
func (e *Engine) Stats() FrameStats { return e.stats }

// PreRender starts a new frame, resetting the per-frame counters.
func (e *Engine) PreRender() {
	e.frame++
	e.stats = FrameStats{Frame: e.frame}
}

// Submit queues item for drawing. When MaxBatchSize items are already
// pending they are flushed first.
func (e *Engine) Submit(item DrawItem) error {
	if err := e.checkContext(); err != nil {
		return err
	}
	if len(e.pending) >= e.cfg.MaxBatchSize {
		e.stats.ImplicitFlushes++
		if err := e.Flush(); err != nil {
			return err
		}
	}
	e.pending = append(e.pending, item)
	e.stats.Items++
	return nil
}

// Flush groups, packs, uploads and draws all pending items. With nothing
// pending it does nothing.
func (e *Engine) Flush() error {
	if err := e.checkContext(); err != nil {
		return err
	}
	if len(e.pending) == 0 {
		return nil
	}
	defer func() {
		clear(e.pending)
		e.pending = e.pending[:0]
	}()

	var t0 time.Time
	if e.cfg.Debug {
		t0 = time.Now()
	}

	if err := e.ensureResources(); err != nil {
		return e.fail(err)
	}

	if e.cfg.Debug {
		e.stats.Unbatched += countGroups(e.pending)
	}

	items, groups, dropped := e.grouper.group(e.pending, e.exec.bound)
	e.stats.Dropped += dropped
	if len(items) == 0 {
		return nil
	}

	buf, err := e.pool.acquire(e.dev, len(items))
	if err != nil {
		return e.fail(fmt.Errorf("tessera: create vertex buffer: %w", err))
	}
	for i := range groups {
		e.packer.pack(items, e.grouper.slots, groups[i], buf.data)
	}
	size := len(items) * VerticesPerItem * VertexStride
	if err := e.dev.BufferSubData(buf.gpu, 0, buf.data[:size]); err != nil {
		return e.fail(fmt.Errorf("tessera: upload vertices: %w", err))
	}
	e.stats.BytesUploaded += size

	if err := e.exec.execute(groups, buf.gpu, e.indices, &e.shaders, &e.stats); err != nil {
		return e.fail(err)
	}
	e.stats.Groups += len(groups)
	e.stats.Flushes++

	if e.cfg.Debug {
		e.stats.FlushTime += time.Since(t0)
		e.log.Debug().
			Int("items", len(items)).
			Int("groups", len(groups)).
			Int("dropped", dropped).
			Object("frame", e.stats).
			Msg("flush")
	}
	return nil
}

// ensureResources probes the shader compiler and creates the per-context
// objects the first time they are needed.
func (e *Engine) ensureResources() error {
	units, err := e.shaders.maxUnits()
	if err != nil {
		return err
	}
	if e.exec == nil {
		e.exec = newExecutor(e.dev, units)
		e.grouper.alloc = newSlotAllocator(units)
	}
	if e.indices == nil {
		data := quadIndices(e.cfg.MaxBatchSize)
		ib, err := e.dev.CreateBuffer(BufferIndex, len(data))
		if err != nil {
			return fmt.Errorf("tessera: create index buffer: %w", err)
		}
		if err := e.dev.BufferSubData(ib, 0, data); err != nil {
			return fmt.Errorf("tessera: upload index buffer: %w", err)
		}
		e.indices = ib
	}
	return nil
}

// InvalidateState forgets the engine's view of the GPU bindings. Call it
// after drawing on the device outside the engine. Pending items are flushed
// first.
func (e *Engine) InvalidateState() error {
	if err := e.Flush(); err != nil {
		return err
	}
	if e.exec != nil {
		e.exec.invalidate()
	}
	return nil
}

// Restore makes the engine usable again after its owner reinitialized a lost
// context. Cached shader variants, buffers and bindings are discarded and
// rebuilt on the next flush.
func (e *Engine) Restore() error {
	if e.closed {
		return ErrClosed
	}
	if e.dev.Lost() {
		return ErrContextLost
	}
	e.release()
	e.lost = false
	e.log.Info().Msg("context restored")
	return nil
}

// BufferCount returns the number of pooled vertex buffers created so far.
func (e *Engine) BufferCount() int { return e.pool.count }

// Close flushes pending items and releases the engine's buffers, shader
// variants, and bindings. Further calls return ErrClosed. Closing twice is a
// no-op.
func (e *Engine) Close() error {
	if e.closed {
		return nil
	}
	var err error
	if !e.lost && !e.dev.Lost() {
		err = e.Flush()
	}
	e.release()
	e.closed = true
	e.log.Debug().Uint64("frames", e.frame).Msg("engine closed")
	return err
}

// release drops every per-context object and pending item.
func (e *Engine) release() {
	e.shaders.reset()
	e.pool.reset()
	e.indices = nil
	e.exec = nil
	e.grouper.alloc = nil
	clear(e.pending)
	e.pending = e.pending[:0]
}

func (e *Engine) checkContext() error {
	if e.closed {
		return ErrClosed
	}
	if e.lost {
		return ErrContextLost
	}
	if e.dev.Lost() {
		e.markLost()
		return ErrContextLost
	}
	return nil
}

// fail marks the engine lost when err stems from a lost context.
func (e *Engine) fail(err error) error {
	if errors.Is(err, ErrContextLost) {
		e.markLost()
	}
	return err
}

func (e *Engine) markLost() {
	if !e.lost {
		e.log.Error().Msg("GPU context lost; engine disabled until Restore")
	}
	e.lost = true
}
