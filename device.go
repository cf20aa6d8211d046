package tessera

import "errors"

var (
	// ErrContextLost is returned by every engine operation after the GPU
	// context was lost, until Engine.Restore succeeds. Devices wrap it in the
	// errors they return for lost-context failures.
	ErrContextLost = errors.New("tessera: GPU context lost")

	// ErrShaderUnsupported is returned when not even a single-texture shader
	// variant compiles on the device.
	ErrShaderUnsupported = errors.New("tessera: no shader variant compiles on this device")

	// ErrClosed is returned by engine operations after Engine.Close.
	ErrClosed = errors.New("tessera: engine closed")
)

// BufferKind tells the device how a buffer is bound.
type BufferKind uint8

const (
	BufferVertex BufferKind = iota
	BufferIndex
)

// Buffer is a device-owned buffer object.
type Buffer interface {
	Kind() BufferKind
	Size() int
}

// Shader is a compiled program sampling from Units texture units.
type Shader interface {
	Units() int
}

// DrawCall describes one indexed draw of a vertex range.
type DrawCall struct {
	Shader     Shader
	Vertices   Buffer
	Indices    Buffer
	FirstIndex int
	IndexCount int
}

// Device is the GPU context collaborator. All methods are called from the
// goroutine that owns the context.
type Device interface {
	// MaxTextureUnits reports how many texture units a fragment shader may
	// address, before any compile probing.
	MaxTextureUnits() int
	// Dialect returns the shading language used for generated programs.
	Dialect() Dialect
	CreateBuffer(kind BufferKind, size int) (Buffer, error)
	// BufferSubData streams data into buf starting at byte offset.
	BufferSubData(buf Buffer, offset int, data []byte) error
	CompileShader(units int, source string) (Shader, error)
	BindTexture(unit int, tex Texture) error
	SetBlendMode(mode BlendMode) error
	DrawIndexed(call DrawCall) error
	// Lost reports whether the context is no longer usable.
	Lost() bool
}
