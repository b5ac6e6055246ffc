package sim

import (
	"fmt"
	"math"
	"time"

	"github.com/san-kum/fieldtex/internal/field"
	"github.com/san-kum/fieldtex/internal/vecmath"
)

// Box is an axis-aligned region of model space.
type Box struct {
	Origin vecmath.Vec2
	Size   vecmath.Vec2
}

// At maps a fraction in [0,1]² into the box.
func (b Box) At(frac vecmath.Vec2) vecmath.Vec2 {
	return b.Origin.Add(b.Size.Mul(frac))
}

// Seed sets the initial velocity (sin(pos.y*Frequency)*Amplitude, 0). It
// breaks the symmetry between rows.
type Seed struct {
	Amplitude float64
	Frequency float64
}

type MassState struct {
	Pos vecmath.Vec2
	Vel vecmath.Vec2
}

func NewMassState(pos vecmath.Vec2, seed Seed) MassState {
	return MassState{
		Pos: pos,
		Vel: vecmath.Vec2{X: math.Sin(pos.Y*seed.Frequency) * seed.Amplitude},
	}
}

func (m MassState) State() vecmath.Vec4 { return vecmath.Pack4(m.Pos, m.Vel) }

func (m *MassState) SetState(x vecmath.Vec4) { m.Pos, m.Vel = x.Split() }

// MassField holds Width*Height masses in row-major order.
type MassField struct {
	Width  int
	Height int
	States []MassState
}

// NewMassField samples a cell-centered Width x Height grid over box.
func NewMassField(box Box, width, height int, seed Seed) (*MassField, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: grid must be positive, got %dx%d", ErrInvalidConfig, width, height)
	}
	f := &MassField{
		Width:  width,
		Height: height,
		States: make([]MassState, width*height),
	}
	for i, y := 0, 0; y < height; y++ {
		for x := 0; x < width; x, i = x+1, i+1 {
			frac := vecmath.Vec2{
				X: (float64(x) + 0.5) / float64(width),
				Y: (float64(y) + 0.5) / float64(height),
			}
			f.States[i] = NewMassState(box.At(frac), seed)
		}
	}
	return f, nil
}

func (f *MassField) Len() int { return len(f.States) }

func (f *MassField) At(x, y int) *MassState { return &f.States[y*f.Width+x] }

// Row returns row y as a subslice of States.
func (f *MassField) Row(y int) []MassState {
	return f.States[y*f.Width : (y+1)*f.Width]
}

// PixelBuffer holds packed R|G<<8|B<<16|A<<24 pixels, row-major.
type PixelBuffer struct {
	Width  int
	Height int
	Pix    []uint32
}

func NewPixelBuffer(width, height int) *PixelBuffer {
	return &PixelBuffer{Width: width, Height: height, Pix: make([]uint32, width*height)}
}

func (b *PixelBuffer) At(x, y int) uint32 { return b.Pix[y*b.Width+x] }

func (b *PixelBuffer) Clone() *PixelBuffer {
	c := NewPixelBuffer(b.Width, b.Height)
	copy(c.Pix, b.Pix)
	return c
}

// FrameSink persists rendered frames. The buffer is only borrowed for the
// duration of the call and is overwritten by the next frame.
type FrameSink interface {
	SaveFrame(frame int, buf *PixelBuffer) error
}

// MemorySink keeps a copy of every frame.
type MemorySink struct {
	Frames  []*PixelBuffer
	Indices []int
}

func (m *MemorySink) SaveFrame(frame int, buf *PixelBuffer) error {
	m.Frames = append(m.Frames, buf.Clone())
	m.Indices = append(m.Indices, frame)
	return nil
}

// RowProgress reports one finished row. Rows finish out of order when
// stepping in parallel; Done counts the rows completed so far this frame.
type RowProgress struct {
	Frame int
	Row   int
	Done  int
	Rows  int
}

type Observer interface {
	OnFrameStart(frame, frames int, clock float64)
	OnRowDone(p RowProgress)
	OnFrameDone(r FrameReport)
}

// Metric summarizes the field once per frame, after stepping.
type Metric interface {
	Name() string
	Observe(f *MassField, p *field.Params)
	Value() float64
	Reset()
}

type FrameReport struct {
	Frame   int
	Clock   float64
	Angle   float64
	Metrics map[string]float64
	Elapsed time.Duration
}

type Result struct {
	Frames        []FrameReport
	SkippedFrames []int
	FinalClock    float64
	Elapsed       time.Duration
}
