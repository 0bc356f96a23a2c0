package media

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"
	"strings"
	"time"

	"golang.org/x/image/riff"
	"golang.org/x/image/webp"
)

var (
	fccWEBP = riff.FourCC{'W', 'E', 'B', 'P'}
	fccVP8  = riff.FourCC{'V', 'P', '8', ' '}
	fccVP8L = riff.FourCC{'V', 'P', '8', 'L'}
	fccVP8X = riff.FourCC{'V', 'P', '8', 'X'}
	fccALPH = riff.FourCC{'A', 'L', 'P', 'H'}
	fccANIM = riff.FourCC{'A', 'N', 'I', 'M'}
	fccANMF = riff.FourCC{'A', 'N', 'M', 'F'}
)

const (
	vp8xAlpha     = 1 << 4
	vp8xAnimation = 1 << 1

	anmfHeaderLen = 16
	anmfDispose   = 1 << 0
	anmfNoBlend   = 1 << 1
)

var errInvalidWebP = errors.New("invalid webp container")

// webpFrame is one ANMF chunk of an animated WebP.
type webpFrame struct {
	x, y          int
	width, height int
	duration      time.Duration
	dispose       bool
	blend         bool

	// alpha is the ALPH payload, nil when absent.
	alpha []byte
	// codec is VP8 or VP8L; data is its payload.
	codec riff.FourCC
	data  []byte
}

// decodeFrame decodes the bitstream of a single animation frame.
// Replaced in tests.
var decodeFrame = func(f *webpFrame) (image.Image, error) {
	data := wrapFrame(f)
	cfg, err := webp.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if cfg.Width != f.width || cfg.Height != f.height {
		return nil, fmt.Errorf("%w: bitstream is %dx%d, frame is %dx%d",
			errInvalidWebP, cfg.Width, cfg.Height, f.width, f.height)
	}
	return webp.Decode(bytes.NewReader(data))
}

func decodeWebP(data []byte) (*Source, error) {
	formType, r, err := riff.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if formType != fccWEBP {
		return nil, errInvalidWebP
	}

	var (
		width, height int
		animated      bool
		loopCount     int
		bg            color.NRGBA
		frames        []*webpFrame
	)
	for {
		id, n, chunk, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch id {
		case fccVP8X:
			buf, err := readChunk(chunk, n, 10)
			if err != nil {
				return nil, err
			}
			animated = buf[0]&vp8xAnimation != 0
			width = int(u24(buf[4:])) + 1
			height = int(u24(buf[7:])) + 1
		case fccANIM:
			buf, err := readChunk(chunk, n, 6)
			if err != nil {
				return nil, err
			}
			// Stored as B, G, R, A.
			bg = color.NRGBA{R: buf[2], G: buf[1], B: buf[0], A: buf[3]}
			loopCount = int(binary.LittleEndian.Uint16(buf[4:]))
		case fccANMF:
			buf, err := readChunk(chunk, n, anmfHeaderLen)
			if err != nil {
				return nil, err
			}
			f, err := parseANMF(buf)
			if err != nil {
				return nil, fmt.Errorf("frame %d: %w", len(frames), err)
			}
			frames = append(frames, f)
		}
	}

	if !animated {
		cfg, err := webp.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		if err := checkSize(cfg.Width, cfg.Height, 1); err != nil {
			return nil, err
		}
		img, err := webp.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		b := img.Bounds()
		if b.Dx() <= 0 || b.Dy() <= 0 {
			return nil, ErrInvalidSize
		}
		return &Source{
			Format: FormatWebP,
			Width:  b.Dx(),
			Height: b.Dy(),
			frames: []image.Image{img},
			delays: []time.Duration{0},
		}, nil
	}

	if len(frames) == 0 {
		return nil, ErrNoFrames
	}
	if err := checkSize(width, height, len(frames)); err != nil {
		return nil, err
	}
	canvas := image.Rect(0, 0, width, height)
	for i, f := range frames {
		if !image.Rect(f.x, f.y, f.x+f.width, f.y+f.height).In(canvas) {
			return nil, fmt.Errorf("frame %d: %w: outside the %dx%d canvas", i, errInvalidWebP, width, height)
		}
	}
	src := &Source{
		Format:     FormatWebP,
		Width:      width,
		Height:     height,
		LoopCount:  loopCount,
		Background: bg,
	}
	if err := compositeWebP(src, frames); err != nil {
		return nil, err
	}
	return src, nil
}

func compositeWebP(src *Source, frames []*webpFrame) error {
	canvas := image.NewNRGBA(image.Rect(0, 0, src.Width, src.Height))
	var pending *image.Rectangle

	for i, f := range frames {
		if pending != nil {
			draw.Draw(canvas, *pending, image.Transparent, image.Point{}, draw.Src)
			pending = nil
		}

		img, err := decodeFrame(f)
		if err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
		rect := image.Rect(f.x, f.y, f.x+f.width, f.y+f.height)
		op := draw.Src
		if f.blend {
			op = draw.Over
		}
		draw.Draw(canvas, rect, img, img.Bounds().Min, op)

		out := image.NewNRGBA(canvas.Bounds())
		copy(out.Pix, canvas.Pix)
		src.frames = append(src.frames, out)
		src.delays = append(src.delays, f.duration)

		if f.dispose {
			pending = &rect
		}
	}
	return nil
}

func parseANMF(buf []byte) (*webpFrame, error) {
	flags := buf[15]
	f := &webpFrame{
		x:        int(u24(buf[0:])) * 2,
		y:        int(u24(buf[3:])) * 2,
		width:    int(u24(buf[6:])) + 1,
		height:   int(u24(buf[9:])) + 1,
		duration: time.Duration(u24(buf[12:])) * time.Millisecond,
		dispose:  flags&anmfDispose != 0,
		blend:    flags&anmfNoBlend == 0,
	}

	// Frame data is a sequence of sub-chunks without a list type; give it
	// one so the riff reader can walk it.
	sub := buf[anmfHeaderLen:]
	_, r, err := riff.NewListReader(uint32(len(sub)+4),
		io.MultiReader(strings.NewReader("ANMF"), bytes.NewReader(sub)))
	if err != nil {
		return nil, err
	}
	for {
		id, n, chunk, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch id {
		case fccALPH:
			if f.alpha, err = readChunk(chunk, n, 0); err != nil {
				return nil, err
			}
		case fccVP8, fccVP8L:
			f.codec = id
			if f.data, err = readChunk(chunk, n, 0); err != nil {
				return nil, err
			}
		}
	}
	if f.data == nil {
		return nil, errInvalidWebP
	}
	return f, nil
}

// wrapFrame rewraps a frame bitstream as a standalone WebP file.
func wrapFrame(f *webpFrame) []byte {
	var body bytes.Buffer
	body.Write(fccWEBP[:])
	if f.alpha != nil && f.codec == fccVP8 {
		var vp8x [10]byte
		vp8x[0] = vp8xAlpha
		putU24(vp8x[4:], uint32(f.width-1))
		putU24(vp8x[7:], uint32(f.height-1))
		writeChunk(&body, fccVP8X, vp8x[:])
		writeChunk(&body, fccALPH, f.alpha)
	}
	writeChunk(&body, f.codec, f.data)

	var out bytes.Buffer
	out.WriteString("RIFF")
	binary.Write(&out, binary.LittleEndian, uint32(body.Len()))
	out.Write(body.Bytes())
	return out.Bytes()
}

func writeChunk(w *bytes.Buffer, id riff.FourCC, data []byte) {
	w.Write(id[:])
	binary.Write(w, binary.LittleEndian, uint32(len(data)))
	w.Write(data)
	if len(data)%2 == 1 {
		w.WriteByte(0)
	}
}

// readChunk reads a whole chunk, which must be at least minLen bytes long.
// The buffer grows with the data actually present, not the declared length.
func readChunk(r io.Reader, n uint32, minLen int) ([]byte, error) {
	if int64(n) < int64(minLen) {
		return nil, errInvalidWebP
	}
	buf, err := io.ReadAll(io.LimitReader(r, int64(n)))
	if err != nil {
		return nil, err
	}
	if len(buf) != int(n) {
		return nil, io.ErrUnexpectedEOF
	}
	return buf, nil
}

func u24(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16
}

func putU24(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
}
