package gif

import (
	"runtime"
	"sync"

	"github.com/pbenner/threadpool"
)

// retentionMode selects what a DecodedImage keeps around per frame after
// construction, trading memory against the CPU cost of a later lookup.
type retentionMode int

const (
	modeRandomAccess retentionMode = iota
	modeIndexStream
	modeCompressed
)

// frameRecord is the metadata every mode keeps for a frame, plus whichever
// payload its mode retains: indices (index-stream mode) or lzwData
// (compressed mode). Random-access mode uses neither past construction.
type frameRecord struct {
	rect          frameRect
	table         colorTable
	tableSizeExp  int
	transparentIdx int
	control       graphicsControl
	minCodeSize   int
	expectedLen   int

	indices []uint16
	lzwData []byte
}

// DecodedImage is the facade over a parsed GIF. One of three constructors
// builds it, each choosing a different retentionMode. Frame and
// FrameAtTime work on random-access images only. FirstFrame, CurrentFrame
// and Advance work on the two streaming modes: a random-access image keeps
// no first or current frame buffer (both accessors return nil) and no
// index streams or LZW bytes, so Advance cannot recompose a frame there.
// FrameAt and FrameIndexAtElapsed work in every mode.
type DecodedImage struct {
	mode   retentionMode
	width  int
	height int

	background    color
	hasBackground bool
	loopCount     int
	hasLoopCount  bool
	totalRuntime  int // centiseconds

	frames []frameRecord

	// random-access retained payload, one slice per frame.
	rgba [][]byte

	// streaming state, shared by index-stream and compressed modes.
	firstFrameRGBA []byte
	currentRGBA    []byte
	currentIndex   int
	accumulated    float64 // seconds
}

func (img *DecodedImage) Width() int       { return img.width }
func (img *DecodedImage) Height() int      { return img.height }
func (img *DecodedImage) FrameCount() int  { return len(img.frames) }
func (img *DecodedImage) TotalDuration() float64 {
	return float64(img.totalRuntime) / 100.0
}
func (img *DecodedImage) LoopCount() (int, bool) { return img.loopCount, img.hasLoopCount }

// BackgroundColor returns the logical screen's background color, resolved
// through the global color table, when both are present.
func (img *DecodedImage) BackgroundColor() (color, bool) { return img.background, img.hasBackground }

func buildFrameRecord(rf rawFrame, global colorTable, globalExp int) frameRecord {
	table := rf.activeColorTable(global)
	return frameRecord{
		rect:           rf.rect,
		table:          table,
		tableSizeExp:   rf.activeColorTableSizeExp(globalExp),
		transparentIdx: rf.control.transparentIndexOrNone(),
		control:        rf.control,
		minCodeSize:    rf.minCodeSize,
		expectedLen:    rf.rect.w * rf.rect.h,
	}
}

// NewDecodedImage parses data and decodes every frame to RGBA up front,
// the random-access retention mode. Frame lookup afterward is O(1).
func NewDecodedImage(data []byte) (*DecodedImage, *DecodeError) {
	img := &DecodedImage{mode: modeRandomAccess}

	// The global color table only reaches this function when
	// parseContainer returns, after its sink has fired for every frame, so
	// each frame's rawFrame is banked here and turned into a frameRecord
	// (which resolves local-vs-global table selection) only afterward.
	type pending struct {
		rf      rawFrame
		lzwData []byte
	}
	var raw []pending

	info, err := parseContainer(data, func(index int, rf rawFrame, lzwData []byte) *DecodeError {
		raw = append(raw, pending{rf: rf, lzwData: lzwData})
		return nil
	})
	if err != nil {
		return nil, err
	}

	img.width = info.screen.width
	img.height = info.screen.height
	img.totalRuntime = info.totalRuntime
	img.loopCount = info.loopCount
	img.hasLoopCount = info.hasLoopCount
	img.background, img.hasBackground = info.backgroundColor()

	type decodeUnit struct {
		rec     frameRecord
		lzwData []byte
	}
	collected := make([]decodeUnit, len(raw))
	for i, p := range raw {
		collected[i] = decodeUnit{rec: buildFrameRecord(p.rf, info.global, info.screen.globalColorTableExp), lzwData: p.lzwData}
	}

	indexStreams := make([][]uint16, len(collected))
	if len(collected) > 0 {
		numThreads := runtime.NumCPU()
		pool := threadpool.New(numThreads, len(collected))
		g := pool.NewJobGroup()
		var errMu sync.Mutex
		var firstErr *DecodeError

		for idx := range collected {
			i := idx
			cf := collected[i]
			if jobErr := pool.AddJob(g, func(pool threadpool.ThreadPool, erf func() error) error {
				if erf() != nil {
					return nil
				}
				indices, decErr := decodeFrameIndices(cf.lzwData, cf.rec.minCodeSize, cf.rec.tableSizeExp, i, cf.rec.expectedLen)
				if decErr != nil {
					errMu.Lock()
					if firstErr == nil {
						firstErr = decErr
					}
					errMu.Unlock()
					return decErr
				}
				indexStreams[i] = indices
				return nil
			}); jobErr != nil {
				break
			}
		}
		if waitErr := pool.Wait(g); waitErr != nil && firstErr == nil {
			return nil, newError(KindMalformed, -1, -1, "frame decode pool: %v", waitErr)
		}
		pool.Stop()
		if firstErr != nil {
			return nil, firstErr
		}
	}

	canvas := make([]byte, img.width*img.height*4)
	rgba := make([][]byte, len(collected))
	for i, cf := range collected {
		if i > 0 {
			applyDisposal(canvas, img.width, img.height, collected[i-1].rec.control.disposal, img.background)
		}
		if cerr := composite(canvas, img.width, indexStreams[i], cf.rec.table, cf.rec.rect, cf.rec.transparentIdx); cerr != nil {
			return nil, cerr
		}
		snapshot := make([]byte, len(canvas))
		copy(snapshot, canvas)
		rgba[i] = snapshot
	}

	img.rgba = rgba
	img.frames = make([]frameRecord, len(collected))
	for i, cf := range collected {
		img.frames[i] = cf.rec
	}
	return img, nil
}

// Frame returns the retained RGBA raster for frame index (random-access
// mode only), as a tightly packed width*height*4 byte slice.
func (img *DecodedImage) Frame(index int) ([]byte, *DecodeError) {
	if img.mode != modeRandomAccess {
		return nil, newError(KindUnsupported, -1, index, "Frame is only available on a random-access image")
	}
	if index < 0 || index >= len(img.rgba) {
		return nil, newError(KindMalformed, -1, index, "frame index %d out of range [0,%d)", index, len(img.rgba))
	}
	return img.rgba[index], nil
}

// FrameAtTime resolves elapsed seconds to a frame index by walking the
// graphics-control delay list, returning the stored RGBA for
// random-access mode. When looping is false, seconds past the total
// duration clamp to the last frame; when true, seconds wrap modulo the
// total duration.
func (img *DecodedImage) FrameAtTime(seconds float64, looping bool) ([]byte, *DecodeError) {
	if img.mode != modeRandomAccess {
		return nil, newError(KindUnsupported, -1, -1, "FrameAtTime is only available on a random-access image")
	}
	if len(img.frames) == 0 {
		return nil, newError(KindMalformed, -1, -1, "image has no frames")
	}
	if seconds < 0 {
		seconds = 0
	}
	if img.totalRuntime == 0 {
		return img.rgba[0], nil
	}

	hundredths := int(seconds * 100.0)
	if looping {
		hundredths = hundredths % img.totalRuntime
	} else if hundredths >= img.totalRuntime {
		return img.rgba[len(img.rgba)-1], nil
	}

	running := 0
	for i, fr := range img.frames {
		running += int(fr.control.delayCentiseconds)
		if hundredths < running {
			return img.rgba[i], nil
		}
	}
	return img.rgba[len(img.rgba)-1], nil
}

// newStreamingImage runs the shared parse loop for the two streaming
// modes, then materializes frame 0 into firstFrameRGBA/currentRGBA.
func newStreamingImage(data []byte, mode retentionMode) (*DecodedImage, *DecodeError) {
	img := &DecodedImage{mode: mode}

	type pending struct {
		rf      rawFrame
		lzwData []byte
	}
	var raw []pending

	info, err := parseContainer(data, func(index int, rf rawFrame, lzwData []byte) *DecodeError {
		raw = append(raw, pending{rf: rf, lzwData: lzwData})
		return nil
	})
	if err != nil {
		return nil, err
	}

	img.width = info.screen.width
	img.height = info.screen.height
	img.totalRuntime = info.totalRuntime
	img.loopCount = info.loopCount
	img.hasLoopCount = info.hasLoopCount
	img.background, img.hasBackground = info.backgroundColor()

	frames := make([]frameRecord, len(raw))
	for i, p := range raw {
		rec := buildFrameRecord(p.rf, info.global, info.screen.globalColorTableExp)
		if mode == modeIndexStream {
			indices, derr := decodeFrameIndices(p.lzwData, rec.minCodeSize, rec.tableSizeExp, i, rec.expectedLen)
			if derr != nil {
				return nil, derr
			}
			rec.indices = indices
		} else {
			rec.lzwData = p.lzwData
		}
		frames[i] = rec
	}
	img.frames = frames

	if len(frames) == 0 {
		return nil, newError(KindMalformed, -1, -1, "gif has no frames")
	}

	first, ferr := img.recompose(0)
	if ferr != nil {
		return nil, ferr
	}
	img.firstFrameRGBA = first
	img.currentRGBA = make([]byte, len(first))
	copy(img.currentRGBA, first)
	img.currentIndex = 0
	return img, nil
}

// NewIndexStreamImage parses data, retaining each frame's decoded
// color-index stream but not its RGBA: the index-stream streaming mode.
func NewIndexStreamImage(data []byte) (*DecodedImage, *DecodeError) {
	return newStreamingImage(data, modeIndexStream)
}

// NewCompressedStreamImage parses data, retaining each frame's raw LZW
// bytes; both the index stream and the RGBA are materialized on demand.
// This is the compressed streaming mode.
func NewCompressedStreamImage(data []byte) (*DecodedImage, *DecodeError) {
	return newStreamingImage(data, modeCompressed)
}

// frameIndices returns frame i's color-index stream, decoding it from the
// retained LZW bytes on demand for compressed mode, or returning the
// retained stream directly for index-stream mode.
func (img *DecodedImage) frameIndices(i int) ([]uint16, *DecodeError) {
	fr := &img.frames[i]
	if img.mode == modeIndexStream {
		return fr.indices, nil
	}
	return decodeFrameIndices(fr.lzwData, fr.minCodeSize, fr.tableSizeExp, i, fr.expectedLen)
}

// recompose rebuilds the canvas from frame 0 through target inclusive,
// applying each frame's predecessor's disposal method before compositing.
// Streaming modes trade this per-lookup recomputation for not retaining
// per-frame RGBA, trading CPU for memory more literally than the
// original's incremental-but-disposal-blind Tick, and giving cross-mode
// output equality regardless of how far a single Advance call needs to
// jump.
func (img *DecodedImage) recompose(target int) ([]byte, *DecodeError) {
	canvas := make([]byte, img.width*img.height*4)
	for i := 0; i <= target; i++ {
		if i > 0 {
			applyDisposal(canvas, img.width, img.height, img.frames[i-1].control.disposal, img.background)
		}
		indices, err := img.frameIndices(i)
		if err != nil {
			return nil, err
		}
		fr := &img.frames[i]
		if err := composite(canvas, img.width, indices, fr.table, fr.rect, fr.transparentIdx); err != nil {
			return nil, err
		}
	}
	return canvas, nil
}

// FirstFrame returns the RGBA raster of frame 0, unaffected by any
// subsequent Advance calls.
func (img *DecodedImage) FirstFrame() []byte { return img.firstFrameRGBA }

// CurrentFrame returns the RGBA raster Advance last selected.
func (img *DecodedImage) CurrentFrame() []byte { return img.currentRGBA }

// frameIndexForHundredths walks the graphics-control delay list, returning
// the frame whose delay window contains hundredths (centiseconds into the
// loop). Shared by Advance and FrameIndexAtElapsed.
func (img *DecodedImage) frameIndexForHundredths(hundredths int) int {
	running := 0
	target := len(img.frames) - 1
	for i, fr := range img.frames {
		running += int(fr.control.delayCentiseconds)
		if hundredths < running {
			return i
		}
	}
	return target
}

// FrameIndexAtElapsed resolves elapsed seconds (wrapped modulo the total
// duration) to a frame index without touching this image's own advance
// state, for callers layering independent playback positions over one
// shared image (see the gifset package).
func (img *DecodedImage) FrameIndexAtElapsed(seconds float64) int {
	if img.totalRuntime == 0 || len(img.frames) == 0 {
		return 0
	}
	if seconds < 0 {
		seconds = 0
	}
	hundredths := int(seconds*100.0) % img.totalRuntime
	return img.frameIndexForHundredths(hundredths)
}

// FrameAt materializes frame index's RGBA raster regardless of mode,
// without mutating this image's own current-frame/advance state: random
// access mode returns its retained snapshot directly, streaming modes
// recompose fresh from frame 0. Safe to call concurrently from multiple
// independent cursors sharing one image, since it only reads state fixed
// at construction.
func (img *DecodedImage) FrameAt(index int) ([]byte, *DecodeError) {
	if index < 0 || index >= len(img.frames) {
		return nil, newError(KindMalformed, -1, index, "frame index %d out of range [0,%d)", index, len(img.frames))
	}
	if img.mode == modeRandomAccess {
		return img.rgba[index], nil
	}
	return img.recompose(index)
}

// Advance accumulates deltaSeconds and, if enough time has passed to
// select a different frame, recomposites and returns true. A non-positive
// delta is a no-op. A single call always selects
// exactly one target frame from the modulo computation below; it never
// steps through intermediate frames.
func (img *DecodedImage) Advance(deltaSeconds float64) (bool, *DecodeError) {
	if deltaSeconds <= 0 {
		return false, nil
	}
	if img.totalRuntime == 0 {
		return false, nil
	}
	img.accumulated += deltaSeconds
	target := img.FrameIndexAtElapsed(img.accumulated)

	if target == img.currentIndex {
		return false, nil
	}

	if target == 0 {
		copy(img.currentRGBA, img.firstFrameRGBA)
	} else {
		next, err := img.recompose(target)
		if err != nil {
			return false, err
		}
		copy(img.currentRGBA, next)
	}
	img.currentIndex = target
	return true, nil
}
