package gif

const maxFrames = 4096

const (
	blockExtension      = 0x21
	blockImageDescriptor = 0x2C
	blockTrailer        = 0x3B
)

// containerInfo is everything the top-level parse loop discovers that is
// not specific to a single frame's retained payload.
type containerInfo struct {
	screen       logicalScreen
	global       colorTable
	totalRuntime int // sum of every graphics-control delay time, in centiseconds
	loopCount    int
	hasLoopCount bool
}

// backgroundColor resolves the logical screen's background index through
// the global color table, when both are present.
func (ci containerInfo) backgroundColor() (color, bool) {
	if !ci.screen.hasGlobalColorTable || int(ci.screen.backgroundColorIdx) >= len(ci.global) {
		return color{}, false
	}
	return ci.global[ci.screen.backgroundColorIdx], true
}

// frameSink receives each image descriptor as the top-level loop parses
// it, along with its concatenated LZW payload. The three facade
// constructors each supply a different sink to decide what to retain.
type frameSink func(index int, rf rawFrame, lzwData []byte) *DecodeError

// parseContainer drives the top-level block dispatch: header, optional
// global color table, then a loop over extension / image descriptor /
// trailer blocks. Each image descriptor is associated with the most
// recently parsed, not-yet-consumed graphics-control block, defaulting to
// DisposalNone with no transparency when none precedes it, rather than
// assuming a strict positional 1:1 pairing between the two block types.
func parseContainer(data []byte, sink frameSink) (containerInfo, *DecodeError) {
	c := newCursor(data)

	screen, global, err := parseHeader(c)
	if err != nil {
		return containerInfo{}, err
	}

	info := containerInfo{screen: screen, global: global}
	var pendingGC graphicsControl
	haveGC := false
	frameIdx := 0

	for {
		label, err := c.byte1(frameIdx)
		if err != nil {
			return containerInfo{}, err
		}

		switch label {
		case blockTrailer:
			return info, nil

		case blockExtension:
			ext, err := parseExtension(c, frameIdx)
			if err != nil {
				return containerInfo{}, err
			}
			if ext.isGC {
				info.totalRuntime += int(ext.gc.delayCentiseconds)
				pendingGC = ext.gc
				haveGC = true
			}
			if ext.hasLoopCount {
				info.loopCount = ext.loopCount
				info.hasLoopCount = true
			}

		case blockImageDescriptor:
			if frameIdx >= maxFrames {
				return containerInfo{}, newError(KindCapacityExceeded, c.offset(), frameIdx, "more than %d frames", maxFrames)
			}

			rect, local, localExp, err := parseImageDescriptor(c, frameIdx)
			if err != nil {
				return containerInfo{}, err
			}
			lzwData, minCodeSize, err := collectLZWSubBlocks(c, frameIdx)
			if err != nil {
				return containerInfo{}, err
			}

			rf := rawFrame{
				rect:               rect,
				localColorTable:    local,
				localColorTableExp: localExp,
				minCodeSize:        minCodeSize,
			}
			if haveGC {
				rf.control = pendingGC
				haveGC = false
			} else {
				rf.control = graphicsControl{disposal: DisposalNone}
			}

			if rect.x+rect.w > screen.width || rect.y+rect.h > screen.height {
				return containerInfo{}, newError(KindMalformed, c.offset(), frameIdx,
					"frame rect (%d,%d,%d,%d) exceeds canvas %dx%d", rect.x, rect.y, rect.w, rect.h, screen.width, screen.height)
			}

			if err := sink(frameIdx, rf, lzwData); err != nil {
				return containerInfo{}, err
			}
			frameIdx++

		default:
			return containerInfo{}, newError(KindMalformed, c.offset()-1, frameIdx, "unknown block label 0x%02x", label)
		}
	}
}

// decodeFrameIndices runs the LZW decoder over a frame's full
// concatenated compressed payload in one call, returning its color-index
// stream.
func decodeFrameIndices(lzwData []byte, minCodeSize, colorTableSizeExp, frameIndex, expectedLen int) ([]uint16, *DecodeError) {
	dec := newLZWDecoder(minCodeSize, colorTableSizeExp, frameIndex)
	indices := make([]uint16, 0, expectedLen)
	indices, err := dec.decode(lzwData, indices)
	if err != nil {
		return nil, err
	}
	if len(indices) != expectedLen {
		return nil, newError(KindMalformed, -1, frameIndex,
			"index stream length %d does not match expected %d", len(indices), expectedLen)
	}
	return indices, nil
}
