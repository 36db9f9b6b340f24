/*
Package gifset layers multiple independent playback positions over a
single decoded GIF, so one parsed/decoded image can be displayed at
several different points in its animation at once.

gif-read is released under the BSD 2-clause license. See LICENSE in the
project's root folder for more details.
*/
package gifset

import (
	"errors"

	"github.com/khalladay/gif-read/gif"
)

// PlaybackCursor is one independent playback position over a shared
// *gif.DecodedImage: its own accumulated time, current frame index, and
// current frame buffer. The underlying image's own Advance/CurrentFrame
// state is never touched, so many cursors can share one compressed
// streaming image cheaply, at the cost of recompositing per Advance the
// way any streaming-mode lookup does.
type PlaybackCursor struct {
	img          *gif.DecodedImage
	accumulated  float64
	currentIndex int
	currentFrame []byte
}

// NewPlaybackCursor starts a cursor at frame 0 of img.
func NewPlaybackCursor(img *gif.DecodedImage) (*PlaybackCursor, *gif.DecodeError) {
	first, err := img.FrameAt(0)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, len(first))
	copy(buf, first)
	return &PlaybackCursor{img: img, currentFrame: buf}, nil
}

// CurrentFrame returns the RGBA raster this cursor last selected.
func (c *PlaybackCursor) CurrentFrame() []byte { return c.currentFrame }

// CurrentFrameIndex returns the frame index this cursor last selected.
func (c *PlaybackCursor) CurrentFrameIndex() int { return c.currentIndex }

// Reset rewinds the cursor to frame 0 and clears its accumulated time.
func (c *PlaybackCursor) Reset() *gif.DecodeError {
	first, err := c.img.FrameAt(0)
	if err != nil {
		return err
	}
	copy(c.currentFrame, first)
	c.currentIndex = 0
	c.accumulated = 0
	return nil
}

// Advance accumulates deltaSeconds against this cursor alone and, if that
// selects a different frame than the one currently held, recomposites and
// returns true. Independent cursors over the same image can be at
// different frames simultaneously.
func (c *PlaybackCursor) Advance(deltaSeconds float64) (bool, *gif.DecodeError) {
	if deltaSeconds <= 0 {
		return false, nil
	}
	c.accumulated += deltaSeconds
	target := c.img.FrameIndexAtElapsed(c.accumulated)
	if target == c.currentIndex {
		return false, nil
	}
	frame, err := c.img.FrameAt(target)
	if err != nil {
		return false, err
	}
	copy(c.currentFrame, frame)
	c.currentIndex = target
	return true, nil
}

// errTooManyCursors is returned by CursorSet.NewCursor once maxCursors is
// reached.
var errTooManyCursors = errors.New("gifset: cursor set is at capacity")

// CursorSet bounds a group of cursors sharing one image, named after the
// original source's "gif-erators": multiple playback positions over a
// single StreamingGIF, capped by a maxIterators construction argument.
type CursorSet struct {
	img        *gif.DecodedImage
	cursors    []*PlaybackCursor
	maxCursors int
}

// NewCursorSet bounds how many independent cursors can share img. A
// maxCursors of 0 or less is treated as unbounded.
func NewCursorSet(img *gif.DecodedImage, maxCursors int) *CursorSet {
	return &CursorSet{img: img, maxCursors: maxCursors}
}

// NewCursor allocates and registers a new cursor at frame 0, failing once
// the set is at capacity.
func (s *CursorSet) NewCursor() (*PlaybackCursor, error) {
	if s.maxCursors > 0 && len(s.cursors) >= s.maxCursors {
		return nil, errTooManyCursors
	}
	c, err := NewPlaybackCursor(s.img)
	if err != nil {
		return nil, err
	}
	s.cursors = append(s.cursors, c)
	return c, nil
}

// Cursors returns every cursor currently registered in the set.
func (s *CursorSet) Cursors() []*PlaybackCursor {
	return s.cursors
}

// TickAll advances every cursor in the set by the same delta, mirroring
// the "tick ticks all iterators" behavior of the source this variant is
// grounded on.
func (s *CursorSet) TickAll(deltaSeconds float64) *gif.DecodeError {
	for _, c := range s.cursors {
		if _, err := c.Advance(deltaSeconds); err != nil {
			return err
		}
	}
	return nil
}
