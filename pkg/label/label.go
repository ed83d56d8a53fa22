// Package label places annotation labels next to settled bubbles.
//
// A label is a leader polyline from the target bubble to a short accent
// tick, plus a block of text. Geometry is produced in simulation space and
// wrapped in a rotation about the target that cancels the chart rotation,
// so leaders that are vertical here are vertical on screen. Obstruction
// checks are done in screen space through the chart transform.
package label

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ha1tch/f1-bubbles/pkg/geom"
)

// ErrTargetNotFound is returned when a request names no known entity.
var ErrTargetNotFound = errors.New("label: target not found")

// Strategy identifies the label layout chosen for a target.
type Strategy int

const (
	TopLeft Strategy = iota
	RightTop
	SideTop
	BottomLeft
	RightBottom
	SideBottom
)

func (s Strategy) String() string {
	switch s {
	case TopLeft:
		return "top-left"
	case RightTop:
		return "right-top"
	case SideTop:
		return "side-top"
	case BottomLeft:
		return "bottom-left"
	case RightBottom:
		return "right-bottom"
	case SideBottom:
		return "side-bottom"
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// MarshalText renders the strategy name in JSON output.
func (s Strategy) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// TextAnchor is the horizontal alignment of the text block.
type TextAnchor int

const (
	AnchorStart TextAnchor = iota
	AnchorEnd
)

func (a TextAnchor) String() string {
	if a == AnchorEnd {
		return "end"
	}
	return "start"
}

func (a TextAnchor) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// Item is a read-only view of one settled entity.
type Item struct {
	Name string
	Pos  geom.Point
}

// Request asks for a label on the named entity. Text may span lines
// separated by "\n".
type Request struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

// Run is one line of label text.
type Run struct {
	Text string  `json:"text"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// Rotation rotates the whole label group about Pivot.
type Rotation struct {
	Degrees float64    `json:"degrees"`
	Pivot   geom.Point `json:"pivot"`
}

// Placement is the computed geometry of one label.
type Placement struct {
	Name        string         `json:"name"`
	Strategy    Strategy       `json:"strategy"`
	Target      geom.Point     `json:"target"`
	Obstruction string         `json:"obstruction"`
	Leader      []geom.Segment `json:"leader"`
	Accent      geom.Segment   `json:"accent"`
	Anchor      TextAnchor     `json:"anchor"`
	TextPos     geom.Point     `json:"textPos"`
	Runs        []Run          `json:"runs"`
	Rotation    Rotation       `json:"rotation"`
}

// Segments returns the leader segments followed by the accent tick.
func (p Placement) Segments() []geom.Segment {
	out := make([]geom.Segment, 0, len(p.Leader)+1)
	out = append(out, p.Leader...)
	return append(out, p.Accent)
}

// Omission records a request that could not be placed.
type Omission struct {
	Name string
	Err  error
}

func (o Omission) Error() string {
	return fmt.Sprintf("label %q: %v", o.Name, o.Err)
}

func (o Omission) Unwrap() error { return o.Err }

// splitRuns lays out text lines below the anchor, one line height apart.
func splitRuns(text string, anchor geom.Point, lineHeight float64) []Run {
	lines := strings.Split(text, "\n")
	runs := make([]Run, len(lines))
	for i, line := range lines {
		runs[i] = Run{
			Text: line,
			X:    anchor.X,
			Y:    anchor.Y + float64(i+1)*lineHeight,
		}
	}
	return runs
}
