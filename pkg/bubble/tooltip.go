package bubble

import (
	"fmt"
	"sync"
	"time"

	"github.com/ha1tch/f1-bubbles/pkg/pilot"
)

// HoverHandler is notified when the pointer enters or leaves a shape.
type HoverHandler interface {
	HoverEnter(Shape)
	HoverExit(Shape)
}

// Tooltip is the content shown for a hovered pilot.
type Tooltip struct {
	Shape Shape
	Title string
	Lines []string
	URL   string
}

// TooltipView displays and hides tooltips.
type TooltipView interface {
	Show(Tooltip)
	Hide()
}

// DefaultHideDelay is the grace period before a tooltip disappears.
const DefaultHideDelay = 300 * time.Millisecond

// TooltipController is a HoverHandler that drives a TooltipView. Anchors
// never get a tooltip. Leaving a shape hides its tooltip after the grace
// delay unless another shape was entered in the meantime.
type TooltipController struct {
	view  TooltipView
	delay time.Duration

	mu      sync.Mutex
	current string
	timer   *time.Timer
}

// NewTooltipController creates a controller with the given hide delay.
func NewTooltipController(view TooltipView, delay time.Duration) *TooltipController {
	return &TooltipController{view: view, delay: delay}
}

func (c *TooltipController) HoverEnter(s Shape) {
	if s.IsAnchor() {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.current = s.Name
	c.view.Show(TooltipFor(s))
}

func (c *TooltipController) HoverExit(s Shape) {
	if s.IsAnchor() {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current != s.Name {
		return
	}
	if c.delay <= 0 {
		c.hideLocked()
		return
	}
	name := s.Name
	c.timer = time.AfterFunc(c.delay, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.current == name {
			c.hideLocked()
		}
	})
}

// Visible returns the name of the shape whose tooltip is shown.
func (c *TooltipController) Visible() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

func (c *TooltipController) hideLocked() {
	c.current = ""
	c.timer = nil
	c.view.Hide()
}

// TooltipFor builds the tooltip content of a pilot shape.
func TooltipFor(s Shape) Tooltip {
	races := "races"
	if s.Races == 1 {
		races = "race"
	}
	lines := []string{fmt.Sprintf("%d Formula 1 %s %s", s.Races, races, pilot.FormatYears(s.Years))}
	if len(s.Titles) > 0 {
		lines = append(lines, fmt.Sprintf("World champion %s", pilot.FormatYears(s.Titles)))
	}
	return Tooltip{
		Shape: s,
		Title: s.Display,
		Lines: lines,
		URL:   s.URL,
	}
}
