// Command bubbleview shows the pilot bubble chart in a terminal.
//
// The terminal is treated as a surface of cells, each cellWidth by
// cellHeight pixels. Resizing the terminal starts a new layout through the
// resize shell; hovering a bubble shows its tooltip.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/ha1tch/f1-bubbles/pkg/bubble"
	"github.com/ha1tch/f1-bubbles/pkg/config"
	"github.com/ha1tch/f1-bubbles/pkg/label"
	"github.com/ha1tch/f1-bubbles/pkg/pilot"
	"github.com/ha1tch/f1-bubbles/pkg/viewport"
)

// Pixel size of one terminal cell.
const (
	cellWidth  = 8.0
	cellHeight = 16.0
)

const usage = "Usage: bubbleview <pilots.json> [-labels f] [-config f] [-log f]"

// Viewer draws the latest layout and routes terminal events. It is the
// Sink of the resize shell and the TooltipView of the hover controller.
type Viewer struct {
	screen   tcell.Screen
	shell    *bubble.Shell
	tooltips *bubble.TooltipController

	mu      sync.Mutex
	result  *bubble.Result
	status  string
	tip     *bubble.Tooltip
	mouseX  int
	mouseY  int
	hovered *bubble.Shape
}

func main() {
	var input, labelsPath, configPath, logPath string
	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-labels", "--labels":
			if i+1 < len(args) {
				labelsPath = args[i+1]
				i++
			}
		case "-config", "--config":
			if i+1 < len(args) {
				configPath = args[i+1]
				i++
			}
		case "-log", "--log":
			if i+1 < len(args) {
				logPath = args[i+1]
				i++
			}
		case "-h", "--help":
			fmt.Println(usage)
			return
		default:
			input = args[i]
		}
	}
	if input == "" {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(1)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	pilots, err := pilot.LoadFile(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", input, err)
		os.Exit(1)
	}
	var labels []label.Request
	if labelsPath != "" {
		if labels, err = label.LoadRequests(labelsPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", labelsPath, err)
			os.Exit(1)
		}
	}

	// The screen owns stdout and stderr, so logs go to a file or nowhere.
	var chartOpts []bubble.Option
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening log: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
		chartOpts = append(chartOpts, bubble.WithLogger(logger))
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing screen: %v\n", err)
		os.Exit(1)
	}
	screen.EnableMouse()
	screen.Clear()

	v := NewViewer(screen, bubble.New(cfg, chartOpts...), pilots, labels)
	v.run()
	v.Close()

	screen.Fini()
}

// NewViewer wires a shell and a tooltip controller to the screen.
func NewViewer(screen tcell.Screen, chart *bubble.Chart, pilots []pilot.Pilot, labels []label.Request) *Viewer {
	v := &Viewer{screen: screen, status: "waiting for layout", mouseX: -1, mouseY: -1}
	v.shell = bubble.NewShell(chart, v, pilots, labels)
	v.tooltips = bubble.NewTooltipController(v, bubble.DefaultHideDelay)
	return v
}

// Close stops the layout in flight.
func (v *Viewer) Close() {
	v.shell.Close()
}

func (v *Viewer) run() {
	for {
		v.draw()
		v.screen.Show()

		ev := v.screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventResize:
			v.screen.Sync()
			v.resize()
		case *tcell.EventKey:
			if quitKey(ev) {
				return
			}
			if ev.Key() == tcell.KeyRune && ev.Rune() == 'r' {
				w, h := v.screen.Size()
				v.shell.Refresh(surfaceSize(w, h))
			}
		case *tcell.EventMouse:
			x, y := ev.Position()
			v.hover(x, y)
		case *tcell.EventInterrupt:
			// Posted by the shell and the tooltip controller; just redraw.
		case nil:
			return
		}
	}
}

func quitKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return ev.Rune() == 'q'
	}
	return false
}

func (v *Viewer) resize() {
	w, h := v.screen.Size()
	v.mu.Lock()
	v.status = fmt.Sprintf("laying out %dx%d", w, h)
	v.mu.Unlock()
	v.shell.Resize(surfaceSize(w, h))
}

// surfaceSize converts a cell grid to pixels. The bottom row is kept for
// the status bar.
func surfaceSize(cols, rows int) viewport.Size {
	return viewport.Size{Width: float64(cols) * cellWidth, Height: float64(rows-1) * cellHeight}
}

// hover moves the pointer to cell (x, y) and fires enter and exit events
// when the shape under it changes.
func (v *Viewer) hover(x, y int) {
	v.mu.Lock()
	v.mouseX, v.mouseY = x, y
	res := v.result
	prev := v.hovered
	var cur *bubble.Shape
	if res != nil {
		if s, ok := res.HitTest(cellCenter(x, y)); ok {
			cur = &s
		}
	}
	v.hovered = cur
	v.mu.Unlock()

	if prev != nil && cur != nil && prev.Name == cur.Name {
		return
	}
	if prev != nil {
		v.tooltips.HoverExit(*prev)
	}
	if cur != nil {
		v.tooltips.HoverEnter(*cur)
	}
}

// Present implements bubble.Sink.
func (v *Viewer) Present(res *bubble.Result) {
	v.mu.Lock()
	v.result = res
	prev := v.hovered
	v.hovered = nil
	v.status = fmt.Sprintf("%d bubbles, %d labels, %d frames", len(res.Shapes), len(res.Labels), res.Frames)
	if !res.Converged {
		v.status += ", not converged"
	}
	v.mu.Unlock()
	if prev != nil {
		v.tooltips.HoverExit(*prev)
	}
	v.screen.PostEvent(tcell.NewEventInterrupt(nil))
}

// Skip implements bubble.Sink.
func (v *Viewer) Skip(err error) {
	v.mu.Lock()
	v.status = "skipped: " + err.Error()
	v.mu.Unlock()
	v.screen.PostEvent(tcell.NewEventInterrupt(nil))
}

// Show implements bubble.TooltipView.
func (v *Viewer) Show(t bubble.Tooltip) {
	v.mu.Lock()
	v.tip = &t
	v.mu.Unlock()
	v.screen.PostEvent(tcell.NewEventInterrupt(nil))
}

// Hide implements bubble.TooltipView.
func (v *Viewer) Hide() {
	v.mu.Lock()
	v.tip = nil
	v.mu.Unlock()
	v.screen.PostEvent(tcell.NewEventInterrupt(nil))
}
