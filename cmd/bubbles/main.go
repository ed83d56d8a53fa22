// Command bubbles lays out and renders the Formula 1 pilot bubble chart.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ha1tch/f1-bubbles/pkg/bubble"
	"github.com/ha1tch/f1-bubbles/pkg/config"
	"github.com/ha1tch/f1-bubbles/pkg/label"
	"github.com/ha1tch/f1-bubbles/pkg/pilot"
	"github.com/ha1tch/f1-bubbles/pkg/racedata"
	"github.com/ha1tch/f1-bubbles/pkg/render"
	"github.com/ha1tch/f1-bubbles/pkg/scale"
	"github.com/ha1tch/f1-bubbles/pkg/viewport"
)

const usage = `bubbles - Formula 1 pilot bubble chart

Usage:
  bubbles <command> [options]

Commands:
  render     Lay out pilots and write SVG or PNG
  layout     Lay out pilots and print the result as JSON
  info       Show dataset and viewport information
  validate   Validate a configuration file

Options:
  -labels <file>      curated labels JSON
  -config <file>      YAML configuration (defaults when omitted)
  -w, -h <px>         surface size (default 1400x700)
  -o <file>           output file (.svg or .png; stdout SVG when omitted)
  --races <file>      race results JSON instead of pilots.json
  --champions <file>  champions by season, used with --races
  --metrics <file>    write Prometheus metrics in text format
  -v                  debug logging

Examples:
  bubbles render data/pilots.json -labels data/labels.json -o chart.svg
  bubbles render --races data/races.json --champions data/champions.json -o chart.png
  bubbles layout data/pilots.json -w 500 -h 900
  bubbles info data/pilots.json
  bubbles validate bubbles.yaml
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "render":
		err = cmdRender(args)
	case "layout":
		err = cmdLayout(args)
	case "info":
		err = cmdInfo(args)
	case "validate":
		err = cmdValidate(args)
	case "-h", "--help", "help":
		fmt.Print(usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Print(usage)
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// options collects the flags shared by the layout commands.
type options struct {
	input     string
	labels    string
	config    string
	output    string
	races     string
	champions string
	metrics   string
	size      viewport.Size
	verbose   bool
}

var errUsage = errors.New("missing input: give pilots.json or --races")

func parseOptions(args []string) (options, error) {
	o := options{size: viewport.Size{Width: 1400, Height: 700}}

	value := func(i *int) (string, error) {
		if *i+1 >= len(args) {
			return "", fmt.Errorf("%s needs a value", args[*i])
		}
		*i++
		return args[*i], nil
	}
	number := func(i *int) (float64, error) {
		flag := args[*i]
		v, err := value(i)
		if err != nil {
			return 0, err
		}
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", flag, err)
		}
		return n, nil
	}

	for i := 0; i < len(args); i++ {
		var err error
		switch args[i] {
		case "-labels", "--labels":
			o.labels, err = value(&i)
		case "-config", "--config":
			o.config, err = value(&i)
		case "-o", "--output":
			o.output, err = value(&i)
		case "--races":
			o.races, err = value(&i)
		case "--champions":
			o.champions, err = value(&i)
		case "--metrics":
			o.metrics, err = value(&i)
		case "-w", "--width":
			o.size.Width, err = number(&i)
		case "-h", "--height":
			o.size.Height, err = number(&i)
		case "-v", "--verbose":
			o.verbose = true
		default:
			if strings.HasPrefix(args[i], "-") {
				return o, fmt.Errorf("unknown option %s", args[i])
			}
			if o.input != "" {
				return o, fmt.Errorf("unexpected argument %s", args[i])
			}
			o.input = args[i]
		}
		if err != nil {
			return o, err
		}
	}
	if o.input == "" && o.races == "" {
		return o, errUsage
	}
	return o, nil
}

func (o options) logger() *slog.Logger {
	level := slog.LevelInfo
	if o.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// loadPilots reads pilots.json or aggregates race rows.
func (o options) loadPilots() ([]pilot.Pilot, error) {
	if o.races == "" {
		return pilot.LoadFile(o.input)
	}
	rows, err := racedata.LoadRows(o.races)
	if err != nil {
		return nil, err
	}
	champions := map[int]string{}
	if o.champions != "" {
		if champions, err = racedata.LoadChampions(o.champions); err != nil {
			return nil, err
		}
	}
	return racedata.Aggregate(rows, champions), nil
}

// layout runs one pass with everything the options name.
func (o options) layout() (*bubble.Result, error) {
	cfg, err := config.Load(o.config)
	if err != nil {
		return nil, err
	}
	pilots, err := o.loadPilots()
	if err != nil {
		return nil, err
	}
	var labels []label.Request
	if o.labels != "" {
		if labels, err = label.LoadRequests(o.labels); err != nil {
			return nil, err
		}
	}

	chartOpts := []bubble.Option{bubble.WithLogger(o.logger())}
	var reg *prometheus.Registry
	if o.metrics != "" {
		reg = prometheus.NewRegistry()
		chartOpts = append(chartOpts, bubble.WithMetrics(bubble.NewMetrics(reg)))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := bubble.New(cfg, chartOpts...).Layout(ctx, o.size, pilots, labels)
	if reg != nil {
		if werr := prometheus.WriteToTextfile(o.metrics, reg); werr != nil && err == nil {
			err = fmt.Errorf("writing metrics: %w", werr)
		}
	}
	return res, err
}

func cmdRender(args []string) error {
	o, err := parseOptions(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Usage: bubbles render <pilots.json> [-labels f] [-config f] [-w W] [-h H] [-o out.svg|png] [--metrics f]")
		return err
	}
	res, err := o.layout()
	if err != nil {
		return err
	}

	var out io.Writer = os.Stdout
	if o.output != "" {
		f, err := os.Create(o.output)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	switch ext := strings.ToLower(filepath.Ext(o.output)); ext {
	case ".png":
		err = render.PNG(out, res, render.DefaultPNGOptions())
	case "", ".svg":
		err = render.SVG(out, res, render.DefaultSVGOptions())
	default:
		return fmt.Errorf("unknown output format: %s", ext)
	}
	if err != nil {
		return err
	}
	if o.output != "" {
		fmt.Fprintf(os.Stderr, "Written: %s (%d shapes, %d labels)\n", o.output, len(res.Shapes), len(res.Labels))
	}
	return nil
}

func cmdLayout(args []string) error {
	o, err := parseOptions(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Usage: bubbles layout <pilots.json> [-labels f] [-config f] [-w W] [-h H] [-o out.json]")
		return err
	}
	res, err := o.layout()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if o.output != "" {
		return os.WriteFile(o.output, data, 0644)
	}
	_, err = os.Stdout.Write(data)
	return err
}

func cmdInfo(args []string) error {
	o, err := parseOptions(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Usage: bubbles info <pilots.json> [-config f] [-w W] [-h H]")
		return err
	}
	cfg, err := config.Load(o.config)
	if err != nil {
		return err
	}
	pilots, err := o.loadPilots()
	if err != nil {
		return err
	}

	entities, rejected := pilot.BuildEntities(pilots, cfg.Scale.AnchorYears)
	counts := make([]float64, 0, len(entities))
	champions, firstYear, lastYear := 0, 0, 0
	for _, e := range entities {
		if e.IsAnchor() {
			continue
		}
		counts = append(counts, float64(e.RacesCount))
		if e.Championships() > 0 {
			champions++
		}
		if y := e.FirstYear(); firstYear == 0 || y < firstYear {
			firstYear = y
		}
		if y := e.Years[len(e.Years)-1]; y > lastYear {
			lastYear = y
		}
	}

	fmt.Printf("Pilots:      %d\n", len(counts))
	if len(rejected) > 0 {
		fmt.Printf("Rejected:    %d\n", len(rejected))
	}
	fmt.Printf("Champions:   %d\n", champions)
	if lo, hi, ok := scale.Extent(counts); ok {
		fmt.Printf("Races:       %g to %g\n", lo, hi)
		fmt.Printf("Seasons:     %d to %d\n", firstYear, lastYear)
	}

	params, err := viewport.Compute(o.size, cfg.Rules())
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Printf("Surface:     %gx%g (%s)\n", o.size.Width, o.size.Height, params.Breakpoint)
	fmt.Printf("Inner:       %.0fx%.0f\n", params.InnerWidth, params.InnerHeight)
	fmt.Printf("Axis:        %.1f px at %.2f°\n", params.Diagonal, params.AngleDeg)
	fmt.Printf("Radius:      %g to %g px\n", params.RadiusRange[0], params.RadiusRange[1])
	fmt.Printf("Links:       %v\n", params.LinksEnabled)
	fmt.Printf("Labels:      %v\n", params.LabelsEnabled)
	for _, err := range rejected {
		fmt.Fprintf(os.Stderr, "rejected: %v\n", err)
	}
	return nil
}

func cmdValidate(args []string) error {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: bubbles validate <config.yaml>")
		return errors.New("missing config file")
	}
	cfg, err := config.Load(args[0])
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	fmt.Printf("%s: valid, %d breakpoints, %d palette colors, %d links\n",
		args[0], len(cfg.Rules().Profiles), len(cfg.Scale.Palette), len(cfg.Links))
	return nil
}
