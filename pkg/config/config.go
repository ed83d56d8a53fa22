// Package config loads the chart configuration from YAML.
//
// Every section is optional: Load overlays the file on Default(), so a
// config only needs to name what it changes.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/ha1tch/f1-bubbles/pkg/force"
	"github.com/ha1tch/f1-bubbles/pkg/label"
	"github.com/ha1tch/f1-bubbles/pkg/pilot"
	"github.com/ha1tch/f1-bubbles/pkg/scale"
	"github.com/ha1tch/f1-bubbles/pkg/viewport"
)

var validate = validator.New()

// Config is the full chart configuration.
type Config struct {
	Viewport   Viewport   `yaml:"viewport"`
	Scale      Scale      `yaml:"scale"`
	Simulation Simulation `yaml:"simulation"`
	Labels     Labels     `yaml:"labels"`
	Links      []Link     `yaml:"links" validate:"dive"`
	Shell      Shell      `yaml:"shell"`
}

// Viewport holds breakpoint thresholds and per-breakpoint profiles.
type Viewport struct {
	TabletMin  float64 `yaml:"tablet_min" validate:"gt=0"`
	DesktopMin float64 `yaml:"desktop_min" validate:"gtfield=TabletMin"`
	Desktop    Profile `yaml:"desktop"`
	Tablet     Profile `yaml:"tablet"`
	Mobile     Profile `yaml:"mobile"`
}

// Profile is the YAML form of viewport.Profile.
type Profile struct {
	Padding      Padding `yaml:"padding"`
	RadiusMin    float64 `yaml:"radius_min" validate:"gt=0"`
	RadiusMax    float64 `yaml:"radius_max" validate:"gtfield=RadiusMin"`
	LinkDistance float64 `yaml:"link_distance" validate:"gte=0"`
	WidthShare   float64 `yaml:"width_share" validate:"gt=0,lte=1"`
	Collision    float64 `yaml:"collision" validate:"gte=0,lte=1"`
}

type Padding struct {
	Top    float64 `yaml:"top" validate:"gte=0"`
	Right  float64 `yaml:"right" validate:"gte=0"`
	Bottom float64 `yaml:"bottom" validate:"gte=0"`
	Left   float64 `yaml:"left" validate:"gte=0"`
}

// Scale configures the year axis and the championship palette.
type Scale struct {
	YearFrom    int      `yaml:"year_from" validate:"gt=0"`
	YearTo      int      `yaml:"year_to" validate:"gtfield=YearFrom"`
	AnchorYears []int    `yaml:"anchor_years" validate:"dive,gt=0"`
	Palette     []string `yaml:"palette" validate:"min=6,dive,hexcolor"`
	Neutral     string   `yaml:"neutral" validate:"hexcolor"`
	Anchor      string   `yaml:"anchor" validate:"hexcolor"`
}

// Simulation configures the force layout run.
type Simulation struct {
	SubSteps      int   `yaml:"sub_steps" validate:"gte=0,lte=1000"`
	MaxFrames     int   `yaml:"max_frames" validate:"gt=0"`
	ResolvePasses int   `yaml:"resolve_passes" validate:"gte=0"`
	Seed          int64 `yaml:"seed"`
}

// Labels configures label geometry.
type Labels struct {
	LineHeight    float64 `yaml:"line_height" validate:"gt=0"`
	SideThreshold float64 `yaml:"side_threshold" validate:"gt=0"`
}

// Link is a curated pair of pilots pulled together on wide screens.
type Link struct {
	Source string `yaml:"source" validate:"required"`
	Target string `yaml:"target" validate:"required"`
}

// Shell configures the resize controller.
type Shell struct {
	Debounce time.Duration `yaml:"debounce"`
}

// Default returns the built-in configuration.
func Default() Config {
	rules := viewport.DefaultRules()
	so := scale.DefaultOptions()
	fo := force.DefaultOptions()
	lo := label.DefaultOptions()

	links := make([]Link, len(pilot.DefaultPairs))
	for i, p := range pilot.DefaultPairs {
		links[i] = Link{Source: p[0], Target: p[1]}
	}

	return Config{
		Viewport: Viewport{
			TabletMin:  rules.TabletMin,
			DesktopMin: rules.DesktopMin,
			Desktop:    fromProfile(rules.Profiles[viewport.DesktopLarge]),
			Tablet:     fromProfile(rules.Profiles[viewport.Tablet]),
			Mobile:     fromProfile(rules.Profiles[viewport.Mobile]),
		},
		Scale: Scale{
			YearFrom:    int(so.YearDomain[0]),
			YearTo:      int(so.YearDomain[1]),
			AnchorYears: append([]int(nil), pilot.DefaultAnchorYears...),
			Palette:     append([]string(nil), so.Palette...),
			Neutral:     so.Neutral,
			Anchor:      so.Anchor,
		},
		Simulation: Simulation{
			SubSteps:      fo.SubSteps,
			MaxFrames:     fo.MaxFrames,
			ResolvePasses: fo.ResolvePasses,
			Seed:          1,
		},
		Labels: Labels{
			LineHeight:    lo.LineHeight,
			SideThreshold: lo.SideThreshold,
		},
		Links: links,
		Shell: Shell{Debounce: 300 * time.Millisecond},
	}
}

// Load reads a YAML file and overlays it on the defaults. An empty path
// returns the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("error reading config file: %w", err)
	}
	return Parse(data)
}

// Parse overlays YAML data on the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("error parsing config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks struct constraints and the rules that span fields.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationError(err)
	}
	if c.Shell.Debounce < 0 {
		return fmt.Errorf("shell.debounce: must not be negative, got %v", c.Shell.Debounce)
	}
	for i, l := range c.Links {
		if l.Source == l.Target {
			return fmt.Errorf("links[%d]: %q is linked to itself", i, l.Source)
		}
	}
	return nil
}

func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	for _, e := range verrs {
		field := e.Namespace()
		switch e.Tag() {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "min":
			return fmt.Errorf("%s: must have at least %s entries", field, e.Param())
		case "gtfield":
			return fmt.Errorf("%s: must be greater than %s", field, e.Param())
		case "hexcolor":
			return fmt.Errorf("%s: %q is not a hex color", field, e.Value())
		default:
			return fmt.Errorf("%s: validation failed (%s=%s)", field, e.Tag(), e.Param())
		}
	}
	return err
}

// Rules converts the viewport section into breakpoint rules.
func (c Config) Rules() viewport.Rules {
	return viewport.Rules{
		TabletMin:  c.Viewport.TabletMin,
		DesktopMin: c.Viewport.DesktopMin,
		Profiles: map[viewport.Breakpoint]viewport.Profile{
			viewport.DesktopLarge: c.Viewport.Desktop.toProfile(),
			viewport.Tablet:       c.Viewport.Tablet.toProfile(),
			viewport.Mobile:       c.Viewport.Mobile.toProfile(),
		},
	}
}

// ScaleOptions converts the scale section.
func (c Config) ScaleOptions() scale.Options {
	return scale.Options{
		YearDomain: [2]float64{float64(c.Scale.YearFrom), float64(c.Scale.YearTo)},
		Palette:    c.Scale.Palette,
		Neutral:    c.Scale.Neutral,
		Anchor:     c.Scale.Anchor,
	}
}

// ForceOptions returns simulation defaults with the configured budgets.
// Geometry, links and the random source are filled in per pass.
func (c Config) ForceOptions() force.Options {
	opts := force.DefaultOptions()
	opts.SubSteps = c.Simulation.SubSteps
	opts.MaxFrames = c.Simulation.MaxFrames
	opts.ResolvePasses = c.Simulation.ResolvePasses
	return opts
}

// LabelOptions converts the labels section.
func (c Config) LabelOptions() label.Options {
	opts := label.DefaultOptions()
	opts.LineHeight = c.Labels.LineHeight
	opts.SideThreshold = c.Labels.SideThreshold
	return opts
}

// Pairs returns the curated links.
func (c Config) Pairs() []pilot.Pair {
	out := make([]pilot.Pair, len(c.Links))
	for i, l := range c.Links {
		out[i] = pilot.Pair{l.Source, l.Target}
	}
	return out
}

func fromProfile(p viewport.Profile) Profile {
	return Profile{
		Padding: Padding{
			Top:    p.Padding.Top,
			Right:  p.Padding.Right,
			Bottom: p.Padding.Bottom,
			Left:   p.Padding.Left,
		},
		RadiusMin:    p.RadiusRange[0],
		RadiusMax:    p.RadiusRange[1],
		LinkDistance: p.LinkDistance,
		WidthShare:   p.WidthShare,
		Collision:    p.Collision,
	}
}

func (p Profile) toProfile() viewport.Profile {
	return viewport.Profile{
		Padding:      viewport.Padding{Top: p.Padding.Top, Right: p.Padding.Right, Bottom: p.Padding.Bottom, Left: p.Padding.Left},
		RadiusRange:  [2]float64{p.RadiusMin, p.RadiusMax},
		LinkDistance: p.LinkDistance,
		WidthShare:   p.WidthShare,
		Collision:    p.Collision,
	}
}
