// Package pilot defines the records fed into the bubble chart: pilots as
// they arrive from the data layer, and the entities the simulation lays out.
package pilot

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
)

// ErrEmptyYears is returned for a record without any season.
var ErrEmptyYears = errors.New("pilot: empty year set")

// AnchorRaces is the sizing count given to year anchors so they render at
// a stable radius near the top of the scale.
const AnchorRaces = 250

// AnchorPrefix namespaces anchor identifiers away from pilot names.
const AnchorPrefix = "year:"

// DefaultAnchorYears are the year markers placed on the axis.
var DefaultAnchorYears = []int{1950, 1970, 1990, 2010}

// Pilot is a driver record produced by the data layer.
type Pilot struct {
	Name       string `json:"name"`
	NameRU     string `json:"name_ru,omitempty"`
	Country    string `json:"country,omitempty"`
	URL        string `json:"url,omitempty"`
	RacesCount int    `json:"racesCount"`
	Years      []int  `json:"years"`
	Champion   []int  `json:"isChampion"`
}

// Validate checks the invariants a pilot must satisfy before layout.
func (p Pilot) Validate() error {
	if p.Name == "" {
		return errors.New("pilot: missing name")
	}
	if len(p.Years) == 0 {
		return fmt.Errorf("%w: %s", ErrEmptyYears, p.Name)
	}
	if p.RacesCount <= 0 {
		return fmt.Errorf("pilot: %s: races count %d must be positive", p.Name, p.RacesCount)
	}
	return nil
}

// Kind distinguishes pilots from year anchors.
type Kind int

const (
	KindSubject Kind = iota
	KindAnchor
)

func (k Kind) String() string {
	if k == KindAnchor {
		return "anchor"
	}
	return "subject"
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Entity is one node of the layout. Radius, color and x-target are derived
// from these attributes by the current scales and are never stored here.
type Entity struct {
	ID         string // stable join key, unique within a pass
	Name       string // display name
	Kind       Kind
	RacesCount int
	Years      []int // ascending, non-empty
	Champion   []int // ascending, possibly empty

	Pilot *Pilot // source record for subjects, nil for anchors
}

// FirstYear returns the earliest season, which drives the x-target.
func (e Entity) FirstYear() int {
	return e.Years[0]
}

// Championships returns the number of title-winning seasons.
func (e Entity) Championships() int {
	return len(e.Champion)
}

// IsAnchor reports whether e is a year marker.
func (e Entity) IsAnchor() bool {
	return e.Kind == KindAnchor
}

// Anchor builds the year marker for a given season.
func Anchor(year int) Entity {
	label := strconv.Itoa(year)
	return Entity{
		ID:         AnchorPrefix + label,
		Name:       label,
		Kind:       KindAnchor,
		RacesCount: AnchorRaces,
		Years:      []int{year},
	}
}

// FromPilot converts a validated pilot record into an entity.
func FromPilot(p *Pilot) (Entity, error) {
	if err := p.Validate(); err != nil {
		return Entity{}, err
	}
	years := sortedUnique(p.Years)
	champ := sortedUnique(p.Champion)

	return Entity{
		ID:         p.Name,
		Name:       p.Name,
		Kind:       KindSubject,
		RacesCount: p.RacesCount,
		Years:      years,
		Champion:   champ,
		Pilot:      p,
	}, nil
}

// BuildEntities returns the anchors followed by one entity per valid pilot.
// Invalid or duplicate records are skipped and reported, never fatal.
func BuildEntities(pilots []Pilot, anchorYears []int) ([]Entity, []error) {
	entities := make([]Entity, 0, len(anchorYears)+len(pilots))
	seen := make(map[string]bool, len(pilots))
	var rejected []error

	for _, y := range anchorYears {
		a := Anchor(y)
		seen[a.ID] = true
		entities = append(entities, a)
	}

	for i := range pilots {
		e, err := FromPilot(&pilots[i])
		if err != nil {
			rejected = append(rejected, err)
			continue
		}
		if seen[e.ID] {
			rejected = append(rejected, fmt.Errorf("pilot: duplicate name %q", e.ID))
			continue
		}
		seen[e.ID] = true
		entities = append(entities, e)
	}

	return entities, rejected
}

// Index returns a lookup from entity ID to slice position.
func Index(entities []Entity) map[string]int {
	idx := make(map[string]int, len(entities))
	for i, e := range entities {
		idx[e.ID] = i
	}
	return idx
}

func sortedUnique(in []int) []int {
	if len(in) == 0 {
		return nil
	}
	out := append([]int(nil), in...)
	sort.Ints(out)

	n := 1
	for i := 1; i < len(out); i++ {
		if out[i] != out[n-1] {
			out[n] = out[i]
			n++
		}
	}
	return out[:n]
}
