package pilot

// Pair names two pilots that the link force should pull together.
type Pair [2]string

// DefaultPairs is the curated list of famous successions and rivalries.
var DefaultPairs = []Pair{
	{"Nino Farina", "Juan Fangio"},
	{"Ayrton Senna", "Michael Schumacher"},
}

// Link is a resolved pair of entity indices.
type Link struct {
	Source, Target int
}

// ResolveLinks maps curated pairs onto entity indices. Pairs that name an
// entity absent from the current slice, or the same entity twice, are
// returned in missing instead of failing the pass.
func ResolveLinks(entities []Entity, pairs []Pair) (links []Link, missing []Pair) {
	idx := Index(entities)

	for _, p := range pairs {
		s, okS := idx[p[0]]
		t, okT := idx[p[1]]
		if !okS || !okT || s == t {
			missing = append(missing, p)
			continue
		}
		links = append(links, Link{Source: s, Target: t})
	}

	return links, missing
}
