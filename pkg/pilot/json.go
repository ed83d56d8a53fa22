package pilot

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// jsonPilot is the JSON representation of a pilot. Seasons arrive either
// as numbers or as strings ("1950") depending on the export.
type jsonPilot struct {
	Name       string        `json:"name"`
	NameRU     string        `json:"name_ru,omitempty"`
	Country    string        `json:"country,omitempty"`
	URL        string        `json:"url,omitempty"`
	RacesCount int           `json:"racesCount"`
	Years      []interface{} `json:"years"`
	Champion   []interface{} `json:"isChampion"`
}

// ParseJSON parses a list of pilots.
func ParseJSON(data []byte) ([]Pilot, error) {
	var js []jsonPilot
	if err := json.Unmarshal(data, &js); err != nil {
		return nil, err
	}

	pilots := make([]Pilot, 0, len(js))
	for i, j := range js {
		years, err := parseYears(j.Years)
		if err != nil {
			return nil, fmt.Errorf("pilot %d (%s): years: %w", i, j.Name, err)
		}
		champ, err := parseYears(j.Champion)
		if err != nil {
			return nil, fmt.Errorf("pilot %d (%s): isChampion: %w", i, j.Name, err)
		}
		pilots = append(pilots, Pilot{
			Name:       j.Name,
			NameRU:     j.NameRU,
			Country:    j.Country,
			URL:        j.URL,
			RacesCount: j.RacesCount,
			Years:      years,
			Champion:   champ,
		})
	}

	return pilots, nil
}

// LoadFile reads pilots from a JSON file.
func LoadFile(path string) ([]Pilot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseJSON(data)
}

// ToJSON converts pilots to JSON.
func ToJSON(pilots []Pilot, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(pilots, "", "  ")
	}
	return json.Marshal(pilots)
}

func parseYears(raw []interface{}) ([]int, error) {
	var out []int
	for _, v := range raw {
		switch y := v.(type) {
		case float64:
			out = append(out, int(y))
		case string:
			n, err := strconv.Atoi(y)
			if err != nil {
				return nil, fmt.Errorf("invalid year %q", y)
			}
			out = append(out, n)
		default:
			return nil, fmt.Errorf("invalid year %v", v)
		}
	}
	return out, nil
}
