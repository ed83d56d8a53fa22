// Package racedata turns raw race results into pilot records.
package racedata

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/ha1tch/f1-bubbles/pkg/pilot"
)

// Season is a championship year. It decodes from a JSON number or a
// numeric string.
type Season int

func (s *Season) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	n, err := strconv.Atoi(string(data))
	if err != nil {
		return fmt.Errorf("invalid season %s", data)
	}
	*s = Season(n)
	return nil
}

// Names holds the English and Russian spellings of a name.
type Names struct {
	EN string `json:"en"`
	RU string `json:"ru"`
}

// Row is one classified result of one pilot in one grand prix.
type Row struct {
	Year        Season `json:"year"`
	GrandPrix   Names  `json:"grand_prix"`
	Pilot       Names  `json:"pilot"`
	Country     string `json:"pilot_country"`
	URL         string `json:"pilot_url"`
	Constructor string `json:"constructor"`
	Place       string `json:"place"`
}

// Aggregate groups rows by English pilot name. Each row counts as one
// race; a season is a championship season when champions names the pilot
// for it. Pilots are returned in order of first appearance.
func Aggregate(rows []Row, champions map[int]string) []pilot.Pilot {
	index := make(map[string]int)
	var out []pilot.Pilot
	years := make([]map[int]bool, 0)
	titles := make([]map[int]bool, 0)

	for _, r := range rows {
		name := r.Pilot.EN
		if name == "" {
			continue
		}
		i, ok := index[name]
		if !ok {
			i = len(out)
			index[name] = i
			out = append(out, pilot.Pilot{
				Name:    name,
				NameRU:  r.Pilot.RU,
				Country: r.Country,
				URL:     r.URL,
			})
			years = append(years, make(map[int]bool))
			titles = append(titles, make(map[int]bool))
		}

		year := int(r.Year)
		out[i].RacesCount++
		years[i][year] = true
		if champions[year] == name {
			titles[i][year] = true
		}
	}

	for i := range out {
		out[i].Years = keys(years[i])
		out[i].Champion = keys(titles[i])
	}
	return out
}

func keys(set map[int]bool) []int {
	out := make([]int, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}

// ParseRows decodes a JSON array of race results.
func ParseRows(data []byte) ([]Row, error) {
	var rows []Row
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("invalid race results: %w", err)
	}
	return rows, nil
}

// LoadRows reads race results from a JSON file.
func LoadRows(path string) ([]Row, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseRows(data)
}

// ParseChampions decodes a JSON object mapping seasons to champion names.
func ParseChampions(data []byte) (map[int]string, error) {
	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid champions: %w", err)
	}
	out := make(map[int]string, len(raw))
	for k, v := range raw {
		year, err := strconv.Atoi(k)
		if err != nil {
			return nil, fmt.Errorf("invalid champions: season %q", k)
		}
		out[year] = v
	}
	return out, nil
}

// LoadChampions reads the champions table from a JSON file.
func LoadChampions(path string) (map[int]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseChampions(data)
}
