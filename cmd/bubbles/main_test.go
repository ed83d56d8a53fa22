package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ha1tch/f1-bubbles/pkg/viewport"
)

func TestParseOptions(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
		check   func(t *testing.T, o options)
	}{
		{
			name: "defaults",
			args: []string{"pilots.json"},
			check: func(t *testing.T, o options) {
				if o.input != "pilots.json" || o.size.Width != 1400 || o.size.Height != 700 {
					t.Errorf("got %+v", o)
				}
			},
		},
		{
			name: "all flags",
			args: []string{"-labels", "l.json", "pilots.json", "-config", "c.yaml", "-w", "500", "-h", "900",
				"-o", "out.png", "--metrics", "m.prom", "-v"},
			check: func(t *testing.T, o options) {
				if o.labels != "l.json" || o.config != "c.yaml" || o.output != "out.png" || o.metrics != "m.prom" {
					t.Errorf("got %+v", o)
				}
				if o.size.Width != 500 || o.size.Height != 900 || !o.verbose {
					t.Errorf("got %+v", o)
				}
			},
		},
		{
			name: "races instead of pilots",
			args: []string{"--races", "r.json", "--champions", "c.json"},
			check: func(t *testing.T, o options) {
				if o.input != "" || o.races != "r.json" || o.champions != "c.json" {
					t.Errorf("got %+v", o)
				}
			},
		},
		{name: "no input", args: []string{"-w", "800"}, wantErr: errUsage.Error()},
		{name: "missing value", args: []string{"pilots.json", "-o"}, wantErr: "-o needs a value"},
		{name: "bad number", args: []string{"pilots.json", "-w", "wide"}, wantErr: "-w:"},
		{name: "unknown flag", args: []string{"pilots.json", "--fast"}, wantErr: "unknown option --fast"},
		{name: "two inputs", args: []string{"a.json", "b.json"}, wantErr: "unexpected argument b.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := parseOptions(tt.args)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("err = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			tt.check(t, o)
		})
	}
}

func TestLoadPilotsFromRaces(t *testing.T) {
	dir := t.TempDir()
	races := filepath.Join(dir, "races.json")
	champions := filepath.Join(dir, "champions.json")
	writeFile(t, races, `[
  {"year": 1950, "grand_prix": {"en": "British"}, "pilot": {"en": "Nino Farina"}, "place": "1"},
  {"year": 1950, "grand_prix": {"en": "Monaco"}, "pilot": {"en": "Juan Fangio"}, "place": "1"},
  {"year": 1951, "grand_prix": {"en": "Swiss"}, "pilot": {"en": "Juan Fangio"}, "place": "1"}
]`)
	writeFile(t, champions, `{"1950": "Nino Farina", "1951": "Juan Fangio"}`)

	o := options{races: races, champions: champions}
	pilots, err := o.loadPilots()
	if err != nil {
		t.Fatal(err)
	}
	if len(pilots) != 2 || pilots[1].Name != "Juan Fangio" || pilots[1].RacesCount != 2 {
		t.Fatalf("pilots = %+v", pilots)
	}
	if len(pilots[0].Champion) != 1 || pilots[0].Champion[0] != 1950 {
		t.Errorf("Farina titles = %v", pilots[0].Champion)
	}
}

func TestLayoutWritesMetrics(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "pilots.json")
	metrics := filepath.Join(dir, "metrics.prom")
	writeFile(t, input, `[
  {"name": "Nino Farina", "racesCount": 33, "years": [1950, 1951, 1952, 1953], "isChampion": [1950]},
  {"name": "Juan Fangio", "racesCount": 51, "years": [1950, 1951], "isChampion": [1951]}
]`)

	o := options{input: input, metrics: metrics, size: viewport.Size{Width: 1400, Height: 700}}
	res, err := o.layout()
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := res.Find("Juan Fangio"); !ok {
		t.Error("Fangio missing from the layout")
	}

	data, err := os.ReadFile(metrics)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `bubbles_layout_passes_total{outcome="ok"} 1`) {
		t.Errorf("metrics file lacks the pass counter:\n%s", data)
	}
}

func TestLoadPilotsMissingFile(t *testing.T) {
	o := options{input: filepath.Join(t.TempDir(), "nope.json")}
	if _, err := o.loadPilots(); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v, want not-exist", err)
	}
}

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
}
