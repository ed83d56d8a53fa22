package label

import (
	"encoding/json"
	"fmt"
	"os"
)

// ParseRequests decodes a JSON array of {"name", "text"} objects.
func ParseRequests(data []byte) ([]Request, error) {
	var reqs []Request
	if err := json.Unmarshal(data, &reqs); err != nil {
		return nil, fmt.Errorf("invalid label JSON: %w", err)
	}
	for i, r := range reqs {
		if r.Name == "" {
			return nil, fmt.Errorf("label %d: missing name", i)
		}
	}
	return reqs, nil
}

// LoadRequests reads label requests from a JSON file.
func LoadRequests(path string) ([]Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseRequests(data)
}
