package schedule

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Score is the YAML form of a list of instances:
//
//	instances:
//	  - phoneme: ɑ
//	    pitch: 60
//	    length: 1.5
//	    steady_grains: 20
//	    next_transition:
//	      length_grains: 10
//	  - phoneme: i
//	    pitch: 62
//
// An omitted length means 1. Instances are numbered in order.
type Score struct {
	Instances []PhonemeInstance `yaml:"instances"`
}

// ParseScore decodes a YAML score.
func ParseScore(data []byte) ([]PhonemeInstance, error) {
	var s Score
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse score: %w", err)
	}
	for i := range s.Instances {
		s.Instances[i].ID = InstanceID(i)
		if s.Instances[i].Length == 0 {
			s.Instances[i].Length = 1
		}
	}
	return s.Instances, nil
}

// LoadScore reads and decodes a YAML score file.
func LoadScore(path string) ([]PhonemeInstance, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("score file not found: %w", err)
		}
		return nil, fmt.Errorf("failed to read score file: %w", err)
	}
	return ParseScore(data)
}
