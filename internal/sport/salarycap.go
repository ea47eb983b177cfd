package sport

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// SalaryCap is the allowed range for a roster's total salary. Configs may
// give either a plain number (an upper bound with no floor) or {min, max}.
type SalaryCap struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

type salaryRange struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

// Contains reports whether total lies inside the cap range.
func (c SalaryCap) Contains(total int) bool {
	return total >= c.Min && total <= c.Max
}

// HasFloor reports whether a minimum spend is configured.
func (c SalaryCap) HasFloor() bool {
	return c.Min > 0
}

// UnmarshalJSON accepts a number or a {min,max} object.
func (c *SalaryCap) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var r salaryRange
		if err := json.Unmarshal(data, &r); err != nil {
			return fmt.Errorf("salaryCap: %w", err)
		}
		*c = SalaryCap(r)
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("salaryCap: %w", err)
	}
	*c = SalaryCap{Max: int(n)}
	return nil
}

// MarshalJSON writes a plain number when there is no floor.
func (c SalaryCap) MarshalJSON() ([]byte, error) {
	if c.Min == 0 {
		return json.Marshal(c.Max)
	}
	return json.Marshal(salaryRange(c))
}

// UnmarshalYAML accepts a scalar or a mapping node.
func (c *SalaryCap) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var n float64
		if err := node.Decode(&n); err != nil {
			return fmt.Errorf("salaryCap: %w", err)
		}
		*c = SalaryCap{Max: int(n)}
		return nil
	case yaml.MappingNode:
		var r salaryRange
		if err := node.Decode(&r); err != nil {
			return fmt.Errorf("salaryCap: %w", err)
		}
		*c = SalaryCap(r)
		return nil
	default:
		return fmt.Errorf("salaryCap: expected number or mapping at line %d", node.Line)
	}
}
