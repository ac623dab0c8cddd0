package entities

import (
	"encoding/json"
	"fmt"
)

// Stage is a point in the sales funnel. The numeric order is the
// enumeration order used for tie breaking and monotonic progression.
type Stage int

const (
	StageGreeting Stage = iota
	StageProductQA
	StageRequirements
	StagePricing
	StageConfirmation
	StageHandoff
	StageCompleted
)

var stageNames = [...]string{
	StageGreeting:     "greeting",
	StageProductQA:    "product_qa",
	StageRequirements: "requirements",
	StagePricing:      "pricing",
	StageConfirmation: "confirmation",
	StageHandoff:      "handoff",
	StageCompleted:    "completed",
}

// Stages lists every stage in enumeration order.
func Stages() []Stage {
	return []Stage{StageGreeting, StageProductQA, StageRequirements, StagePricing, StageConfirmation, StageHandoff, StageCompleted}
}

func (s Stage) String() string {
	if s < StageGreeting || s > StageCompleted {
		return fmt.Sprintf("stage(%d)", int(s))
	}
	return stageNames[s]
}

// ParseStage maps a stage name back to its value.
func ParseStage(name string) (Stage, error) {
	for i, n := range stageNames {
		if n == name {
			return Stage(i), nil
		}
	}
	return StageGreeting, fmt.Errorf("unknown stage %q", name)
}

// Later returns whichever of s and other is further along the funnel.
func (s Stage) Later(other Stage) Stage {
	if other > s {
		return other
	}
	return s
}

func (s Stage) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Stage) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := ParseStage(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
