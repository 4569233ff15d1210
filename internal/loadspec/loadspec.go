// Package loadspec loads RoleSpec and ProjectSpec values from JSON files.
// It is the upstream collaborator responsible for the invariants the core
// assumes hold: negative weights, years, and penalties are clamped to 0
// rather than rejected, since the core never validates its own inputs.
package loadspec

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rolematch/candidate-analyzer/internal/schema"
)

// LoadRoleSpec reads and decodes a RoleSpec from path, clamping any
// negative numeric fields to 0.
func LoadRoleSpec(path string) (*schema.RoleSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &schema.ParseError{Code: "ROLE_SPEC_READ_ERROR", Message: fmt.Sprintf("reading %s: %v", path, err)}
	}

	var role schema.RoleSpec
	if err := json.Unmarshal(data, &role); err != nil {
		return nil, &schema.ParseError{Code: "ROLE_SPEC_DECODE_ERROR", Message: fmt.Sprintf("decoding %s: %v", path, err)}
	}

	clampRoleSpec(&role)
	return &role, nil
}

// LoadProjectSpec reads and decodes a ProjectSpec from path.
func LoadProjectSpec(path string) (*schema.ProjectSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &schema.ParseError{Code: "PROJECT_SPEC_READ_ERROR", Message: fmt.Sprintf("reading %s: %v", path, err)}
	}

	var project schema.ProjectSpec
	if err := json.Unmarshal(data, &project); err != nil {
		return nil, &schema.ParseError{Code: "PROJECT_SPEC_DECODE_ERROR", Message: fmt.Sprintf("decoding %s: %v", path, err)}
	}
	return &project, nil
}

func clampRoleSpec(role *schema.RoleSpec) {
	role.MinYearsExperience = clampNonNegative(role.MinYearsExperience)

	for i := range role.MustHaveSkills {
		role.MustHaveSkills[i].Weight = clampNonNegative(role.MustHaveSkills[i].Weight)
	}
	for i := range role.NiceToHaveSkills {
		role.NiceToHaveSkills[i].Weight = clampNonNegative(role.NiceToHaveSkills[i].Weight)
	}

	w := &role.Scoring.Weights
	w.MustHave = clampNonNegative(w.MustHave)
	w.NiceToHave = clampNonNegative(w.NiceToHave)
	w.Experience = clampNonNegative(w.Experience)
	w.SkillDepth = clampNonNegative(w.SkillDepth)
	w.Seniority = clampNonNegative(w.Seniority)
	w.Recency = clampNonNegative(w.Recency)
	w.ProjectScale = clampNonNegative(w.ProjectScale)
	w.Education = clampNonNegative(w.Education)
	w.Budget = clampNonNegative(w.Budget)
	w.Contract = clampNonNegative(w.Contract)

	hf := &role.Scoring.HardFilters
	hf.MinMustHaveMatchRatio = clampNonNegative(hf.MinMustHaveMatchRatio)
	hf.MinRelevantExperienceYears = clampNonNegative(hf.MinRelevantExperienceYears)
	hf.MaxRedFlagPenalty = clampNonNegative(hf.MaxRedFlagPenalty)
}

func clampNonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
