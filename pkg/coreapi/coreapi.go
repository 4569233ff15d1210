// Package coreapi provides the public API for the candidate analysis
// pipeline. This package wraps the internal textnorm, feature, and scoring
// packages for use by external modules.
package coreapi

import (
	"time"

	"github.com/rolematch/candidate-analyzer/internal/feature"
	"github.com/rolematch/candidate-analyzer/internal/schema"
	"github.com/rolematch/candidate-analyzer/internal/scoring"
	"github.com/rolematch/candidate-analyzer/internal/textnorm"
)

// Re-export types from schema for external use.

// AnalyzeInput is the single argument to Analyze.
type AnalyzeInput = schema.AnalyzeInput

// RoleSpec describes a role to score candidates against.
type RoleSpec = schema.RoleSpec

// RoleSkill is a single required or preferred skill with a relative weight.
type RoleSkill = schema.RoleSkill

// Scoring holds a role's scoring weights and hard filters.
type Scoring = schema.Scoring

// HardFilters holds a role's hard-filter thresholds.
type HardFilters = schema.HardFilters

// ProjectSpec owns the skill aliases shared across roles in a project.
type ProjectSpec = schema.ProjectSpec

// YearMonth is the injected clock value.
type YearMonth = schema.YearMonth

// CandidateAnalysis is the immutable output of analyzing one candidate.
type CandidateAnalysis = schema.CandidateAnalysis

// Features is the full feature bundle produced per candidate.
type Features = schema.Features

// ScoreResult is the scorer's output.
type ScoreResult = schema.ScoreResult

// Analyze is the stateless core entry point: given raw resume text, a
// project, a role, and the current clock, it returns a complete
// CandidateAnalysis. Analyze never mutates its arguments, never panics,
// and performs no I/O — identical inputs always produce an identical
// result.
func Analyze(input AnalyzeInput) CandidateAnalysis {
	normalized := textnorm.Normalize(input.RawText)
	features := feature.Extract(normalized, input.Project, input.Role, input.Now)
	score := scoring.Score(features, input.Role)

	return CandidateAnalysis{
		CandidateID: input.CandidateID,
		AnalyzedAt:  time.Date(input.Now.Year, time.Month(input.Now.Month), 1, 0, 0, 0, 0, time.UTC),
		Features:    features,
		Score:       score,
	}
}
