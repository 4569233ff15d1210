// Package feature orchestrates rolesegment, dateinterval, and skillmatch
// into the full feature bundle the scorer consumes: skill matches, years
// of experience, relevance, skill depth, seniority, recency and career
// trajectory, red flags, project scale, education, and parse quality.
package feature

import (
	"strings"

	"github.com/rolematch/candidate-analyzer/internal/rolesegment"
	"github.com/rolematch/candidate-analyzer/internal/schema"
	"github.com/rolematch/candidate-analyzer/internal/skillmatch"
)

// Extract builds the full Features bundle for one candidate.
func Extract(normalizedText string, project *schema.ProjectSpec, role *schema.RoleSpec, now schema.YearMonth) schema.Features {
	roles := rolesegment.Segment(normalizedText, now)
	yearsExperience := rolesegment.YearsOfExperience(roles, normalizedText, now)

	aliases := map[string][]string{}
	if project != nil {
		aliases = project.SkillAliases
	}

	mustHave := matchSkills(normalizedText, role.MustHaveSkills, aliases)
	niceToHave := matchSkills(normalizedText, role.NiceToHaveSkills, aliases)
	keywordHits := matchKeywords(normalizedText, role.Keywords)

	relevantExperience := computeRelevantExperience(roles, role.ExperienceRelevanceKeywords, now)

	allSkillTerms := make([]string, 0, len(role.MustHaveSkills)+len(role.NiceToHaveSkills))
	for _, s := range role.MustHaveSkills {
		allSkillTerms = append(allSkillTerms, s.Skill)
	}
	for _, s := range role.NiceToHaveSkills {
		allSkillTerms = append(allSkillTerms, s.Skill)
	}
	skillDepth := computeSkillDepth(normalizedText, allSkillTerms, roles, now)

	seniority := computeSeniority(normalizedText, role.SeniorityIndicators, yearsExperience)
	recencyAnalysis := computeRecencyAnalysis(allSkillTerms, roles, now)
	redFlags := computeRedFlags(roles, yearsExperience, seniority, role, now)
	projectScale := computeProjectScale(normalizedText)
	education := computeEducation(normalizedText, role)
	skillsMatched := countMatched(mustHave) + countMatched(niceToHave)
	parseQuality := computeParseQuality(normalizedText, roles, len(roles), skillsMatched, len(mustHave)+len(niceToHave))

	warnings := buildWarnings(normalizedText, yearsExperience, redFlags, recencyAnalysis, parseQuality)

	f := schema.Features{
		MustHave:           mustHave,
		NiceToHave:         niceToHave,
		KeywordHits:        keywordHits,
		YearsExperience:    yearsExperience,
		RelevantExperience: relevantExperience,
		SkillDepth:         skillDepth,
		Seniority:          seniority,
		RecencyAnalysis:    recencyAnalysis,
		RedFlags:           redFlags,
		ProjectScale:       projectScale,
		Education:          education,
		ParseQuality:       parseQuality,
		Warnings:           warnings,
	}
	f.Roles = roles
	return f
}

func matchSkills(text string, skills []schema.RoleSkill, aliases map[string][]string) []schema.SkillMatch {
	out := make([]schema.SkillMatch, 0, len(skills))
	for _, s := range skills {
		m := skillmatch.Match(text, s.Skill, aliases[s.Skill])
		m.Weight = s.Weight
		out = append(out, m)
	}
	return out
}

func matchKeywords(text string, keywords []string) []schema.KeywordHit {
	out := make([]schema.KeywordHit, 0, len(keywords))
	for _, k := range keywords {
		out = append(out, skillmatch.MatchKeyword(text, k))
	}
	return out
}

func countMatched(matches []schema.SkillMatch) int {
	n := 0
	for _, m := range matches {
		if m.Matched {
			n++
		}
	}
	return n
}

func foldLower(s string) string {
	repl := strings.NewReplacer(
		"é", "e", "è", "e", "ê", "e", "ë", "e",
		"à", "a", "â", "a", "ô", "o", "î", "i",
		"ï", "i", "ù", "u", "û", "u", "ç", "c",
	)
	return strings.ToLower(repl.Replace(s))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
