package batchapi

import (
	"runtime"
	"sort"
	"sync"

	"github.com/rolematch/candidate-analyzer/internal/schema"
	"github.com/rolematch/candidate-analyzer/pkg/coreapi"
)

// candidateInput is one raw-text candidate submitted for analysis.
type candidateInput struct {
	CandidateID string `json:"candidateId"`
	RawText     string `json:"rawText"`
}

// analyzeAll runs coreapi.Analyze over candidates in parallel, bounded by a
// worker pool sized from runtime.NumCPU(), and returns results sorted by
// overall score descending, ties broken by candidateId ascending.
func analyzeAll(candidates []candidateInput, project *schema.ProjectSpec, role *schema.RoleSpec, now schema.YearMonth) []coreapi.CandidateAnalysis {
	workers := runtime.NumCPU()
	if workers > len(candidates) {
		workers = len(candidates)
	}
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan int)
	results := make([]coreapi.CandidateAnalysis, len(candidates))

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = coreapi.Analyze(coreapi.AnalyzeInput{
					CandidateID: candidates[i].CandidateID,
					RawText:     candidates[i].RawText,
					Project:     project,
					Role:        role,
					Now:         now,
				})
			}
		}()
	}
	for i := range candidates {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score.OverallScore != results[j].Score.OverallScore {
			return results[i].Score.OverallScore > results[j].Score.OverallScore
		}
		return results[i].CandidateID < results[j].CandidateID
	})
	return results
}
