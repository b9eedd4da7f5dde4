package retrieval

import (
	"math"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/Sanmukapriya/NotebookLM-Clone/internal/api"
)

const DefaultTopK = 10

// scoreConcurrency bounds the fan-out when scoring a document's chunks.
const scoreConcurrency = 8

// Thresholds hold the empirically tuned ranking cutoffs. They are plain
// configuration values with no derivation; change them only against a
// relevance benchmark.
type Thresholds struct {
	// Floor is the minimum dynamic threshold applied to every query.
	Floor float64
	// TopRatio scales the top observed score into the dynamic threshold.
	TopRatio float64
	// MinMean is the aggregate confidence gate: result sets whose mean
	// similarity falls below it are discarded entirely.
	MinMean float64
	// Citation is the similarity above which a chunk's page is always
	// cited.
	Citation float64
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		Floor:    1.2,
		TopRatio: 0.6,
		MinMean:  1.0,
		Citation: 1.5,
	}
}

// Ranker orchestrates lexical scoring across all chunks of a document and
// applies the two-stage relevance gate: a per-chunk dynamic threshold
// followed by an aggregate confidence check. Reporting nothing is
// preferred over feeding weak, tangential context downstream.
type Ranker struct {
	thresholds Thresholds
}

type RankerOption func(*Ranker)

func NewRanker(opts ...RankerOption) *Ranker {
	r := &Ranker{
		thresholds: DefaultThresholds(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func WithThresholds(t Thresholds) RankerOption {
	return func(r *Ranker) {
		r.thresholds = t
	}
}

func (r *Ranker) Thresholds() Thresholds {
	return r.thresholds
}

// Rank scores every chunk of doc against query and returns the surviving
// chunks ordered by descending similarity, capped at topK. A nil document,
// a document with no chunks, or a query clearing neither gate all yield an
// empty result; none of these are errors.
func (r *Ranker) Rank(query string, doc *api.Document, topK int) []api.ScoredChunk {
	if doc == nil || len(doc.Chunks) == 0 {
		return nil
	}
	if topK <= 0 {
		topK = DefaultTopK
	}

	scored := make([]api.ScoredChunk, len(doc.Chunks))

	// scoring is pure per-chunk computation, safe to fan out; the sort
	// below restores a deterministic order
	var g errgroup.Group
	g.SetLimit(scoreConcurrency)
	for i, chunk := range doc.Chunks {
		g.Go(func() error {
			scored[i] = api.ScoredChunk{
				Chunk:      chunk,
				Similarity: Score(query, chunk.Content),
			}
			return nil
		})
	}
	g.Wait()

	// stable keeps the original chunk order (page, then chunk index) as
	// the tie-break
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Similarity > scored[j].Similarity
	})

	topScore := scored[0].Similarity
	threshold := math.Max(r.thresholds.Floor, topScore*r.thresholds.TopRatio)

	relevant := make([]api.ScoredChunk, 0, topK)
	for _, sc := range scored {
		if sc.Similarity >= threshold {
			relevant = append(relevant, sc)
			if len(relevant) == topK {
				break
			}
		}
	}

	if len(relevant) == 0 {
		return nil
	}

	var sum float64
	for _, sc := range relevant {
		sum += sc.Similarity
	}
	if sum/float64(len(relevant)) < r.thresholds.MinMean {
		return nil
	}

	return relevant
}

// Citations derives the page-number provenance of a ranked result set:
// pages of chunks scoring above the citation threshold, or of the top five
// ranked chunks when none do, de-duplicated and sorted ascending.
func (r *Ranker) Citations(ranked []api.ScoredChunk) []int {
	if len(ranked) == 0 {
		return nil
	}

	significant := make([]api.ScoredChunk, 0, len(ranked))
	for _, sc := range ranked {
		if sc.Similarity > r.thresholds.Citation {
			significant = append(significant, sc)
		}
	}
	if len(significant) == 0 {
		significant = ranked[:min(5, len(ranked))]
	}

	seen := make(map[int]bool, len(significant))
	pages := make([]int, 0, len(significant))
	for _, sc := range significant {
		if !seen[sc.PageNumber] {
			seen[sc.PageNumber] = true
			pages = append(pages, sc.PageNumber)
		}
	}

	sort.Ints(pages)
	return pages
}
