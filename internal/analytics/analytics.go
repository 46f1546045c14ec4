// Package analytics computes descriptive statistics over a completed
// scrape. Summarize is a pure function: no I/O, no mutation of its input.
package analytics

import (
	"sort"
	"strconv"

	"github.com/scraperworks/reddit-scraper/internal/models"
)

const (
	topAuthorsLimit = 5
	topFlairsLimit  = 10
)

// Summarize aggregates the record set into an AnalyticsSummary. An empty
// input yields a zeroed summary, never an error. Score statistics skip
// scores that do not parse as numbers, while total_posts and the
// percentage fields always use the full record count.
func Summarize(posts []models.Post) *models.AnalyticsSummary {
	summary := &models.AnalyticsSummary{}
	if len(posts) == 0 {
		return summary
	}

	summary.TotalPosts = len(posts)

	var (
		scores   []float64
		selfCnt  int
		mediaCnt int
	)
	authors := newFrequency()
	flairs := newFrequency()

	for _, post := range posts {
		if value, err := strconv.ParseFloat(post.Score, 64); err == nil {
			scores = append(scores, value)
		}
		authors.Add(post.Author)
		if post.Flair != "" {
			flairs.Add(post.Flair)
		}
		if post.IsStickied {
			summary.StickiedPosts++
		}
		if post.IsSelfPost {
			selfCnt++
		}
		if post.HasMedia {
			mediaCnt++
		}
	}

	summary.UniqueAuthors = authors.Size()
	summary.SelfPostsPercentage = float64(selfCnt) / float64(len(posts)) * 100
	summary.PostsWithMediaPercentage = float64(mediaCnt) / float64(len(posts)) * 100

	if len(scores) > 0 {
		summary.AverageScore = mean(scores)
		summary.MedianScore = median(scores)
		summary.MinScore, summary.MaxScore = minMax(scores)
	}

	for _, entry := range authors.Top(topAuthorsLimit) {
		summary.TopAuthors = append(summary.TopAuthors, models.AuthorCount{Author: entry.key, Posts: entry.count})
	}
	for _, entry := range flairs.Top(topFlairsLimit) {
		summary.FlairDistribution = append(summary.FlairDistribution, models.FlairCount{Flair: entry.key, Posts: entry.count})
	}

	return summary
}

func mean(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total / float64(len(values))
}

func median(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

func minMax(values []float64) (min, max float64) {
	min, max = values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}

// frequency counts keys while remembering first-encountered order, so
// ranking ties break stably on insertion order.
type frequency struct {
	counts map[string]*freqEntry
	order  []*freqEntry
}

type freqEntry struct {
	key   string
	count int
}

func newFrequency() *frequency {
	return &frequency{counts: make(map[string]*freqEntry)}
}

func (f *frequency) Add(key string) {
	if entry, ok := f.counts[key]; ok {
		entry.count++
		return
	}
	entry := &freqEntry{key: key, count: 1}
	f.counts[key] = entry
	f.order = append(f.order, entry)
}

func (f *frequency) Size() int {
	return len(f.order)
}

// Top returns up to n entries by descending count; the sort is stable
// over insertion order.
func (f *frequency) Top(n int) []*freqEntry {
	ranked := append([]*freqEntry(nil), f.order...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].count > ranked[j].count
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
