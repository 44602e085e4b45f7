package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"planner/internal/repository"
)

const defaultSearchLimit = 50

type SearchResult struct {
	Type        string   `json:"type"`
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Status      string   `json:"status,omitempty"`
	Score       float64  `json:"score"`
	Highlights  []string `json:"highlights,omitempty"`
}

type SearchService struct {
	tasks      *repository.TaskRepository
	goals      *repository.GoalRepository
	categories *repository.CategoryRepository
}

func NewSearchService(
	tasks *repository.TaskRepository,
	goals *repository.GoalRepository,
	categories *repository.CategoryRepository,
) *SearchService {
	return &SearchService{tasks: tasks, goals: goals, categories: categories}
}

// Global searches tasks, goals and categories for the query, scores every
// hit and returns the best matches first. types limits which entity kinds
// are searched; empty means all.
func (s *SearchService) Global(ctx context.Context, userID uuid.UUID, query string, types []string, limit int) ([]SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []SearchResult{}, nil
	}
	if limit <= 0 || limit > defaultSearchLimit {
		limit = defaultSearchLimit
	}

	wanted := make(map[string]bool, len(types))
	for _, t := range types {
		wanted[t] = true
	}
	all := len(wanted) == 0

	var results []SearchResult

	if all || wanted["tasks"] {
		tasks, err := s.tasks.ListAll(ctx, userID, nil)
		if err != nil {
			return nil, err
		}
		for i := range tasks {
			t := &tasks[i]
			if score, highlights := MatchScore(query, t.Title, t.Description); score > 0 {
				results = append(results, SearchResult{
					Type:        "task",
					ID:          strconv.FormatUint(uint64(t.ID), 10),
					Title:       t.Title,
					Description: t.Description,
					Status:      string(t.Status),
					Score:       score,
					Highlights:  highlights,
				})
			}
		}
	}

	if all || wanted["goals"] {
		goals, err := s.goals.List(ctx, userID, "")
		if err != nil {
			return nil, err
		}
		for i := range goals {
			g := &goals[i]
			if score, highlights := MatchScore(query, g.Title, g.Description); score > 0 {
				results = append(results, SearchResult{
					Type:        "goal",
					ID:          strconv.FormatUint(uint64(g.ID), 10),
					Title:       g.Title,
					Description: g.Description,
					Status:      string(g.Status),
					Score:       score,
					Highlights:  highlights,
				})
			}
		}
	}

	if all || wanted["categories"] {
		categories, err := s.categories.List(ctx, userID)
		if err != nil {
			return nil, err
		}
		for i := range categories {
			c := &categories[i]
			if score, highlights := MatchScore(query, c.Name, c.Description); score > 0 {
				results = append(results, SearchResult{
					Type:        "category",
					ID:          strconv.FormatUint(uint64(c.ID), 10),
					Title:       c.Name,
					Description: c.Description,
					Score:       score,
					Highlights:  highlights,
				})
			}
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Title < results[j].Title
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// MatchScore grades how well a title/description pair matches the query.
// Exact title matches score 1.0, a title prefix 0.8, a title substring
// 0.6; a description hit adds 0.3 and a subsequence match up to 0.2.
// The result is capped at 1.0.
func MatchScore(query, title, description string) (float64, []string) {
	q := strings.ToLower(query)
	t := strings.ToLower(title)
	d := strings.ToLower(description)

	var (
		score      float64
		highlights []string
	)

	switch {
	case q == t:
		score += 1.0
		highlights = append(highlights, fmt.Sprintf("Exact title match: %q", title))
	case strings.HasPrefix(t, q):
		score += 0.8
		highlights = append(highlights, fmt.Sprintf("Title starts with: %q", query))
	case strings.Contains(t, q):
		score += 0.6
		highlights = append(highlights, fmt.Sprintf("Title contains: %q", query))
	}

	if d != "" && strings.Contains(d, q) {
		score += 0.3
		highlights = append(highlights, fmt.Sprintf("Description contains: %q", query))
	}

	score += fuzzyMatch(q, t+" "+d) * 0.2

	if score > 1.0 {
		score = 1.0
	}
	return score, highlights
}

// fuzzyMatch returns the fraction of query characters found as an
// in-order subsequence of text.
func fuzzyMatch(query, text string) float64 {
	if query == "" || text == "" {
		return 0
	}
	matches := 0
	pos := 0
	qr := []rune(query)
	for _, r := range text {
		if pos < len(qr) && r == qr[pos] {
			matches++
			pos++
		}
	}
	return float64(matches) / float64(len(qr))
}
