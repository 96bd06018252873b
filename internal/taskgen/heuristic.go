package taskgen

import (
	"context"
	"math"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	defaultMaxTasks = 6
	titleWords      = 6
	maxEstimateDays = 7
)

var (
	whitespace     = regexp.MustCompile(`\s+`)
	sentenceBreak  = regexp.MustCompile(`[.\n\r]+`)
	stepSeparators = regexp.MustCompile(`;|, then |\bor\b|\band then\b|\band\b`)
)

// Heuristic splits the description into sentences and clauses. It makes no
// external calls.
type Heuristic struct{}

func (Heuristic) Generate(ctx context.Context, description string, opts Options) ([]Task, error) {
	return Split(description, opts), nil
}

// Split builds at most opts.NumTasks tasks (default up to 6) from the
// distinct clauses of text.
func Split(text string, opts Options) []Task {
	text = strings.TrimSpace(text)
	if text == "" {
		return []Task{}
	}

	var candidates []string
	for _, sentence := range sentenceBreak.Split(whitespace.ReplaceAllString(text, " "), -1) {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}
		for _, part := range stepSeparators.Split(sentence, -1) {
			if part = strings.TrimSpace(part); part != "" {
				candidates = append(candidates, part)
			}
		}
	}

	seen := make(map[string]struct{}, len(candidates))
	dedup := make([]string, 0, len(candidates))
	for _, c := range candidates {
		key := strings.ToLower(c)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		dedup = append(dedup, c)
	}

	target := opts.NumTasks
	if target == 0 {
		target = min(defaultMaxTasks, max(1, len(dedup)))
	}
	selection := head(dedup, target)

	tasks := make([]Task, 0, len(selection))
	for idx, s := range selection {
		task := Task{
			Title:       title(s),
			Description: s,
			Timeline:    Timeline{EstimatedDays: estimateDays(s, idx)},
		}
		if opts.Budget != 0 {
			price := jsRound(opts.Budget / float64(max(1, target)) * (1 - float64(idx)*0.05))
			task.Price = &price
		}
		tasks = append(tasks, task)
	}
	return tasks
}

func title(s string) string {
	words := strings.Fields(s)
	if len(words) > titleWords {
		words = words[:titleWords]
	}
	joined := strings.Join(words, " ")
	r, size := utf8.DecodeRuneInString(joined)
	if r == utf8.RuneError {
		return joined
	}
	return string(unicode.ToUpper(r)) + joined[size:]
}

// head keeps the first n items. A negative n drops -n items from the end
// instead.
func head(items []string, n int) []string {
	if n < 0 {
		n = max(0, len(items)+n)
	}
	return items[:min(n, len(items))]
}

// utf16Len is the length of s in UTF-16 code units, the unit browser string
// lengths are measured in.
func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		if r >= 0x10000 {
			n += 2
		} else {
			n++
		}
	}
	return n
}

func estimateDays(s string, idx int) int {
	days := int(math.Ceil(float64(utf16Len(s))/80 + float64(idx%3)))
	return min(maxEstimateDays, max(1, days))
}

// jsRound rounds half up, matching the browser's Math.round.
func jsRound(v float64) float64 {
	return math.Floor(v + 0.5)
}
