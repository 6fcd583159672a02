package overlay

import (
	"strings"

	"kazeta/internal/ipc"
)

// AchievementFilter selects a subset of the tracked achievement list.
type AchievementFilter int

const (
	FilterAll AchievementFilter = iota
	FilterEarned
	FilterUnearned
)

// AchievementSort orders the filtered achievement list.
type AchievementSort int

const (
	SortDefault AchievementSort = iota
	SortByPoints
	SortByTitle
)

// AchievementTracker holds the current game's achievement list and the
// derived view (filter/search/sort/selection) over it, grounded on
// state.rs's AchievementTracker plus the earned/points accessors recovered
// from SPEC_FULL.md §12 ("Achievement point totals").
type AchievementTracker struct {
	GameTitle    string
	GameHash     string
	Achievements []ipc.AchievementInfo

	SelectedIndex int
	ScrollOffset  int
	Filter        AchievementFilter
	Search        string
	Sort          AchievementSort

	filtered []int // derived, recomputed by recompute()
}

// NewAchievementTracker returns an empty tracker in the cleared state.
func NewAchievementTracker() *AchievementTracker {
	return &AchievementTracker{}
}

// SetAchievements populates the tracker from a ra_achievement_list message,
// resetting selection/scroll/filter/search, matching set_achievements.
func (a *AchievementTracker) SetAchievements(gameTitle, gameHash string, list []ipc.AchievementInfo) {
	a.GameTitle = gameTitle
	a.GameHash = gameHash
	a.Achievements = list
	a.SelectedIndex = 0
	a.ScrollOffset = 0
	a.Filter = FilterAll
	a.Search = ""
	a.recompute()
}

// Clear empties the tracker, called on game_stopped.
func (a *AchievementTracker) Clear() {
	*a = AchievementTracker{}
}

// MarkEarned flips an achievement to earned by id, matching mark_earned.
func (a *AchievementTracker) MarkEarned(id uint32, hardcore bool) {
	for i := range a.Achievements {
		if a.Achievements[i].ID == id {
			a.Achievements[i].Earned = true
			if hardcore {
				a.Achievements[i].EarnedHardcore = true
			}
			break
		}
	}
	a.recompute()
}

// SetFilter changes the active filter and recomputes FilteredIndices.
func (a *AchievementTracker) SetFilter(f AchievementFilter) {
	a.Filter = f
	a.recompute()
}

// SetSearch changes the active search query and recomputes FilteredIndices.
func (a *AchievementTracker) SetSearch(q string) {
	a.Search = q
	a.recompute()
}

// SetSort changes the active sort mode and recomputes FilteredIndices.
func (a *AchievementTracker) SetSort(s AchievementSort) {
	a.Sort = s
	a.recompute()
}

func matchesFilter(f AchievementFilter, a ipc.AchievementInfo) bool {
	switch f {
	case FilterEarned:
		return a.Earned
	case FilterUnearned:
		return !a.Earned
	default:
		return true
	}
}

func matchesSearch(query string, a ipc.AchievementInfo) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(a.Title), q) ||
		strings.Contains(strings.ToLower(a.Description), q)
}

// recompute rebuilds FilteredIndices as exactly the indices matching both
// the active filter and search, preserving original order unless a sort
// mode is active (Invariant 8). Sort modes reorder the filtered set but
// the predicate itself is unaffected.
func (a *AchievementTracker) recompute() {
	var idx []int
	for i, ach := range a.Achievements {
		if matchesFilter(a.Filter, ach) && matchesSearch(a.Search, ach) {
			idx = append(idx, i)
		}
	}
	switch a.Sort {
	case SortByPoints:
		sortInts(idx, func(i, j int) bool {
			return a.Achievements[i].Points > a.Achievements[j].Points
		})
	case SortByTitle:
		sortInts(idx, func(i, j int) bool {
			return a.Achievements[i].Title < a.Achievements[j].Title
		})
	}
	a.filtered = idx
	if a.SelectedIndex >= len(idx) {
		a.SelectedIndex = len(idx) - 1
	}
	if a.SelectedIndex < 0 {
		a.SelectedIndex = 0
	}
}

// sortInts is a tiny insertion sort over the derived index slice (never
// more than a few hundred achievements; clarity over an import for this
// size).
func sortInts(idx []int, less func(i, j int) bool) {
	for i := 1; i < len(idx); i++ {
		for j := i; j > 0 && less(idx[j], idx[j-1]); j-- {
			idx[j], idx[j-1] = idx[j-1], idx[j]
		}
	}
}

// FilteredIndices returns the derived view: indices into Achievements
// matching the active filter and search, in the order recompute last
// produced (Invariant 8).
func (a *AchievementTracker) FilteredIndices() []int {
	return a.filtered
}

// EarnedCount returns how many achievements have been earned.
func (a *AchievementTracker) EarnedCount() int {
	n := 0
	for _, ach := range a.Achievements {
		if ach.Earned {
			n++
		}
	}
	return n
}

// TotalCount returns the total number of tracked achievements.
func (a *AchievementTracker) TotalCount() int { return len(a.Achievements) }

// EarnedPoints sums the point value of earned achievements.
func (a *AchievementTracker) EarnedPoints() uint32 {
	var sum uint32
	for _, ach := range a.Achievements {
		if ach.Earned {
			sum += ach.Points
		}
	}
	return sum
}

// TotalPoints sums the point value of every tracked achievement.
func (a *AchievementTracker) TotalPoints() uint32 {
	var sum uint32
	for _, ach := range a.Achievements {
		sum += ach.Points
	}
	return sum
}
