// Package analytics derives progress KPIs and chart series from raw progress
// logs and workout plans. It performs no I/O.
package analytics

import (
	"math"
	"sort"
	"time"

	"gymapi/internal/model"
)

const dateLayout = "2006-01-02"

const (
	day          = 24 * time.Hour
	streakWindow = 30
	weeksShown   = 4
	recentShown  = 10
)

// CircumferenceKeys are the measurement sites reported in circumference series.
var CircumferenceKeys = []string{
	"arm_flexed", "arm_relaxed", "forearm",
	"neck", "shoulders", "chest", "chest_inhale", "waist", "waist_high", "abdomen_low", "hips", "glutes",
	"thigh_high", "thigh_mid", "thigh_low", "knee", "calf", "ankle",
	"wrist", "biceps",
}

// legacyThighKey is read when thigh_mid is not recorded.
const legacyThighKey = "thighs"

type WeightPoint struct {
	Date   string  `json:"date"`
	Weight float64 `json:"weight"`
}

type StrengthPoint struct {
	Date     string  `json:"date"`
	Strength float64 `json:"strength"`
}

type CompletionPoint struct {
	Date       string `json:"date"`
	Percentage int    `json:"percentage"`
}

type BodyComposition struct {
	Date             string   `json:"date,omitempty"`
	FatPct           *float64 `json:"fat_pct"`
	FatKg            *float64 `json:"fat_kg"`
	LeanKg           *float64 `json:"lean_kg"`
	MuscleKg         *float64 `json:"muscle_kg"`
	SkeletalMuscleKg *float64 `json:"skeletal_muscle_kg"`
}

type CurrentBodyComposition struct {
	BodyComposition
	LeanMassRatio *float64 `json:"lean_mass_ratio"`
}

type CircumferencePoint struct {
	Date   string              `json:"date"`
	Values map[string]*float64 `json:"values"`
}

type StrengthDetail struct {
	Date       string   `json:"date,omitempty"`
	BenchKg    *float64 `json:"max_bench_kg"`
	SquatKg    *float64 `json:"max_squat_kg"`
	DeadliftKg *float64 `json:"max_deadlift_kg"`
}

type RecentLog struct {
	ID         string   `json:"id"`
	Date       string   `json:"date"`
	WeightKg   *float64 `json:"weight_kg"`
	BenchKg    *float64 `json:"max_bench_kg"`
	SquatKg    *float64 `json:"max_squat_kg"`
	DeadliftKg *float64 `json:"max_deadlift_kg"`
	Notes      *string  `json:"notes"`
}

// KPI is the full analytics payload for one athlete.
type KPI struct {
	CurrentWeight  *float64 `json:"current_weight"`
	WeightChange7d *float64 `json:"weight_change_7d"`
	MaxStrength    *float64 `json:"max_strength"`
	CompletionRate int      `json:"completion_rate"`
	Streak         int      `json:"streak"`

	WeightSeries     []WeightPoint     `json:"weight_series"`
	StrengthSeries   []StrengthPoint   `json:"strength_series"`
	CompletionSeries []CompletionPoint `json:"completion_series"`

	BodyCompositionSeries  []BodyComposition      `json:"body_composition_series"`
	CurrentBodyComposition CurrentBodyComposition `json:"current_body_composition"`

	CircumferenceSeries   []CircumferencePoint `json:"circumference_series"`
	CurrentCircumferences map[string]*float64  `json:"current_circumferences"`

	StrengthDetailSeries []StrengthDetail `json:"strength_detail_series"`
	CurrentStrength      StrengthDetail   `json:"current_strength"`

	RecentLogs []RecentLog `json:"recent_logs"`
}

// Empty returns a KPI with zero values and empty, non-nil series.
func Empty() *KPI {
	return &KPI{
		WeightSeries:          []WeightPoint{},
		StrengthSeries:        []StrengthPoint{},
		CompletionSeries:      []CompletionPoint{},
		BodyCompositionSeries: []BodyComposition{},
		CircumferenceSeries:   []CircumferencePoint{},
		CurrentCircumferences: emptyCircumferences(),
		StrengthDetailSeries:  []StrengthDetail{},
		RecentLogs:            []RecentLog{},
	}
}

// Compute builds the KPI. logs may arrive in any order; plans are the ones
// created in the last 30 days.
func Compute(logs []model.ProgressLog, plans []model.WorkoutPlan, now time.Time) *KPI {
	k := Empty()

	sorted := chronological(logs)

	var latest *model.ProgressLog
	if len(sorted) > 0 {
		latest = &sorted[len(sorted)-1]
	}

	if latest != nil {
		k.CurrentWeight = latest.WeightKg

		cutoff := now.Add(-7 * day)
		for i := range sorted {
			if !sorted[i].Date.After(cutoff) {
				if truthy(latest.WeightKg) && truthy(sorted[i].WeightKg) {
					k.WeightChange7d = ptr(*latest.WeightKg - *sorted[i].WeightKg)
				}
				break
			}
		}

		k.MaxStrength = ptr(maxLift(*latest))
	}

	k.CompletionRate = completionRate(plans)
	k.Streak = streak(plans, now)
	k.CompletionSeries = weeklyCompletion(plans, now)

	for _, l := range sorted {
		date := l.Date.Format(dateLayout)

		if l.WeightKg != nil {
			k.WeightSeries = append(k.WeightSeries, WeightPoint{Date: date, Weight: *l.WeightKg})
		}
		if truthy(l.MaxBenchKg) || truthy(l.MaxSquatKg) || truthy(l.MaxDeadliftKg) {
			k.StrengthSeries = append(k.StrengthSeries, StrengthPoint{Date: date, Strength: maxLift(l)})
		}

		bc := bodyComposition(l)
		if bc.FatPct != nil || bc.FatKg != nil || bc.LeanKg != nil || bc.MuscleKg != nil || bc.SkeletalMuscleKg != nil {
			bc.Date = date
			k.BodyCompositionSeries = append(k.BodyCompositionSeries, bc)
		}

		k.CircumferenceSeries = append(k.CircumferenceSeries, CircumferencePoint{Date: date, Values: circumferences(l)})

		if l.MaxBenchKg != nil || l.MaxSquatKg != nil || l.MaxDeadliftKg != nil {
			k.StrengthDetailSeries = append(k.StrengthDetailSeries, StrengthDetail{
				Date:       date,
				BenchKg:    l.MaxBenchKg,
				SquatKg:    l.MaxSquatKg,
				DeadliftKg: l.MaxDeadliftKg,
			})
		}
	}

	if latest != nil {
		k.CurrentBodyComposition = CurrentBodyComposition{BodyComposition: bodyComposition(*latest)}
		if truthy(latest.WeightKg) && truthy(latest.LeanKg) && *latest.WeightKg > 0 {
			ratio := math.Round(*latest.LeanKg / *latest.WeightKg * 1000) / 1000
			k.CurrentBodyComposition.LeanMassRatio = &ratio
		}
		k.CurrentCircumferences = circumferences(*latest)
		k.CurrentStrength = StrengthDetail{
			BenchKg:    latest.MaxBenchKg,
			SquatKg:    latest.MaxSquatKg,
			DeadliftKg: latest.MaxDeadliftKg,
		}
	}

	start := len(sorted) - recentShown
	if start < 0 {
		start = 0
	}
	for i := len(sorted) - 1; i >= start; i-- {
		l := sorted[i]
		k.RecentLogs = append(k.RecentLogs, RecentLog{
			ID:         l.ID,
			Date:       l.Date.Format(dateLayout),
			WeightKg:   l.WeightKg,
			BenchKg:    l.MaxBenchKg,
			SquatKg:    l.MaxSquatKg,
			DeadliftKg: l.MaxDeadliftKg,
			Notes:      l.Notes,
		})
	}

	return k
}

// chronological orders logs oldest first by date, then created_at.
func chronological(logs []model.ProgressLog) []model.ProgressLog {
	out := make([]model.ProgressLog, len(logs))
	copy(out, logs)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func completionRate(plans []model.WorkoutPlan) int {
	if len(plans) == 0 {
		return 0
	}
	done := 0
	for _, p := range plans {
		if !p.IsActive {
			done++
		}
	}
	return percent(done, len(plans))
}

// streak counts consecutive days, ending today, with at least one completed plan.
func streak(plans []model.WorkoutPlan, now time.Time) int {
	loc := now.Location()
	completed := make(map[string]bool, len(plans))
	for _, p := range plans {
		if !p.IsActive {
			completed[p.CreatedAt.In(loc).Format(dateLayout)] = true
		}
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	n := 0
	for i := 0; i < streakWindow; i++ {
		if !completed[today.AddDate(0, 0, -i).Format(dateLayout)] {
			break
		}
		n++
	}
	return n
}

// weeklyCompletion returns four rolling seven-day windows ending at now, oldest first.
func weeklyCompletion(plans []model.WorkoutPlan, now time.Time) []CompletionPoint {
	out := make([]CompletionPoint, weeksShown)
	for i := 0; i < weeksShown; i++ {
		start := now.Add(-time.Duration(i+1) * 7 * day)
		end := now.Add(-time.Duration(i) * 7 * day)

		total, done := 0, 0
		for _, p := range plans {
			if !p.CreatedAt.Before(start) && p.CreatedAt.Before(end) {
				total++
				if !p.IsActive {
					done++
				}
			}
		}

		pct := 0
		if total > 0 {
			pct = percent(done, total)
		}
		out[weeksShown-1-i] = CompletionPoint{Date: start.UTC().Format(dateLayout), Percentage: pct}
	}
	return out
}

func bodyComposition(l model.ProgressLog) BodyComposition {
	return BodyComposition{
		FatPct:           l.FatPct,
		FatKg:            l.FatKg,
		LeanKg:           l.LeanKg,
		MuscleKg:         l.MuscleKg,
		SkeletalMuscleKg: l.SkeletalMuscleKg,
	}
}

func circumferences(l model.ProgressLog) map[string]*float64 {
	out := emptyCircumferences()
	for _, key := range CircumferenceKeys {
		if v, ok := l.Circumferences[key]; ok {
			out[key] = ptr(v)
		}
	}
	if out["thigh_mid"] == nil {
		if v, ok := l.Circumferences[legacyThighKey]; ok {
			out["thigh_mid"] = ptr(v)
		}
	}
	return out
}

func emptyCircumferences() map[string]*float64 {
	out := make(map[string]*float64, len(CircumferenceKeys))
	for _, key := range CircumferenceKeys {
		out[key] = nil
	}
	return out
}

func maxLift(l model.ProgressLog) float64 {
	return math.Max(value(l.MaxBenchKg), math.Max(value(l.MaxSquatKg), value(l.MaxDeadliftKg)))
}

func percent(part, total int) int {
	return int(math.Round(float64(part) / float64(total) * 100))
}

func truthy(v *float64) bool { return v != nil && *v != 0 }

func value(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func ptr(v float64) *float64 { return &v }
