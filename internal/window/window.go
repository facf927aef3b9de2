// Package window provides the pure windowed-analytic primitives shared by the
// aggregation and mart builders: lags, trailing averages, competition ranks,
// and null-safe arithmetic over nullable series.
//
// A series is a slice of *float64 ordered by the caller (typically by
// reference date within one country). A nil element is a missing observation.
package window

import "sort"

// Lag returns the series shifted forward by periods: out[i] = in[i-periods].
// Positions before the window starts are nil, never an error.
func Lag(series []*float64, periods int) []*float64 {
	out := make([]*float64, len(series))
	if periods <= 0 {
		copy(out, series)
		return out
	}
	for i := periods; i < len(series); i++ {
		out[i] = series[i-periods]
	}
	return out
}

// TrailingMean returns the trailing average over the last size observations,
// inclusive of the current one. Where fewer periods exist the average covers
// what is available, so the first row's trailing average equals that single
// observation. Nil observations are ignored; a window with no observations
// yields nil.
func TrailingMean(series []*float64, size int) []*float64 {
	out := make([]*float64, len(series))
	if size <= 0 {
		return out
	}
	for i := range series {
		start := i - size + 1
		if start < 0 {
			start = 0
		}
		sum, n := 0.0, 0
		for j := start; j <= i; j++ {
			if series[j] != nil {
				sum += *series[j]
				n++
			}
		}
		if n > 0 {
			mean := sum / float64(n)
			out[i] = &mean
		}
	}
	return out
}

// SafeDiv divides num by den, yielding nil when either side is nil or the
// denominator is zero — never an error or infinity.
func SafeDiv(num, den *float64) *float64 {
	if num == nil || den == nil || *den == 0 {
		return nil
	}
	q := *num / *den
	return &q
}

// PctChange returns the percentage change from prev to cur, nil when either
// side is missing or the prior value is zero.
func PctChange(cur, prev *float64) *float64 {
	if cur == nil || prev == nil || *prev == 0 {
		return nil
	}
	pct := (*cur - *prev) / *prev * 100
	return &pct
}

// Share returns part as a percentage of whole, nil-safe.
func Share(part, whole *float64) *float64 {
	ratio := SafeDiv(part, whole)
	if ratio == nil {
		return nil
	}
	pct := *ratio * 100
	return &pct
}

// CompetitionRank assigns standard competition ranks to the series: ties
// receive the same rank and the next distinct value receives
// rank = tie count + 1. Ranks are determined numerically, not by row order.
// desc ranks the largest value first. Nil observations are unranked (nil).
func CompetitionRank(series []*float64, desc bool) []*int {
	type obs struct {
		idx int
		val float64
	}
	present := make([]obs, 0, len(series))
	for i, v := range series {
		if v != nil {
			present = append(present, obs{idx: i, val: *v})
		}
	}
	sort.SliceStable(present, func(i, j int) bool {
		if desc {
			return present[i].val > present[j].val
		}
		return present[i].val < present[j].val
	})

	out := make([]*int, len(series))
	for pos, o := range present {
		rank := pos + 1
		if pos > 0 && o.val == present[pos-1].val {
			rank = *out[present[pos-1].idx]
			out[o.idx] = &rank
			continue
		}
		out[o.idx] = &rank
	}
	return out
}
