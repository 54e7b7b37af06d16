// Package stats contains session statistics and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/verte-zerg/typemaster/internal/model"
)

const sparkChars = " .:-=+*#%@"

// SessionMetrics computes correct words per minute and accuracy.
func SessionMetrics(points, typed, elapsedSeconds int) (wpm, accuracy float64) {
	if typed > 0 {
		accuracy = float64(points) / float64(typed)
	}
	if elapsedSeconds <= 0 {
		return 0, accuracy
	}
	wpm = float64(points) / (float64(elapsedSeconds) / 60.0)
	return wpm, accuracy
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// Summary aggregates a user's sessions.
type Summary struct {
	Sessions      int
	Awarded       int
	TotalPoints   int
	BestPoints    int
	AvgWPM        float64
	AvgAccuracy   float64
	PointsPerMode map[model.Mode]int
}

// Summarize aggregates records.
func Summarize(records []model.SessionRecord) Summary {
	sum := Summary{PointsPerMode: map[model.Mode]int{}}
	if len(records) == 0 {
		return sum
	}
	var totalWPM, totalAcc float64
	for _, r := range records {
		sum.Sessions++
		if r.Awarded {
			sum.Awarded++
			sum.TotalPoints += r.Points
			sum.PointsPerMode[r.Mode] += r.Points
		}
		if r.Points > sum.BestPoints {
			sum.BestPoints = r.Points
		}
		wpm, acc := SessionMetrics(r.Points, r.Typed, r.ElapsedSeconds)
		totalWPM += wpm
		totalAcc += acc
	}
	count := float64(len(records))
	sum.AvgWPM = totalWPM / count
	sum.AvgAccuracy = totalAcc / count
	return sum
}

// RenderSummary prints a summary block for sessions.
func RenderSummary(w io.Writer, records []model.SessionRecord) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	sum := Summarize(records)
	lines := []string{
		"Summary",
		fmt.Sprintf("Sessions: %d (%d awarded)", sum.Sessions, sum.Awarded),
		fmt.Sprintf("Points awarded: %d", sum.TotalPoints),
		fmt.Sprintf("Best session: %d", sum.BestPoints),
		fmt.Sprintf("Avg WPM: %.2f", sum.AvgWPM),
		fmt.Sprintf("Avg Accuracy: %.2f%%", sum.AvgAccuracy*100),
	}
	for _, mode := range model.Modes {
		if pts, ok := sum.PointsPerMode[mode]; ok {
			lines = append(lines, fmt.Sprintf("%s: %d points", mode.Title(), pts))
		}
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderTrend prints a points sparkline, smoothed over window sessions and
// trimmed to the last width sessions when width is positive.
func RenderTrend(w io.Writer, records []model.SessionRecord, window, width int) error {
	if len(records) == 0 {
		return nil
	}
	values := make([]float64, len(records))
	for i, r := range records {
		values[i] = float64(r.Points)
	}
	values = MovingAverage(values, window)
	if width > 0 && len(values) > width {
		values = values[len(values)-width:]
	}
	if _, err := fmt.Fprintln(w, "Points trend"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "[%s]\n\n", Sparkline(values)); err != nil {
		return err
	}
	return nil
}

// RenderHistory prints one row per session.
func RenderHistory(w io.Writer, records []model.SessionRecord) error {
	if len(records) == 0 {
		return nil
	}
	headers := []string{"Ended", "Mode", "Points", "Typed", "Accuracy", "Time", "Reason", "Awarded"}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		_, acc := SessionMetrics(r.Points, r.Typed, r.ElapsedSeconds)
		awarded := "no"
		if r.Awarded {
			awarded = "yes"
		}
		rows = append(rows, []string{
			r.EndedAt.Local().Format("2006-01-02 15:04"),
			string(r.Mode),
			fmt.Sprintf("%d", r.Points),
			fmt.Sprintf("%d", r.Typed),
			fmt.Sprintf("%.1f%%", acc*100),
			fmt.Sprintf("%d/%ds", r.ElapsedSeconds, r.DurationSeconds),
			string(r.Reason),
			awarded,
		})
	}
	if _, err := fmt.Fprintln(w, "Sessions"); err != nil {
		return err
	}
	rightAlign := map[int]bool{2: true, 3: true, 4: true, 5: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderLeaderboard prints accounts ranked by total points. A positive top
// limits the number of rows.
func RenderLeaderboard(w io.Writer, accounts []model.Account, top int) error {
	if len(accounts) == 0 {
		_, err := fmt.Fprintln(w, "No accounts found.")
		return err
	}
	ranked := make([]model.Account, len(accounts))
	copy(ranked, accounts)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].TotalPoints == ranked[j].TotalPoints {
			return ranked[i].Username < ranked[j].Username
		}
		return ranked[i].TotalPoints > ranked[j].TotalPoints
	})
	if top > 0 && len(ranked) > top {
		ranked = ranked[:top]
	}
	headers := []string{"#", "User", "Points"}
	rows := make([][]string, 0, len(ranked))
	for i, acc := range ranked {
		rows = append(rows, []string{fmt.Sprintf("%d", i+1), acc.Username, fmt.Sprintf("%d", acc.TotalPoints)})
	}
	for _, line := range formatTable(headers, rows, map[int]bool{0: true, 2: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
