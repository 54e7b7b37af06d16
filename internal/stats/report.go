// Package stats contains session statistics and reporting.
package stats

import (
	"context"
	"io"

	"github.com/verte-zerg/typemaster/internal/model"
)

// HistorySource lists recorded sessions.
type HistorySource interface {
	ListSessions(ctx context.Context, filter model.HistoryFilter) ([]model.SessionRecord, error)
}

// Report contains loaded data for stats rendering.
type Report struct {
	Records []model.SessionRecord
}

// BuildReport loads the sessions selected by filter.
func BuildReport(ctx context.Context, src HistorySource, filter model.HistoryFilter) (Report, error) {
	records, err := src.ListSessions(ctx, filter)
	if err != nil {
		return Report{}, err
	}
	return Report{Records: records}, nil
}

// Render writes the summary, trend and history table.
func (r Report) Render(w io.Writer, window, width int) error {
	if err := RenderSummary(w, r.Records); err != nil {
		return err
	}
	if err := RenderTrend(w, r.Records, window, width); err != nil {
		return err
	}
	return RenderHistory(w, r.Records)
}
