package registry

import (
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/the-subs-must-go/internal/common"
	"github.com/Veraticus/the-subs-must-go/internal/model"
)

// validateID ensures a service id is not blank.
func validateID(id string) error {
	if strings.TrimSpace(id) == "" {
		return common.ErrEmptyID
	}
	return nil
}

// validateHistoryEntry accepts only responses that can be aggregated.
// A raw score is a service's usage_score, never a history entry.
func validateHistoryEntry(resp model.Response) error {
	if err := resp.Validate(); err != nil {
		return err
	}
	if resp.Kind == model.KindRawScore {
		return fmt.Errorf("%w: raw scores belong in usage_score, not history", common.ErrInvalidResponse)
	}
	return nil
}

// calendarDay drops the clock and zone, keeping t's own calendar date as
// midnight UTC.
func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
