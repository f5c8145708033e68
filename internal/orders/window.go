package orders

import (
	"time"

	"github.com/angelmondragon/cafepos-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/cafepos-backend/pkg/errors"
)

// DateLayout is the wire and business-date format.
const DateLayout = "2006-01-02"

// Window is a half-open [From, To) creation-time range.
type Window struct {
	From time.Time
	To   time.Time
}

// ListInput carries the raw listing query.
type ListInput struct {
	Filter string
	Start  string
	End    string
	Date   string
}

// ResolveWindow turns a listing filter into a time window in loc. A nil
// window means no time restriction.
func ResolveWindow(input ListInput, now time.Time, loc *time.Location) (*Window, error) {
	filter, err := enums.ParseOrderFilter(input.Filter)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "filter must be one of all, today, month, range, custom")
	}
	local := now.In(loc)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)

	switch filter {
	case enums.OrderFilterToday:
		return &Window{From: today, To: today.AddDate(0, 0, 1)}, nil
	case enums.OrderFilterMonth:
		first := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc)
		return &Window{From: first, To: first.AddDate(0, 1, 0)}, nil
	case enums.OrderFilterRange:
		if input.Start == "" || input.End == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "start and end are required for range filter")
		}
		start, err := parseDay(input.Start, "start", loc)
		if err != nil {
			return nil, err
		}
		end, err := parseDay(input.End, "end", loc)
		if err != nil {
			return nil, err
		}
		if end.Before(start) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "end must not be before start")
		}
		return &Window{From: start, To: end.AddDate(0, 0, 1)}, nil
	case enums.OrderFilterCustom:
		if input.Date == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "date is required for custom filter")
		}
		day, err := parseDay(input.Date, "date", loc)
		if err != nil {
			return nil, err
		}
		return &Window{From: day, To: day.AddDate(0, 0, 1)}, nil
	}
	return nil, nil
}

func parseDay(value, field string, loc *time.Location) (time.Time, error) {
	day, err := time.ParseInLocation(DateLayout, value, loc)
	if err != nil {
		return time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, field+" must be a YYYY-MM-DD date")
	}
	return day, nil
}
