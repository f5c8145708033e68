package orders

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	pkgerrors "github.com/angelmondragon/cafepos-backend/pkg/errors"
)

func TestResolveWindow(t *testing.T) {
	manila := time.FixedZone("PHT", 8*3600)
	// 2026-03-31 20:30 UTC is already April 1st in the cafe.
	now := time.Date(2026, 3, 31, 20, 30, 0, 0, time.UTC)

	cases := []struct {
		name     string
		input    ListInput
		wantFrom time.Time
		wantTo   time.Time
		wantNil  bool
	}{
		{name: "default all", input: ListInput{}, wantNil: true},
		{name: "all", input: ListInput{Filter: "all"}, wantNil: true},
		{
			name:     "today uses cafe day",
			input:    ListInput{Filter: "today"},
			wantFrom: time.Date(2026, 4, 1, 0, 0, 0, 0, manila),
			wantTo:   time.Date(2026, 4, 2, 0, 0, 0, 0, manila),
		},
		{
			name:     "month",
			input:    ListInput{Filter: "month"},
			wantFrom: time.Date(2026, 4, 1, 0, 0, 0, 0, manila),
			wantTo:   time.Date(2026, 5, 1, 0, 0, 0, 0, manila),
		},
		{
			name:     "range end inclusive",
			input:    ListInput{Filter: "range", Start: "2026-02-01", End: "2026-02-28"},
			wantFrom: time.Date(2026, 2, 1, 0, 0, 0, 0, manila),
			wantTo:   time.Date(2026, 3, 1, 0, 0, 0, 0, manila),
		},
		{
			name:     "custom day",
			input:    ListInput{Filter: "custom", Date: "2026-03-15"},
			wantFrom: time.Date(2026, 3, 15, 0, 0, 0, 0, manila),
			wantTo:   time.Date(2026, 3, 16, 0, 0, 0, 0, manila),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			window, err := ResolveWindow(tc.input, now, manila)
			require.NoError(t, err)
			if tc.wantNil {
				require.Nil(t, window)
				return
			}
			require.NotNil(t, window)
			require.True(t, tc.wantFrom.Equal(window.From), "from %s", window.From)
			require.True(t, tc.wantTo.Equal(window.To), "to %s", window.To)
		})
	}
}

func TestResolveWindowRejectsBadInput(t *testing.T) {
	now := time.Now()
	bad := []ListInput{
		{Filter: "week"},
		{Filter: "range", Start: "2026-02-01"},
		{Filter: "range", Start: "2026-02-10", End: "2026-02-01"},
		{Filter: "range", Start: "02/01/2026", End: "2026-02-03"},
		{Filter: "custom"},
		{Filter: "custom", Date: "yesterday"},
	}
	for _, input := range bad {
		_, err := ResolveWindow(input, now, time.UTC)
		require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "input %+v got %v", input, err)
	}
}
