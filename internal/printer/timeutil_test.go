package printer_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sh4/zabuton/internal/printer"
)

func TestTimeAgo(t *testing.T) {
	now := time.Now().UTC()

	tests := map[string]struct {
		when   time.Time
		expAgo string
	}{
		"A commit made right now should be zero seconds old": {
			when:   now.Add(-200 * time.Millisecond),
			expAgo: "0 seconds ago (UTC)",
		},
		"A single unit should be singular": {
			when:   now.Add(-61 * time.Second),
			expAgo: "1 minute ago (UTC)",
		},
		"Seconds should be plural": {
			when:   now.Add(-42 * time.Second),
			expAgo: "42 seconds ago (UTC)",
		},
		"Hours should round down": {
			when:   now.Add(-(3*time.Hour + 59*time.Minute)),
			expAgo: "3 hours ago (UTC)",
		},
		"Old commits should be counted in days": {
			when:   now.Add(-400 * 24 * time.Hour),
			expAgo: "400 days ago (UTC)",
		},
		"A commit in another zone should be compared in UTC": {
			when:   now.Add(-2 * time.Hour).In(time.FixedZone("JST", 9*3600)),
			expAgo: "2 hours ago (UTC)",
		},
		"A committer clock ahead of ours should be in the future": {
			when:   now.Add(10 * time.Minute),
			expAgo: "in the future (UTC)",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.expAgo, printer.TimeAgo(tc.when))
		})
	}
}
