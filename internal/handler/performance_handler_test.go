package handler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLoggedAt(t *testing.T) {
	tests := []struct {
		name     string
		loggedAt string
		date     string
		clock    string
		want     time.Time
		wantErr  bool
	}{
		{name: "rfc3339", loggedAt: "2026-03-01T18:30:00Z", want: time.Date(2026, 3, 1, 18, 30, 0, 0, time.UTC)},
		{name: "date only", date: "2026-03-01", want: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
		{name: "date and time", date: "2026-03-01", clock: "07:15", want: time.Date(2026, 3, 1, 7, 15, 0, 0, time.UTC)},
		{name: "logged_at wins", loggedAt: "2026-03-02T00:00:00Z", date: "2026-03-01", want: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)},
		{name: "nothing sent", want: time.Time{}},
		{name: "bad date", date: "03/01/2026", wantErr: true},
		{name: "bad time", date: "2026-03-01", clock: "7pm", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseLoggedAt(tt.loggedAt, tt.date, tt.clock)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}
}
