package services

import (
	"reflect"
	"testing"
	"time"
)

func TestDueDays(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want []int
	}{
		{
			name: "mid month - only today",
			now:  time.Date(2025, 6, 15, 0, 5, 0, 0, time.UTC),
			want: []int{15},
		},
		{
			name: "30-day month end - picks up day 31",
			now:  time.Date(2025, 4, 30, 0, 5, 0, 0, time.UTC),
			want: []int{30, 31},
		},
		{
			name: "31-day month end - nothing extra",
			now:  time.Date(2025, 1, 31, 0, 5, 0, 0, time.UTC),
			want: []int{31},
		},
		{
			name: "February non-leap - picks up 29 to 31",
			now:  time.Date(2025, 2, 28, 0, 5, 0, 0, time.UTC),
			want: []int{28, 29, 30, 31},
		},
		{
			name: "February leap year - picks up 30 and 31",
			now:  time.Date(2024, 2, 29, 0, 5, 0, 0, time.UTC),
			want: []int{29, 30, 31},
		},
		{
			name: "February 28 in leap year - only today",
			now:  time.Date(2024, 2, 28, 0, 5, 0, 0, time.UTC),
			want: []int{28},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DueDays(tt.now)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DueDays(%s) = %v, want %v", tt.now.Format("2006-01-02"), got, tt.want)
			}
		})
	}
}

func TestIsDue(t *testing.T) {
	tests := []struct {
		name string
		day  int
		now  time.Time
		want bool
	}{
		{"same day", 20, time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC), true},
		{"other day", 21, time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC), false},
		{"day 31 on April 30", 31, time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC), true},
		{"day 31 on April 29", 31, time.Date(2025, 4, 29, 0, 0, 0, 0, time.UTC), false},
		{"day 1 on month end", 1, time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsDue(tt.day, tt.now); got != tt.want {
				t.Errorf("IsDue(%d, %s) = %v, want %v", tt.day, tt.now.Format("2006-01-02"), got, tt.want)
			}
		})
	}
}
