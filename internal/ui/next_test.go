package ui

import "testing"

func TestClockMinutes(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"08:00", 480, false},
		{"20:30", 1230, false},
		{"23:59", 1439, false},
		{"8:00", 480, false},
		{"24:00", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := clockMinutes(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("clockMinutes(%q): expected error, got %d", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("clockMinutes(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("clockMinutes(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
