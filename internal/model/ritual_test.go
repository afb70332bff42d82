package model

import "testing"

func TestParseRitualMode(t *testing.T) {
	tests := []struct {
		in      string
		want    RitualMode
		wantErr bool
	}{
		{"ascend", ModeAscend, false},
		{"descend", ModeDescend, false},
		{"bless", ModeBless, false},
		{"curse", ModeCurse, false},
		{"", "", true},
		{"Ascend", "", true},
		{"embrace", "", true},
	}

	for _, tt := range tests {
		got, err := ParseRitualMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseRitualMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseRitualMode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
