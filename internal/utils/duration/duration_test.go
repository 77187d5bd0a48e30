package duration

import (
	"errors"
	"testing"
	"time"
)

const day = 24 * time.Hour

func TestParse(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Duration
		wantErr error
	}{
		// retention as typed on the command line
		{input: "7", want: 7 * day},
		{input: " 7d ", want: 7 * day},
		{input: "36h", want: 36 * time.Hour},
		{input: "2w", want: 14 * day},
		{input: "2WEEKS", want: 14 * day},
		{input: "1month", want: 30 * day},
		{input: "1y", want: 365 * day},
		{input: "0d", want: 0},
		{input: "3 days", want: 3 * day},

		{input: "", wantErr: ErrInvalidFormat},
		{input: "1d!", wantErr: ErrInvalidFormat},
		{input: "-1d", wantErr: ErrInvalidFormat},
		{input: "3 fortnights", wantErr: ErrInvalidFormat},
		{input: "d", wantErr: ErrInvalidNumber},
		{input: "99999999999999999999d", wantErr: ErrInvalidNumber},
		{input: "3x", wantErr: ErrInvalidUnit},
		{input: "1d2", wantErr: ErrInvalidFormat},
		{input: "2w1", wantErr: ErrInvalidFormat},
		{input: "200000", wantErr: ErrInvalidNumber},
		{input: "300y", wantErr: ErrInvalidNumber},
		{input: "2562047h", want: 2562047 * time.Hour},
		{input: "2562048h", wantErr: ErrInvalidNumber},
		{input: "whenever", wantErr: ErrInvalidNumber},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Parse(%q) error = %v, want %v", tt.input, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestSplitNumberAndUnit(t *testing.T) {
	tests := map[string][2]string{
		"1d":   {"1", "d"},
		"12":   {"12", ""},
		"1day": {"1", "day"},
		" 3w ": {"3", "w"},
	}
	for input, want := range tests {
		num, unit, err := splitNumberAndUnit(input)
		if err != nil {
			t.Errorf("splitNumberAndUnit(%q) unexpected error: %v", input, err)
			continue
		}
		if num != want[0] || unit != want[1] {
			t.Errorf("splitNumberAndUnit(%q) = (%q, %q), want (%q, %q)", input, num, unit, want[0], want[1])
		}
	}

	for _, input := range []string{"1.5d", "1d2", "d1"} {
		if _, _, err := splitNumberAndUnit(input); !errors.Is(err, ErrInvalidFormat) {
			t.Errorf("splitNumberAndUnit(%q) error = %v, want %v", input, err, ErrInvalidFormat)
		}
	}
}
