package models

import "testing"

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "2025-09-10T09:00:00Z", want: "10/09/2025 09:00"},
		{input: "2025-09-10T09:00:00.1234567", want: "10/09/2025 09:00"},
		{input: "2025-09-10T21:45:00", want: "10/09/2025 21:45"},
		{input: "2025-09-10", want: "10/09/2025 00:00"},
		{input: "10/09/2025", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			ts, err := ParseTimestamp(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ts.Display() != tt.want {
				t.Errorf("Display() = %q, want %q", ts.Display(), tt.want)
			}
		})
	}
}

func TestTimestamp_ZeroDisplaysEmpty(t *testing.T) {
	var ts Timestamp
	if err := ts.UnmarshalJSON([]byte("null")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ts.Display() != "" || ts.DisplayDate() != "" {
		t.Error("zero timestamp should render empty")
	}
}
