package core

import "testing"

func TestCleanString(t *testing.T) {
	tests := []struct {
		name  string
		s     string
		lower bool
		want  string
	}{
		{name: "spaces trimmed", s: "  Hamza \t", want: "Hamza"},
		{name: "lowered", s: " Hamza@Test.Com ", lower: true, want: "hamza@test.com"},
		{name: "empty", s: "   ", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanString(tt.s, tt.lower); got != tt.want {
				t.Errorf("CleanString() = %v; want %v", got, tt.want)
			}
		})
	}
}
