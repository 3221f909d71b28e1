package utils

import "testing"

func TestFuzzyMatchAttribute(t *testing.T) {
	tests := []struct {
		term  string
		value string
		want  bool
	}{
		{term: "red", value: "Red", want: true},
		{term: "blue", value: "Metallic Blue", want: true},
		{term: "grey", value: "Gray", want: true},
		{term: "golden", value: "Gold", want: true},
		{term: "automatic", value: "CVT", want: true},
		{term: "petrol", value: "Gasoline", want: true},
		{term: "manual", value: "Automatic", want: false},
		{term: "red", value: "White", want: false},
		{term: "", value: "anything", want: true},
	}

	for _, tt := range tests {
		if got := FuzzyMatchAttribute(tt.term, tt.value); got != tt.want {
			t.Errorf("FuzzyMatchAttribute(%q, %q) = %v, want %v", tt.term, tt.value, got, tt.want)
		}
	}
}
