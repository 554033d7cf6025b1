package util

import (
	"reflect"
	"testing"
)

func TestUniqueIdentifiers(t *testing.T) {
	tests := []struct {
		name        string
		identifiers []string
		skip        []string
		want        []string
	}{
		{"repeats", []string{"A", "B", "A", "B"}, nil, []string{"A", "B"}},
		{"blanks and padding", []string{" S1", "", "S1 ", "  "}, nil, []string{"S1"}},
		{"skipped", []string{"bus101", "tram32"}, []string{"bus101"}, []string{"tram32"}},
		{"empty", nil, nil, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := UniqueIdentifiers(tt.identifiers, tt.skip...)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %#v, want %#v", got, tt.want)
			}
		})
	}
}
