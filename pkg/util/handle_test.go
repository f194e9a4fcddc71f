package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToHandle(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{name: "Simple title", title: "Tent", want: "tent"},
		{name: "Multiple words", title: "Camping Tent 4P", want: "camping-tent-4p"},
		{name: "Punctuation collapsed", title: "Tent -- Deluxe!  Edition", want: "tent-deluxe-edition"},
		{name: "Leading and trailing noise", title: "  ***Tent***  ", want: "tent"},
		{name: "Uppercase", title: "SUMMER GEAR", want: "summer-gear"},
		{name: "Empty", title: "", want: ""},
		{name: "Only symbols", title: "!!!", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToHandle(tt.title))
		})
	}
}
