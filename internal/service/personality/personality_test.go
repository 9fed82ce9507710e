package personality

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{in: "formal", want: Formal, wantOK: true},
		{in: "FORMAL", want: Formal, wantOK: true},
		{in: "Engraçada", want: Engracada, wantOK: true},
		{in: "ENGRAÇADA", want: Engracada, wantOK: true},
		{in: " empática ", want: Empatica, wantOK: true},
		{in: "3", want: Desafiadora, wantOK: true},
		{in: "5"},
		{in: ""},
		{in: "sarcastica"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := Canonicalize(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDisplay(t *testing.T) {
	assert.Equal(t, "Empática", DisplayName(Empatica))
	assert.Equal(t, "Pirata", DisplayName("pirata"))
	assert.Equal(t, "A Mentora Gentil", Description(Empatica))
	assert.Empty(t, Description("pirata"))
	assert.Equal(t, Formal, OrDefault("???"))
	assert.Equal(t, Engracada, OrDefault("2"))
	assert.Len(t, All(), 4)
}
