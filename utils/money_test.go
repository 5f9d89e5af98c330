package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatAmount(t *testing.T) {
	cases := map[float64]string{
		0:       "0",
		80:      "80",
		1500:    "1.500",
		1250000: "1.250.000",
		-2000:   "-2.000",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatAmount(in), "amount %v", in)
	}
}

func TestFormatTL(t *testing.T) {
	assert.Equal(t, "1.500 TL", FormatTL(1500))
	assert.Equal(t, "280 TL", FormatTL(279.999))
}
