package crc16

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestX25KnownVectors(t *testing.T) {
	cases := []struct {
		name string
		data []byte
		want uint16
	}{
		{"empty", []byte{}, 0x0000},
		{"five bytes", []byte{0x12, 0x34, 0x56, 0x78, 0x09}, 0xA55E},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, X25(c.data))
		})
	}
}
