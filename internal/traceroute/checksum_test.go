// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChecksum(t *testing.T) {
	all := make([]byte, 256)
	for i := range all {
		all[i] = byte(i)
	}

	tests := []struct {
		name string
		data []byte
		want uint16
	}{
		{"empty", nil, 0xffff},
		{"single 0xff", []byte{0xff}, 255},
		{"single 0xf0", []byte{0xf0}, 4095},
		{"single 0x0f", []byte{0x0f}, 61695},
		{"one zero", []byte{0x00}, 0xffff},
		{"two zeros", []byte{0x00, 0x00}, 0xffff},
		{"three zeros", []byte{0x00, 0x00, 0x00}, 0xffff},
		{"a", []byte("a"), 40703},
		{"a padded", []byte("a\x00\x00\x00"), 40703},
		{"low byte a", []byte("\x00a"), 65438},
		{"low byte a after word", []byte("\x00\x00\x00a"), 65438},
		{"high byte a after word", []byte("\x00\x00a"), 40703},
		{"ab", []byte("ab"), 40605},
		{"abc", []byte("abc"), 15261},
		{"abcd", []byte("abcd"), 15161},
		{"abcde", []byte("abcde"), 54840},
		{"abcdef", []byte("abcdef"), 54738},
		{"abcdefg", []byte("abcdefg"), 28370},
		{"qwe", []byte("qwe"), 10632},
		{"qwerty", []byte("qwerty"), 46236},
		{"foobar", []byte("foobar"), 51387},
		{"all byte values", all, 16320},
		{"echo request id 1 seq 1", []byte{0x08, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x01}, 0xf7fd},
		{"all ones", []byte{0xff, 0xff, 0xff, 0xff}, 0x0000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Checksum(tt.data), "Checksum(%v)", tt.data)
		})
	}
}

func TestChecksum_zeroBuffers(t *testing.T) {
	for n := range 1500 {
		assert.Equal(t, uint16(0xffff), Checksum(make([]byte, n)), "Checksum of %d zero bytes", n)
	}
}

func TestChecksum_oddTrailingZero(t *testing.T) {
	inputs := [][]byte{
		[]byte("a"),
		[]byte("abc"),
		[]byte("hello"),
		{0xff, 0xff, 0xff},
		{0x12, 0x34, 0x56, 0x78, 0x9a},
	}

	for _, in := range inputs {
		padded := append(append([]byte{}, in...), 0x00)
		assert.Equal(t, Checksum(in), Checksum(padded), "padding %v with a zero byte changed the checksum", in)
	}
}

func TestChecksum_largeInput(t *testing.T) {
	// Large enough to overflow an unfolded 32-bit accumulator many times over.
	data := make([]byte, 1<<20)
	for i := range data {
		data[i] = 0xff
	}
	assert.Equal(t, uint16(0x0000), Checksum(data))
}

func TestValidChecksum(t *testing.T) {
	tests := []struct {
		name  string
		data  []byte
		valid bool
	}{
		{"correct echo request", []byte{0x08, 0x00, 0xf7, 0xfd, 0x00, 0x01, 0x00, 0x01}, true},
		{"zero checksum field", []byte{0x08, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x01}, false},
		{"all ones sum", []byte{0x00, 0x00, 0xff, 0xff}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, validChecksum(tt.data))
		})
	}
}
