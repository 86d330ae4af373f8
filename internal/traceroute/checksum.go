// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

// Checksum calculates the Internet checksum (RFC 1071) of data.
//
// The data is summed as big-endian 16-bit words. An odd trailing byte is
// treated as the high byte of a word padded with zero. The carry is folded
// back into the low 16 bits after every addition.
func Checksum(data []byte) uint16 {
	var sum uint32
	for i := 0; i < len(data); i += 2 {
		word := uint32(data[i]) << 8
		if i+1 < len(data) {
			word |= uint32(data[i+1])
		}
		sum += word
		sum = (sum & 0xffff) + (sum >> 16)
	}
	return ^uint16(sum)
}

// validChecksum reports whether b, including its embedded checksum field,
// sums to all ones.
func validChecksum(b []byte) bool {
	return Checksum(b) == 0
}
