package bit

import (
	"testing"
)

func TestCombine(t *testing.T) {
	tests := []struct {
		high, low uint8
		expected  uint16
	}{
		{0xAB, 0xCD, 0xABCD},
		{0x00, 0x00, 0x0000},
		{0xFF, 0xFF, 0xFFFF},
		{0x02, 0xDF, 0x02DF},
	}

	for _, tt := range tests {
		result := Combine(tt.high, tt.low)
		if result != tt.expected {
			t.Errorf("Combine(%X, %X) = %X; want %X", tt.high, tt.low, result, tt.expected)
		}
	}
}

func TestIsSet(t *testing.T) {
	tests := []struct {
		byte     uint8
		index    uint8
		expected bool
	}{
		{0b10101010, 0, false},
		{0b10101010, 1, true},
		{0b10101010, 2, false},
		{0b10101010, 7, true},
		{0b10101010, 8, false},
		{0b10101010, 255, false},
	}

	for _, tt := range tests {
		result := IsSet(tt.index, tt.byte)
		if result != tt.expected {
			t.Errorf("IsSet(%d, %08b) = %v; want %v", tt.index, tt.byte, result, tt.expected)
		}
	}
}

func TestIsSet16(t *testing.T) {
	tests := []struct {
		value    uint16
		index    uint16
		expected bool
	}{
		{0x8000, 15, true},
		{0x8000, 0, false},
		{0x0001, 0, true},
		{0x0100, 8, true},
		{0x0100, 16, false},
	}

	for _, tt := range tests {
		result := IsSet16(tt.index, tt.value)
		if result != tt.expected {
			t.Errorf("IsSet16(%d, %04X) = %v; want %v", tt.index, tt.value, result, tt.expected)
		}
	}
}

func TestExtractBits(t *testing.T) {
	tests := []struct {
		value           uint8
		highBit, lowBit uint8
		expected        uint8
	}{
		{0b11010110, 6, 4, 0b101},
		{0b10110101, 6, 5, 0b01},
		{0b11110101, 6, 5, 0b11},
		{0b10011111, 3, 0, 0b1111},
		{0b10010000, 4, 4, 1},
	}

	for _, tt := range tests {
		result := ExtractBits(tt.value, tt.highBit, tt.lowBit)
		if result != tt.expected {
			t.Errorf("ExtractBits(%08b, %d, %d) = %b; want %b", tt.value, tt.highBit, tt.lowBit, result, tt.expected)
		}
	}
}

func TestParity16(t *testing.T) {
	tests := []struct {
		value    uint16
		expected uint16
	}{
		{0x0000, 0},
		{0x0001, 1},
		{0x0009, 0},
		{0x0008, 1},
		{0x8000, 1},
		{0xFFFF, 0},
		{0x7FFF, 1},
	}

	for _, tt := range tests {
		result := Parity16(tt.value)
		if result != tt.expected {
			t.Errorf("Parity16(%04X) = %d; want %d", tt.value, result, tt.expected)
		}
	}
}
