// Copyright 2026 The Camino Authors
// SPDX-License-Identifier: Apache-2.0

package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLowerASCIIFolding(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"Lowercases", "Plaza Independencia", "plaza independencia"},
		{"Removes accents", "Café Brasilero", "cafe brasilero"},
		{"Trims spaces", "  Rambla Sur  ", "rambla sur"},
		{"Mixed", "  JARDÍN Botánico ", "jardin botanico"},
		{"Empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LowerASCIIFolding(tt.input))
		})
	}
}

func TestFormatInt(t *testing.T) {
	tests := []struct {
		input int64
		want  string
	}{
		{0, "0"},
		{7, "7"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-1234567, "-1,234,567"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatInt(tt.input))
	}
}
