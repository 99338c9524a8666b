package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "formato compacto YYYYMMDD",
			input:    "20240115",
			expected: "2024-01-15",
		},
		{
			name:     "formato DD-MM-YYYY",
			input:    "15-01-2024",
			expected: "2024-01-15",
		},
		{
			name:     "string vazia",
			input:    "",
			expected: "",
		},
		{
			name:     "formato não reconhecido",
			input:    "Jan 15",
			expected: "",
		},
		{
			name:     "ISO já normalizado não é aceito",
			input:    "2024-01-15",
			expected: "",
		},
		{
			name:     "sete dígitos não casam com o formato compacto",
			input:    "2024011",
			expected: "",
		},
		{
			name:     "nove dígitos não casam com o formato compacto",
			input:    "202401155",
			expected: "",
		},
		{
			name:     "outro compacto reagrupa os mesmos dígitos",
			input:    "19991231",
			expected: "1999-12-31",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeDate(tt.input))
		})
	}
}
