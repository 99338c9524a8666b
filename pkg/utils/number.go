package utils

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var nonNumericPattern = regexp.MustCompile(`[^0-9.\-]`)

// StrictNumber replica a coerção numérica estrita do agente (Number() do
// JavaScript): ausente ou string vazia viram zero, e strings com separador
// de milhar ("1,234.50") são inválidas. O segundo retorno indica se a
// coerção produziu um número válido.
func StrictNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case nil:
		return 0, true
	case float64:
		return v, true
	case int:
		return float64(v), true
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return 0, true
		}
		parsed, err := strconv.ParseFloat(trimmed, 64)
		if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

// LenientAmount coage valores monetários do export contábil descartando
// qualquer caractere que não seja dígito, ponto ou sinal de menos
// ("₹1,234.50 Cr" vira 1234.50). Valores não coercíveis contam como zero.
func LenientAmount(value any) float64 {
	switch v := value.(type) {
	case nil:
		return 0
	case float64:
		return v
	case int:
		return float64(v)
	case string:
		return parseCleaned(v)
	default:
		return parseCleaned(fmt.Sprintf("%v", v))
	}
}

func parseCleaned(raw string) float64 {
	cleaned := nonNumericPattern.ReplaceAllString(raw, "")
	parsed, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return parsed
}
