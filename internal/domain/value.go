package domain

import (
	"fmt"
	"strconv"
)

// Stringify converte um valor escalar do payload JSON para string.
// Números inteiros não ganham casas decimais espúrias.
func Stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
