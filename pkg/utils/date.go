package utils

import "regexp"

var (
	compactDatePattern  = regexp.MustCompile(`^\d{8}$`)
	dayFirstDatePattern = regexp.MustCompile(`^(\d{2})-(\d{2})-(\d{4})$`)
)

// NormalizeDate converte os formatos de data heterogêneos do export contábil
// para a forma canônica YYYY-MM-DD. Aceita YYYYMMDD e DD-MM-YYYY; qualquer
// outro formato retorna string vazia em vez de erro, e o chamador decide o
// fallback.
func NormalizeDate(raw string) string {
	if raw == "" {
		return ""
	}

	if compactDatePattern.MatchString(raw) {
		return raw[0:4] + "-" + raw[4:6] + "-" + raw[6:8]
	}

	if m := dayFirstDatePattern.FindStringSubmatch(raw); m != nil {
		return m[3] + "-" + m[2] + "-" + m[1]
	}

	return ""
}
