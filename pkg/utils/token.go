package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

const characters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// GenerateToken gera o token aleatório usado como fallback da unique_key
// quando o voucher não traz número.
func GenerateToken() (string, error) {
	return gonanoid.Generate(characters, 10)
}
