// Package taxid normaliza y valida identificaciones tributarias de proveedores.
package taxid

import (
	"fmt"
	"strings"
	"unicode"
)

// pesos del módulo 11 (DIAN) aplicados a los 9 dígitos base del NIT, de izquierda a derecha.
var nitWeights = [9]int{41, 37, 29, 23, 19, 17, 13, 7, 3}

// Normalize quita espacios y puntos y pasa letras a mayúscula.
// "900.123.456-7" y " 900123456-7 " quedan iguales, así la unicidad no depende del formato.
func Normalize(s string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(s) {
		if unicode.IsSpace(r) || r == '.' {
			continue
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

// VerificationDigit calcula el dígito de verificación para una base de 9 dígitos.
func VerificationDigit(base string) (byte, error) {
	if len(base) != 9 || !allDigits(base) {
		return 0, fmt.Errorf("taxid: la base del NIT debe tener 9 dígitos, se recibió %q", base)
	}
	var sum int
	for i := 0; i < 9; i++ {
		sum += int(base[i]-'0') * nitWeights[i]
	}
	rem := sum % 11
	if rem < 2 {
		return byte('0' + rem), nil
	}
	return byte('0' + (11 - rem)), nil
}

// Validate revisa el dígito de verificación cuando el valor normalizado tiene forma de NIT
// (9 dígitos, guion, 1 dígito). Cédulas y documentos extranjeros se aceptan tal cual.
func Validate(normalized string) error {
	base, dv, ok := strings.Cut(normalized, "-")
	if !ok || len(base) != 9 || len(dv) != 1 || !allDigits(base) || !allDigits(dv) {
		return nil
	}
	want, err := VerificationDigit(base)
	if err != nil {
		return err
	}
	if dv[0] != want {
		return fmt.Errorf("taxid: dígito de verificación inválido para %s: esperado %c", base, want)
	}
	return nil
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
