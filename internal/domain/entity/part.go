package entity

import (
	"strings"
	"unicode"
)

// PartKey es la clave canónica de un número de parte (Teil). Todos los
// cruces entre fuentes se hacen exclusivamente por esta clave.
type PartKey string

// partNoise: caracteres que el ERP arrastra alrededor del identificador en
// los exports (BOM, espacios duros, comillas rectas y tipográficas).
func partNoise(r rune) bool {
	switch r {
	case '\uFEFF', ' ', '"', '\'', '“', '”', '„', '‘', '’':
		return true
	}
	return unicode.IsSpace(r) || unicode.IsControl(r)
}

// CleanPart limpia un identificador crudo para mostrarlo: recorta ruido en
// los extremos pero conserva mayúsculas y el texto interior tal cual.
func CleanPart(raw string) string {
	return strings.TrimFunc(raw, partNoise)
}

// CanonicalPartKey deriva la clave canónica de un identificador crudo.
// Dos identificadores que solo difieren en ruido de export (espacios,
// caracteres de control, BOM, NBSP, comillas) producen la misma clave.
func CanonicalPartKey(raw string) PartKey {
	return PartKey(strings.ToLower(CleanPart(raw)))
}

// IsZero indica si la clave quedó vacía (identificador sin contenido útil).
func (k PartKey) IsZero() bool { return k == "" }
