// Package mascara aplica as máscaras de exibição usadas nos formulários da
// landing page: telefone/WhatsApp, CNPJ e CEP. Todas as funções são puras e
// idempotentes — aplicar a máscara sobre um valor já mascarado produz o mesmo
// resultado.
package mascara

import "strings"

// SomenteDigitos remove tudo que não for dígito decimal.
func SomenteDigitos(valor string) string {
	var b strings.Builder
	b.Grow(len(valor))
	for _, r := range valor {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Telefone formata um número brasileiro com DDD.
// 10 dígitos viram (DD) DDDD-DDDD e 11 dígitos viram (DD) DDDDD-DDDD.
// Valores parciais recebem a máscara progressivamente, como durante a digitação.
func Telefone(valor string) string {
	d := SomenteDigitos(valor)
	if len(d) > 11 {
		d = d[:11]
	}
	switch {
	case len(d) <= 2:
		return d
	case len(d) <= 6:
		return "(" + d[:2] + ") " + d[2:]
	case len(d) <= 10:
		return "(" + d[:2] + ") " + d[2:len(d)-4] + "-" + d[len(d)-4:]
	default:
		return "(" + d[:2] + ") " + d[2:7] + "-" + d[7:]
	}
}

// CNPJ formata no padrão DD.DDD.DDD/DDDD-DD.
func CNPJ(valor string) string {
	d := SomenteDigitos(valor)
	if len(d) > 14 {
		d = d[:14]
	}
	var b strings.Builder
	for i := 0; i < len(d); i++ {
		switch i {
		case 2, 5:
			b.WriteByte('.')
		case 8:
			b.WriteByte('/')
		case 12:
			b.WriteByte('-')
		}
		b.WriteByte(d[i])
	}
	return b.String()
}

// CEP formata no padrão DDDDD-DDD.
func CEP(valor string) string {
	d := SomenteDigitos(valor)
	if len(d) > 8 {
		d = d[:8]
	}
	if len(d) <= 5 {
		return d
	}
	return d[:5] + "-" + d[5:]
}
