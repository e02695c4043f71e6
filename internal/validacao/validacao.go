// Package validacao reúne as validações de campo do cadastro de vendedores:
// obrigatoriedade, formato de e-mail, telefone, CEP, UF, categoria e o
// algoritmo de dígitos verificadores do CNPJ.
package validacao

import (
	"regexp"
	"strings"

	"github.com/salvo-app/api-cadastro/internal/mascara"
)

var emailRegexp = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Categorias aceitas no cadastro, as mesmas oferecidas na landing page.
var Categorias = []string{
	"Pizzaria", "Sorveteria", "Mercado", "Salão", "Açaiteria",
	"Barbearia", "Salão de Beleza", "Academia", "Padaria", "Mercearia",
}

var ufs = map[string]bool{
	"AC": true, "AL": true, "AP": true, "AM": true, "BA": true, "CE": true,
	"DF": true, "ES": true, "GO": true, "MA": true, "MT": true, "MS": true,
	"MG": true, "PA": true, "PB": true, "PR": true, "PE": true, "PI": true,
	"RJ": true, "RN": true, "RS": true, "RO": true, "RR": true, "SC": true,
	"SP": true, "SE": true, "TO": true,
}

// CampoObrigatorio verifica se o valor não é vazio após trim.
func CampoObrigatorio(valor string) bool {
	return strings.TrimSpace(valor) != ""
}

// Nome exige ao menos 2 caracteres.
func Nome(valor string) bool {
	return len([]rune(strings.TrimSpace(valor))) >= 2
}

// Email valida o formato local@dominio.tld.
func Email(valor string) bool {
	return emailRegexp.MatchString(valor)
}

// Telefone aceita números com DDD: 10 dígitos (fixo) ou 11 (celular).
func Telefone(valor string) bool {
	n := len(mascara.SomenteDigitos(valor))
	return n == 10 || n == 11
}

// CEP exige exatamente 8 dígitos.
func CEP(valor string) bool {
	return len(mascara.SomenteDigitos(valor)) == 8
}

// UF aceita as 27 unidades federativas.
func UF(valor string) bool {
	return ufs[strings.ToUpper(strings.TrimSpace(valor))]
}

// Categoria verifica se o valor pertence à lista de categorias do Salvô.
func Categoria(valor string) bool {
	v := strings.TrimSpace(valor)
	for _, c := range Categorias {
		if strings.EqualFold(c, v) {
			return true
		}
	}
	return false
}

// CNPJ valida os dois dígitos verificadores (módulo 11).
// Sequências com todos os dígitos iguais são rejeitadas.
func CNPJ(valor string) bool {
	cnpj := mascara.SomenteDigitos(valor)
	if len(cnpj) != 14 {
		return false
	}

	repetido := true
	for i := 1; i < 14; i++ {
		if cnpj[i] != cnpj[0] {
			repetido = false
			break
		}
	}
	if repetido {
		return false
	}

	if digitoVerificador(cnpj, 12) != int(cnpj[12]-'0') {
		return false
	}
	return digitoVerificador(cnpj, 13) == int(cnpj[13]-'0')
}

// digitoVerificador calcula o dígito para os primeiros tamanho dígitos,
// com pesos decrescentes a partir de tamanho-7, reiniciando em 9 abaixo de 2.
func digitoVerificador(cnpj string, tamanho int) int {
	soma := 0
	pos := tamanho - 7
	for i := 0; i < tamanho; i++ {
		soma += int(cnpj[i]-'0') * pos
		pos--
		if pos < 2 {
			pos = 9
		}
	}
	resto := soma % 11
	if resto < 2 {
		return 0
	}
	return 11 - resto
}
