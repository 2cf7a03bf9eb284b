package service

import (
	"regexp"
	"strings"
	"unicode"
)

// Sentinel test numbers seen in abusive submissions; always rejected.
var rejectedPhones = map[string]struct{}{
	"62999999999": {},
	"6299999999":  {},
}

// Valid Brazilian area codes (DDD).
var validDDDs = map[string]struct{}{
	"11": {}, "12": {}, "13": {}, "14": {}, "15": {}, "16": {}, "17": {}, "18": {}, "19": {},
	"21": {}, "22": {}, "24": {}, "27": {}, "28": {},
	"31": {}, "32": {}, "33": {}, "34": {}, "35": {}, "37": {}, "38": {},
	"41": {}, "42": {}, "43": {}, "44": {}, "45": {}, "46": {}, "47": {}, "48": {}, "49": {},
	"51": {}, "53": {}, "54": {}, "55": {},
	"61": {}, "62": {}, "63": {}, "64": {}, "65": {}, "66": {}, "67": {}, "68": {}, "69": {},
	"71": {}, "73": {}, "74": {}, "75": {}, "77": {}, "79": {},
	"81": {}, "82": {}, "83": {}, "84": {}, "85": {}, "86": {}, "87": {}, "88": {}, "89": {},
	"91": {}, "92": {}, "93": {}, "94": {}, "95": {}, "96": {}, "97": {}, "98": {}, "99": {},
}

// Generic or placeholder handles that never identify a real profile.
var blockedInstagramHandles = map[string]struct{}{
	"instagram": {}, "insta": {}, "face": {}, "facebook": {}, "whatsapp": {},
	"nao": {}, "naotem": {}, "nao.tem": {}, "nao_tem": {}, "naotenho": {},
	"nenhum": {}, "nenhuma": {}, "semtem": {}, "sem": {},
	"teste": {}, "test": {}, "testando": {},
	"user": {}, "usuario": {}, "admin": {},
	"gmail": {}, "hotmail": {}, "email": {},
	"none": {}, "null": {}, "xxx": {},
}

var nonDigitPattern = regexp.MustCompile(`\D`)

// phoneShapePattern matches handles that are really phone numbers with
// optional formatting.
var phoneShapePattern = regexp.MustCompile(`^\+?\(?\d{2,3}\)?[\s._-]?\d{4,5}[\s._-]?\d{4}$`)

// OnlyDigits strips every non-digit character.
func OnlyDigits(value string) string {
	return nonDigitPattern.ReplaceAllString(value, "")
}

// NormalizeInstagram lower-cases a handle and strips the leading '@'.
func NormalizeInstagram(handle string) string {
	normalized := strings.ToLower(strings.TrimSpace(handle))
	return strings.TrimPrefix(normalized, "@")
}

// NormalizeCep strips formatting from a postal code.
func NormalizeCep(cep string) string {
	return OnlyDigits(cep)
}

// validateName requires first and last name.
func validateName(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "nome é obrigatório"
	}
	if len(strings.Fields(trimmed)) < 2 {
		return "informe nome e sobrenome"
	}
	return ""
}

// validatePhone applies the Brazilian mobile/landline rules to an already
// normalized (digits-only) phone.
func validatePhone(phone string) string {
	if phone == "" {
		return "telefone é obrigatório"
	}
	if len(phone) != 10 && len(phone) != 11 {
		return "telefone deve ter 10 ou 11 dígitos"
	}
	if _, rejected := rejectedPhones[phone]; rejected {
		return "telefone inválido"
	}
	ddd := phone[:2]
	if _, ok := validDDDs[ddd]; !ok {
		return "DDD inválido"
	}
	if len(phone) == 11 && phone[2] != '9' {
		return "celular deve começar com 9 após o DDD"
	}
	return ""
}

// validateInstagram applies the placeholder-handle heuristics to an already
// normalized handle (lower-case, no '@').
func validateInstagram(handle string) string {
	if handle == "" {
		return "instagram é obrigatório"
	}
	if len(handle) < 3 {
		return "instagram deve ter ao menos 3 caracteres"
	}
	if _, blocked := blockedInstagramHandles[handle]; blocked {
		return "instagram inválido"
	}
	if OnlyDigits(handle) == handle {
		return "instagram não pode ser apenas números"
	}
	if phoneShapePattern.MatchString(handle) {
		return "instagram não pode ser um telefone"
	}
	if hasRepeatedRun(handle, 5, false) {
		return "instagram inválido"
	}
	if hasRepeatedRun(handle, 4, true) {
		return "instagram inválido"
	}
	if digitRatio(handle) > 0.7 {
		return "instagram inválido"
	}
	return ""
}

// validateCep requires the 8-digit numeric format (already normalized).
func validateCep(cep string) string {
	if cep == "" {
		return "CEP é obrigatório"
	}
	if len(cep) != 8 {
		return "CEP deve ter 8 dígitos"
	}
	return ""
}

// hasRepeatedRun reports a run of at least n identical characters. With
// lettersOnly, only letter runs count.
func hasRepeatedRun(value string, n int, lettersOnly bool) bool {
	runes := []rune(value)
	run := 1
	for i := 1; i < len(runes); i++ {
		if runes[i] == runes[i-1] && (!lettersOnly || unicode.IsLetter(runes[i])) {
			run++
			if run >= n {
				return true
			}
			continue
		}
		run = 1
	}
	return false
}

func digitRatio(value string) float64 {
	if value == "" {
		return 0
	}
	digits := 0
	total := 0
	for _, r := range value {
		total++
		if unicode.IsDigit(r) {
			digits++
		}
	}
	return float64(digits) / float64(total)
}

// PersonFields is the common person sub-record shared by primary and partner.
type PersonFields struct {
	Name      string
	Phone     string
	Instagram string
}

// validatePersonInto validates name/phone/instagram into the error map using
// the given field prefix; values are expected already normalized.
func validatePersonInto(errs ValidationErrors, prefix string, person PersonFields) {
	if msg := validateName(person.Name); msg != "" {
		errs[prefix+"name"] = msg
	}
	if msg := validatePhone(person.Phone); msg != "" {
		errs[prefix+"phone"] = msg
	}
	if msg := validateInstagram(person.Instagram); msg != "" {
		errs[prefix+"instagram"] = msg
	}
}
