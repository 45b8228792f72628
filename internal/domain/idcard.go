package domain

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidIDCard = errors.New("invalid id card number")

const (
	minIDCardLen = 6
	maxIDCardLen = 13
)

// Коды общин в номере личной карты
var municipalityCodes = map[string]string{
	"01": "Andrijevica", "02": "Bar", "03": "Berane", "04": "Bijelo Polje",
	"05": "Budva", "06": "Cetinje", "07": "Danilovgrad", "08": "Herceg Novi",
	"09": "Kolašin", "10": "Kotor", "11": "Mojkovac", "12": "Nikšić",
	"13": "Plav", "14": "Pljevlja", "15": "Plužine", "16": "Podgorica",
	"17": "Rožaje", "18": "Šavnik", "19": "Tivat", "20": "Ulcinj",
	"21": "Žabljak", "22": "Gusinje", "23": "Petnjica",
}

// NormalizeIDCard убирает пробелы и дефисы и проверяет, что осталось 6-13 цифр.
func NormalizeIDCard(raw string) (string, error) {
	clean := strings.NewReplacer("-", "", " ", "").Replace(strings.TrimSpace(raw))

	switch n := len(clean); {
	case n == 0:
		return "", fmt.Errorf("%w: empty", ErrInvalidIDCard)
	case n < minIDCardLen:
		return "", fmt.Errorf("%w: shorter than %d digits", ErrInvalidIDCard, minIDCardLen)
	case n > maxIDCardLen:
		return "", fmt.Errorf("%w: longer than %d digits", ErrInvalidIDCard, maxIDCardLen)
	}
	for _, r := range clean {
		if r < '0' || r > '9' {
			return "", fmt.Errorf("%w: digits only", ErrInvalidIDCard)
		}
	}
	return clean, nil
}

// MunicipalityFromIDCard определяет общину по коду в номере карты. Порядок проверки:
//  1. девять цифр: код в позициях 0-1, 5-6 или 7-8;
//  2. от 11 символов (DDMMYY...): код сразу после даты, позиции 6-7;
//  3. первая пара соседних цифр, совпавшая с кодом.
func MunicipalityFromIDCard(raw string) (string, error) {
	clean, err := NormalizeIDCard(raw)
	if err != nil {
		return "", err
	}

	if len(clean) == 9 {
		for _, code := range []string{clean[0:2], clean[5:7], clean[7:9]} {
			if city, ok := municipalityCodes[code]; ok {
				return city, nil
			}
		}
	}

	if len(clean) >= 11 {
		if city, ok := municipalityCodes[clean[6:8]]; ok {
			return city, nil
		}
	}

	for i := 0; i+2 <= len(clean); i++ {
		if city, ok := municipalityCodes[clean[i:i+2]]; ok {
			return city, nil
		}
	}
	return "", fmt.Errorf("%w: no municipality code", ErrInvalidIDCard)
}
