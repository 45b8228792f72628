package domain

import "slices"

// Общины Черногории, алфавитный порядок.
var municipalities = []string{
	"Andrijevica", "Bar", "Berane", "Bijelo Polje", "Budva", "Cetinje",
	"Danilovgrad", "Gusinje", "Herceg Novi", "Kolašin", "Kotor", "Mojkovac",
	"Nikšić", "Petnjica", "Plav", "Pljevlja", "Plužine", "Podgorica",
	"Rožaje", "Šavnik", "Tivat", "Ulcinj", "Žabljak",
}

func Municipalities() []string {
	return slices.Clone(municipalities)
}

// ValidMunicipality требует точного совпадения с названием общины.
func ValidMunicipality(name string) bool {
	return slices.Contains(municipalities, name)
}
