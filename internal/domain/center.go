package domain

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Center — отделение, где оказывают услугу.
type Center struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	City         string  `json:"city"`
	WorkingHours string  `json:"working_hours"`
	Lat          float64 `json:"lat"`
	Lon          float64 `json:"lon"`
}

// MapsURL строит ссылку на отделение в картах.
func (c Center) MapsURL() string {
	return fmt.Sprintf("https://www.google.com/maps?q=%g,%g(%s)", c.Lat, c.Lon, url.QueryEscape(c.Name))
}

var centers = []Center{
	{1, "MUP Podgorica – Bulevar Svetog Petra Cetinjskog 92", "Podgorica", "08:00–15:00", 42.4415, 19.2621},
	{2, "MUP Nikšić – Trg Slobode bb", "Nikšić", "08:00–14:30", 42.7731, 18.9447},
	{3, "MUP Bijelo Polje – Ulica Slobode bb", "Bijelo Polje", "08:00–14:30", 43.0356, 19.7473},
	{4, "MUP Berane – Ulica Maksima Gorkog bb", "Berane", "08:00–14:30", 42.8456, 19.8727},
	{5, "MUP Pljevlja – Ulica Kralja Petra I Karađorđevića bb", "Pljevlja", "08:00–14:30", 43.3567, 19.3581},
	{6, "MUP Bar – Ulica Jovana Tomaševića bb", "Bar", "08:00–14:30", 42.0973, 19.0886},
	{7, "MUP Budva – Ulica Mediteranska bb", "Budva", "08:00–15:00", 42.2864, 18.8408},
	{8, "MUP Herceg Novi – Ulica Njegoševa bb", "Herceg Novi", "08:00–14:30", 42.4531, 18.5378},
	{9, "MUP Kotor – Stari grad bb", "Kotor", "08:00–14:30", 42.4248, 18.7712},
	{10, "MUP Ulcinj – Ulica 26. Novembar bb", "Ulcinj", "08:00–14:30", 41.9297, 19.2122},
	{11, "MUP Cetinje – Ulica Bajova bb", "Cetinje", "08:00–14:30", 42.3931, 18.9238},
	{12, "MUP Danilovgrad – Ulica Nikole Tesle 14", "Danilovgrad", "08:00–14:30", 42.5534, 19.1104},
	{13, "MUP Kolašin – Ulica Mojkovačka bb", "Kolašin", "08:00–14:00", 42.8227, 19.5180},
	{14, "MUP Žabljak – Ulica Njegoševa bb", "Žabljak", "08:00–14:00", 43.1556, 19.1231},
	{15, "MUP Plav – Ulica Sandžačka bb", "Plav", "08:00–14:00", 42.5989, 19.9403},
	{16, "MUP Rožaje – Ulica Maršala Tita bb", "Rožaje", "08:00–14:00", 42.8405, 20.1663},
	{17, "MUP Mojkovac – Ulica Ratnih Vojnih Invalida bb", "Mojkovac", "08:00–14:00", 42.9604, 19.5828},
	{18, "MUP Tivat – Ulica Palih Boraca bb", "Tivat", "08:00–14:30", 42.4304, 18.6948},
	{19, "MUP Plužine – Centar bb", "Plužine", "08:00–14:00", 43.1508, 18.8453},
	{20, "MUP Šavnik – Centar bb", "Šavnik", "08:00–14:00", 42.9575, 19.0938},
	{21, "MUP Andrijevica – Ulica Trg Revolucije bb", "Andrijevica", "08:00–14:00", 42.7357, 19.7856},
	{22, "MUP Gusinje – Ulica Djalovića Brdo bb", "Gusinje", "08:00–14:00", 42.5561, 19.8311},
	{23, "MUP Petnjica – Centar bb", "Petnjica", "08:00–14:00", 42.9356, 20.0167},
}

// Centers возвращает копию справочника отделений.
func Centers() []Center {
	return append([]Center(nil), centers...)
}

// CentersByCity фильтрует отделения по городу без учета регистра.
// Пустой город дает все отделения.
func CentersByCity(city string) []Center {
	city = strings.TrimSpace(city)
	if city == "" {
		return Centers()
	}
	var out []Center
	for _, c := range centers {
		if strings.EqualFold(c.City, city) {
			out = append(out, c)
		}
	}
	return out
}

// CenterByID ищет отделение по идентификатору.
func CenterByID(id int) (Center, bool) {
	for _, c := range centers {
		if c.ID == id {
			return c, true
		}
	}
	return Center{}, false
}

// WorkingHoursSet возвращает различные строки часов работы всех отделений, по возрастанию.
func WorkingHoursSet() []string {
	seen := make(map[string]struct{}, len(centers))
	out := make([]string, 0, 4)
	for _, c := range centers {
		if _, ok := seen[c.WorkingHours]; ok {
			continue
		}
		seen[c.WorkingHours] = struct{}{}
		out = append(out, c.WorkingHours)
	}
	sort.Strings(out)
	return out
}
