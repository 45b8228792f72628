package domain

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ServiceInfo — справка по административной услуге.
type ServiceInfo struct {
	Name           string   `json:"name"`
	Aliases        []string `json:"aliases,omitempty"`
	Documents      []string `json:"documents"`
	FeeEUR         float64  `json:"fee_eur"`
	PaymentInfo    string   `json:"payment_info"`
	ProcessingDays int      `json:"processing_days"`
}

var services = []ServiceInfo{
	{
		Name:    "lična karta",
		Aliases: []string{"licna karta", "ličnu kartu", "ličnoj karti", "ID card"},
		Documents: []string{
			"Izvod iz matične knjige rođenih (original ili ovjerena kopija)",
			"Uvjerenje o prebivalištu",
			"Stara lična karta (ako postoji)",
		},
		FeeEUR:         5,
		PaymentInfo:    "Žiro račun MUP CG: 832-12345-99; svrha uplate: 'Izrada lične karte'",
		ProcessingDays: 7,
	},
	{
		Name:           "pasoš",
		Aliases:        []string{"pasos", "putna isprava", "passport"},
		Documents:      []string{"Lična karta", "Uplatnica za pasoš"},
		FeeEUR:         33,
		PaymentInfo:    "Žiro račun MUP CG: 832-12345-00; svrha uplate: 'Izdavanje pasoša'",
		ProcessingDays: 10,
	},
	{
		Name:    "vozačka dozvola",
		Aliases: []string{"vozacka dozvola", "vozačku", "driver license", "vozačka"},
		Documents: []string{
			"Lična karta",
			"Ljekarsko uvjerenje (važeće)",
			"Fotografija (biometrijski format)",
		},
		FeeEUR:         20,
		PaymentInfo:    "Žiro račun MUP CG: 832-12345-77; svrha uplate: 'Vozačka dozvola'",
		ProcessingDays: 7,
	},
	{
		Name: "promjena prebivališta",
		Aliases: []string{
			"promjena prebivalista", "prijava prebivalista", "odjava prebivalista",
			"prijava adrese", "promjena adrese", "prebivaliste",
		},
		Documents: []string{
			"Lična karta",
			"Dokaz o vlasništvu stana/kuće (izvod iz lista nepokretnosti ili ugovor o kupoprodaji)",
			"Ugovor o zakupu (ako ste zakupac)",
			"Saglasnost vlasnika stana (ako niste vlasnik)",
		},
		FeeEUR:         0,
		PaymentInfo:    "Bez takse - usluga je besplatna",
		ProcessingDays: 1,
	},
}

// Services возвращает каталог услуг, отсортированный по имени.
func Services() []ServiceInfo {
	out := append([]ServiceInfo(nil), services...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func ServiceByName(name string) (ServiceInfo, bool) {
	n := Normalize(name)
	for _, s := range services {
		if Normalize(s.Name) == n {
			return s, true
		}
	}
	return ServiceInfo{}, false
}

// DetectService ищет услугу в свободном тексте. Из нескольких совпавших
// псевдонимов побеждает самый длинный.
func DetectService(text string) (ServiceInfo, bool) {
	nq := Normalize(text)
	var (
		best    ServiceInfo
		bestLen int
	)
	for _, s := range services {
		tokens := append([]string{s.Name}, s.Aliases...)
		for _, t := range tokens {
			nt := Normalize(t)
			if nt != "" && strings.Contains(nq, nt) && len(nt) > bestLen {
				best, bestLen = s, len(nt)
			}
		}
	}
	return best, bestLen > 0
}

// đ не раскладывается в NFD, поэтому транслитерируем отдельно
var letterReplacer = strings.NewReplacer("đ", "d", "Đ", "d")

// Normalize: без диакритики, нижний регистр, одиночные пробелы.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, letterReplacer.Replace(s))
	if err != nil {
		stripped = s
	}
	return strings.Join(strings.Fields(strings.ToLower(stripped)), " ")
}
