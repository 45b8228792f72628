package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xela07ax/citizen-queue-portal/internal/domain"
)

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"Lična Karta":            "licna karta",
		"  Žabljak   Đurđevdan ": "zabljak durdevdan",
		"PROMJENA prebivališta":  "promjena prebivalista",
		"":                       "",
	}
	for in, want := range tests {
		assert.Equal(t, want, domain.Normalize(in), in)
	}
}

func TestDetectService(t *testing.T) {
	tests := map[string]struct {
		text string
		want string
		ok   bool
	}{
		"name with diacritics": {text: "Treba mi pasoš hitno", want: "pasoš", ok: true},
		"alias in english":     {text: "how do I renew my passport", want: "pasoš", ok: true},
		"longest alias wins":   {text: "promjena adrese za licnu kartu", want: "promjena prebivališta", ok: true},
		"declined form":        {text: "izgubio sam ličnu kartu", want: "lična karta", ok: true},
		"nothing matches":      {text: "koliko je sati", ok: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			svc, ok := domain.DetectService(tt.text)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, svc.Name)
			}
		})
	}
}

func TestServiceByName(t *testing.T) {
	svc, ok := domain.ServiceByName("Vozacka Dozvola")
	require.True(t, ok)
	assert.Equal(t, 20.0, svc.FeeEUR)

	_, ok = domain.ServiceByName("visa")
	assert.False(t, ok)
	assert.Len(t, domain.Services(), 4)
}

func TestCentersByCity(t *testing.T) {
	all := domain.Centers()
	assert.Len(t, all, 23)

	assert.Len(t, domain.CentersByCity(""), len(all))

	podgorica := domain.CentersByCity("podgorica")
	require.Len(t, podgorica, 1)
	assert.Equal(t, "08:00–15:00", podgorica[0].WorkingHours)

	assert.Empty(t, domain.CentersByCity("Beograd"))

	c, ok := domain.CenterByID(9)
	require.True(t, ok)
	assert.Equal(t, "Kotor", c.City)
	assert.Contains(t, c.MapsURL(), "q=42.4248,18.7712")

	_, ok = domain.CenterByID(99)
	assert.False(t, ok)
}

func TestMunicipalities(t *testing.T) {
	assert.True(t, domain.ValidMunicipality("Nikšić"))
	assert.False(t, domain.ValidMunicipality("niksic"))
	assert.Len(t, domain.Municipalities(), 23)

	for _, c := range domain.Centers() {
		assert.True(t, domain.ValidMunicipality(c.City), c.City)
	}
}

func TestMunicipalityFromIDCard(t *testing.T) {
	tests := map[string]struct {
		input    string
		expected string
	}{
		"nine digits, leading code":  {input: "161234567", expected: "Podgorica"},
		"nine digits, middle code":   {input: "990290299", expected: "Bar"},
		"nine digits, trailing code": {input: "999999912", expected: "Nikšić"},
		"date prefix":                {input: "2503990212345", expected: "Bar"},
		"date prefix with dashes":    {input: "010203-12345-16", expected: "Nikšić"},
		"date prefix wins over scan": {input: "1601021212345", expected: "Nikšić"},
		"first matching pair":        {input: "12345678902", expected: "Nikšić"},
		"scan finds later pair":      {input: "9990599", expected: "Budva"},
		"spaces and dashes stripped": {input: " 16-1234 567 ", expected: "Podgorica"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			city, err := domain.MunicipalityFromIDCard(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, city)
			assert.True(t, domain.ValidMunicipality(city))
		})
	}
}

func TestMunicipalityFromIDCard_Invalid(t *testing.T) {
	for _, input := range []string{"", "  - ", "12 34-5", "123456789012345", "12345a789", "999999"} {
		_, err := domain.MunicipalityFromIDCard(input)
		assert.ErrorIs(t, err, domain.ErrInvalidIDCard, "input=%q", input)
	}
}

func TestNormalizeIDCard(t *testing.T) {
	clean, err := domain.NormalizeIDCard("010203-12345-16")
	require.NoError(t, err)
	assert.Equal(t, "0102031234516", clean)

	// 6 и 13 цифр: границы включительно
	_, err = domain.NormalizeIDCard("123456")
	assert.NoError(t, err)
	_, err = domain.NormalizeIDCard("1234567890123")
	assert.NoError(t, err)
	_, err = domain.NormalizeIDCard("12345678901234")
	assert.ErrorIs(t, err, domain.ErrInvalidIDCard)
}
