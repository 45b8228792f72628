package engine

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidBands = errors.New("invalid arrival bands")

// ArrivalBand — множитель интенсивности прихода для часов, начиная со смещения FromOffset
// от открытия и до начала следующей полосы.
type ArrivalBand struct {
	FromOffset int     `mapstructure:"from_offset" json:"from_offset"`
	Min        float64 `mapstructure:"min" json:"min"`
	Max        float64 `mapstructure:"max" json:"max"`
}

// DefaultBands — суточный профиль: утренний пик, обеденный спад, ровный вечер.
func DefaultBands() []ArrivalBand {
	return []ArrivalBand{
		{FromOffset: 0, Min: 1.2, Max: 1.5},
		{FromOffset: 2, Min: 1.0, Max: 1.2},
		{FromOffset: 4, Min: 0.7, Max: 0.9},
		{FromOffset: 5, Min: 0.9, Max: 1.1},
	}
}

// ValidateBands проверяет, что полосы начинаются с открытия, идут по возрастанию
// и задают положительный диапазон множителя.
func ValidateBands(bands []ArrivalBand) error {
	if len(bands) == 0 {
		return fmt.Errorf("%w: no bands", ErrInvalidBands)
	}
	if bands[0].FromOffset != 0 {
		return fmt.Errorf("%w: first band must start at offset 0", ErrInvalidBands)
	}
	for i, b := range bands {
		if i > 0 && b.FromOffset <= bands[i-1].FromOffset {
			return fmt.Errorf("%w: offsets must increase (band %d)", ErrInvalidBands, i)
		}
		if b.Min <= 0 || b.Max < b.Min {
			return fmt.Errorf("%w: band %d has range [%g, %g]", ErrInvalidBands, i, b.Min, b.Max)
		}
	}
	return nil
}

// bandFor выбирает последнюю полосу, начавшуюся не позже offset.
func bandFor(bands []ArrivalBand, offset int) ArrivalBand {
	chosen := bands[0]
	for _, b := range bands {
		if b.FromOffset > offset {
			break
		}
		chosen = b
	}
	return chosen
}

// fingerprint однозначно описывает набор полос (входит в ключ кэша агрегатов).
func fingerprint(bands []ArrivalBand) string {
	var sb strings.Builder
	for i, b := range bands {
		if i > 0 {
			sb.WriteByte('|')
		}
		fmt.Fprintf(&sb, "%d:%g-%g", b.FromOffset, b.Min, b.Max)
	}
	return sb.String()
}
