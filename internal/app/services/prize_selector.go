package services

import (
	"github.com/safatanc/checkin-core/internal/app/models"
	"github.com/safatanc/checkin-core/internal/app/pkg"
)

// PrizeSelector draws one prize from a weighted table.
type PrizeSelector struct {
	random pkg.RandomSource
}

func NewPrizeSelector(random pkg.RandomSource) *PrizeSelector {
	return &PrizeSelector{random: random}
}

// SelectPrize draws r in [0, total) and walks the table in order, returning the
// first prize at which the remainder drops to zero or below. fellBack is true
// when float drift exhausted the walk and the last prize with a positive
// probability was returned.
func (s *PrizeSelector) SelectPrize(prizes []models.Prize) (prize models.Prize, fellBack bool) {
	if len(prizes) == 0 {
		return models.Prize{}, true
	}

	var total float64
	for _, p := range prizes {
		total += p.Probability
	}

	r := s.random.Float64() * total
	for _, p := range prizes {
		if p.Probability <= 0 {
			continue
		}
		r -= p.Probability
		if r <= 0 {
			return p, false
		}
	}

	for i := len(prizes) - 1; i >= 0; i-- {
		if prizes[i].Probability > 0 {
			return prizes[i], true
		}
	}
	return prizes[len(prizes)-1], true
}
