package services

import (
	crand "crypto/rand"
	"errors"
	"math"
	"math/big"

	"github.com/damienaltman42/sb1-u3qtxy/models"
)

var ErrNoWinnableItems = errors.New("no item with a positive probability")

const randomBits = 53

var drawRandomFloat = secureRandomFloat

// DrawPrize picks one item with probability proportional to its weight.
// Items with a non-positive or non-finite weight never win.
func DrawPrize(items []models.PrizeItem) (models.PrizeItem, error) {
	total := 0.0
	for _, it := range items {
		if winnable(it) {
			total += it.Probability
		}
	}
	if total <= 0 || math.IsInf(total, 0) {
		return models.PrizeItem{}, ErrNoWinnableItems
	}

	r, err := drawRandomFloat()
	if err != nil {
		return models.PrizeItem{}, err
	}
	target := r * total

	var last models.PrizeItem
	cumulative := 0.0
	for _, it := range items {
		if !winnable(it) {
			continue
		}
		cumulative += it.Probability
		last = it
		if target < cumulative {
			return it, nil
		}
	}
	// rounding left target at the very top of the range
	return last, nil
}

func winnable(it models.PrizeItem) bool {
	return it.Probability > 0 && !math.IsInf(it.Probability, 0) && !math.IsNaN(it.Probability)
}

// secureRandomFloat returns a uniform value in [0, 1).
func secureRandomFloat() (float64, error) {
	n, err := crand.Int(crand.Reader, big.NewInt(1<<randomBits))
	if err != nil {
		return 0, err
	}
	return float64(n.Int64()) / float64(int64(1)<<randomBits), nil
}
