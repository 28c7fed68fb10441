package history

import (
	"cmp"
	"slices"

	"github.com/roach88/balanca/internal/model"
)

// TopBuyers is how many buyers the ranking keeps.
const TopBuyers = 5

// BuyerTotal is one row of the buyer ranking.
type BuyerTotal struct {
	BuyerID    string  `json:"buyer_id"`
	Name       string  `json:"name"`
	Weighings  int     `json:"weighings"`
	TotalPrice float64 `json:"total_price"`
}

// Summary aggregates a list of saved weighings.
type Summary struct {
	Count      int          `json:"count"`
	TotalKg    float64      `json:"total_kg"`
	TotalPrice float64      `json:"total_price"`
	Ranking    []BuyerTotal `json:"ranking"`
}

// Summarize totals the weighings and ranks buyers by total price, highest
// first, keeping the top TopBuyers. Weighings without a buyer count toward
// the totals but not the ranking. Ties keep first-seen order.
func Summarize(weighings []model.WeighingWithBuyer) Summary {
	s := Summary{Count: len(weighings), Ranking: []BuyerTotal{}}

	index := make(map[string]int)
	for _, w := range weighings {
		s.TotalKg += w.TotalKg
		s.TotalPrice += w.TotalPrice

		if w.BuyerID == "" || w.Buyer == nil {
			continue
		}
		i, ok := index[w.BuyerID]
		if !ok {
			i = len(s.Ranking)
			index[w.BuyerID] = i
			s.Ranking = append(s.Ranking, BuyerTotal{BuyerID: w.BuyerID, Name: w.Buyer.Name})
		}
		s.Ranking[i].Weighings++
		s.Ranking[i].TotalPrice += w.TotalPrice
	}

	slices.SortStableFunc(s.Ranking, func(a, b BuyerTotal) int {
		return cmp.Compare(b.TotalPrice, a.TotalPrice)
	})
	if len(s.Ranking) > TopBuyers {
		s.Ranking = s.Ranking[:TopBuyers]
	}
	return s
}
