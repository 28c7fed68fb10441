package history

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/balanca/internal/model"
)

func weighing(buyerID, name string, kg, price float64) model.WeighingWithBuyer {
	w := model.WeighingWithBuyer{Weighing: model.Weighing{BuyerID: buyerID, TotalKg: kg, TotalPrice: price}}
	if buyerID != "" {
		w.Buyer = &model.Buyer{ID: buyerID, Name: name}
	}
	return w
}

func TestSummarize(t *testing.T) {
	s := Summarize([]model.WeighingWithBuyer{
		weighing("b-ana", "Ana", 10, 20),
		weighing("b-bia", "Bia", 5, 50),
		weighing("", "", 3, 9),
		weighing("b-ana", "Ana", 2, 40),
	})

	assert.Equal(t, 4, s.Count)
	assert.Equal(t, 20.0, s.TotalKg)
	assert.Equal(t, 119.0, s.TotalPrice)
	assert.Equal(t, []BuyerTotal{
		{BuyerID: "b-ana", Name: "Ana", Weighings: 2, TotalPrice: 60},
		{BuyerID: "b-bia", Name: "Bia", Weighings: 1, TotalPrice: 50},
	}, s.Ranking)
}

func TestSummarize_KeepsTopFive(t *testing.T) {
	var ws []model.WeighingWithBuyer
	for i, name := range []string{"A", "B", "C", "D", "E", "F", "G"} {
		ws = append(ws, weighing("b-"+name, name, 1, float64(i+1)))
	}

	s := Summarize(ws)

	assert.Len(t, s.Ranking, TopBuyers)
	assert.Equal(t, "G", s.Ranking[0].Name)
	assert.Equal(t, "C", s.Ranking[4].Name)
}

func TestSummarize_TiesKeepFirstSeenOrder(t *testing.T) {
	s := Summarize([]model.WeighingWithBuyer{
		weighing("b-2", "Segundo", 1, 10),
		weighing("b-1", "Primeiro", 1, 10),
	})
	assert.Equal(t, "Segundo", s.Ranking[0].Name)
	assert.Equal(t, "Primeiro", s.Ranking[1].Name)
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	assert.Equal(t, 0, s.Count)
	assert.Empty(t, s.Ranking)
	assert.NotNil(t, s.Ranking)
}
