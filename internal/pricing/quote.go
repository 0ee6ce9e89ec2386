// Package pricing считает стоимость заказа со скидками и рейтинг топпингов
// все функции чистые и не обращаются к хранилищам
package pricing

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/asquebay/coffee-order-service/internal/model"
)

var (
	// BulkThreshold: сумма заказа, начиная с которой (строго больше) действует скидка BulkRate
	BulkThreshold = decimal.NewFromInt(12)
	// BulkRate: доля цены, которую платит покупатель при оптовой скидке
	BulkRate = decimal.RequireFromString("0.75")
)

// FreeUnitMinGroups: минимальное число групп, при котором самая дешёвая группа бесплатна
const FreeUnitMinGroups = 3

// Group содержит разрешённые напитки и топпинги одной позиции заказа
type Group struct {
	Drinks   []model.Drink
	Toppings []model.Topping
}

// Quote результат расчёта стоимости заказа
type Quote struct {
	Total      decimal.Decimal
	Discounted decimal.Decimal
}

// TotalAmount возвращает полную сумму в виде float64 для ответа API
func (q Quote) TotalAmount() float64 {
	return q.Total.InexactFloat64()
}

// DiscountedAmount возвращает сумму со скидкой в виде float64 для ответа API
func (q Quote) DiscountedAmount() float64 {
	return q.Discounted.InexactFloat64()
}

// Finite сообщает, помещаются ли обе суммы в float64
// суммы, ушедшие в бесконечность, нельзя ни сохранить, ни отдать в JSON
func (q Quote) Finite() bool {
	return !math.IsInf(q.TotalAmount(), 0) && !math.IsInf(q.DiscountedAmount(), 0)
}

// Calculate считает полную сумму и выбирает самую выгодную для покупателя скидку
func Calculate(groups []Group) Quote {
	total := decimal.Zero
	for _, g := range groups {
		total = total.Add(drinksPrice(g.Drinks)).Add(toppingsPrice(g.Toppings))
	}

	return Quote{
		Total:      total,
		Discounted: decimal.Min(bulkCandidate(total), freeUnitCandidate(total, groups)),
	}
}

// bulkCandidate даёт 25% скидки на весь заказ дороже BulkThreshold
func bulkCandidate(total decimal.Decimal) decimal.Decimal {
	if total.GreaterThan(BulkThreshold) {
		return total.Mul(BulkRate)
	}
	return total
}

// freeUnitCandidate вычитает стоимость самой дешёвой группы, если групп не меньше FreeUnitMinGroups
// стоимость группы считается по первому напитку группы и всем её топпингам
func freeUnitCandidate(total decimal.Decimal, groups []Group) decimal.Decimal {
	if len(groups) < FreeUnitMinGroups {
		return total
	}

	cheapest := unitPrice(groups[0])
	for _, g := range groups[1:] {
		cheapest = decimal.Min(cheapest, unitPrice(g))
	}
	return total.Sub(cheapest)
}

func unitPrice(g Group) decimal.Decimal {
	price := toppingsPrice(g.Toppings)
	if len(g.Drinks) > 0 {
		price = price.Add(decimal.NewFromFloat(g.Drinks[0].Price))
	}
	return price
}

func drinksPrice(drinks []model.Drink) decimal.Decimal {
	sum := decimal.Zero
	for _, d := range drinks {
		sum = sum.Add(decimal.NewFromFloat(d.Price))
	}
	return sum
}

func toppingsPrice(toppings []model.Topping) decimal.Decimal {
	sum := decimal.Zero
	for _, t := range toppings {
		sum = sum.Add(decimal.NewFromFloat(t.Price))
	}
	return sum
}
