package document

// Totals are the amounts printed in a document's summary block.
type Totals struct {
	Subtotal float64
	ShowVAT  bool
	VATRate  float64
	VAT      float64
	Delivery float64
	Total    float64
}

// Totals implements Payload: amount + delivery.
func (r *Receipt) Totals() Totals {
	delivery := r.Extras().DeliveryCost()
	return Totals{
		Subtotal: r.Amount,
		Delivery: delivery,
		Total:    r.Amount + delivery,
	}
}

// Totals implements Payload: subtotal + VAT + delivery.
func (i *Invoice) Totals() Totals {
	subtotal := sumItems(i.Items)
	include, rate := i.VAT()
	var vat float64
	if include {
		vat = subtotal * rate / 100
	}
	delivery := i.Extras().DeliveryCost()
	return Totals{
		Subtotal: subtotal,
		ShowVAT:  include,
		VATRate:  rate,
		VAT:      vat,
		Delivery: delivery,
		Total:    subtotal + vat + delivery,
	}
}

// Totals implements Payload: totalAmount (or the item sum) + delivery.
func (o *Order) Totals() Totals {
	subtotal := sumItems(o.Items)
	amount := o.TotalAmount
	if amount == 0 {
		amount = subtotal
	}
	delivery := o.Extras().DeliveryCost()
	return Totals{
		Subtotal: subtotal,
		Delivery: delivery,
		Total:    amount + delivery,
	}
}

func sumItems(items []LineItem) float64 {
	var sum float64
	for _, item := range items {
		sum += item.Amount()
	}
	return sum
}
