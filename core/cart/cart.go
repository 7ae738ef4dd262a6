package cart

import (
	"errors"

	"github.com/irsalhamdi/pos-kasir/core/product"
)

var ErrInvalidQuantity = errors.New("quantity must be at least 1")

// Cart is the in-progress sale of one operator. Entries are unique per
// product and size.
type Cart struct {
	Items []Item `json:"items"`
}

// Item snapshots the product name and price at the time it was added.
type Item struct {
	ProductID int64  `json:"id"`
	Name      string `json:"name"`
	Price     int    `json:"price"`
	Size      string `json:"size"`
	Qty       int    `json:"qty"`
}

type ItemNew struct {
	ProductID int64  `json:"productId" validate:"required"`
	Size      string `json:"size" validate:"required"`
	Qty       int    `json:"qty" validate:"required,gte=1"`
}

func (it Item) Subtotal() int {
	return it.Qty * it.Price
}

func (c *Cart) find(productID int64, size string) int {
	for i, it := range c.Items {
		if it.ProductID == productID && it.Size == size {
			return i
		}
	}
	return -1
}

// Quantity returns the units of productID in size already in the cart.
func (c *Cart) Quantity(productID int64, size string) int {
	if i := c.find(productID, size); i >= 0 {
		return c.Items[i].Qty
	}
	return 0
}

// Add puts qty units of p in size into the cart, merging with an existing
// entry. It fails when the cart would hold more than the stock on hand.
func (c *Cart) Add(p product.Product, size string, qty int) error {
	if qty < 1 {
		return ErrInvalidQuantity
	}

	available, err := p.Available(size)
	if err != nil {
		return err
	}

	inCart := c.Quantity(p.ID, size)
	if qty+inCart > available {
		return &product.StockError{ProductID: p.ID, Name: p.Name, Size: size, Remaining: available - inCart}
	}

	if i := c.find(p.ID, size); i >= 0 {
		c.Items[i].Qty += qty
		return nil
	}

	c.Items = append(c.Items, Item{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Size:      size,
		Qty:       qty,
	})
	return nil
}

// Remove drops the entry for productID in size. Missing entries are ignored.
func (c *Cart) Remove(productID int64, size string) {
	if i := c.find(productID, size); i >= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
	}
}

func (c *Cart) Clear() {
	c.Items = nil
}

func (c *Cart) Empty() bool {
	return len(c.Items) == 0
}

func (c *Cart) Total() int {
	var tot int
	for _, it := range c.Items {
		tot += it.Subtotal()
	}
	return tot
}

// Snapshot copies the entries so later cart changes do not leak into it.
func (c *Cart) Snapshot() []Item {
	return append([]Item(nil), c.Items...)
}
