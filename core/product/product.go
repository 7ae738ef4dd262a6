package product

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrNotFound          = errors.New("product not found")
	ErrSizeNotFound      = errors.New("size not offered for product")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Sizes is the display order of the standard clothing sizes.
var Sizes = []string{"S", "M", "L", "XL", "XXL", "XXXL"}

type Product struct {
	ID    int64          `json:"id"`
	Name  string         `json:"name"`
	Price int            `json:"price"`
	Stock map[string]int `json:"stock"`
}

type ProductNew struct {
	Name  string         `json:"name" validate:"required"`
	Price int            `json:"price" validate:"gte=0"`
	Stock map[string]int `json:"stock" validate:"required,dive,keys,required,endkeys,gte=0"`
}

type ProductUp struct {
	Name  *string        `json:"name" validate:"omitempty,min=1"`
	Price *int           `json:"price" validate:"omitempty,gte=0"`
	Stock map[string]int `json:"stock" validate:"omitempty,dive,keys,required,endkeys,gte=0"`
}

// StockError reports a request exceeding the units left for a size.
type StockError struct {
	ProductID int64
	Name      string
	Size      string
	Remaining int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s (%s): %d remaining", e.Name, e.Size, e.Remaining)
}

func (e *StockError) Is(target error) bool { return target == ErrInsufficientStock }

// Available returns the units on hand for size. A size missing from the
// stock mapping is not sold for this product.
func (p Product) Available(size string) (int, error) {
	if size == "" {
		return 0, ErrSizeNotFound
	}
	n, ok := p.Stock[size]
	if !ok {
		return 0, fmt.Errorf("%s (%s): %w", p.Name, size, ErrSizeNotFound)
	}
	return n, nil
}

// SortedSizes lists the offered sizes, standard sizes first.
func (p Product) SortedSizes() []string {
	rank := make(map[string]int, len(Sizes))
	for i, s := range Sizes {
		rank[s] = i
	}

	sizes := make([]string, 0, len(p.Stock))
	for s := range p.Stock {
		sizes = append(sizes, s)
	}

	sort.Slice(sizes, func(i, j int) bool {
		ri, iok := rank[sizes[i]]
		rj, jok := rank[sizes[j]]
		switch {
		case iok && jok:
			return ri < rj
		case iok != jok:
			return iok
		default:
			return sizes[i] < sizes[j]
		}
	})
	return sizes
}

func (p Product) clone() Product {
	stock := make(map[string]int, len(p.Stock))
	for k, v := range p.Stock {
		stock[k] = v
	}
	p.Stock = stock
	return p
}

func index(products []Product, id int64) int {
	for i := range products {
		if products[i].ID == id {
			return i
		}
	}
	return -1
}

// Decrement takes qty units of size from the product identified by id. It
// refuses to drive the count below zero.
func Decrement(products []Product, id int64, size string, qty int) error {
	i := index(products, id)
	if i < 0 {
		return fmt.Errorf("product[%d]: %w", id, ErrNotFound)
	}

	p := &products[i]
	available, err := p.Available(size)
	if err != nil {
		return err
	}

	if qty > available {
		return &StockError{ProductID: p.ID, Name: p.Name, Size: size, Remaining: available}
	}

	p.Stock[size] = available - qty
	return nil
}
