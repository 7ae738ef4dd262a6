package test

import (
	"encoding/csv"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/irsalhamdi/pos-kasir/core/backup"
	"github.com/irsalhamdi/pos-kasir/core/cart"
	"github.com/irsalhamdi/pos-kasir/core/product"
	"github.com/irsalhamdi/pos-kasir/core/report"
	"github.com/irsalhamdi/pos-kasir/core/transaction"
)

type errorBody struct {
	Error string `json:"error"`
}

func TestRequiresLogin(t *testing.T) {
	env := NewTestEnv(t)

	env.Expect(t, http.MethodGet, "/products", nil, http.StatusUnauthorized, nil)

	bad := map[string]string{"username": "admin", "password": "wrong"}
	env.Expect(t, http.MethodPost, "/auth/login", bad, http.StatusUnauthorized, nil)

	env.Login(t)
	env.Expect(t, http.MethodGet, "/products", nil, http.StatusOK, nil)

	env.Expect(t, http.MethodPost, "/auth/logout", nil, http.StatusNoContent, nil)
	env.Expect(t, http.MethodGet, "/products", nil, http.StatusUnauthorized, nil)
}

func TestLoginRateLimited(t *testing.T) {
	env := NewTestEnv(t)

	bad := map[string]string{"username": "admin", "password": "wrong"}
	for i := 0; i < 3; i++ {
		env.Expect(t, http.MethodPost, "/auth/login", bad, http.StatusUnauthorized, nil)
	}

	good := map[string]string{"username": "admin", "password": "admin123"}
	env.Expect(t, http.MethodPost, "/auth/login", good, http.StatusTooManyRequests, nil)
}

func TestSaleFlow(t *testing.T) {
	env := NewTestEnv(t)
	env.Login(t)

	var kaos product.Product
	np := product.ProductNew{Name: "Kaos", Price: 75000, Stock: map[string]int{"M": 10}}
	env.Expect(t, http.MethodPost, "/products", np, http.StatusCreated, &kaos)

	invalid := product.ProductNew{Name: "Rusak", Price: -1, Stock: map[string]int{"M": 1}}
	env.Expect(t, http.MethodPost, "/products", invalid, http.StatusBadRequest, nil)

	var view cart.View
	add := cart.ItemNew{ProductID: kaos.ID, Size: "M", Qty: 3}
	env.Expect(t, http.MethodPut, "/cart/items", add, http.StatusOK, &view)
	if view.Total != 225000 {
		t.Fatalf("expected cart total 225000, got %d", view.Total)
	}

	var eb errorBody
	tooMany := cart.ItemNew{ProductID: kaos.ID, Size: "M", Qty: 8}
	env.Expect(t, http.MethodPut, "/cart/items", tooMany, http.StatusUnprocessableEntity, &eb)
	if !strings.Contains(eb.Error, "7 remaining") {
		t.Fatalf("expected remaining capacity in %q", eb.Error)
	}

	var trx transaction.Transaction
	env.Expect(t, http.MethodPost, "/checkout", nil, http.StatusCreated, &trx)
	if trx.Total != 225000 {
		t.Fatalf("expected transaction total 225000, got %d", trx.Total)
	}

	env.Expect(t, http.MethodPost, "/checkout", nil, http.StatusUnprocessableEntity, nil)

	env.Expect(t, http.MethodGet, "/cart", nil, http.StatusOK, &view)
	if len(view.Items) != 0 || view.Total != 0 {
		t.Fatalf("cart not cleared: %+v", view)
	}

	var got product.Product
	env.Expect(t, http.MethodGet, path("/products/%d", kaos.ID), nil, http.StatusOK, &got)
	if got.Stock["M"] != 7 {
		t.Fatalf("expected 7 left, got %d", got.Stock["M"])
	}

	env.Expect(t, http.MethodPut, "/cart/items", tooMany, http.StatusUnprocessableEntity, nil)

	w := env.Expect(t, http.MethodGet, path("/transactions/%d/receipt", trx.ID), nil, http.StatusOK, nil)
	body, _ := io.ReadAll(w.Body)
	if !strings.Contains(string(body), "Rp 225.000") {
		t.Fatalf("receipt lacks the total:\n%s", body)
	}

	env.Expect(t, http.MethodGet, "/transactions/1", nil, http.StatusNotFound, nil)
}

func TestCartRemove(t *testing.T) {
	env := NewTestEnv(t)
	env.Login(t)

	var p product.Product
	np := product.ProductNew{Name: "Kemeja", Price: 150000, Stock: map[string]int{"L": 4, "XL": 1}}
	env.Expect(t, http.MethodPost, "/products", np, http.StatusCreated, &p)

	env.Expect(t, http.MethodPut, "/cart/items", cart.ItemNew{ProductID: p.ID, Size: "L", Qty: 1}, http.StatusOK, nil)
	env.Expect(t, http.MethodPut, "/cart/items", cart.ItemNew{ProductID: p.ID, Size: "XL", Qty: 1}, http.StatusOK, nil)
	env.Expect(t, http.MethodPut, "/cart/items", cart.ItemNew{ProductID: p.ID, Size: "S", Qty: 1}, http.StatusBadRequest, nil)
	env.Expect(t, http.MethodPut, "/cart/items", cart.ItemNew{ProductID: 99, Size: "L", Qty: 1}, http.StatusNotFound, nil)

	var view cart.View
	env.Expect(t, http.MethodDelete, path("/cart/items/%d/L", p.ID), nil, http.StatusOK, &view)

	want := cart.View{
		Items: []cart.Item{{ProductID: p.ID, Name: "Kemeja", Price: 150000, Size: "XL", Qty: 1}},
		Total: 150000,
	}
	if diff := cmp.Diff(want, view); diff != "" {
		t.Fatalf("cart mismatch (-want +got):\n%s", diff)
	}

	env.Expect(t, http.MethodDelete, "/cart", nil, http.StatusNoContent, nil)
	env.Expect(t, http.MethodPost, "/checkout", nil, http.StatusUnprocessableEntity, nil)
}

func TestReports(t *testing.T) {
	env := NewTestEnv(t)
	env.Login(t)

	var p product.Product
	np := product.ProductNew{Name: "Kaos, Polos", Price: 50000, Stock: map[string]int{"M": 10}}
	env.Expect(t, http.MethodPost, "/products", np, http.StatusCreated, &p)

	for i := 0; i < 2; i++ {
		env.Expect(t, http.MethodPut, "/cart/items", cart.ItemNew{ProductID: p.ID, Size: "M", Qty: i + 1}, http.StatusOK, nil)
		env.Expect(t, http.MethodPost, "/checkout", nil, http.StatusCreated, nil)
	}

	var sales report.Sales
	env.Expect(t, http.MethodGet, "/reports/sales?mode=all", nil, http.StatusOK, &sales)
	want := report.Summary{TotalSales: 150000, TransactionCount: 2, BestSelling: "Kaos, Polos"}
	if diff := cmp.Diff(want, sales.Summary); diff != "" {
		t.Fatalf("summary mismatch (-want +got):\n%s", diff)
	}
	if sales.Transactions[0].ID < sales.Transactions[1].ID {
		t.Fatal("transactions are not most recent first")
	}

	env.Expect(t, http.MethodGet, "/reports/sales?mode=range&start=2026-01-01", nil, http.StatusBadRequest, nil)
	env.Expect(t, http.MethodGet, "/reports/sales?mode=yearly&year=1999", nil, http.StatusOK, &sales)
	if sales.Summary.BestSelling != "N/A" || sales.Summary.TransactionCount != 0 {
		t.Fatalf("expected an empty summary, got %+v", sales.Summary)
	}

	w := env.Expect(t, http.MethodGet, "/reports/sales/export", nil, http.StatusOK, nil)
	if cd := w.Header.Get("Content-Disposition"); !strings.Contains(cd, "laporan-penjualan-") {
		t.Fatalf("unexpected content disposition %q", cd)
	}

	rows, err := csv.NewReader(w.Body).ReadAll()
	if err != nil {
		t.Fatalf("export is not valid csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header and 2 rows, got %d", len(rows))
	}
	if rows[1][2] != "Kaos, Polos" {
		t.Fatalf("expected the quoted product name, got %q", rows[1][2])
	}

	env.Expect(t, http.MethodGet, "/reports/sales/export?mode=yearly&year=1999", nil, http.StatusNotFound, nil)

	var d report.Dashboard
	env.Expect(t, http.MethodGet, "/dashboard", nil, http.StatusOK, &d)
	if d.ProductCount != 1 || len(d.Recent) != 2 {
		t.Fatalf("unexpected dashboard %+v", d)
	}
}

func TestBackup(t *testing.T) {
	env := NewTestEnv(t)
	env.Login(t)

	np := product.ProductNew{Name: "Jaket", Price: 300000, Stock: map[string]int{"L": 2}}
	env.Expect(t, http.MethodPost, "/products", np, http.StatusCreated, nil)

	w := env.Expect(t, http.MethodGet, "/backup", nil, http.StatusOK, nil)
	data, err := io.ReadAll(w.Body)
	if err != nil {
		t.Fatal(err)
	}

	var want backup.Backup
	env.Expect(t, http.MethodGet, "/backup", nil, http.StatusOK, &want)

	env.Expect(t, http.MethodPost, "/backup", []byte(`{"products": {}}`), http.StatusBadRequest, nil)

	var after backup.Backup
	env.Expect(t, http.MethodGet, "/backup", nil, http.StatusOK, &after)
	if diff := cmp.Diff(want, after); diff != "" {
		t.Fatalf("failed import changed the store (-want +got):\n%s", diff)
	}

	other := NewTestEnv(t)
	other.Login(t)
	other.Expect(t, http.MethodPost, "/backup", data, http.StatusNoContent, nil)

	var restored backup.Backup
	other.Expect(t, http.MethodGet, "/backup", nil, http.StatusOK, &restored)
	if diff := cmp.Diff(want, restored); diff != "" {
		t.Fatalf("restored state mismatch (-want +got):\n%s", diff)
	}
}

func TestProfile(t *testing.T) {
	env := NewTestEnv(t)
	env.Login(t)

	up := map[string]string{"currentPassword": "admin123", "username": "kasir", "newPassword": "rahasia", "confirmPassword": "rahasia"}
	env.Expect(t, http.MethodPut, "/users/current", up, http.StatusNoContent, nil)

	var cur struct {
		Username string `json:"username"`
	}
	env.Expect(t, http.MethodGet, "/users/current", nil, http.StatusOK, &cur)
	if cur.Username != "kasir" {
		t.Fatalf("expected kasir, got %s", cur.Username)
	}

	up["currentPassword"] = "admin123"
	env.Expect(t, http.MethodPut, "/users/current", up, http.StatusUnauthorized, nil)

	env.Expect(t, http.MethodPost, "/auth/logout", nil, http.StatusNoContent, nil)
	creds := map[string]string{"username": "kasir", "password": "rahasia"}
	env.Expect(t, http.MethodPost, "/auth/login", creds, http.StatusNoContent, nil)
}
