package httphandler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/shopspring/decimal"
)

// GET /products?category=&min_price=&max_price=&sort= (200 OK, 400 Bad request)
// GET /products/{id} (200 OK, 404 Not found)
// POST /admin/products JSON ProductRequest (200 OK, 400, 403)
// PUT /admin/products/{id} JSON ProductRequest (200 OK, 400, 403, 404)
// DELETE /admin/products/{id} (200 OK, 403, 404)

type ProductsHandler struct {
	catalog port.Catalog
}

func RegisterProducts(r chi.Router, catalog port.Catalog) {
	h := ProductsHandler{catalog}
	r.Get("/products", h.ListProducts)
	r.Get("/products/{id}", h.GetProduct)
	r.Post("/admin/products", h.PostProduct)
	r.Put("/admin/products/{id}", h.PutProduct)
	r.Delete("/admin/products/{id}", h.DeleteProduct)
}

func (h ProductsHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.ListProducts"
	log := slog.With("op", op)

	f, sortKey, err := h.parseListQuery(r)
	if err != nil {
		writeError(w, log, err)
		return
	}

	ps, err := h.catalog.ListProducts(r.Context(), f, sortKey)
	if err != nil {
		writeError(w, log, err)
		return
	}

	writeJSON(w, http.StatusOK, ProductsResponse{Products: toProductDTOs(ps)})
}

func (h ProductsHandler) parseListQuery(
	r *http.Request,
) (f domain.ProductFilter, sortKey domain.SortKey, err error) {
	q := r.URL.Query()

	f.Category = q.Get("category")

	if f.MinPrice, err = priceParam(q.Get("min_price"), "min_price"); err != nil {
		return f, "", err
	}
	if f.MaxPrice, err = priceParam(q.Get("max_price"), "max_price"); err != nil {
		return f, "", err
	}

	sortKey, err = domain.ParseSortKey(q.Get("sort"))
	return f, sortKey, err
}

func priceParam(v, name string) (*decimal.Decimal, error) {
	if v == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil || d.IsNegative() {
		return nil, invalid("%s must be a non-negative decimal", name)
	}
	return &d, nil
}

func (h ProductsHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.GetProduct"
	log := slog.With("op", op)

	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, log, err)
		return
	}

	p, err := h.catalog.Product(r.Context(), id)
	if err != nil {
		writeError(w, log, err)
		return
	}

	writeJSON(w, http.StatusOK, toProductDTO(p))
}

func (h ProductsHandler) PostProduct(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.PostProduct"
	id := caller(r)
	log := slog.With("op", op, "username", id.Username)

	d, err := h.decodeDraft(r)
	if err != nil {
		writeError(w, log, err)
		return
	}

	p, err := h.catalog.AddProduct(r.Context(), id.Role, d)
	if err != nil {
		writeError(w, log, err)
		return
	}

	writeJSON(w, http.StatusOK, ProductResponse{
		Message: "product added", Product: toProductDTO(p),
	})
}

func (h ProductsHandler) PutProduct(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.PutProduct"
	id := caller(r)
	log := slog.With("op", op, "username", id.Username)

	productID, err := idParam(r, "id")
	if err != nil {
		writeError(w, log, err)
		return
	}

	d, err := h.decodeDraft(r)
	if err != nil {
		writeError(w, log, err)
		return
	}

	p, err := h.catalog.UpdateProduct(r.Context(), id.Role, productID, d)
	if err != nil {
		writeError(w, log, err)
		return
	}

	writeJSON(w, http.StatusOK, ProductResponse{
		Message: "product updated", Product: toProductDTO(p),
	})
}

func (h ProductsHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.DeleteProduct"
	id := caller(r)
	log := slog.With("op", op, "username", id.Username)

	productID, err := idParam(r, "id")
	if err != nil {
		writeError(w, log, err)
		return
	}

	p, err := h.catalog.DeleteProduct(r.Context(), id.Role, productID)
	if err != nil {
		writeError(w, log, err)
		return
	}

	writeJSON(w, http.StatusOK, ProductResponse{
		Message: "product deleted", Product: toProductDTO(p),
	})
}

func (h ProductsHandler) decodeDraft(r *http.Request) (domain.ProductDraft, error) {
	var req ProductRequest
	if err := decodeJSON(r, &req); err != nil {
		return domain.ProductDraft{}, err
	}

	if req.Name == "" {
		return domain.ProductDraft{}, invalid("name is required")
	}
	if req.Price == nil {
		return domain.ProductDraft{}, invalid("price is required")
	}
	if req.Price.IsNegative() {
		return domain.ProductDraft{}, invalid("price must be non-negative")
	}

	return domain.ProductDraft{
		Name:        req.Name,
		Price:       *req.Price,
		Category:    req.Category,
		Description: req.Description,
	}, nil
}
