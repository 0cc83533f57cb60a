package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	pb "syntra-backoffice/internal/rpc/backoffice"
	"syntra-backoffice/internal/validation"
)

type SupplierRequest struct {
	Name        string `json:"name" binding:"required"`
	ContactName string `json:"contact_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	TaxID       string `json:"tax_id"`
	IsActive    *bool  `json:"is_active,omitempty"`
}

func (r SupplierRequest) form() validation.SupplierForm {
	return validation.SupplierForm{
		Name:        r.Name,
		ContactName: r.ContactName,
		Email:       r.Email,
		Phone:       r.Phone,
		Address:     r.Address,
		TaxID:       r.TaxID,
	}
}

type CreateProductRequest struct {
	Code         string          `json:"code" binding:"required"`
	Name         string          `json:"name" binding:"required"`
	SalePrice    decimal.Decimal `json:"sale_price"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	UnitsPerPack int32           `json:"units_per_pack"`
	Stock        decimal.Decimal `json:"stock"`
}

type PurchaseLineRequest struct {
	ProductID int64           `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	ByPack    bool            `json:"by_pack"`
}

type CreatePurchaseRequest struct {
	SupplierID int64                 `json:"supplier_id" binding:"required"`
	BranchID   int64                 `json:"branch_id" binding:"required"`
	Notes      string                `json:"notes"`
	Items      []PurchaseLineRequest `json:"items" binding:"required,min=1,dive"`
}

type SearchQuery struct {
	PageQuery
	Search   string `form:"search"`
	IsActive *bool  `form:"is_active"`
}

type ListPurchasesQuery struct {
	PageQuery
	BranchID   int64 `form:"branch_id"`
	SupplierID int64 `form:"supplier_id"`
}

// --- Suppliers ---

func (h *BackOfficeHTTPHandler) CreateSupplier(c *gin.Context) {
	var req SupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format: "+err.Error()))
		return
	}

	ctx, cancel := callContext(c)
	defer cancel()

	resp, err := h.client.CreateSupplier(ctx, &pb.CreateSupplierRequest{SupplierForm: req.form()})
	if handleGRPCError(c, err) {
		return
	}

	c.JSON(http.StatusCreated, successResponse("Supplier created successfully", resp.Supplier))
}

func (h *BackOfficeHTTPHandler) UpdateSupplier(c *gin.Context) {
	supplierID, ok := parseID(c, "id", "supplier")
	if !ok {
		return
	}

	var req SupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format: "+err.Error()))
		return
	}

	ctx, cancel := callContext(c)
	defer cancel()

	resp, err := h.client.UpdateSupplier(ctx, &pb.UpdateSupplierRequest{
		ID:           supplierID,
		SupplierForm: req.form(),
		IsActive:     req.IsActive,
	})
	if handleGRPCError(c, err) {
		return
	}

	c.JSON(http.StatusOK, successResponse("Supplier updated successfully", resp.Supplier))
}

func (h *BackOfficeHTTPHandler) GetSupplier(c *gin.Context) {
	supplierID, ok := parseID(c, "id", "supplier")
	if !ok {
		return
	}

	ctx, cancel := callContext(c)
	defer cancel()

	resp, err := h.client.GetSupplier(ctx, &pb.IDRequest{ID: supplierID})
	if handleGRPCError(c, err) {
		return
	}

	c.JSON(http.StatusOK, successResponse("Supplier retrieved successfully", resp.Supplier))
}

func (h *BackOfficeHTTPHandler) ListSuppliers(c *gin.Context) {
	var query SearchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid query parameters: "+err.Error()))
		return
	}

	ctx, cancel := callContext(c)
	defer cancel()

	resp, err := h.client.ListSuppliers(ctx, &pb.ListSuppliersRequest{
		Search:     query.Search,
		Active:     query.IsActive,
		Pagination: query.pagination(),
	})
	if handleGRPCError(c, err) {
		return
	}

	c.JSON(http.StatusOK, successWithMetaResponse("Suppliers retrieved successfully", resp.Suppliers, resp.PageInfo))
}

func (h *BackOfficeHTTPHandler) DeleteSupplier(c *gin.Context) {
	supplierID, ok := parseID(c, "id", "supplier")
	if !ok {
		return
	}

	ctx, cancel := callContext(c)
	defer cancel()

	resp, err := h.client.DeleteSupplier(ctx, &pb.IDRequest{ID: supplierID})
	if handleGRPCError(c, err) {
		return
	}

	c.JSON(http.StatusOK, successResponse("Supplier deleted successfully", resp))
}

// --- Products ---

func (h *BackOfficeHTTPHandler) CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format: "+err.Error()))
		return
	}

	ctx, cancel := callContext(c)
	defer cancel()

	resp, err := h.client.CreateProduct(ctx, &pb.CreateProductRequest{
		Code:         req.Code,
		Name:         req.Name,
		SalePrice:    req.SalePrice,
		CostPrice:    req.CostPrice,
		UnitsPerPack: req.UnitsPerPack,
		Stock:        req.Stock,
	})
	if handleGRPCError(c, err) {
		return
	}

	c.JSON(http.StatusCreated, successResponse("Product created successfully", resp.Product))
}

func (h *BackOfficeHTTPHandler) ListProducts(c *gin.Context) {
	var query SearchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid query parameters: "+err.Error()))
		return
	}

	ctx, cancel := callContext(c)
	defer cancel()

	resp, err := h.client.ListProducts(ctx, &pb.ListProductsRequest{
		Search:     query.Search,
		Active:     query.IsActive,
		Pagination: query.pagination(),
	})
	if handleGRPCError(c, err) {
		return
	}

	c.JSON(http.StatusOK, successWithMetaResponse("Products retrieved successfully", resp.Products, resp.PageInfo))
}

// --- Purchases ---

func (h *BackOfficeHTTPHandler) CreatePurchase(c *gin.Context) {
	var req CreatePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format: "+err.Error()))
		return
	}

	lines := make([]pb.PurchaseLine, len(req.Items))
	for i, item := range req.Items {
		lines[i] = pb.PurchaseLine{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitCost:  item.UnitCost,
			ByPack:    item.ByPack,
		}
	}

	ctx, cancel := callContext(c)
	defer cancel()

	resp, err := h.client.CreatePurchase(ctx, &pb.CreatePurchaseRequest{
		SupplierID: req.SupplierID,
		BranchID:   req.BranchID,
		Notes:      req.Notes,
		Items:      lines,
	})
	if handleGRPCError(c, err) {
		return
	}

	c.JSON(http.StatusCreated, successResponse("Purchase recorded successfully", resp.Purchase))
}

func (h *BackOfficeHTTPHandler) GetPurchase(c *gin.Context) {
	purchaseID, ok := parseID(c, "id", "purchase")
	if !ok {
		return
	}

	ctx, cancel := callContext(c)
	defer cancel()

	resp, err := h.client.GetPurchase(ctx, &pb.IDRequest{ID: purchaseID})
	if handleGRPCError(c, err) {
		return
	}

	c.JSON(http.StatusOK, successResponse("Purchase retrieved successfully", resp.Purchase))
}

func (h *BackOfficeHTTPHandler) ListPurchases(c *gin.Context) {
	var query ListPurchasesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid query parameters: "+err.Error()))
		return
	}

	ctx, cancel := callContext(c)
	defer cancel()

	resp, err := h.client.ListPurchases(ctx, &pb.ListPurchasesRequest{
		BranchID:   query.BranchID,
		SupplierID: query.SupplierID,
		Pagination: query.pagination(),
	})
	if handleGRPCError(c, err) {
		return
	}

	c.JSON(http.StatusOK, successWithMetaResponse("Purchases retrieved successfully", resp.Purchases, resp.PageInfo))
}
