package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	pb "syntra-backoffice/internal/rpc/backoffice"
	"syntra-backoffice/internal/validation"
)

type CustomerRequest struct {
	Name        string          `json:"name" binding:"required"`
	Email       string          `json:"email"`
	Phone       string          `json:"phone"`
	Address     string          `json:"address"`
	TaxID       string          `json:"tax_id"`
	CreditLimit decimal.Decimal `json:"credit_limit"`
	IsActive    *bool           `json:"is_active,omitempty"`
}

func (r CustomerRequest) form() validation.CustomerForm {
	return validation.CustomerForm{
		Name:    r.Name,
		Email:   r.Email,
		Phone:   r.Phone,
		Address: r.Address,
		TaxID:   r.TaxID,
	}
}

type RecordPaymentRequest struct {
	Amount         decimal.Decimal `json:"amount"`
	Method         string          `json:"method" binding:"required"`
	Notes          string          `json:"notes"`
	IdempotencyKey string          `json:"idempotency_key"`
}

type ListCustomersQuery struct {
	PageQuery
	Search   string `form:"search"`
	IsActive *bool  `form:"is_active"`
}

func (h *BackOfficeHTTPHandler) CreateCustomer(c *gin.Context) {
	var req CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format: "+err.Error()))
		return
	}

	ctx, cancel := callContext(c)
	defer cancel()

	resp, err := h.client.CreateCustomer(ctx, &pb.CreateCustomerRequest{
		CustomerForm: req.form(),
		CreditLimit:  req.CreditLimit,
	})
	if handleGRPCError(c, err) {
		return
	}

	c.JSON(http.StatusCreated, successResponse("Customer created successfully", resp.Customer))
}

func (h *BackOfficeHTTPHandler) UpdateCustomer(c *gin.Context) {
	customerID, ok := parseID(c, "id", "customer")
	if !ok {
		return
	}

	var req CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format: "+err.Error()))
		return
	}

	ctx, cancel := callContext(c)
	defer cancel()

	resp, err := h.client.UpdateCustomer(ctx, &pb.UpdateCustomerRequest{
		ID:           customerID,
		CustomerForm: req.form(),
		CreditLimit:  req.CreditLimit,
		IsActive:     req.IsActive,
	})
	if handleGRPCError(c, err) {
		return
	}

	c.JSON(http.StatusOK, successResponse("Customer updated successfully", resp.Customer))
}

func (h *BackOfficeHTTPHandler) GetCustomer(c *gin.Context) {
	customerID, ok := parseID(c, "id", "customer")
	if !ok {
		return
	}

	ctx, cancel := callContext(c)
	defer cancel()

	resp, err := h.client.GetCustomer(ctx, &pb.IDRequest{ID: customerID})
	if handleGRPCError(c, err) {
		return
	}

	c.JSON(http.StatusOK, successResponse("Customer retrieved successfully", resp.Customer))
}

func (h *BackOfficeHTTPHandler) ListCustomers(c *gin.Context) {
	var query ListCustomersQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid query parameters: "+err.Error()))
		return
	}

	ctx, cancel := callContext(c)
	defer cancel()

	resp, err := h.client.ListCustomers(ctx, &pb.ListCustomersRequest{
		Search:     query.Search,
		Active:     query.IsActive,
		Pagination: query.pagination(),
	})
	if handleGRPCError(c, err) {
		return
	}

	c.JSON(http.StatusOK, successWithMetaResponse("Customers retrieved successfully", resp.Customers, resp.PageInfo))
}

func (h *BackOfficeHTTPHandler) DeleteCustomer(c *gin.Context) {
	customerID, ok := parseID(c, "id", "customer")
	if !ok {
		return
	}

	ctx, cancel := callContext(c)
	defer cancel()

	resp, err := h.client.DeleteCustomer(ctx, &pb.IDRequest{ID: customerID})
	if handleGRPCError(c, err) {
		return
	}

	c.JSON(http.StatusOK, successResponse("Customer deleted successfully", resp))
}

// ExportCustomers streams the filtered customer list as a CSV attachment.
func (h *BackOfficeHTTPHandler) ExportCustomers(c *gin.Context) {
	var query ListCustomersQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid query parameters: "+err.Error()))
		return
	}

	ctx, cancel := callContext(c)
	defer cancel()

	file, err := h.client.ExportCustomers(ctx, &pb.ExportCustomersRequest{Search: query.Search, Active: query.IsActive})
	if handleGRPCError(c, err) {
		return
	}

	sendFile(c, file)
}

// RecordPayment accepts the idempotency key in the body or in the
// Idempotency-Key header; the body wins.
func (h *BackOfficeHTTPHandler) RecordPayment(c *gin.Context) {
	customerID, ok := parseID(c, "id", "customer")
	if !ok {
		return
	}

	var req RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format: "+err.Error()))
		return
	}
	key := req.IdempotencyKey
	if key == "" {
		key = c.GetHeader("Idempotency-Key")
	}

	ctx, cancel := callContext(c)
	defer cancel()

	resp, err := h.client.RecordPayment(ctx, &pb.RecordPaymentRequest{
		CustomerID:     customerID,
		Amount:         req.Amount,
		Method:         req.Method,
		Notes:          req.Notes,
		IdempotencyKey: key,
	})
	if handleGRPCError(c, err) {
		return
	}

	if resp.Replayed {
		c.JSON(http.StatusOK, successResponse("Payment already recorded", resp))
		return
	}
	c.JSON(http.StatusCreated, successResponse("Payment recorded successfully", resp))
}

func (h *BackOfficeHTTPHandler) GetCustomerLedger(c *gin.Context) {
	customerID, ok := parseID(c, "id", "customer")
	if !ok {
		return
	}

	ctx, cancel := callContext(c)
	defer cancel()

	resp, err := h.client.GetCustomerLedger(ctx, &pb.IDRequest{ID: customerID})
	if handleGRPCError(c, err) {
		return
	}

	c.JSON(http.StatusOK, successResponse("Customer ledger retrieved successfully", resp))
}
