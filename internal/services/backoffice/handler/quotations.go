package handler

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"gorm.io/gorm"

	"syntra-backoffice/internal/database/models"
	"syntra-backoffice/internal/pricing"
	"syntra-backoffice/internal/printout"
	pb "syntra-backoffice/internal/rpc/backoffice"
	"syntra-backoffice/internal/session"
)

func validSaleMethod(method string) bool {
	for _, m := range models.PaymentMethods {
		if m == method {
			return true
		}
	}
	return false
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func (s *BackOfficeHandler) loadQuotation(ctx context.Context, id int64) (*models.Quotation, error) {
	var quotation models.Quotation
	if err := s.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Customer").
		Preload("Branch").
		First(&quotation, id).Error; err != nil {
		return nil, lookupError(err, "quotation", id)
	}
	return &quotation, nil
}

func (s *BackOfficeHandler) CreateQuotation(ctx context.Context, req *pb.CreateQuotationRequest) (*pb.QuotationResponse, error) {
	sess, err := session.RequireBranch(ctx, req.BranchID)
	if err != nil {
		return nil, err
	}
	if req.CustomerID <= 0 {
		return nil, status.Error(codes.InvalidArgument, "customer id is required")
	}
	if req.ValidUntil != nil && req.ValidUntil.Before(startOfDay(s.now())) {
		return nil, status.Error(codes.InvalidArgument, "valid_until: must not be in the past")
	}

	db := s.db.WithContext(ctx)
	var customer models.Customer
	if err := db.First(&customer, req.CustomerID).Error; err != nil {
		return nil, lookupError(err, "customer", req.CustomerID)
	}
	if !customer.IsActive {
		return nil, status.Errorf(codes.FailedPrecondition, "customer %s is inactive", customer.Name)
	}
	if _, err := loadActiveBranch(db, req.BranchID); err != nil {
		return nil, err
	}

	lines := make([]pricing.Line, len(req.Items))
	items := make([]models.QuotationItem, len(req.Items))
	for i, in := range req.Items {
		description := strings.TrimSpace(in.Description)
		if in.ProductID != nil {
			var product models.Product
			if err := db.First(&product, *in.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, status.Errorf(codes.InvalidArgument, "item %d: product %d not found", i+1, *in.ProductID)
				}
				return nil, internalError("load product", err)
			}
			if description == "" {
				description = product.Name
			}
		}
		if description == "" {
			return nil, status.Errorf(codes.InvalidArgument, "item %d: description is required", i+1)
		}

		if err := pricing.ValidateScale("quantity", in.Quantity, pricing.QuantityScale); err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "item %d: %v", i+1, err)
		}
		if err := pricing.ValidateScale("unit price", in.UnitPrice, pricing.PriceScale); err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "item %d: %v", i+1, err)
		}

		lines[i] = pricing.Line{Quantity: in.Quantity, UnitPrice: in.UnitPrice}
		items[i] = models.QuotationItem{
			ProductID:   in.ProductID,
			Description: description,
			Quantity:    in.Quantity,
			UnitPrice:   in.UnitPrice,
			Subtotal:    pricing.LineSubtotal(lines[i]),
		}
	}
	if err := pricing.ValidateLines(lines); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if err := pricing.ValidateScale("discount", req.Discount, pricing.PriceScale); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if err := pricing.ValidateScale("tax", req.Tax, pricing.PriceScale); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	totals, err := pricing.DocumentTotal(lines, req.Discount, req.Tax)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	// The header subtotal is the sum of the stored line subtotals.
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Subtotal)
	}

	quotation := models.Quotation{
		DocumentNumber: s.documentNumber("QT"),
		CustomerID:     customer.ID,
		BranchID:       req.BranchID,
		CreatedBy:      sess.UserID,
		Subtotal:       subtotal,
		Discount:       totals.Discount,
		Tax:            totals.Tax,
		Total:          totals.Total,
		ValidUntil:     req.ValidUntil,
		Status:         models.QuotationPending,
		Notes:          strings.TrimSpace(req.Notes),
		Items:          items,
	}
	// Header and items are written in one statement transaction.
	if err := db.Create(&quotation).Error; err != nil {
		return nil, internalError("create quotation", err)
	}

	loaded, err := s.loadQuotation(ctx, quotation.ID)
	if err != nil {
		return nil, err
	}

	s.emit(ctx, Event{
		EventType:      EventQuotationCreated,
		EntityID:       loaded.ID,
		DocumentNumber: loaded.DocumentNumber,
		UserID:         sess.UserID,
		BranchID:       loaded.BranchID,
		CustomerID:     loaded.CustomerID,
		Amount:         loaded.Total,
	})

	return &pb.QuotationResponse{Quotation: quotationToPB(*loaded)}, nil
}

func (s *BackOfficeHandler) GetQuotation(ctx context.Context, req *pb.IDRequest) (*pb.QuotationResponse, error) {
	sess, err := session.Require(ctx)
	if err != nil {
		return nil, err
	}
	if req.ID <= 0 {
		return nil, status.Error(codes.InvalidArgument, "quotation id is required")
	}

	quotation, err := s.loadQuotation(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if !sess.CanAccessBranch(quotation.BranchID) {
		return nil, status.Errorf(codes.PermissionDenied, "not assigned to branch %d", quotation.BranchID)
	}
	return &pb.QuotationResponse{Quotation: quotationToPB(*quotation)}, nil
}

func (s *BackOfficeHandler) ListQuotations(ctx context.Context, req *pb.ListQuotationsRequest) (*pb.ListQuotationsResponse, error) {
	sess, err := session.Require(ctx)
	if err != nil {
		return nil, err
	}

	query, err := scopeBranches(s.db.WithContext(ctx).Model(&models.Quotation{}), sess, req.BranchID)
	if err != nil {
		return nil, err
	}
	if req.CustomerID > 0 {
		query = query.Where("customer_id = ?", req.CustomerID)
	}
	if req.Status != "" {
		st := strings.ToLower(req.Status)
		switch st {
		case models.QuotationPending, models.QuotationConverted, models.QuotationVoided:
			query = query.Where("status = ?", st)
		default:
			return nil, status.Error(codes.InvalidArgument, "status: must be one of pending, converted, voided")
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, internalError("count quotations", err)
	}

	page, size, offset := paginate(req.Pagination)
	var quotations []models.Quotation
	if err := query.Preload("Customer").Preload("Branch").
		Order("created_at DESC").Order("id DESC").
		Offset(offset).Limit(int(size)).
		Find(&quotations).Error; err != nil {
		return nil, internalError("list quotations", err)
	}

	out := make([]*pb.Quotation, len(quotations))
	for i, q := range quotations {
		out[i] = quotationToPB(q)
	}
	return &pb.ListQuotationsResponse{
		Quotations: out,
		PageInfo:   pb.PageInfo{Page: page, PageSize: size, Total: total},
	}, nil
}

// ConvertQuotation turns a pending quotation into a sale. The sale, its
// items, the stock movement, the customer balance for credit sales and the
// status change commit together or not at all.
func (s *BackOfficeHandler) ConvertQuotation(ctx context.Context, req *pb.ConvertQuotationRequest) (*pb.ConvertQuotationResponse, error) {
	sess, err := session.Require(ctx)
	if err != nil {
		return nil, err
	}
	if req.ID <= 0 {
		return nil, status.Error(codes.InvalidArgument, "quotation id is required")
	}
	method := strings.ToLower(strings.TrimSpace(req.PaymentMethod))
	if !validSaleMethod(method) {
		return nil, status.Error(codes.InvalidArgument, "payment_method: must be one of cash, card, transfer, credit")
	}

	tx := s.db.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	sale, quotation, err := s.convertQuotationTx(tx, sess, req.ID, method)
	if err != nil {
		rollback(tx)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, internalError("commit conversion", err)
	}

	if sale.IsCredit {
		s.InvalidateBackOfficeCaches(ctx, quotation.CustomerID)
	}

	loaded, err := s.loadQuotation(ctx, quotation.ID)
	if err != nil {
		return nil, err
	}
	var loadedSale models.Sale
	if err := s.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		First(&loadedSale, sale.ID).Error; err != nil {
		return nil, internalError("reload sale", err)
	}

	s.emit(ctx, Event{
		EventType:      EventQuotationConverted,
		EntityID:       loaded.ID,
		DocumentNumber: loaded.DocumentNumber,
		UserID:         sess.UserID,
		BranchID:       loaded.BranchID,
		CustomerID:     loaded.CustomerID,
		Amount:         loadedSale.Total,
		Data:           saleToPB(loadedSale),
	})

	return &pb.ConvertQuotationResponse{
		Quotation: quotationToPB(*loaded),
		Sale:      saleToPB(loadedSale),
	}, nil
}

func (s *BackOfficeHandler) convertQuotationTx(tx *gorm.DB, sess session.Session, id int64, method string) (*models.Sale, *models.Quotation, error) {
	var quotation models.Quotation
	if err := tx.Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		First(&quotation, id).Error; err != nil {
		return nil, nil, lookupError(err, "quotation", id)
	}
	if !sess.CanAccessBranch(quotation.BranchID) {
		return nil, nil, status.Errorf(codes.PermissionDenied, "not assigned to branch %d", quotation.BranchID)
	}
	if quotation.Status != models.QuotationPending {
		return nil, nil, status.Errorf(codes.FailedPrecondition,
			"quotation %s is %s and cannot be converted", quotation.DocumentNumber, quotation.Status)
	}
	if len(quotation.Items) == 0 {
		return nil, nil, status.Errorf(codes.FailedPrecondition,
			"quotation %s has no items and cannot be converted", quotation.DocumentNumber)
	}

	customerID := quotation.CustomerID
	quotationID := quotation.ID
	items := make([]models.SaleItem, len(quotation.Items))
	for i, qi := range quotation.Items {
		items[i] = models.SaleItem{
			ProductID:   qi.ProductID,
			Description: qi.Description,
			Quantity:    qi.Quantity,
			UnitPrice:   qi.UnitPrice,
			Subtotal:    qi.Subtotal,
		}
	}

	sale := models.Sale{
		DocumentNumber: s.documentNumber("SL"),
		CustomerID:     &customerID,
		BranchID:       quotation.BranchID,
		CashierID:      sess.UserID,
		QuotationID:    &quotationID,
		PaymentMethod:  method,
		IsCredit:       method == models.PaymentCredit,
		Subtotal:       quotation.Subtotal,
		Discount:       quotation.Discount,
		Tax:            quotation.Tax,
		Total:          quotation.Total,
		CreatedAt:      s.now(),
		Items:          items,
	}
	if err := tx.Create(&sale).Error; err != nil {
		return nil, nil, internalError("create sale", err)
	}

	for _, item := range items {
		if item.ProductID == nil {
			continue
		}
		res := tx.Model(&models.Product{}).Where("id = ?", *item.ProductID).Updates(map[string]interface{}{
			"stock":      gorm.Expr("stock - ?", item.Quantity),
			"updated_at": s.now(),
		})
		if res.Error != nil {
			return nil, nil, internalError("update stock", res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, nil, status.Errorf(codes.FailedPrecondition, "product %d no longer exists", *item.ProductID)
		}
	}

	if sale.IsCredit {
		if err := chargeCustomer(tx, customerID, sale.Total, s.now()); err != nil {
			return nil, nil, err
		}
	}

	res := tx.Model(&models.Quotation{}).
		Where("id = ? AND status = ?", quotation.ID, models.QuotationPending).
		Updates(map[string]interface{}{
			"status":     models.QuotationConverted,
			"sale_id":    sale.ID,
			"updated_at": s.now(),
		})
	if res.Error != nil {
		return nil, nil, internalError("update quotation", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, nil, status.Errorf(codes.FailedPrecondition,
			"quotation %s was changed by another request", quotation.DocumentNumber)
	}

	return &sale, &quotation, nil
}

// chargeCustomer raises the balance of an active customer by amount. A
// non-zero credit limit caps the resulting balance.
func chargeCustomer(tx *gorm.DB, customerID int64, amount decimal.Decimal, now time.Time) error {
	var customer models.Customer
	if err := tx.First(&customer, customerID).Error; err != nil {
		return lookupError(err, "customer", customerID)
	}
	if !customer.IsActive {
		return status.Errorf(codes.FailedPrecondition, "customer %s is inactive and cannot buy on credit", customer.Name)
	}

	res := tx.Model(&models.Customer{}).
		Where("id = ? AND (credit_limit = 0 OR current_balance + ? <= credit_limit)", customerID, amount).
		Updates(map[string]interface{}{
			"current_balance": gorm.Expr("current_balance + ?", amount),
			"updated_at":      now,
		})
	if res.Error != nil {
		return internalError("update balance", res.Error)
	}
	if res.RowsAffected == 0 {
		return status.Errorf(codes.FailedPrecondition,
			"credit sale of %s exceeds the credit limit of customer %s", amount.StringFixed(2), customer.Name)
	}
	return nil
}

func (s *BackOfficeHandler) VoidQuotation(ctx context.Context, req *pb.VoidQuotationRequest) (*pb.QuotationResponse, error) {
	sess, err := session.Require(ctx)
	if err != nil {
		return nil, err
	}
	if req.ID <= 0 {
		return nil, status.Error(codes.InvalidArgument, "quotation id is required")
	}
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return nil, status.Error(codes.InvalidArgument, "reason: is required")
	}

	db := s.db.WithContext(ctx)
	var quotation models.Quotation
	if err := db.First(&quotation, req.ID).Error; err != nil {
		return nil, lookupError(err, "quotation", req.ID)
	}
	if !sess.CanAccessBranch(quotation.BranchID) {
		return nil, status.Errorf(codes.PermissionDenied, "not assigned to branch %d", quotation.BranchID)
	}
	if quotation.Status != models.QuotationPending {
		return nil, status.Errorf(codes.FailedPrecondition,
			"quotation %s is %s and cannot be voided", quotation.DocumentNumber, quotation.Status)
	}

	res := db.Model(&models.Quotation{}).
		Where("id = ? AND status = ?", quotation.ID, models.QuotationPending).
		Updates(map[string]interface{}{
			"status":      models.QuotationVoided,
			"void_reason": reason,
			"updated_at":  s.now(),
		})
	if res.Error != nil {
		return nil, internalError("void quotation", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, status.Errorf(codes.FailedPrecondition,
			"quotation %s was changed by another request", quotation.DocumentNumber)
	}

	loaded, err := s.loadQuotation(ctx, quotation.ID)
	if err != nil {
		return nil, err
	}

	s.emit(ctx, Event{
		EventType:      EventQuotationVoided,
		EntityID:       loaded.ID,
		DocumentNumber: loaded.DocumentNumber,
		UserID:         sess.UserID,
		BranchID:       loaded.BranchID,
		CustomerID:     loaded.CustomerID,
		Amount:         loaded.Total,
	})

	return &pb.QuotationResponse{Quotation: quotationToPB(*loaded)}, nil
}

func statusLabel(st string) string {
	if st == "" {
		return st
	}
	return strings.ToUpper(st[:1]) + st[1:]
}

// RenderQuotation returns the printable HTML document of a quotation.
func (s *BackOfficeHandler) RenderQuotation(ctx context.Context, req *pb.IDRequest) (*pb.FileResponse, error) {
	sess, err := session.Require(ctx)
	if err != nil {
		return nil, err
	}
	if req.ID <= 0 {
		return nil, status.Error(codes.InvalidArgument, "quotation id is required")
	}

	quotation, err := s.loadQuotation(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if !sess.CanAccessBranch(quotation.BranchID) {
		return nil, status.Errorf(codes.PermissionDenied, "not assigned to branch %d", quotation.BranchID)
	}

	doc := printout.Quotation{
		Number:     quotation.DocumentNumber,
		Status:     statusLabel(quotation.Status),
		CreatedAt:  quotation.CreatedAt,
		ValidUntil: quotation.ValidUntil,
		Notes:      quotation.Notes,
		Subtotal:   quotation.Subtotal,
		Discount:   quotation.Discount,
		Tax:        quotation.Tax,
		Total:      quotation.Total,
	}
	if quotation.Customer != nil {
		doc.CustomerName = quotation.Customer.Name
	}
	if quotation.Branch != nil {
		doc.BranchName = quotation.Branch.Name
	}
	for _, item := range quotation.Items {
		doc.Items = append(doc.Items, printout.Line{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Subtotal:    item.Subtotal,
		})
	}

	content, err := printout.RenderQuotation(doc)
	if err != nil {
		return nil, internalError("render quotation", err)
	}
	return &pb.FileResponse{
		Filename:    printout.QuotationFilename(quotation.DocumentNumber),
		ContentType: printout.ContentTypeHTML,
		Content:     content,
	}, nil
}
