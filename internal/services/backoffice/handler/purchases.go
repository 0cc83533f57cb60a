package handler

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"gorm.io/gorm"

	"syntra-backoffice/internal/database/models"
	"syntra-backoffice/internal/pricing"
	pb "syntra-backoffice/internal/rpc/backoffice"
	"syntra-backoffice/internal/session"
)

// scopeBranches restricts a branch-scoped query to what the session may see.
func scopeBranches(query *gorm.DB, sess session.Session, branchID int64) (*gorm.DB, error) {
	if branchID > 0 {
		if !sess.CanAccessBranch(branchID) {
			return nil, status.Errorf(codes.PermissionDenied, "not assigned to branch %d", branchID)
		}
		return query.Where("branch_id = ?", branchID), nil
	}
	if sess.IsAdmin() {
		return query, nil
	}
	return query.Where("branch_id IN ?", sess.BranchIDs), nil
}

func loadActiveBranch(db *gorm.DB, id int64) (*models.Branch, error) {
	var branch models.Branch
	if err := db.First(&branch, id).Error; err != nil {
		return nil, lookupError(err, "branch", id)
	}
	if !branch.IsActive {
		return nil, status.Errorf(codes.FailedPrecondition, "branch %s is inactive", branch.Name)
	}
	return &branch, nil
}

// CreatePurchase records a purchase, its lines and the stock it brings in as
// one transaction. Lines entered by the pack are stored per unit.
func (s *BackOfficeHandler) CreatePurchase(ctx context.Context, req *pb.CreatePurchaseRequest) (*pb.PurchaseResponse, error) {
	sess, err := session.RequireBranch(ctx, req.BranchID)
	if err != nil {
		return nil, err
	}
	if req.SupplierID <= 0 {
		return nil, status.Error(codes.InvalidArgument, "supplier id is required")
	}
	if len(req.Items) == 0 {
		return nil, status.Error(codes.InvalidArgument, "purchase must have at least one item")
	}

	tx := s.db.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	purchase, err := s.createPurchaseTx(tx, sess, req)
	if err != nil {
		rollback(tx)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, internalError("commit purchase", err)
	}

	var loaded models.Purchase
	if err := s.db.WithContext(ctx).
		Preload("Items.Product").
		Preload("Supplier").
		First(&loaded, purchase.ID).Error; err != nil {
		return nil, internalError("reload purchase", err)
	}

	s.emit(ctx, Event{
		EventType:      EventPurchaseCreated,
		EntityID:       loaded.ID,
		DocumentNumber: loaded.DocumentNumber,
		UserID:         sess.UserID,
		BranchID:       loaded.BranchID,
		Amount:         loaded.Total,
	})

	return &pb.PurchaseResponse{Purchase: purchaseToPB(loaded)}, nil
}

func (s *BackOfficeHandler) createPurchaseTx(tx *gorm.DB, sess session.Session, req *pb.CreatePurchaseRequest) (*models.Purchase, error) {
	var supplier models.Supplier
	if err := tx.First(&supplier, req.SupplierID).Error; err != nil {
		return nil, lookupError(err, "supplier", req.SupplierID)
	}
	if !supplier.IsActive {
		return nil, status.Errorf(codes.FailedPrecondition, "supplier %s is inactive", supplier.Name)
	}
	if _, err := loadActiveBranch(tx, req.BranchID); err != nil {
		return nil, err
	}

	items := make([]models.PurchaseItem, 0, len(req.Items))
	total := decimal.Zero
	for i, line := range req.Items {
		var product models.Product
		if err := tx.First(&product, line.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, status.Errorf(codes.InvalidArgument, "item %d: product %d not found", i+1, line.ProductID)
			}
			return nil, internalError("load product", err)
		}
		if err := pricing.ValidateLine(pricing.Line{Quantity: line.Quantity, UnitPrice: line.UnitCost}); err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "item %d: %v", i+1, err)
		}
		if err := pricing.ValidateScale("quantity", line.Quantity, pricing.QuantityScale); err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "item %d: %v", i+1, err)
		}
		if err := pricing.ValidateScale("unit cost", line.UnitCost, pricing.CostScale); err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "item %d: %v", i+1, err)
		}

		// Totals come from the entered values so pack rounding never leaks in.
		lineTotal := pricing.LineSubtotal(pricing.Line{Quantity: line.Quantity, UnitPrice: line.UnitCost})
		quantity, unitCost := line.Quantity, line.UnitCost
		if line.ByPack {
			var err error
			quantity, unitCost, err = pricing.ConvertPack(line.Quantity, line.UnitCost, product.UnitsPerPack)
			if err != nil {
				return nil, status.Errorf(codes.FailedPrecondition, "item %d: product %s: %v", i+1, product.Name, err)
			}
		}

		items = append(items, models.PurchaseItem{
			ProductID: product.ID,
			Quantity:  quantity,
			UnitCost:  unitCost,
			Total:     lineTotal,
		})
		total = total.Add(lineTotal)
	}

	purchase := models.Purchase{
		DocumentNumber: s.documentNumber("PO"),
		SupplierID:     supplier.ID,
		BranchID:       req.BranchID,
		CreatedBy:      sess.UserID,
		Total:          total,
		Notes:          strings.TrimSpace(req.Notes),
		CreatedAt:      s.now(),
		Items:          items,
	}
	if err := tx.Create(&purchase).Error; err != nil {
		return nil, internalError("create purchase", err)
	}

	for _, item := range items {
		res := tx.Model(&models.Product{}).Where("id = ?", item.ProductID).Updates(map[string]interface{}{
			"stock":      gorm.Expr("stock + ?", item.Quantity),
			"cost_price": item.UnitCost,
			"updated_at": s.now(),
		})
		if res.Error != nil {
			return nil, internalError("update stock", res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, status.Errorf(codes.NotFound, "product %d not found", item.ProductID)
		}
	}

	return &purchase, nil
}

func (s *BackOfficeHandler) GetPurchase(ctx context.Context, req *pb.IDRequest) (*pb.PurchaseResponse, error) {
	sess, err := session.Require(ctx)
	if err != nil {
		return nil, err
	}
	if req.ID <= 0 {
		return nil, status.Error(codes.InvalidArgument, "purchase id is required")
	}

	var purchase models.Purchase
	if err := s.db.WithContext(ctx).
		Preload("Items.Product").
		Preload("Supplier").
		First(&purchase, req.ID).Error; err != nil {
		return nil, lookupError(err, "purchase", req.ID)
	}
	if !sess.CanAccessBranch(purchase.BranchID) {
		return nil, status.Errorf(codes.PermissionDenied, "not assigned to branch %d", purchase.BranchID)
	}

	return &pb.PurchaseResponse{Purchase: purchaseToPB(purchase)}, nil
}

func (s *BackOfficeHandler) ListPurchases(ctx context.Context, req *pb.ListPurchasesRequest) (*pb.ListPurchasesResponse, error) {
	sess, err := session.Require(ctx)
	if err != nil {
		return nil, err
	}

	query, err := scopeBranches(s.db.WithContext(ctx).Model(&models.Purchase{}), sess, req.BranchID)
	if err != nil {
		return nil, err
	}
	if req.SupplierID > 0 {
		query = query.Where("supplier_id = ?", req.SupplierID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, internalError("count purchases", err)
	}

	page, size, offset := paginate(req.Pagination)
	var purchases []models.Purchase
	if err := query.Preload("Supplier").
		Order("created_at DESC").Order("id DESC").
		Offset(offset).Limit(int(size)).
		Find(&purchases).Error; err != nil {
		return nil, internalError("list purchases", err)
	}

	out := make([]*pb.Purchase, len(purchases))
	for i, p := range purchases {
		out[i] = purchaseToPB(p)
	}
	return &pb.ListPurchasesResponse{
		Purchases: out,
		PageInfo:  pb.PageInfo{Page: page, PageSize: size, Total: total},
	}, nil
}
