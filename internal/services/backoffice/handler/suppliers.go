package handler

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"syntra-backoffice/internal/database/models"
	pb "syntra-backoffice/internal/rpc/backoffice"
	"syntra-backoffice/internal/session"
	"syntra-backoffice/internal/validation"
)

func (s *BackOfficeHandler) CreateSupplier(ctx context.Context, req *pb.CreateSupplierRequest) (*pb.SupplierResponse, error) {
	if _, err := session.Require(ctx); err != nil {
		return nil, err
	}

	req.Normalize()
	if err := validation.Validate(req.SupplierForm); err != nil {
		return nil, invalidArgument(err)
	}

	supplier := models.Supplier{
		Name:        req.Name,
		ContactName: req.ContactName,
		Email:       req.Email,
		Phone:       req.Phone,
		Address:     req.Address,
		TaxID:       req.TaxID,
		IsActive:    true,
	}
	if err := s.db.WithContext(ctx).Create(&supplier).Error; err != nil {
		return nil, internalError("create supplier", err)
	}

	return &pb.SupplierResponse{Supplier: supplierToPB(supplier)}, nil
}

func (s *BackOfficeHandler) UpdateSupplier(ctx context.Context, req *pb.UpdateSupplierRequest) (*pb.SupplierResponse, error) {
	if _, err := session.Require(ctx); err != nil {
		return nil, err
	}
	if req.ID <= 0 {
		return nil, status.Error(codes.InvalidArgument, "supplier id is required")
	}

	req.Normalize()
	if err := validation.Validate(req.SupplierForm); err != nil {
		return nil, invalidArgument(err)
	}

	db := s.db.WithContext(ctx)
	var supplier models.Supplier
	if err := db.First(&supplier, req.ID).Error; err != nil {
		return nil, lookupError(err, "supplier", req.ID)
	}

	updates := map[string]interface{}{
		"name":         req.Name,
		"contact_name": req.ContactName,
		"email":        req.Email,
		"phone":        req.Phone,
		"address":      req.Address,
		"tax_id":       req.TaxID,
		"updated_at":   s.now(),
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if err := db.Model(&models.Supplier{}).Where("id = ?", supplier.ID).Updates(updates).Error; err != nil {
		return nil, internalError("update supplier", err)
	}

	if err := db.First(&supplier, supplier.ID).Error; err != nil {
		return nil, internalError("reload supplier", err)
	}
	return &pb.SupplierResponse{Supplier: supplierToPB(supplier)}, nil
}

func (s *BackOfficeHandler) GetSupplier(ctx context.Context, req *pb.IDRequest) (*pb.SupplierResponse, error) {
	if _, err := session.Require(ctx); err != nil {
		return nil, err
	}
	if req.ID <= 0 {
		return nil, status.Error(codes.InvalidArgument, "supplier id is required")
	}

	var supplier models.Supplier
	if err := s.db.WithContext(ctx).First(&supplier, req.ID).Error; err != nil {
		return nil, lookupError(err, "supplier", req.ID)
	}
	return &pb.SupplierResponse{Supplier: supplierToPB(supplier)}, nil
}

func (s *BackOfficeHandler) ListSuppliers(ctx context.Context, req *pb.ListSuppliersRequest) (*pb.ListSuppliersResponse, error) {
	if _, err := session.Require(ctx); err != nil {
		return nil, err
	}

	query := s.db.WithContext(ctx).Model(&models.Supplier{})
	if req.Search != "" {
		term := likeTerm(req.Search)
		query = query.Where(
			"LOWER(name) LIKE ? OR LOWER(contact_name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(tax_id) LIKE ?",
			term, term, term, term,
		)
	}
	if req.Active != nil {
		query = query.Where("is_active = ?", *req.Active)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, internalError("count suppliers", err)
	}

	page, size, offset := paginate(req.Pagination)
	var suppliers []models.Supplier
	if err := query.Order("name").Offset(offset).Limit(int(size)).Find(&suppliers).Error; err != nil {
		return nil, internalError("list suppliers", err)
	}

	out := make([]*pb.Supplier, len(suppliers))
	for i, sup := range suppliers {
		out[i] = supplierToPB(sup)
	}
	return &pb.ListSuppliersResponse{
		Suppliers: out,
		PageInfo:  pb.PageInfo{Page: page, PageSize: size, Total: total},
	}, nil
}

// DeleteSupplier refuses suppliers that purchases refer to.
func (s *BackOfficeHandler) DeleteSupplier(ctx context.Context, req *pb.IDRequest) (*pb.DeleteResponse, error) {
	if _, err := session.RequireAdmin(ctx); err != nil {
		return nil, err
	}
	if req.ID <= 0 {
		return nil, status.Error(codes.InvalidArgument, "supplier id is required")
	}

	db := s.db.WithContext(ctx)
	var supplier models.Supplier
	if err := db.First(&supplier, req.ID).Error; err != nil {
		return nil, lookupError(err, "supplier", req.ID)
	}

	var purchases int64
	if err := db.Model(&models.Purchase{}).Where("supplier_id = ?", supplier.ID).Count(&purchases).Error; err != nil {
		return nil, internalError("check supplier references", err)
	}
	if purchases > 0 {
		return nil, status.Errorf(codes.FailedPrecondition,
			"supplier %s has purchases and cannot be deleted; deactivate it instead", supplier.Name)
	}

	if err := db.Delete(&models.Supplier{}, supplier.ID).Error; err != nil {
		return nil, internalError("delete supplier", err)
	}
	return &pb.DeleteResponse{ID: supplier.ID}, nil
}
