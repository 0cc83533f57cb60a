package handler

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"gorm.io/gorm"

	"syntra-backoffice/internal/database/models"
	"syntra-backoffice/internal/export"
	pb "syntra-backoffice/internal/rpc/backoffice"
	"syntra-backoffice/internal/session"
	"syntra-backoffice/internal/validation"
)

func (s *BackOfficeHandler) CreateCustomer(ctx context.Context, req *pb.CreateCustomerRequest) (*pb.CustomerResponse, error) {
	if _, err := session.Require(ctx); err != nil {
		return nil, err
	}

	req.Normalize()
	if err := validation.Validate(req.CustomerForm); err != nil {
		return nil, invalidArgument(err)
	}
	if req.CreditLimit.IsNegative() {
		return nil, status.Error(codes.InvalidArgument, "credit_limit: must not be negative")
	}

	customer := models.Customer{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Address:     req.Address,
		TaxID:       req.TaxID,
		CreditLimit: req.CreditLimit,
		IsActive:    true,
	}
	if err := s.db.WithContext(ctx).Create(&customer).Error; err != nil {
		return nil, internalError("create customer", err)
	}

	return &pb.CustomerResponse{Customer: customerToPB(customer)}, nil
}

// UpdateCustomer changes contact data, credit limit and the active flag. The
// balance is only ever moved by sales and payments.
func (s *BackOfficeHandler) UpdateCustomer(ctx context.Context, req *pb.UpdateCustomerRequest) (*pb.CustomerResponse, error) {
	if _, err := session.Require(ctx); err != nil {
		return nil, err
	}
	if req.ID <= 0 {
		return nil, status.Error(codes.InvalidArgument, "customer id is required")
	}

	req.Normalize()
	if err := validation.Validate(req.CustomerForm); err != nil {
		return nil, invalidArgument(err)
	}
	if req.CreditLimit.IsNegative() {
		return nil, status.Error(codes.InvalidArgument, "credit_limit: must not be negative")
	}

	db := s.db.WithContext(ctx)
	var customer models.Customer
	if err := db.First(&customer, req.ID).Error; err != nil {
		return nil, lookupError(err, "customer", req.ID)
	}

	updates := map[string]interface{}{
		"name":         req.Name,
		"email":        req.Email,
		"phone":        req.Phone,
		"address":      req.Address,
		"tax_id":       req.TaxID,
		"credit_limit": req.CreditLimit,
		"updated_at":   s.now(),
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if err := db.Model(&models.Customer{}).Where("id = ?", customer.ID).Updates(updates).Error; err != nil {
		return nil, internalError("update customer", err)
	}

	s.InvalidateBackOfficeCaches(ctx, customer.ID)

	if err := db.First(&customer, customer.ID).Error; err != nil {
		return nil, internalError("reload customer", err)
	}
	return &pb.CustomerResponse{Customer: customerToPB(customer)}, nil
}

func (s *BackOfficeHandler) GetCustomer(ctx context.Context, req *pb.IDRequest) (*pb.CustomerResponse, error) {
	if _, err := session.Require(ctx); err != nil {
		return nil, err
	}
	if req.ID <= 0 {
		return nil, status.Error(codes.InvalidArgument, "customer id is required")
	}

	cacheKey := customerCacheKey(req.ID)
	var customer models.Customer
	if s.getCached(ctx, cacheKey, &customer) {
		return &pb.CustomerResponse{Customer: customerToPB(customer)}, nil
	}

	if err := s.db.WithContext(ctx).First(&customer, req.ID).Error; err != nil {
		return nil, lookupError(err, "customer", req.ID)
	}
	s.setCached(ctx, cacheKey, customer, CACHE_TTL_SHORT)

	return &pb.CustomerResponse{Customer: customerToPB(customer)}, nil
}

func (s *BackOfficeHandler) customerQuery(ctx context.Context, search string, active *bool) *gorm.DB {
	query := s.db.WithContext(ctx).Model(&models.Customer{})
	if search != "" {
		term := likeTerm(search)
		query = query.Where(
			"LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR phone LIKE ? OR LOWER(tax_id) LIKE ?",
			term, term, term, term,
		)
	}
	if active != nil {
		query = query.Where("is_active = ?", *active)
	}
	return query
}

func (s *BackOfficeHandler) ListCustomers(ctx context.Context, req *pb.ListCustomersRequest) (*pb.ListCustomersResponse, error) {
	if _, err := session.Require(ctx); err != nil {
		return nil, err
	}

	query := s.customerQuery(ctx, req.Search, req.Active)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, internalError("count customers", err)
	}

	page, size, offset := paginate(req.Pagination)
	var customers []models.Customer
	if err := query.Order("name").Offset(offset).Limit(int(size)).Find(&customers).Error; err != nil {
		return nil, internalError("list customers", err)
	}

	out := make([]*pb.Customer, len(customers))
	for i, c := range customers {
		out[i] = customerToPB(c)
	}
	return &pb.ListCustomersResponse{
		Customers: out,
		PageInfo:  pb.PageInfo{Page: page, PageSize: size, Total: total},
	}, nil
}

// DeleteCustomer removes a customer that has no history. Customers with
// sales, quotations or payments must be deactivated instead.
func (s *BackOfficeHandler) DeleteCustomer(ctx context.Context, req *pb.IDRequest) (*pb.DeleteResponse, error) {
	if _, err := session.RequireAdmin(ctx); err != nil {
		return nil, err
	}
	if req.ID <= 0 {
		return nil, status.Error(codes.InvalidArgument, "customer id is required")
	}

	db := s.db.WithContext(ctx)
	var customer models.Customer
	if err := db.First(&customer, req.ID).Error; err != nil {
		return nil, lookupError(err, "customer", req.ID)
	}

	for _, ref := range []struct {
		model any
		what  string
	}{
		{&models.Sale{}, "sales"},
		{&models.Quotation{}, "quotations"},
		{&models.CustomerPayment{}, "payments"},
	} {
		var count int64
		if err := db.Model(ref.model).Where("customer_id = ?", customer.ID).Count(&count).Error; err != nil {
			return nil, internalError("check customer references", err)
		}
		if count > 0 {
			return nil, status.Errorf(codes.FailedPrecondition,
				"customer %s has %s and cannot be deleted; deactivate it instead", customer.Name, ref.what)
		}
	}

	if err := db.Delete(&models.Customer{}, customer.ID).Error; err != nil {
		return nil, internalError("delete customer", err)
	}

	s.InvalidateBackOfficeCaches(ctx, customer.ID)

	return &pb.DeleteResponse{ID: customer.ID}, nil
}

func (s *BackOfficeHandler) ExportCustomers(ctx context.Context, req *pb.ExportCustomersRequest) (*pb.FileResponse, error) {
	if _, err := session.Require(ctx); err != nil {
		return nil, err
	}

	var customers []models.Customer
	if err := s.customerQuery(ctx, req.Search, req.Active).Order("name").Find(&customers).Error; err != nil {
		return nil, internalError("list customers", err)
	}

	rows := make([]export.CustomerRow, len(customers))
	for i, c := range customers {
		rows[i] = export.CustomerRow{
			Name:           c.Name,
			Email:          c.Email,
			Phone:          c.Phone,
			Address:        c.Address,
			TaxID:          c.TaxID,
			CreditLimit:    c.CreditLimit,
			CurrentBalance: c.CurrentBalance,
			IsActive:       c.IsActive,
		}
	}

	content, err := export.CustomersCSV(rows)
	if err != nil {
		if errors.Is(err, export.ErrNothingToExport) {
			return nil, status.Error(codes.FailedPrecondition, err.Error())
		}
		return nil, internalError("export customers", err)
	}

	return &pb.FileResponse{
		Filename:    export.CustomersFilename(s.now()),
		ContentType: export.ContentTypeCSV,
		Content:     content,
	}, nil
}
