package handler

import (
	"context"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"syntra-backoffice/internal/database/models"
	pb "syntra-backoffice/internal/rpc/backoffice"
	"syntra-backoffice/internal/session"
)

func (s *BackOfficeHandler) CreateProduct(ctx context.Context, req *pb.CreateProductRequest) (*pb.ProductResponse, error) {
	if _, err := session.Require(ctx); err != nil {
		return nil, err
	}

	code := strings.ToUpper(strings.TrimSpace(req.Code))
	name := strings.TrimSpace(req.Name)
	switch {
	case code == "":
		return nil, status.Error(codes.InvalidArgument, "code: is required")
	case len(name) < 3:
		return nil, status.Error(codes.InvalidArgument, "name: must be at least 3 characters")
	case req.SalePrice.IsNegative() || req.CostPrice.IsNegative():
		return nil, status.Error(codes.InvalidArgument, "prices must not be negative")
	case req.Stock.IsNegative():
		return nil, status.Error(codes.InvalidArgument, "stock: must not be negative")
	}
	unitsPerPack := req.UnitsPerPack
	if unitsPerPack == 0 {
		unitsPerPack = 1
	}
	if unitsPerPack < 1 {
		return nil, status.Error(codes.InvalidArgument, "units_per_pack: must be at least 1")
	}

	db := s.db.WithContext(ctx)
	var existing int64
	if err := db.Model(&models.Product{}).Where("code = ?", code).Count(&existing).Error; err != nil {
		return nil, internalError("check product code", err)
	}
	if existing > 0 {
		return nil, status.Errorf(codes.AlreadyExists, "product code %s already exists", code)
	}

	product := models.Product{
		Code:         code,
		Name:         name,
		SalePrice:    req.SalePrice,
		CostPrice:    req.CostPrice,
		UnitsPerPack: unitsPerPack,
		Stock:        req.Stock,
		IsActive:     true,
	}
	if err := db.Create(&product).Error; err != nil {
		return nil, internalError("create product", err)
	}
	return &pb.ProductResponse{Product: productToPB(product)}, nil
}

func (s *BackOfficeHandler) ListProducts(ctx context.Context, req *pb.ListProductsRequest) (*pb.ListProductsResponse, error) {
	if _, err := session.Require(ctx); err != nil {
		return nil, err
	}

	query := s.db.WithContext(ctx).Model(&models.Product{})
	if req.Search != "" {
		term := likeTerm(req.Search)
		query = query.Where("LOWER(code) LIKE ? OR LOWER(name) LIKE ?", term, term)
	}
	if req.Active != nil {
		query = query.Where("is_active = ?", *req.Active)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, internalError("count products", err)
	}

	page, size, offset := paginate(req.Pagination)
	var products []models.Product
	if err := query.Order("name").Offset(offset).Limit(int(size)).Find(&products).Error; err != nil {
		return nil, internalError("list products", err)
	}

	out := make([]*pb.Product, len(products))
	for i, p := range products {
		out[i] = productToPB(p)
	}
	return &pb.ListProductsResponse{
		Products: out,
		PageInfo: pb.PageInfo{Page: page, PageSize: size, Total: total},
	}, nil
}
