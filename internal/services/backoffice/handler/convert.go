package handler

import (
	"syntra-backoffice/internal/database/models"
	pb "syntra-backoffice/internal/rpc/backoffice"
)

// -- MODEL TO MESSAGE --

func branchToPB(b models.Branch) *pb.Branch {
	return &pb.Branch{
		ID:        b.ID,
		Name:      b.Name,
		Address:   b.Address,
		IsActive:  b.IsActive,
		CreatedAt: b.CreatedAt,
	}
}

func userToPB(p models.Profile) *pb.User {
	return &pb.User{
		ID:        p.ID,
		FullName:  p.FullName,
		Email:     p.Email,
		Role:      p.Role,
		IsActive:  p.IsActive,
		LastLogin: p.LastLogin,
		BranchIDs: p.BranchIDs(),
		CreatedAt: p.CreatedAt,
	}
}

func customerToPB(c models.Customer) *pb.Customer {
	return &pb.Customer{
		ID:             c.ID,
		Name:           c.Name,
		Email:          c.Email,
		Phone:          c.Phone,
		Address:        c.Address,
		TaxID:          c.TaxID,
		CreditLimit:    c.CreditLimit,
		CurrentBalance: c.CurrentBalance,
		IsActive:       c.IsActive,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

func paymentToPB(p models.CustomerPayment) *pb.Payment {
	out := &pb.Payment{
		ID:         p.ID,
		CustomerID: p.CustomerID,
		Amount:     p.Amount,
		Method:     p.Method,
		Notes:      p.Notes,
		RecordedBy: p.RecordedBy,
		CreatedAt:  p.CreatedAt,
	}
	if p.IdempotencyKey != nil {
		out.IdempotencyKey = *p.IdempotencyKey
	}
	return out
}

func supplierToPB(s models.Supplier) *pb.Supplier {
	return &pb.Supplier{
		ID:          s.ID,
		Name:        s.Name,
		ContactName: s.ContactName,
		Email:       s.Email,
		Phone:       s.Phone,
		Address:     s.Address,
		TaxID:       s.TaxID,
		IsActive:    s.IsActive,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func productToPB(p models.Product) *pb.Product {
	return &pb.Product{
		ID:           p.ID,
		Code:         p.Code,
		Name:         p.Name,
		SalePrice:    p.SalePrice,
		CostPrice:    p.CostPrice,
		UnitsPerPack: p.UnitsPerPack,
		Stock:        p.Stock,
		IsActive:     p.IsActive,
	}
}

func purchaseToPB(p models.Purchase) *pb.Purchase {
	out := &pb.Purchase{
		ID:             p.ID,
		DocumentNumber: p.DocumentNumber,
		SupplierID:     p.SupplierID,
		BranchID:       p.BranchID,
		CreatedBy:      p.CreatedBy,
		Total:          p.Total,
		Notes:          p.Notes,
		CreatedAt:      p.CreatedAt,
	}
	if p.Supplier != nil {
		out.SupplierName = p.Supplier.Name
	}
	for _, item := range p.Items {
		line := &pb.PurchaseItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitCost:  item.UnitCost,
			Total:     item.Total,
		}
		if item.Product != nil {
			line.ProductName = item.Product.Name
		}
		out.Items = append(out.Items, line)
	}
	return out
}

func quotationToPB(q models.Quotation) *pb.Quotation {
	out := &pb.Quotation{
		ID:             q.ID,
		DocumentNumber: q.DocumentNumber,
		CustomerID:     q.CustomerID,
		BranchID:       q.BranchID,
		CreatedBy:      q.CreatedBy,
		Subtotal:       q.Subtotal,
		Discount:       q.Discount,
		Tax:            q.Tax,
		Total:          q.Total,
		ValidUntil:     q.ValidUntil,
		Status:         q.Status,
		SaleID:         q.SaleID,
		VoidReason:     q.VoidReason,
		Notes:          q.Notes,
		CreatedAt:      q.CreatedAt,
	}
	if q.Customer != nil {
		out.CustomerName = q.Customer.Name
	}
	if q.Branch != nil {
		out.BranchName = q.Branch.Name
	}
	for _, item := range q.Items {
		out.Items = append(out.Items, &pb.QuotationItem{
			ProductID:   item.ProductID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Subtotal:    item.Subtotal,
		})
	}
	return out
}

func saleToPB(s models.Sale) *pb.Sale {
	out := &pb.Sale{
		ID:             s.ID,
		DocumentNumber: s.DocumentNumber,
		CustomerID:     s.CustomerID,
		BranchID:       s.BranchID,
		CashierID:      s.CashierID,
		QuotationID:    s.QuotationID,
		PaymentMethod:  s.PaymentMethod,
		IsCredit:       s.IsCredit,
		Subtotal:       s.Subtotal,
		Discount:       s.Discount,
		Tax:            s.Tax,
		Total:          s.Total,
		CreatedAt:      s.CreatedAt,
	}
	for _, item := range s.Items {
		out.Items = append(out.Items, &pb.SaleItem{
			ProductID:   item.ProductID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Subtotal:    item.Subtotal,
		})
	}
	return out
}
