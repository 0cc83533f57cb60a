package handler

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"gorm.io/gorm"

	"syntra-backoffice/internal/database/models"
	"syntra-backoffice/internal/ledger"
	"syntra-backoffice/internal/pricing"
	pb "syntra-backoffice/internal/rpc/backoffice"
	"syntra-backoffice/internal/session"
)

const maxIdempotencyKeyLength = 64

func validPaymentMethod(method string) bool {
	switch method {
	case models.PaymentCash, models.PaymentCard, models.PaymentTransfer:
		return true
	}
	return false
}

func findPaymentByKey(db *gorm.DB, customerID int64, key string) (*models.CustomerPayment, error) {
	var payment models.CustomerPayment
	err := db.Where("customer_id = ? AND idempotency_key = ?", customerID, key).First(&payment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// RecordPayment stores a payment and lowers the customer's balance by exactly
// its amount in one transaction. A payment larger than the balance is
// rejected. Replaying an idempotency key returns the original payment.
func (s *BackOfficeHandler) RecordPayment(ctx context.Context, req *pb.RecordPaymentRequest) (*pb.RecordPaymentResponse, error) {
	sess, err := session.Require(ctx)
	if err != nil {
		return nil, err
	}
	if req.CustomerID <= 0 {
		return nil, status.Error(codes.InvalidArgument, "customer id is required")
	}
	if !req.Amount.IsPositive() {
		return nil, status.Error(codes.InvalidArgument, "amount: must be greater than 0")
	}
	if err := pricing.ValidateScale("amount", req.Amount, pricing.PriceScale); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	method := strings.ToLower(strings.TrimSpace(req.Method))
	if !validPaymentMethod(method) {
		return nil, status.Error(codes.InvalidArgument, "method: must be one of cash, card, transfer")
	}
	key := strings.TrimSpace(req.IdempotencyKey)
	if len(key) > maxIdempotencyKeyLength {
		return nil, status.Errorf(codes.InvalidArgument, "idempotency_key: must be at most %d characters", maxIdempotencyKeyLength)
	}

	tx := s.db.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	var customer models.Customer
	if err := tx.First(&customer, req.CustomerID).Error; err != nil {
		rollback(tx)
		return nil, lookupError(err, "customer", req.CustomerID)
	}

	if key != "" {
		existing, err := findPaymentByKey(tx, customer.ID, key)
		if err != nil {
			rollback(tx)
			return nil, internalError("check idempotency key", err)
		}
		if existing != nil {
			rollback(tx)
			return &pb.RecordPaymentResponse{
				Payment:  paymentToPB(*existing),
				Customer: customerToPB(customer),
				Replayed: true,
			}, nil
		}
	}

	payment := models.CustomerPayment{
		CustomerID: customer.ID,
		Amount:     req.Amount,
		Method:     method,
		Notes:      strings.TrimSpace(req.Notes),
		RecordedBy: sess.UserID,
		CreatedAt:  s.now(),
	}
	if key != "" {
		payment.IdempotencyKey = &key
	}
	if err := tx.Create(&payment).Error; err != nil {
		rollback(tx)
		if key != "" {
			// Lost a race against a request with the same key.
			if existing, findErr := findPaymentByKey(s.db.WithContext(ctx), customer.ID, key); findErr == nil && existing != nil {
				return s.replayedPayment(ctx, *existing)
			}
		}
		return nil, internalError("record payment", err)
	}

	res := tx.Model(&models.Customer{}).
		Where("id = ? AND current_balance >= ?", customer.ID, req.Amount).
		Updates(map[string]interface{}{
			"current_balance": gorm.Expr("current_balance - ?", req.Amount),
			"updated_at":      s.now(),
		})
	if res.Error != nil {
		rollback(tx)
		return nil, internalError("update balance", res.Error)
	}
	if res.RowsAffected == 0 {
		rollback(tx)
		return nil, status.Errorf(codes.FailedPrecondition,
			"payment of %s exceeds the current balance of customer %s", req.Amount.StringFixed(2), customer.Name)
	}

	if err := tx.First(&customer, customer.ID).Error; err != nil {
		rollback(tx)
		return nil, internalError("reload customer", err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, internalError("commit payment", err)
	}

	s.InvalidateBackOfficeCaches(ctx, customer.ID)
	s.emit(ctx, Event{
		EventType:  EventPaymentRecorded,
		EntityID:   payment.ID,
		UserID:     sess.UserID,
		CustomerID: customer.ID,
		Amount:     payment.Amount,
		Data:       paymentToPB(payment),
	})

	return &pb.RecordPaymentResponse{
		Payment:  paymentToPB(payment),
		Customer: customerToPB(customer),
	}, nil
}

func (s *BackOfficeHandler) replayedPayment(ctx context.Context, payment models.CustomerPayment) (*pb.RecordPaymentResponse, error) {
	var customer models.Customer
	if err := s.db.WithContext(ctx).First(&customer, payment.CustomerID).Error; err != nil {
		return nil, internalError("reload customer", err)
	}
	return &pb.RecordPaymentResponse{
		Payment:  paymentToPB(payment),
		Customer: customerToPB(customer),
		Replayed: true,
	}, nil
}

// GetCustomerLedger lists credit sales and payments newest first, with the
// running balance and a check of the stored balance against the history.
func (s *BackOfficeHandler) GetCustomerLedger(ctx context.Context, req *pb.IDRequest) (*pb.CustomerLedgerResponse, error) {
	if _, err := session.Require(ctx); err != nil {
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

	var sales []models.Sale
	if err := db.Where("customer_id = ? AND is_credit = ?", customer.ID, true).
		Order("created_at DESC").Order("id DESC").
		Find(&sales).Error; err != nil {
		return nil, internalError("load credit sales", err)
	}

	var payments []models.CustomerPayment
	if err := db.Where("customer_id = ?", customer.ID).
		Order("created_at DESC").Order("id DESC").
		Find(&payments).Error; err != nil {
		return nil, internalError("load payments", err)
	}

	debits := make([]ledger.Entry, len(sales))
	for i, sale := range sales {
		debits[i] = ledger.Entry{
			SourceID:  sale.ID,
			Reference: sale.DocumentNumber,
			Amount:    sale.Total,
			Timestamp: sale.CreatedAt,
		}
	}
	credits := make([]ledger.Entry, len(payments))
	for i, p := range payments {
		credits[i] = ledger.Entry{
			SourceID:  p.ID,
			Reference: p.Method,
			Amount:    p.Amount,
			Timestamp: p.CreatedAt,
		}
	}

	entries := ledger.Merge(debits, credits)
	derived := ledger.Balance(entries)

	return &pb.CustomerLedgerResponse{
		Customer:       customerToPB(customer),
		Entries:        entries,
		DerivedBalance: derived,
		Consistent:     derived.Equal(customer.CurrentBalance),
	}, nil
}
