package handler

import (
	"sync"
	"testing"

	"google.golang.org/grpc/codes"

	"syntra-backoffice/internal/database/models"
	pb "syntra-backoffice/internal/rpc/backoffice"
)

func TestRecordPaymentLowersBalance(t *testing.T) {
	env := newTestEnv(t)
	customer := env.seedCustomer(t, "Lupita", "100", "0")

	resp, err := env.h.RecordPayment(adminCtx(), &pb.RecordPaymentRequest{
		CustomerID: customer.ID,
		Amount:     dec("40"),
		Method:     "cash",
	})
	if err != nil {
		t.Fatalf("RecordPayment returned error: %v", err)
	}
	if !resp.Customer.CurrentBalance.Equal(dec("60")) {
		t.Fatalf("expected balance 60 in response, got %s", resp.Customer.CurrentBalance)
	}
	if c := env.customer(t, customer.ID); !c.CurrentBalance.Equal(dec("60")) {
		t.Fatalf("expected stored balance 60, got %s", c.CurrentBalance)
	}
	if resp.Payment.RecordedBy != 1 || resp.Replayed {
		t.Fatalf("unexpected payment %+v replayed=%v", resp.Payment, resp.Replayed)
	}
}

func TestRecordPaymentValidation(t *testing.T) {
	env := newTestEnv(t)
	customer := env.seedCustomer(t, "Lupita", "100", "0")

	cases := []struct {
		name string
		req  *pb.RecordPaymentRequest
		code codes.Code
	}{
		{"zero amount", &pb.RecordPaymentRequest{CustomerID: customer.ID, Amount: dec("0"), Method: "cash"}, codes.InvalidArgument},
		{"credit method", &pb.RecordPaymentRequest{CustomerID: customer.ID, Amount: dec("1"), Method: "credit"}, codes.InvalidArgument},
		{"unknown customer", &pb.RecordPaymentRequest{CustomerID: 999, Amount: dec("1"), Method: "cash"}, codes.NotFound},
		{"overpayment", &pb.RecordPaymentRequest{CustomerID: customer.ID, Amount: dec("100.01"), Method: "card"}, codes.FailedPrecondition},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.h.RecordPayment(adminCtx(), tc.req)
			wantCode(t, err, tc.code)
		})
	}

	if n := env.count(t, &models.CustomerPayment{}); n != 0 {
		t.Fatalf("expected no payments, got %d", n)
	}
	if c := env.customer(t, customer.ID); !c.CurrentBalance.Equal(dec("100")) {
		t.Fatalf("expected balance untouched, got %s", c.CurrentBalance)
	}
}

func TestRecordPaymentIdempotencyKey(t *testing.T) {
	env := newTestEnv(t)
	customer := env.seedCustomer(t, "Lupita", "100", "0")
	req := &pb.RecordPaymentRequest{
		CustomerID:     customer.ID,
		Amount:         dec("40"),
		Method:         "transfer",
		IdempotencyKey: "pay-001",
	}

	first, err := env.h.RecordPayment(adminCtx(), req)
	if err != nil {
		t.Fatalf("first RecordPayment returned error: %v", err)
	}
	second, err := env.h.RecordPayment(adminCtx(), req)
	if err != nil {
		t.Fatalf("replayed RecordPayment returned error: %v", err)
	}

	if !second.Replayed || second.Payment.ID != first.Payment.ID {
		t.Fatalf("expected replay of payment %d, got %+v", first.Payment.ID, second)
	}
	if c := env.customer(t, customer.ID); !c.CurrentBalance.Equal(dec("60")) {
		t.Fatalf("expected balance 60 after replay, got %s", c.CurrentBalance)
	}
	if n := env.count(t, &models.CustomerPayment{}); n != 1 {
		t.Fatalf("expected 1 payment, got %d", n)
	}
}

func TestConcurrentPaymentsApplyOnce(t *testing.T) {
	env := newTestEnv(t)
	customer := env.seedCustomer(t, "Lupita", "100", "0")

	const workers = 10
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.h.RecordPayment(adminCtx(), &pb.RecordPaymentRequest{
				CustomerID: customer.ID,
				Amount:     dec("10"),
				Method:     "cash",
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("RecordPayment returned error: %v", err)
		}
	}
	if c := env.customer(t, customer.ID); !c.CurrentBalance.IsZero() {
		t.Fatalf("expected balance 0, got %s", c.CurrentBalance)
	}
	if n := env.count(t, &models.CustomerPayment{}); n != workers {
		t.Fatalf("expected %d payments, got %d", workers, n)
	}
}

func TestPaymentInvalidatesCustomerCache(t *testing.T) {
	env := newTestEnv(t)
	customer := env.seedCustomer(t, "Lupita", "100", "0")

	if _, err := env.h.GetCustomer(adminCtx(), &pb.IDRequest{ID: customer.ID}); err != nil {
		t.Fatalf("GetCustomer returned error: %v", err)
	}
	if !env.mr.Exists(customerCacheKey(customer.ID)) {
		t.Fatalf("expected customer to be cached")
	}

	if _, err := env.h.RecordPayment(adminCtx(), &pb.RecordPaymentRequest{
		CustomerID: customer.ID, Amount: dec("25"), Method: "cash",
	}); err != nil {
		t.Fatalf("RecordPayment returned error: %v", err)
	}
	if env.mr.Exists(customerCacheKey(customer.ID)) {
		t.Fatalf("expected customer cache to be invalidated")
	}

	got, err := env.h.GetCustomer(adminCtx(), &pb.IDRequest{ID: customer.ID})
	if err != nil {
		t.Fatalf("GetCustomer returned error: %v", err)
	}
	if !got.Customer.CurrentBalance.Equal(dec("75")) {
		t.Fatalf("expected fresh balance 75, got %s", got.Customer.CurrentBalance)
	}
}
