package handler

import (
	"context"
	"strings"
	"testing"
	"time"

	"google.golang.org/grpc/codes"

	"syntra-backoffice/internal/database/models"
	pb "syntra-backoffice/internal/rpc/backoffice"
)

// createQuotation builds the standard two-line quotation totalling 150.00:
// 2 x 50.00 of a stocked product plus a free-text line of 50.00.
func createQuotation(t *testing.T, env *testEnv, ctx context.Context, branchID, customerID, productID int64) *pb.Quotation {
	t.Helper()
	valid := time.Now().AddDate(0, 0, 15)
	resp, err := env.h.CreateQuotation(ctx, &pb.CreateQuotationRequest{
		CustomerID: customerID,
		BranchID:   branchID,
		ValidUntil: &valid,
		Items: []pb.QuotationLine{
			{ProductID: &productID, Quantity: dec("2"), UnitPrice: dec("50")},
			{Description: "Delivery", Quantity: dec("1"), UnitPrice: dec("50")},
		},
	})
	if err != nil {
		t.Fatalf("CreateQuotation returned error: %v", err)
	}
	return resp.Quotation
}

func TestCreateQuotationTotals(t *testing.T) {
	env := newTestEnv(t)
	branch := env.seedBranch(t, "Centro")
	customer := env.seedCustomer(t, "Lupita", "0", "0")
	product := env.seedProduct(t, "CEM50", "10", 1)

	q := createQuotation(t, env, adminCtx(), branch.ID, customer.ID, product.ID)
	if q.Status != models.QuotationPending {
		t.Fatalf("expected pending, got %s", q.Status)
	}
	if !q.Total.Equal(dec("150")) || !q.Subtotal.Equal(dec("150")) {
		t.Fatalf("expected total 150, got subtotal %s total %s", q.Subtotal, q.Total)
	}
	if len(q.Items) != 2 || q.Items[0].Description != product.Name {
		t.Fatalf("unexpected items %+v", q.Items)
	}
	if q.CustomerName != "Lupita" || q.BranchName != "Centro" {
		t.Fatalf("expected names to be loaded, got %q %q", q.CustomerName, q.BranchName)
	}
	if !strings.HasPrefix(q.DocumentNumber, "QT-") {
		t.Fatalf("unexpected document number %s", q.DocumentNumber)
	}
}

func TestQuotationSubtotalMatchesItems(t *testing.T) {
	env := newTestEnv(t)
	branch := env.seedBranch(t, "Centro")
	customer := env.seedCustomer(t, "Lupita", "0", "0")

	line := pb.QuotationLine{Description: "Cable", Quantity: dec("1.5"), UnitPrice: dec("19.99")}
	resp, err := env.h.CreateQuotation(adminCtx(), &pb.CreateQuotationRequest{
		CustomerID: customer.ID,
		BranchID:   branch.ID,
		Items:      []pb.QuotationLine{line, line, line},
	})
	if err != nil {
		t.Fatalf("CreateQuotation returned error: %v", err)
	}
	q := resp.Quotation

	sum := dec("0")
	for _, item := range q.Items {
		if !item.Subtotal.Equal(item.Quantity.Mul(item.UnitPrice)) {
			t.Fatalf("item subtotal %s is not %s x %s", item.Subtotal, item.Quantity, item.UnitPrice)
		}
		sum = sum.Add(item.Subtotal)
	}
	if !sum.Equal(q.Subtotal) || !q.Subtotal.Equal(dec("89.955")) {
		t.Fatalf("expected header subtotal %s to equal item sum %s", q.Subtotal, sum)
	}
	if !q.Total.Equal(q.Subtotal) {
		t.Fatalf("expected total %s without tax or discount, got %s", q.Subtotal, q.Total)
	}
}

func TestCreateQuotationValidation(t *testing.T) {
	env := newTestEnv(t)
	branch := env.seedBranch(t, "Centro")
	customer := env.seedCustomer(t, "Lupita", "0", "0")

	cases := []struct {
		name string
		req  *pb.CreateQuotationRequest
	}{
		{"no items", &pb.CreateQuotationRequest{CustomerID: customer.ID, BranchID: branch.ID}},
		{"zero quantity", &pb.CreateQuotationRequest{CustomerID: customer.ID, BranchID: branch.ID,
			Items: []pb.QuotationLine{{Description: "x", Quantity: dec("0"), UnitPrice: dec("1")}}}},
		{"negative price", &pb.CreateQuotationRequest{CustomerID: customer.ID, BranchID: branch.ID,
			Items: []pb.QuotationLine{{Description: "x", Quantity: dec("1"), UnitPrice: dec("-1")}}}},
		{"negative discount", &pb.CreateQuotationRequest{CustomerID: customer.ID, BranchID: branch.ID, Discount: dec("-5"),
			Items: []pb.QuotationLine{{Description: "x", Quantity: dec("1"), UnitPrice: dec("1")}}}},
		{"missing description", &pb.CreateQuotationRequest{CustomerID: customer.ID, BranchID: branch.ID,
			Items: []pb.QuotationLine{{Quantity: dec("1"), UnitPrice: dec("1")}}}},
		{"sub-cent price", &pb.CreateQuotationRequest{CustomerID: customer.ID, BranchID: branch.ID,
			Items: []pb.QuotationLine{{Description: "x", Quantity: dec("1"), UnitPrice: dec("0.005")}}}},
		{"four decimal quantity", &pb.CreateQuotationRequest{CustomerID: customer.ID, BranchID: branch.ID,
			Items: []pb.QuotationLine{{Description: "x", Quantity: dec("0.0005"), UnitPrice: dec("1")}}}},
		{"sub-cent tax", &pb.CreateQuotationRequest{CustomerID: customer.ID, BranchID: branch.ID, Tax: dec("0.001"),
			Items: []pb.QuotationLine{{Description: "x", Quantity: dec("1"), UnitPrice: dec("1")}}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.h.CreateQuotation(adminCtx(), tc.req)
			wantCode(t, err, codes.InvalidArgument)
		})
	}
}

func TestConvertQuotation(t *testing.T) {
	env := newTestEnv(t)
	branch := env.seedBranch(t, "Centro")
	customer := env.seedCustomer(t, "Lupita", "0", "0")
	product := env.seedProduct(t, "CEM50", "10", 1)
	q := createQuotation(t, env, adminCtx(), branch.ID, customer.ID, product.ID)

	resp, err := env.h.ConvertQuotation(adminCtx(), &pb.ConvertQuotationRequest{ID: q.ID, PaymentMethod: "cash"})
	if err != nil {
		t.Fatalf("ConvertQuotation returned error: %v", err)
	}

	if n := env.count(t, &models.Sale{}); n != 1 {
		t.Fatalf("expected exactly one sale, got %d", n)
	}
	if n := env.count(t, &models.SaleItem{}); n != 2 {
		t.Fatalf("expected 2 sale items, got %d", n)
	}
	if !resp.Sale.Total.Equal(dec("150")) || len(resp.Sale.Items) != 2 {
		t.Fatalf("unexpected sale %+v", resp.Sale)
	}
	if resp.Sale.IsCredit {
		t.Fatalf("cash sale should not be credit")
	}
	if resp.Quotation.Status != models.QuotationConverted {
		t.Fatalf("expected converted, got %s", resp.Quotation.Status)
	}
	if resp.Quotation.SaleID == nil || *resp.Quotation.SaleID != resp.Sale.ID {
		t.Fatalf("expected quotation to reference sale %d, got %v", resp.Sale.ID, resp.Quotation.SaleID)
	}

	var stocked models.Product
	env.db.First(&stocked, product.ID)
	if !stocked.Stock.Equal(dec("8")) {
		t.Fatalf("expected stock 8, got %s", stocked.Stock)
	}
	if c := env.customer(t, customer.ID); !c.CurrentBalance.IsZero() {
		t.Fatalf("cash sale must not touch the balance, got %s", c.CurrentBalance)
	}

	_, err = env.h.ConvertQuotation(adminCtx(), &pb.ConvertQuotationRequest{ID: q.ID, PaymentMethod: "cash"})
	wantCode(t, err, codes.FailedPrecondition)
	_, err = env.h.VoidQuotation(adminCtx(), &pb.VoidQuotationRequest{ID: q.ID, Reason: "late"})
	wantCode(t, err, codes.FailedPrecondition)
	if n := env.count(t, &models.Sale{}); n != 1 {
		t.Fatalf("expected still one sale, got %d", n)
	}
}

func TestConvertQuotationWithoutItems(t *testing.T) {
	env := newTestEnv(t)
	branch := env.seedBranch(t, "Centro")
	customer := env.seedCustomer(t, "Lupita", "0", "0")
	empty := models.Quotation{
		DocumentNumber: "QT-EMPTY",
		CustomerID:     customer.ID,
		BranchID:       branch.ID,
		CreatedBy:      1,
		Status:         models.QuotationPending,
	}
	if err := env.db.Create(&empty).Error; err != nil {
		t.Fatalf("seed quotation: %v", err)
	}

	_, err := env.h.ConvertQuotation(adminCtx(), &pb.ConvertQuotationRequest{ID: empty.ID, PaymentMethod: "cash"})
	wantCode(t, err, codes.FailedPrecondition)
	if n := env.count(t, &models.Sale{}); n != 0 {
		t.Fatalf("expected no sale, got %d", n)
	}
}

func TestConvertQuotationRejectsUnknownMethod(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.h.ConvertQuotation(adminCtx(), &pb.ConvertQuotationRequest{ID: 1, PaymentMethod: "barter"})
	wantCode(t, err, codes.InvalidArgument)
}

func TestFailedCreditConversionRollsBack(t *testing.T) {
	env := newTestEnv(t)
	branch := env.seedBranch(t, "Centro")
	customer := env.seedCustomer(t, "Lupita", "0", "100")
	product := env.seedProduct(t, "CEM50", "10", 1)
	q := createQuotation(t, env, adminCtx(), branch.ID, customer.ID, product.ID)

	_, err := env.h.ConvertQuotation(adminCtx(), &pb.ConvertQuotationRequest{ID: q.ID, PaymentMethod: "credit"})
	wantCode(t, err, codes.FailedPrecondition)

	if n := env.count(t, &models.Sale{}); n != 0 {
		t.Fatalf("expected no sale after rollback, got %d", n)
	}
	if n := env.count(t, &models.SaleItem{}); n != 0 {
		t.Fatalf("expected no sale items after rollback, got %d", n)
	}
	var reloaded models.Quotation
	env.db.First(&reloaded, q.ID)
	if reloaded.Status != models.QuotationPending || reloaded.SaleID != nil {
		t.Fatalf("expected quotation to stay pending, got %s %v", reloaded.Status, reloaded.SaleID)
	}
	var stocked models.Product
	env.db.First(&stocked, product.ID)
	if !stocked.Stock.Equal(dec("10")) {
		t.Fatalf("expected stock untouched, got %s", stocked.Stock)
	}
	if c := env.customer(t, customer.ID); !c.CurrentBalance.IsZero() {
		t.Fatalf("expected balance untouched, got %s", c.CurrentBalance)
	}
}

func TestCreditConversionChargesCustomer(t *testing.T) {
	env := newTestEnv(t)
	branch := env.seedBranch(t, "Centro")
	customer := env.seedCustomer(t, "Lupita", "0", "500")
	product := env.seedProduct(t, "CEM50", "10", 1)
	q := createQuotation(t, env, adminCtx(), branch.ID, customer.ID, product.ID)

	resp, err := env.h.ConvertQuotation(adminCtx(), &pb.ConvertQuotationRequest{ID: q.ID, PaymentMethod: "credit"})
	if err != nil {
		t.Fatalf("ConvertQuotation returned error: %v", err)
	}
	if !resp.Sale.IsCredit {
		t.Fatalf("expected credit sale")
	}
	if c := env.customer(t, customer.ID); !c.CurrentBalance.Equal(dec("150")) {
		t.Fatalf("expected balance 150, got %s", c.CurrentBalance)
	}

	if _, err := env.h.RecordPayment(adminCtx(), &pb.RecordPaymentRequest{
		CustomerID: customer.ID, Amount: dec("40"), Method: "cash",
	}); err != nil {
		t.Fatalf("RecordPayment returned error: %v", err)
	}

	ledger, err := env.h.GetCustomerLedger(adminCtx(), &pb.IDRequest{ID: customer.ID})
	if err != nil {
		t.Fatalf("GetCustomerLedger returned error: %v", err)
	}
	if len(ledger.Entries) != 2 {
		t.Fatalf("expected 2 ledger entries, got %d", len(ledger.Entries))
	}
	if !ledger.DerivedBalance.Equal(dec("110")) || !ledger.Consistent {
		t.Fatalf("expected consistent derived balance 110, got %s consistent=%v", ledger.DerivedBalance, ledger.Consistent)
	}
	for i := 1; i < len(ledger.Entries); i++ {
		if ledger.Entries[i].Timestamp.After(ledger.Entries[i-1].Timestamp) {
			t.Fatalf("ledger not newest first at %d", i)
		}
	}
}

func TestVoidQuotation(t *testing.T) {
	env := newTestEnv(t)
	branch := env.seedBranch(t, "Centro")
	customer := env.seedCustomer(t, "Lupita", "0", "0")
	product := env.seedProduct(t, "CEM50", "10", 1)
	q := createQuotation(t, env, adminCtx(), branch.ID, customer.ID, product.ID)

	_, err := env.h.VoidQuotation(adminCtx(), &pb.VoidQuotationRequest{ID: q.ID})
	wantCode(t, err, codes.InvalidArgument)

	resp, err := env.h.VoidQuotation(adminCtx(), &pb.VoidQuotationRequest{ID: q.ID, Reason: "customer declined"})
	if err != nil {
		t.Fatalf("VoidQuotation returned error: %v", err)
	}
	if resp.Quotation.Status != models.QuotationVoided || resp.Quotation.VoidReason != "customer declined" {
		t.Fatalf("unexpected voided quotation %+v", resp.Quotation)
	}

	_, err = env.h.ConvertQuotation(adminCtx(), &pb.ConvertQuotationRequest{ID: q.ID, PaymentMethod: "cash"})
	wantCode(t, err, codes.FailedPrecondition)
}

func TestQuotationBranchAccess(t *testing.T) {
	env := newTestEnv(t)
	north := env.seedBranch(t, "Norte")
	south := env.seedBranch(t, "Sur")
	customer := env.seedCustomer(t, "Lupita", "0", "0")
	product := env.seedProduct(t, "CEM50", "10", 1)

	southQuote := createQuotation(t, env, adminCtx(), south.ID, customer.ID, product.ID)
	northQuote := createQuotation(t, env, cashierCtx(north.ID), north.ID, customer.ID, product.ID)

	cashier := cashierCtx(north.ID)
	_, err := env.h.CreateQuotation(cashier, &pb.CreateQuotationRequest{
		CustomerID: customer.ID,
		BranchID:   south.ID,
		Items:      []pb.QuotationLine{{Description: "x", Quantity: dec("1"), UnitPrice: dec("1")}},
	})
	wantCode(t, err, codes.PermissionDenied)

	_, err = env.h.GetQuotation(cashier, &pb.IDRequest{ID: southQuote.ID})
	wantCode(t, err, codes.PermissionDenied)

	_, err = env.h.ConvertQuotation(cashier, &pb.ConvertQuotationRequest{ID: southQuote.ID, PaymentMethod: "cash"})
	wantCode(t, err, codes.PermissionDenied)

	list, err := env.h.ListQuotations(cashier, &pb.ListQuotationsRequest{})
	if err != nil {
		t.Fatalf("ListQuotations returned error: %v", err)
	}
	if list.PageInfo.Total != 1 || len(list.Quotations) != 1 || list.Quotations[0].ID != northQuote.ID {
		t.Fatalf("expected only the north quotation, got %+v", list.Quotations)
	}

	_, err = env.h.ListQuotations(cashier, &pb.ListQuotationsRequest{BranchID: south.ID})
	wantCode(t, err, codes.PermissionDenied)

	all, err := env.h.ListQuotations(adminCtx(), &pb.ListQuotationsRequest{Status: "pending"})
	if err != nil {
		t.Fatalf("ListQuotations returned error: %v", err)
	}
	if all.PageInfo.Total != 2 {
		t.Fatalf("expected admin to see 2 quotations, got %d", all.PageInfo.Total)
	}
}

func TestQuotationEventsArePublished(t *testing.T) {
	env := newTestEnv(t)
	branch := env.seedBranch(t, "Centro")
	customer := env.seedCustomer(t, "Lupita", "0", "0")
	product := env.seedProduct(t, "CEM50", "10", 1)

	ctx := context.Background()
	sub := env.rdb.Subscribe(ctx, "backoffice:events:all")
	defer sub.Close()
	if _, err := sub.Receive(ctx); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	ch := sub.Channel()

	createQuotation(t, env, adminCtx(), branch.ID, customer.ID, product.ID)

	select {
	case msg := <-ch:
		if !strings.Contains(msg.Payload, `"event_type":"quotation.created"`) {
			t.Fatalf("unexpected event %s", msg.Payload)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("no event published")
	}
}

func TestRenderQuotation(t *testing.T) {
	env := newTestEnv(t)
	branch := env.seedBranch(t, "Centro")
	customer := env.seedCustomer(t, "Lupita", "0", "0")
	product := env.seedProduct(t, "CEM50", "10", 1)
	q := createQuotation(t, env, adminCtx(), branch.ID, customer.ID, product.ID)

	file, err := env.h.RenderQuotation(adminCtx(), &pb.IDRequest{ID: q.ID})
	if err != nil {
		t.Fatalf("RenderQuotation returned error: %v", err)
	}
	if file.Filename != "quotation_"+q.DocumentNumber+".html" {
		t.Fatalf("unexpected filename %s", file.Filename)
	}
	html := string(file.Content)
	for _, want := range []string{q.DocumentNumber, "Lupita", "Centro", "Pending", "150.00"} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected document to contain %q", want)
		}
	}
}
