package backoffice

import (
	"context"
	"net"
	"testing"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"syntra-backoffice/internal/session"
)

type fakeServer struct {
	BackOfficeServer
	seen session.Session
}

func (f *fakeServer) GetCustomer(ctx context.Context, req *IDRequest) (*CustomerResponse, error) {
	sess, err := session.Require(ctx)
	if err != nil {
		return nil, err
	}
	f.seen = sess
	return &CustomerResponse{Customer: &Customer{
		ID:             req.ID,
		Name:           "Lupita",
		CurrentBalance: decimal.RequireFromString("120.50"),
	}}, nil
}

func (f *fakeServer) DeleteCustomer(ctx context.Context, req *IDRequest) (*DeleteResponse, error) {
	return nil, status.Errorf(codes.FailedPrecondition, "customer %d has history", req.ID)
}

func dialFake(t *testing.T, srv BackOfficeServer) BackOfficeClient {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	s := grpc.NewServer(grpc.UnaryInterceptor(session.UnaryServerInterceptor()))
	RegisterBackOfficeServer(s, srv)
	go s.Serve(lis)
	t.Cleanup(s.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return NewBackOfficeClient(conn)
}

func TestClientCarriesSession(t *testing.T) {
	srv := &fakeServer{}
	client := dialFake(t, srv)

	ctx := session.NewContext(context.Background(), session.Session{UserID: 7, Role: "cashier", BranchIDs: []int64{2, 3}})
	resp, err := client.GetCustomer(ctx, &IDRequest{ID: 42})
	if err != nil {
		t.Fatalf("GetCustomer returned error: %v", err)
	}
	if resp.Customer.ID != 42 || !resp.Customer.CurrentBalance.Equal(decimal.RequireFromString("120.5")) {
		t.Fatalf("unexpected customer %+v", resp.Customer)
	}
	if srv.seen.UserID != 7 || !srv.seen.CanAccessBranch(3) || srv.seen.CanAccessBranch(1) {
		t.Fatalf("unexpected session on server %+v", srv.seen)
	}
}

func TestClientWithoutSession(t *testing.T) {
	client := dialFake(t, &fakeServer{})

	_, err := client.GetCustomer(context.Background(), &IDRequest{ID: 1})
	if status.Code(err) != codes.Unauthenticated {
		t.Fatalf("expected Unauthenticated, got %v", err)
	}
}

func TestClientKeepsStatusCodes(t *testing.T) {
	client := dialFake(t, &fakeServer{})

	_, err := client.DeleteCustomer(context.Background(), &IDRequest{ID: 5})
	st := status.Convert(err)
	if st.Code() != codes.FailedPrecondition || st.Message() != "customer 5 has history" {
		t.Fatalf("unexpected status %v", st)
	}
}
