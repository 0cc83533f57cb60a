package session

import (
	"context"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func TestCanAccessBranch(t *testing.T) {
	cashier := Session{UserID: 2, Role: "cashier", BranchIDs: []int64{3, 5}}
	if !cashier.CanAccessBranch(5) {
		t.Fatalf("expected cashier to access assigned branch")
	}
	if cashier.CanAccessBranch(4) {
		t.Fatalf("expected cashier to be denied unassigned branch")
	}
	admin := Session{UserID: 1, Role: "administrator"}
	if !admin.CanAccessBranch(99) {
		t.Fatalf("expected administrator to access every branch")
	}
}

// outgoingToIncoming simulates the wire: what the client appends is what the
// server reads.
func outgoingToIncoming(t *testing.T, ctx context.Context) context.Context {
	t.Helper()
	md, ok := metadata.FromOutgoingContext(ctx)
	if !ok {
		t.Fatalf("expected outgoing metadata")
	}
	return metadata.NewIncomingContext(context.Background(), md)
}

func TestMetadataRoundTrip(t *testing.T) {
	want := Session{UserID: 42, Role: "employee", BranchIDs: []int64{1, 7}}
	ctx := AppendToOutgoing(NewContext(context.Background(), want))

	got, ok, err := FromIncoming(outgoingToIncoming(t, ctx))
	if err != nil || !ok {
		t.Fatalf("FromIncoming: ok=%v err=%v", ok, err)
	}
	if got.UserID != 42 || got.Role != "employee" || len(got.BranchIDs) != 2 || got.BranchIDs[1] != 7 {
		t.Fatalf("unexpected session %+v", got)
	}
}

func TestAppendToOutgoingWithoutSession(t *testing.T) {
	ctx := AppendToOutgoing(context.Background())
	if _, ok := metadata.FromOutgoingContext(ctx); ok {
		t.Fatalf("did not expect metadata without a session")
	}
}

func TestInterceptor(t *testing.T) {
	interceptor := UnaryServerInterceptor()
	info := &grpc.UnaryServerInfo{FullMethod: "/test/Method"}

	var seen Session
	var seenOK bool
	handler := func(ctx context.Context, req any) (any, error) {
		seen, seenOK = FromContext(ctx)
		return nil, nil
	}

	in := metadata.NewIncomingContext(context.Background(), metadata.Pairs(mdUser, "9", mdRole, "cashier", mdBranches, "2"))
	if _, err := interceptor(in, nil, info, handler); err != nil {
		t.Fatalf("interceptor returned error: %v", err)
	}
	if !seenOK || seen.UserID != 9 || !seen.CanAccessBranch(2) {
		t.Fatalf("expected session in handler context, got %+v ok=%v", seen, seenOK)
	}

	if _, err := interceptor(context.Background(), nil, info, handler); err != nil {
		t.Fatalf("anonymous call should pass through, got %v", err)
	}
	if seenOK {
		t.Fatalf("expected no session for anonymous call")
	}

	bad := metadata.NewIncomingContext(context.Background(), metadata.Pairs(mdUser, "abc"))
	_, err := interceptor(bad, nil, info, handler)
	if status.Code(err) != codes.Unauthenticated {
		t.Fatalf("expected Unauthenticated for malformed session, got %v", err)
	}
}

func TestRequireHelpers(t *testing.T) {
	if _, err := Require(context.Background()); status.Code(err) != codes.Unauthenticated {
		t.Fatalf("expected Unauthenticated, got %v", err)
	}
	ctx := NewContext(context.Background(), Session{UserID: 3, Role: "cashier", BranchIDs: []int64{1}})
	if _, err := RequireAdmin(ctx); status.Code(err) != codes.PermissionDenied {
		t.Fatalf("expected PermissionDenied, got %v", err)
	}
	if _, err := RequireBranch(ctx, 2); status.Code(err) != codes.PermissionDenied {
		t.Fatalf("expected PermissionDenied for other branch, got %v", err)
	}
	if _, err := RequireBranch(ctx, 1); err != nil {
		t.Fatalf("expected access to own branch, got %v", err)
	}
}
