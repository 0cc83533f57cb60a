// Package session carries the caller's identity, role and branch assignments
// explicitly through context.Context and across the gRPC boundary.
package session

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"syntra-backoffice/internal/validation"
)

const (
	mdUser     = "x-session-user"
	mdRole     = "x-session-role"
	mdBranches = "x-session-branches"
)

type Session struct {
	UserID    int64   `json:"user_id"`
	Role      string  `json:"role"`
	BranchIDs []int64 `json:"branch_ids"`
}

func (s Session) IsAdmin() bool {
	return s.Role == validation.RoleAdministrator
}

// CanAccessBranch is true for administrators and for assigned branches.
func (s Session) CanAccessBranch(branchID int64) bool {
	if s.IsAdmin() {
		return true
	}
	for _, id := range s.BranchIDs {
		if id == branchID {
			return true
		}
	}
	return false
}

type ctxKey struct{}

func NewContext(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(Session)
	return s, ok && s.UserID != 0
}

// AppendToOutgoing copies the session in ctx, if any, into outgoing gRPC
// metadata.
func AppendToOutgoing(ctx context.Context) context.Context {
	s, ok := FromContext(ctx)
	if !ok {
		return ctx
	}
	ids := make([]string, 0, len(s.BranchIDs))
	for _, id := range s.BranchIDs {
		ids = append(ids, strconv.FormatInt(id, 10))
	}
	return metadata.AppendToOutgoingContext(ctx,
		mdUser, strconv.FormatInt(s.UserID, 10),
		mdRole, s.Role,
		mdBranches, strings.Join(ids, ","),
	)
}

// FromIncoming decodes a session from incoming gRPC metadata. ok is false
// when the caller sent none.
func FromIncoming(ctx context.Context) (Session, bool, error) {
	md, found := metadata.FromIncomingContext(ctx)
	if !found {
		return Session{}, false, nil
	}
	users := md.Get(mdUser)
	if len(users) == 0 || users[0] == "" {
		return Session{}, false, nil
	}

	userID, err := strconv.ParseInt(users[0], 10, 64)
	if err != nil || userID <= 0 {
		return Session{}, false, fmt.Errorf("invalid session user %q", users[0])
	}
	s := Session{UserID: userID}
	if roles := md.Get(mdRole); len(roles) > 0 {
		s.Role = roles[0]
	}
	if branches := md.Get(mdBranches); len(branches) > 0 && branches[0] != "" {
		for _, raw := range strings.Split(branches[0], ",") {
			id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
			if err != nil {
				return Session{}, false, fmt.Errorf("invalid session branch %q", raw)
			}
			s.BranchIDs = append(s.BranchIDs, id)
		}
	}
	return s, true, nil
}

// UnaryServerInterceptor moves the metadata session into the handler's
// context. Calls without a session pass through; handlers decide.
func UnaryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		s, ok, err := FromIncoming(ctx)
		if err != nil {
			return nil, status.Error(codes.Unauthenticated, err.Error())
		}
		if ok {
			ctx = NewContext(ctx, s)
		}
		return handler(ctx, req)
	}
}

// Require returns the session in ctx or an Unauthenticated status.
func Require(ctx context.Context) (Session, error) {
	s, ok := FromContext(ctx)
	if !ok {
		return Session{}, status.Error(codes.Unauthenticated, "session required")
	}
	return s, nil
}

// RequireAdmin is Require plus an administrator role check.
func RequireAdmin(ctx context.Context) (Session, error) {
	s, err := Require(ctx)
	if err != nil {
		return s, err
	}
	if !s.IsAdmin() {
		return s, status.Error(codes.PermissionDenied, "administrator role required")
	}
	return s, nil
}

// RequireBranch is Require plus a branch assignment check.
func RequireBranch(ctx context.Context, branchID int64) (Session, error) {
	s, err := Require(ctx)
	if err != nil {
		return s, err
	}
	if !s.CanAccessBranch(branchID) {
		return s, status.Errorf(codes.PermissionDenied, "not assigned to branch %d", branchID)
	}
	return s, nil
}
