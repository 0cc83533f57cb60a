package handler

import (
	"context"
	"testing"

	"google.golang.org/grpc/codes"

	pb "syntra-backoffice/internal/rpc/backoffice"
	sysutils "syntra-backoffice/internal/utils"
	"syntra-backoffice/internal/validation"
)

func newUserRequest(email, role string, branchIDs ...int64) *pb.CreateUserRequest {
	return &pb.CreateUserRequest{
		NewUserForm: validation.NewUserForm{
			UserForm: validation.UserForm{FullName: "Maria Lopez", Email: email, Role: role},
			Password: "secret1",
		},
		BranchIDs: branchIDs,
	}
}

func TestCreateUserAndLogin(t *testing.T) {
	env := newTestEnv(t)
	branch := env.seedBranch(t, "Centro")

	created, err := env.h.CreateUser(adminCtx(), newUserRequest("Maria@Shop.mx", "Cashier", branch.ID))
	if err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}
	if created.User.Email != "maria@shop.mx" || created.User.Role != "cashier" {
		t.Fatalf("expected normalized user, got %+v", created.User)
	}

	_, err = env.h.CreateUser(adminCtx(), newUserRequest("maria@shop.mx", "cashier"))
	wantCode(t, err, codes.AlreadyExists)

	_, err = env.h.Login(context.Background(), &pb.LoginRequest{Email: "maria@shop.mx", Password: "wrong-pass"})
	wantCode(t, err, codes.Unauthenticated)

	login, err := env.h.Login(context.Background(), &pb.LoginRequest{Email: " MARIA@shop.mx", Password: "secret1"})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	claims, err := sysutils.ParseToken(login.Token)
	if err != nil {
		t.Fatalf("ParseToken returned error: %v", err)
	}
	sess := claims.Session()
	if sess.UserID != created.User.ID || sess.Role != "cashier" || !sess.CanAccessBranch(branch.ID) {
		t.Fatalf("unexpected session in token %+v", sess)
	}
	if login.User.LastLogin == nil {
		t.Fatalf("expected last login to be set")
	}
}

func TestCreateUserRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.h.CreateUser(cashierCtx(), newUserRequest("x@shop.mx", "cashier"))
	wantCode(t, err, codes.PermissionDenied)

	req := newUserRequest("x@shop.mx", "cashier")
	req.Password = "123"
	_, err = env.h.CreateUser(adminCtx(), req)
	wantCode(t, err, codes.InvalidArgument)

	_, err = env.h.CreateUser(adminCtx(), newUserRequest("x@shop.mx", "cashier", 42))
	wantCode(t, err, codes.InvalidArgument)
}

func TestSetUserBranches(t *testing.T) {
	env := newTestEnv(t)
	north := env.seedBranch(t, "Norte")
	south := env.seedBranch(t, "Sur")

	created, err := env.h.CreateUser(adminCtx(), newUserRequest("maria@shop.mx", "employee", north.ID))
	if err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}

	resp, err := env.h.SetUserBranches(adminCtx(), &pb.SetUserBranchesRequest{
		UserID:    created.User.ID,
		BranchIDs: []int64{south.ID},
	})
	if err != nil {
		t.Fatalf("SetUserBranches returned error: %v", err)
	}
	if len(resp.User.BranchIDs) != 1 || resp.User.BranchIDs[0] != south.ID {
		t.Fatalf("expected only south branch, got %v", resp.User.BranchIDs)
	}

	resp, err = env.h.SetUserBranches(adminCtx(), &pb.SetUserBranchesRequest{UserID: created.User.ID})
	if err != nil {
		t.Fatalf("SetUserBranches returned error: %v", err)
	}
	if len(resp.User.BranchIDs) != 0 {
		t.Fatalf("expected no branches, got %v", resp.User.BranchIDs)
	}
}

func TestUpdateUserProtectsOwnAdminAccess(t *testing.T) {
	env := newTestEnv(t)
	created, err := env.h.CreateUser(adminCtx(), newUserRequest("boss@shop.mx", "administrator"))
	if err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}

	self := adminCtx()
	if created.User.ID != 1 {
		t.Fatalf("expected first user to have id 1, got %d", created.User.ID)
	}
	_, err = env.h.UpdateUser(self, &pb.UpdateUserRequest{
		ID:       created.User.ID,
		UserForm: validation.UserForm{FullName: "Boss", Email: "boss@shop.mx", Role: "cashier"},
	})
	wantCode(t, err, codes.FailedPrecondition)

	resp, err := env.h.UpdateUser(self, &pb.UpdateUserRequest{
		ID:       created.User.ID,
		UserForm: validation.UserForm{FullName: "The Boss", Email: "boss@shop.mx", Role: "administrator"},
		Password: "newsecret",
	})
	if err != nil {
		t.Fatalf("UpdateUser returned error: %v", err)
	}
	if resp.User.FullName != "The Boss" {
		t.Fatalf("unexpected user %+v", resp.User)
	}
	if _, err := env.h.Login(context.Background(), &pb.LoginRequest{Email: "boss@shop.mx", Password: "newsecret"}); err != nil {
		t.Fatalf("expected login with the new password, got %v", err)
	}
}

func TestListBranchesFiltersBySession(t *testing.T) {
	env := newTestEnv(t)
	created, err := env.h.CreateBranch(adminCtx(), &pb.CreateBranchRequest{BranchForm: validation.BranchForm{Name: "Norte"}})
	if err != nil {
		t.Fatalf("CreateBranch returned error: %v", err)
	}
	if _, err := env.h.CreateBranch(adminCtx(), &pb.CreateBranchRequest{BranchForm: validation.BranchForm{Name: "Sur"}}); err != nil {
		t.Fatalf("CreateBranch returned error: %v", err)
	}
	_, err = env.h.CreateBranch(cashierCtx(), &pb.CreateBranchRequest{BranchForm: validation.BranchForm{Name: "Este"}})
	wantCode(t, err, codes.PermissionDenied)

	all, err := env.h.ListBranches(adminCtx(), &pb.ListBranchesRequest{})
	if err != nil {
		t.Fatalf("ListBranches returned error: %v", err)
	}
	if len(all.Branches) != 2 {
		t.Fatalf("expected 2 branches, got %d", len(all.Branches))
	}
	if !env.mr.Exists(BACKOFFICE_BRANCHES_CACHE_KEY) {
		t.Fatalf("expected branch list to be cached")
	}

	mine, err := env.h.ListBranches(cashierCtx(created.Branch.ID), &pb.ListBranchesRequest{})
	if err != nil {
		t.Fatalf("ListBranches returned error: %v", err)
	}
	if len(mine.Branches) != 1 || mine.Branches[0].Name != "Norte" {
		t.Fatalf("expected only Norte, got %+v", mine.Branches)
	}
}
