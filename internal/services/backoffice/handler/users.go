package handler

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"gorm.io/gorm"

	"syntra-backoffice/internal/database/models"
	pb "syntra-backoffice/internal/rpc/backoffice"
	"syntra-backoffice/internal/session"
	sysutils "syntra-backoffice/internal/utils"
	"syntra-backoffice/internal/validation"
)

const minPasswordLength = 6

func (s *BackOfficeHandler) Login(ctx context.Context, req *pb.LoginRequest) (*pb.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, status.Error(codes.InvalidArgument, "email and password are required")
	}

	var profile models.Profile
	if err := s.db.WithContext(ctx).Preload("Branches").
		Where("email = ? AND is_active = ?", email, true).
		First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, status.Error(codes.Unauthenticated, "invalid email or password")
		}
		return nil, internalError("load profile", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(req.Password)); err != nil {
		return nil, status.Error(codes.Unauthenticated, "invalid email or password")
	}

	token, exp, err := sysutils.GenerateToken(profile.ID, profile.Role, profile.BranchIDs(), s.tokenTTL)
	if err != nil {
		return nil, internalError("generate token", err)
	}

	now := s.now()
	profile.LastLogin = &now
	if err := s.db.WithContext(ctx).Model(&models.Profile{}).
		Where("id = ?", profile.ID).
		Update("last_login", now).Error; err != nil {
		return nil, internalError("record last login", err)
	}

	return &pb.LoginResponse{
		Token:     token,
		ExpiresAt: exp,
		User:      userToPB(profile),
	}, nil
}

// loadBranches returns exactly the branches named by ids, or InvalidArgument.
func loadBranches(db *gorm.DB, ids []int64) ([]models.Branch, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	unique := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		unique[id] = struct{}{}
	}
	var branches []models.Branch
	if err := db.Where("id IN ?", ids).Find(&branches).Error; err != nil {
		return nil, internalError("load branches", err)
	}
	if len(branches) != len(unique) {
		return nil, status.Error(codes.InvalidArgument, "branch_ids: unknown branch")
	}
	return branches, nil
}

func (s *BackOfficeHandler) emailTaken(ctx context.Context, email string, exceptID int64) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Profile{}).
		Where("email = ? AND id <> ?", email, exceptID).
		Count(&count).Error
	return count > 0, err
}

func (s *BackOfficeHandler) CreateUser(ctx context.Context, req *pb.CreateUserRequest) (*pb.UserResponse, error) {
	if _, err := session.RequireAdmin(ctx); err != nil {
		return nil, err
	}

	req.Normalize()
	if err := validation.Validate(req.NewUserForm); err != nil {
		return nil, invalidArgument(err)
	}

	taken, err := s.emailTaken(ctx, req.Email, 0)
	if err != nil {
		return nil, internalError("check email", err)
	}
	if taken {
		return nil, status.Errorf(codes.AlreadyExists, "a user with email %s already exists", req.Email)
	}

	branches, err := loadBranches(s.db.WithContext(ctx), req.BranchIDs)
	if err != nil {
		return nil, err
	}

	pwHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, internalError("hash password", err)
	}

	profile := models.Profile{
		FullName:     req.FullName,
		Email:        req.Email,
		PasswordHash: string(pwHash),
		Role:         req.Role,
		IsActive:     true,
		Branches:     branches,
	}
	if err := s.db.WithContext(ctx).Create(&profile).Error; err != nil {
		return nil, internalError("create user", err)
	}

	return &pb.UserResponse{User: userToPB(profile)}, nil
}

func (s *BackOfficeHandler) UpdateUser(ctx context.Context, req *pb.UpdateUserRequest) (*pb.UserResponse, error) {
	sess, err := session.RequireAdmin(ctx)
	if err != nil {
		return nil, err
	}
	if req.ID <= 0 {
		return nil, status.Error(codes.InvalidArgument, "user id is required")
	}

	req.Normalize()
	if err := validation.Validate(req.UserForm); err != nil {
		return nil, invalidArgument(err)
	}
	if req.Password != "" && len(req.Password) < minPasswordLength {
		return nil, status.Errorf(codes.InvalidArgument, "password: must be at least %d characters", minPasswordLength)
	}

	var profile models.Profile
	if err := s.db.WithContext(ctx).First(&profile, req.ID).Error; err != nil {
		return nil, lookupError(err, "user", req.ID)
	}

	if profile.ID == sess.UserID {
		if req.Role != validation.RoleAdministrator || (req.IsActive != nil && !*req.IsActive) {
			return nil, status.Error(codes.FailedPrecondition, "you cannot remove your own administrator access")
		}
	}

	taken, err := s.emailTaken(ctx, req.Email, profile.ID)
	if err != nil {
		return nil, internalError("check email", err)
	}
	if taken {
		return nil, status.Errorf(codes.AlreadyExists, "a user with email %s already exists", req.Email)
	}

	updates := map[string]interface{}{
		"full_name":  req.FullName,
		"email":      req.Email,
		"role":       req.Role,
		"updated_at": s.now(),
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.Password != "" {
		pwHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, internalError("hash password", err)
		}
		updates["password_hash"] = string(pwHash)
	}

	if err := s.db.WithContext(ctx).Model(&models.Profile{}).Where("id = ?", profile.ID).Updates(updates).Error; err != nil {
		return nil, internalError("update user", err)
	}

	if err := s.db.WithContext(ctx).Preload("Branches").First(&profile, profile.ID).Error; err != nil {
		return nil, internalError("reload user", err)
	}
	return &pb.UserResponse{User: userToPB(profile)}, nil
}

func (s *BackOfficeHandler) ListUsers(ctx context.Context, req *pb.ListUsersRequest) (*pb.ListUsersResponse, error) {
	if _, err := session.RequireAdmin(ctx); err != nil {
		return nil, err
	}

	query := s.db.WithContext(ctx).Model(&models.Profile{}).Preload("Branches")
	if req.Role != "" {
		query = query.Where("role = ?", strings.ToLower(req.Role))
	}
	if req.Active != nil {
		query = query.Where("is_active = ?", *req.Active)
	}

	var profiles []models.Profile
	if err := query.Order("full_name").Find(&profiles).Error; err != nil {
		return nil, internalError("list users", err)
	}

	users := make([]*pb.User, len(profiles))
	for i, p := range profiles {
		users[i] = userToPB(p)
	}
	return &pb.ListUsersResponse{Users: users}, nil
}

// SetUserBranches replaces the user's branch assignments. Tokens already
// issued keep the old list until the user logs in again.
func (s *BackOfficeHandler) SetUserBranches(ctx context.Context, req *pb.SetUserBranchesRequest) (*pb.UserResponse, error) {
	if _, err := session.RequireAdmin(ctx); err != nil {
		return nil, err
	}
	if req.UserID <= 0 {
		return nil, status.Error(codes.InvalidArgument, "user id is required")
	}

	db := s.db.WithContext(ctx)
	var profile models.Profile
	if err := db.First(&profile, req.UserID).Error; err != nil {
		return nil, lookupError(err, "user", req.UserID)
	}

	branches, err := loadBranches(db, req.BranchIDs)
	if err != nil {
		return nil, err
	}

	assoc := db.Model(&profile).Association("Branches")
	if len(branches) == 0 {
		err = assoc.Clear()
	} else {
		err = assoc.Replace(branches)
	}
	if err != nil {
		return nil, internalError("assign branches", err)
	}

	if err := db.Preload("Branches").First(&profile, profile.ID).Error; err != nil {
		return nil, internalError("reload user", err)
	}
	return &pb.UserResponse{User: userToPB(profile)}, nil
}
