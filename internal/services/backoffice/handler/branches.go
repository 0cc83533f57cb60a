package handler

import (
	"context"

	"syntra-backoffice/internal/database/models"
	pb "syntra-backoffice/internal/rpc/backoffice"
	"syntra-backoffice/internal/session"
	"syntra-backoffice/internal/validation"
)

func (s *BackOfficeHandler) CreateBranch(ctx context.Context, req *pb.CreateBranchRequest) (*pb.BranchResponse, error) {
	if _, err := session.RequireAdmin(ctx); err != nil {
		return nil, err
	}

	req.Normalize()
	if err := validation.Validate(req.BranchForm); err != nil {
		return nil, invalidArgument(err)
	}

	branch := models.Branch{
		Name:     req.Name,
		Address:  req.Address,
		IsActive: true,
	}
	if err := s.db.WithContext(ctx).Create(&branch).Error; err != nil {
		return nil, internalError("create branch", err)
	}

	s.InvalidateBackOfficeCaches(ctx)

	return &pb.BranchResponse{Branch: branchToPB(branch)}, nil
}

// ListBranches serves the active branch list from cache. Non-administrators
// only see the branches they are assigned to.
func (s *BackOfficeHandler) ListBranches(ctx context.Context, req *pb.ListBranchesRequest) (*pb.ListBranchesResponse, error) {
	sess, err := session.Require(ctx)
	if err != nil {
		return nil, err
	}

	var branches []models.Branch
	if !s.getCached(ctx, BACKOFFICE_BRANCHES_CACHE_KEY, &branches) {
		if err := s.db.WithContext(ctx).Where("is_active = ?", true).Order("name").Find(&branches).Error; err != nil {
			return nil, internalError("list branches", err)
		}
		s.setCached(ctx, BACKOFFICE_BRANCHES_CACHE_KEY, branches, CACHE_TTL_LONG)
	}

	out := make([]*pb.Branch, 0, len(branches))
	for _, b := range branches {
		if sess.CanAccessBranch(b.ID) {
			out = append(out, branchToPB(b))
		}
	}
	return &pb.ListBranchesResponse{Branches: out}, nil
}
