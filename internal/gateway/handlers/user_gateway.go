package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	pb "syntra-backoffice/internal/rpc/backoffice"
	"syntra-backoffice/internal/validation"
)

// BackOfficeHTTPHandler exposes the back-office service over REST.
type BackOfficeHTTPHandler struct {
	client pb.BackOfficeClient
}

func NewBackOfficeHTTPHandler(client pb.BackOfficeClient) *BackOfficeHTTPHandler {
	return &BackOfficeHTTPHandler{client: client}
}

// Request structs
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type CreateUserRequest struct {
	FullName  string  `json:"full_name" binding:"required"`
	Email     string  `json:"email" binding:"required"`
	Role      string  `json:"role" binding:"required"`
	Password  string  `json:"password" binding:"required"`
	BranchIDs []int64 `json:"branch_ids"`
}

type UpdateUserRequest struct {
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Role     string `json:"role" binding:"required"`
	IsActive *bool  `json:"is_active,omitempty"`
	Password string `json:"password,omitempty"`
}

type SetBranchesRequest struct {
	BranchIDs []int64 `json:"branch_ids"`
}

type CreateBranchRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
}

// Query structs
type ListUsersQuery struct {
	Role     string `form:"role"`
	IsActive *bool  `form:"is_active"`
}

// --- Authentication ---

func (h *BackOfficeHTTPHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	ctx, cancel := callContext(c)
	defer cancel()

	resp, err := h.client.Login(ctx, &pb.LoginRequest{Email: req.Email, Password: req.Password})
	if handleGRPCError(c, err) {
		return
	}

	c.JSON(http.StatusOK, successResponse("Login successful", resp))
}

// --- User Management ---

func (h *BackOfficeHTTPHandler) ListUsers(c *gin.Context) {
	var query ListUsersQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid query parameters: "+err.Error()))
		return
	}

	ctx, cancel := callContext(c)
	defer cancel()

	resp, err := h.client.ListUsers(ctx, &pb.ListUsersRequest{Role: query.Role, Active: query.IsActive})
	if handleGRPCError(c, err) {
		return
	}

	c.JSON(http.StatusOK, successResponse("Users retrieved successfully", resp.Users))
}

func (h *BackOfficeHTTPHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format: "+err.Error()))
		return
	}

	ctx, cancel := callContext(c)
	defer cancel()

	resp, err := h.client.CreateUser(ctx, &pb.CreateUserRequest{
		NewUserForm: validation.NewUserForm{
			UserForm: validation.UserForm{FullName: req.FullName, Email: req.Email, Role: req.Role},
			Password: req.Password,
		},
		BranchIDs: req.BranchIDs,
	})
	if handleGRPCError(c, err) {
		return
	}

	c.JSON(http.StatusCreated, successResponse("User created successfully", resp.User))
}

func (h *BackOfficeHTTPHandler) UpdateUser(c *gin.Context) {
	userID, ok := parseID(c, "id", "user")
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format: "+err.Error()))
		return
	}

	ctx, cancel := callContext(c)
	defer cancel()

	resp, err := h.client.UpdateUser(ctx, &pb.UpdateUserRequest{
		ID:       userID,
		UserForm: validation.UserForm{FullName: req.FullName, Email: req.Email, Role: req.Role},
		IsActive: req.IsActive,
		Password: req.Password,
	})
	if handleGRPCError(c, err) {
		return
	}

	c.JSON(http.StatusOK, successResponse("User updated successfully", resp.User))
}

func (h *BackOfficeHTTPHandler) SetUserBranches(c *gin.Context) {
	userID, ok := parseID(c, "id", "user")
	if !ok {
		return
	}

	var req SetBranchesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format: "+err.Error()))
		return
	}

	ctx, cancel := callContext(c)
	defer cancel()

	resp, err := h.client.SetUserBranches(ctx, &pb.SetUserBranchesRequest{UserID: userID, BranchIDs: req.BranchIDs})
	if handleGRPCError(c, err) {
		return
	}

	c.JSON(http.StatusOK, successResponse("User branches updated successfully", resp.User))
}

// --- Branches ---

func (h *BackOfficeHTTPHandler) ListBranches(c *gin.Context) {
	ctx, cancel := callContext(c)
	defer cancel()

	resp, err := h.client.ListBranches(ctx, &pb.ListBranchesRequest{})
	if handleGRPCError(c, err) {
		return
	}

	c.JSON(http.StatusOK, successResponse("Branches retrieved successfully", resp.Branches))
}

func (h *BackOfficeHTTPHandler) CreateBranch(c *gin.Context) {
	var req CreateBranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format: "+err.Error()))
		return
	}

	ctx, cancel := callContext(c)
	defer cancel()

	resp, err := h.client.CreateBranch(ctx, &pb.CreateBranchRequest{
		BranchForm: validation.BranchForm{Name: req.Name, Address: req.Address},
	})
	if handleGRPCError(c, err) {
		return
	}

	c.JSON(http.StatusCreated, successResponse("Branch created successfully", resp.Branch))
}
