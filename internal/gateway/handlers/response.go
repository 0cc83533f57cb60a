package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	pb "syntra-backoffice/internal/rpc/backoffice"
)

const requestTimeout = 5 * time.Second

type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
}

func successResponse(message string, data interface{}) APIResponse {
	return APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	}
}

func errorResponse(message string) APIResponse {
	return APIResponse{
		Success: false,
		Message: message,
	}
}

func successWithMetaResponse(message string, data interface{}, meta interface{}) APIResponse {
	return APIResponse{
		Success: true,
		Message: message,
		Data:    data,
		Meta:    meta,
	}
}

var grpcToHTTP = map[codes.Code]int{
	codes.InvalidArgument:    http.StatusBadRequest,
	codes.Unauthenticated:    http.StatusUnauthorized,
	codes.PermissionDenied:   http.StatusForbidden,
	codes.NotFound:           http.StatusNotFound,
	codes.AlreadyExists:      http.StatusConflict,
	codes.FailedPrecondition: http.StatusConflict,
	codes.Unavailable:        http.StatusServiceUnavailable,
	codes.DeadlineExceeded:   http.StatusGatewayTimeout,
}

// handleGRPCError writes the response for a failed call and reports whether
// there was an error at all.
func handleGRPCError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}
	s, ok := status.FromError(err)
	if !ok {
		c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse("Unknown service error"))
		return true
	}
	if code, found := grpcToHTTP[s.Code()]; found {
		c.AbortWithStatusJSON(code, errorResponse(s.Message()))
	} else {
		c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse("Service error: "+s.Message()))
	}
	return true
}

// callContext bounds one gRPC round trip. It derives from the request context
// so the session stored by the auth middleware travels with the call.
func callContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), requestTimeout)
}

func parseID(c *gin.Context, param, label string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid "+label+" ID"))
		return 0, false
	}
	return id, true
}

type PageQuery struct {
	Page     int32 `form:"page,default=1"`
	PageSize int32 `form:"page_size,default=20"`
}

func (q PageQuery) pagination() pb.Pagination {
	return pb.Pagination{Page: q.Page, PageSize: q.PageSize}
}

func sendFile(c *gin.Context, file *pb.FileResponse) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Content)
}
