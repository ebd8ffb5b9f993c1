package controllers

import (
	stderrors "errors"
	"strconv"

	"thuetro/errors"
	"thuetro/response"
	"thuetro/utils"

	"github.com/gin-gonic/gin"
)

// handleServiceError ánh xạ lỗi tầng service sang HTTP response. Mọi lỗi
// đều mang thông điệp đủ để caller biết trạng thái thực tế và tự quyết
// bước tiếp theo.
func handleServiceError(c *gin.Context, err error) {
	if errors.IsInvalidTransition(err) {
		response.BadRequest(c, err.Error())
		return
	}

	switch {
	case stderrors.Is(err, errors.ErrBundleNotFound),
		stderrors.Is(err, errors.ErrPolicyNotFound),
		stderrors.Is(err, errors.ErrSnapshotNotFound),
		stderrors.Is(err, errors.ErrAgreementNotFound),
		stderrors.Is(err, errors.ErrUnitNotFound):
		response.NotFound(c, err.Error())
		return
	case stderrors.Is(err, errors.ErrConcurrentActivation),
		stderrors.Is(err, errors.ErrUnitAlreadyCommitted),
		stderrors.Is(err, errors.ErrAlreadyBound),
		stderrors.Is(err, errors.ErrPolicyInUse),
		stderrors.Is(err, errors.ErrAgreementRenewed),
		stderrors.Is(err, errors.ErrStaleVersion):
		response.Conflict(c, err.Error())
		return
	case stderrors.Is(err, errors.ErrNoActiveBundle),
		stderrors.Is(err, errors.ErrNoPolicyFound),
		stderrors.Is(err, errors.ErrSnapshotRequired),
		stderrors.Is(err, errors.ErrUnknownField):
		response.BadRequest(c, err.Error())
		return
	}

	if appErr := errors.GetAppError(err); appErr != nil {
		switch appErr.Code {
		case errors.ErrCodeNotFound:
			response.NotFound(c, appErr.Message)
		case errors.ErrCodeConflict, errors.ErrCodeConcurrentActivation,
			errors.ErrCodeUnitCommitted, errors.ErrCodeAlreadyBound,
			errors.ErrCodePolicyInUse:
			response.Conflict(c, appErr.Message)
		case errors.ErrCodeDBError:
			utils.LogError("Lỗi DB tại %s: %v", c.FullPath(), appErr.Err)
			response.ServerError(c)
		default:
			response.BadRequest(c, appErr.Message)
		}
		return
	}

	utils.LogError("Lỗi không phân loại tại %s: %v", c.FullPath(), err)
	response.ServerError(c)
}

// parsePagination đọc page/limit từ query string, mặc định page 0 limit 10
func parsePagination(c *gin.Context) (int, int) {
	page := 0
	limit := 10

	if pageStr := c.Query("page"); pageStr != "" {
		if parsedPage, err := strconv.Atoi(pageStr); err == nil && parsedPage >= 0 {
			page = parsedPage
		}
	}
	if limitStr := c.Query("limit"); limitStr != "" {
		if parsedLimit, err := strconv.Atoi(limitStr); err == nil && parsedLimit > 0 {
			limit = parsedLimit
		}
	}
	return page, limit
}

// parseIDParam đọc id từ path param
func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID không hợp lệ")
		return 0, false
	}
	return uint(id), true
}

// parseStatusFilter đọc filter status từ query string
func parseStatusFilter(c *gin.Context) *int {
	statusStr := c.Query("status")
	if statusStr == "" {
		return nil
	}
	status, err := strconv.Atoi(statusStr)
	if err != nil {
		return nil
	}
	return &status
}
