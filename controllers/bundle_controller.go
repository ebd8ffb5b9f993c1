package controllers

import (
	"thuetro/dto"
	"thuetro/response"
	"thuetro/services"

	"github.com/gin-gonic/gin"
)

// BundleController xử lý HTTP cho registry config bundle
type BundleController struct {
	service *services.BundleService
}

// NewBundleController tạo BundleController mới
func NewBundleController(service *services.BundleService) *BundleController {
	return &BundleController{service: service}
}

// CreateBundle tạo bundle mới ở trạng thái DRAFT
func (ctl *BundleController) CreateBundle(c *gin.Context) {
	var req dto.BundleCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Dữ liệu không hợp lệ")
		return
	}

	bundle, err := ctl.service.Create(req.Name, &req.Vocabulary)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, dto.NewBundleResponse(bundle))
}

// ActivateBundle kích hoạt một bundle DRAFT/ARCHIVED
func (ctl *BundleController) ActivateBundle(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	bundle, err := ctl.service.Activate(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, dto.NewBundleResponse(bundle))
}

// RollbackBundle kích hoạt lại một bundle đã lưu trữ
func (ctl *BundleController) RollbackBundle(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	bundle, err := ctl.service.Rollback(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, dto.NewBundleResponse(bundle))
}

// GetActiveBundle trả về bundle đang hoạt động
func (ctl *BundleController) GetActiveBundle(c *gin.Context) {
	bundle, err := ctl.service.GetActive(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, dto.NewBundleResponse(bundle))
}

// GetBundles liệt kê bundle có phân trang
func (ctl *BundleController) GetBundles(c *gin.Context) {
	page, limit := parsePagination(c)
	status := parseStatusFilter(c)

	bundles, total, err := ctl.service.List(page, limit, status)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	bundleResponses := make([]dto.BundleResponse, 0, len(bundles))
	for i := range bundles {
		bundleResponses = append(bundleResponses, dto.NewBundleResponse(&bundles[i]))
	}
	response.SuccessWithPagination(c, bundleResponses, page, limit, int(total))
}
