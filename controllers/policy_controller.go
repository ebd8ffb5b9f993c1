package controllers

import (
	"thuetro/dto"
	"thuetro/response"
	"thuetro/services"

	"github.com/gin-gonic/gin"
)

// PolicyController xử lý HTTP cho catalog chính sách giá
type PolicyController struct {
	service *services.PolicyService
}

// NewPolicyController tạo PolicyController mới
func NewPolicyController(service *services.PolicyService) *PolicyController {
	return &PolicyController{service: service}
}

// CreatePolicy tạo chính sách giá mới (version 1)
func (ctl *PolicyController) CreatePolicy(c *gin.Context) {
	var req dto.PolicyCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Dữ liệu không hợp lệ")
		return
	}

	policy, version, err := ctl.service.Create(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, dto.NewPolicyResponse(policy, version))
}

// UpdatePolicy tạo phiên bản mới cho chính sách
func (ctl *PolicyController) UpdatePolicy(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req dto.PolicyUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Dữ liệu không hợp lệ")
		return
	}

	policy, version, err := ctl.service.Update(id, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, dto.NewPolicyResponse(policy, version))
}

// ChangePolicyStatus bật/tắt chính sách khỏi resolve
func (ctl *PolicyController) ChangePolicyStatus(c *gin.Context) {
	var req dto.PolicyStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Dữ liệu không hợp lệ")
		return
	}

	if err := ctl.service.SetStatus(req.PolicyID, req.Status); err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, nil)
}

// FindPolicyCandidates tìm các chính sách áp dụng được cho một phạm vi,
// xếp theo độ cụ thể địa lý
func (ctl *PolicyController) FindPolicyCandidates(c *gin.Context) {
	category := c.Query("category")
	durationClass := c.Query("durationClass")
	if category == "" || durationClass == "" {
		response.BadRequest(c, "Thiếu category hoặc durationClass")
		return
	}

	candidates, err := ctl.service.FindCandidates(category, durationClass, c.Query("province"), c.Query("district"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, candidates)
}

// DeletePolicy xóa cứng chính sách chưa có snapshot tham chiếu
func (ctl *PolicyController) DeletePolicy(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := ctl.service.Delete(id); err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, nil)
}

// GetPolicyDetail trả về chính sách kèm phiên bản hiện hành
func (ctl *PolicyController) GetPolicyDetail(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	policy, err := ctl.service.GetByID(id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	version, err := ctl.service.GetVersion(policy.ID, policy.CurrentVersion)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, dto.NewPolicyResponse(policy, version))
}

// GetPolicies liệt kê chính sách có phân trang
func (ctl *PolicyController) GetPolicies(c *gin.Context) {
	page, limit := parsePagination(c)
	status := parseStatusFilter(c)

	policies, total, err := ctl.service.List(page, limit, status)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SuccessWithPagination(c, policies, page, limit, int(total))
}
