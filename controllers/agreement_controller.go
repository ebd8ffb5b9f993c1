package controllers

import (
	"strconv"
	"time"

	"thuetro/dto"
	"thuetro/response"
	"thuetro/services"
	"thuetro/validator"

	"github.com/gin-gonic/gin"
)

// AgreementController xử lý HTTP cho vòng đời hợp đồng thuê
type AgreementController struct {
	service *services.AgreementService
}

// NewAgreementController tạo AgreementController mới
func NewAgreementController(service *services.AgreementService) *AgreementController {
	return &AgreementController{service: service}
}

// CreateAgreement tạo hợp đồng DRAFT kèm snapshot giá
func (ctl *AgreementController) CreateAgreement(c *gin.Context) {
	var req dto.AgreementCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Dữ liệu không hợp lệ")
		return
	}

	if err := validator.ValidateAgreementCreate(&req); err != nil {
		handleServiceError(c, err)
		return
	}

	agreement, err := ctl.service.Create(&req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, agreement)
}

// SendAgreement gửi hợp đồng DRAFT cho người thuê
func (ctl *AgreementController) SendAgreement(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	agreement, err := ctl.service.Send(id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, agreement)
}

// ConfirmAgreement người thuê đồng ý hợp đồng
func (ctl *AgreementController) ConfirmAgreement(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	agreement, err := ctl.service.Confirm(id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, agreement)
}

// RejectAgreement người thuê từ chối hợp đồng, bắt buộc có lý do
func (ctl *AgreementController) RejectAgreement(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req dto.AgreementRejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Dữ liệu không hợp lệ")
		return
	}

	agreement, err := ctl.service.Reject(id, req.Reason)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, agreement)
}

// ActivateAgreement chủ nhà kích hoạt hợp đồng đã được đồng ý
func (ctl *AgreementController) ActivateAgreement(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	agreement, err := ctl.service.Activate(id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, agreement)
}

// TerminateAgreement chấm dứt hợp đồng trước hạn kèm tính hoàn cọc
func (ctl *AgreementController) TerminateAgreement(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req dto.AgreementTerminateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Dữ liệu không hợp lệ")
		return
	}

	agreement, err := ctl.service.Terminate(id, req.Reason, req.Type, req.Penalty)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, agreement)
}

// RenewAgreement tạo hợp đồng kế nhiệm với snapshot giá mới
func (ctl *AgreementController) RenewAgreement(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req dto.AgreementRenewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Dữ liệu không hợp lệ")
		return
	}

	successor, err := ctl.service.Renew(id, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, successor)
}

// DeleteAgreement xóa hợp đồng còn DRAFT
func (ctl *AgreementController) DeleteAgreement(c *gin.Context) {
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

// ExpireAgreements quét thủ công các hợp đồng quá hạn (hệ thống gọi)
func (ctl *AgreementController) ExpireAgreements(c *gin.Context) {
	expired, err := ctl.service.ExpireDue(time.Now())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"expired": expired})
}

// GetAgreementDetail trả về một hợp đồng, expire lười nếu quá hạn
func (ctl *AgreementController) GetAgreementDetail(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	agreement, err := ctl.service.GetByID(id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, agreement)
}

// GetAgreements liệt kê hợp đồng có phân trang và filter
func (ctl *AgreementController) GetAgreements(c *gin.Context) {
	page, limit := parsePagination(c)
	status := parseStatusFilter(c)

	var unitID *uint
	if unitStr := c.Query("unitId"); unitStr != "" {
		if parsed, err := strconv.ParseUint(unitStr, 10, 32); err == nil {
			u := uint(parsed)
			unitID = &u
		}
	}

	agreements, total, err := ctl.service.List(page, limit, status, unitID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SuccessWithPagination(c, agreements, page, limit, int(total))
}
