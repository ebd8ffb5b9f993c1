package controllers

import (
	"strconv"

	"thuetro/dto"
	"thuetro/models"
	"thuetro/response"
	"thuetro/services"

	"github.com/gin-gonic/gin"
)

// PricingController xử lý HTTP cho engine resolve giá và snapshot
type PricingController struct {
	pricing *services.PricingService
	units   services.UnitStore
}

// NewPricingController tạo PricingController mới
func NewPricingController(pricing *services.PricingService, units services.UnitStore) *PricingController {
	return &PricingController{pricing: pricing, units: units}
}

// ResolvePolicy chọn chính sách áp dụng cho một đơn vị thuê
func (ctl *PricingController) ResolvePolicy(c *gin.Context) {
	unitID, err := strconv.ParseUint(c.Query("unitId"), 10, 32)
	if err != nil {
		response.BadRequest(c, "unitId không hợp lệ")
		return
	}

	unit, err := ctl.units.GetByID(uint(unitID))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	version, err := ctl.pricing.Resolve(unit)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, version)
}

// BindSnapshot resolve rồi đóng băng giá cho một chủ sở hữu (đơn vị thuê
// hoặc hợp đồng). Bind hai lần cho cùng chủ sở hữu là lỗi conflict.
func (ctl *PricingController) BindSnapshot(c *gin.Context) {
	var req dto.SnapshotBindRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Dữ liệu không hợp lệ")
		return
	}

	unit, err := ctl.units.GetByID(req.UnitID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	version, err := ctl.pricing.Resolve(unit)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	snapshot, err := ctl.pricing.Bind(req.OwnerType, req.OwnerID, version)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	ctl.respondSnapshot(c, snapshot)
}

// OverrideSnapshot ghi một override cho trường giá của snapshot
func (ctl *PricingController) OverrideSnapshot(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req dto.OverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Dữ liệu không hợp lệ")
		return
	}

	snapshot, err := ctl.pricing.Override(id, req.Field, req.Value)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	ctl.respondSnapshot(c, snapshot)
}

// ClearSnapshotOverride gỡ override, giá hiệu lực quay về giá đã chụp
func (ctl *PricingController) ClearSnapshotOverride(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	field := c.Query("field")
	if field == "" {
		response.BadRequest(c, "Thiếu field")
		return
	}

	snapshot, err := ctl.pricing.ClearOverride(id, field)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	ctl.respondSnapshot(c, snapshot)
}

// GetEffectivePrice trả về bộ giá hiệu lực của snapshot
func (ctl *PricingController) GetEffectivePrice(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	effective, err := ctl.pricing.EffectivePrice(id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, effective)
}

// GetSnapshot trả về snapshot kèm override và giá hiệu lực
func (ctl *PricingController) GetSnapshot(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	snapshot, err := ctl.pricing.GetByID(id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	ctl.respondSnapshot(c, snapshot)
}

func (ctl *PricingController) respondSnapshot(c *gin.Context, snapshot *models.PricingSnapshot) {
	resp, err := dto.NewSnapshotResponse(snapshot)
	if err != nil {
		response.ServerError(c)
		return
	}
	response.Success(c, resp)
}
