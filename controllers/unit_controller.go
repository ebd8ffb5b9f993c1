package controllers

import (
	"thuetro/dto"
	"thuetro/models"
	"thuetro/response"
	"thuetro/services"

	"github.com/gin-gonic/gin"
)

// UnitController xử lý HTTP cho đơn vị thuê. CRUD giữ ở mức tối thiểu:
// quản lý tài sản đầy đủ thuộc hệ thống ngoài.
type UnitController struct {
	units services.UnitStore
	geo   *services.GeoNormalizer
}

// NewUnitController tạo UnitController mới
func NewUnitController(units services.UnitStore, geo *services.GeoNormalizer) *UnitController {
	return &UnitController{units: units, geo: geo}
}

// CreateUnit tạo đơn vị thuê mới
func (ctl *UnitController) CreateUnit(c *gin.Context) {
	var req dto.UnitCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Dữ liệu không hợp lệ")
		return
	}
	if req.Name == "" || req.Category == "" || req.DurationClass == "" {
		response.BadRequest(c, "Thiếu name, category hoặc durationClass")
		return
	}

	province := req.Province
	district := req.District
	if ctl.geo != nil {
		province = ctl.geo.NormalizeProvince(province)
		district = ctl.geo.NormalizeDistrict(district)
	}

	unit := &models.RentableUnit{
		LandlordID:    req.LandlordID,
		Name:          req.Name,
		Category:      req.Category,
		DurationClass: req.DurationClass,
		Province:      province,
		District:      district,
		Address:       req.Address,
		Acreage:       req.Acreage,
	}
	if err := ctl.units.Create(unit); err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, unit)
}

// GetUnitDetail trả về một đơn vị thuê
func (ctl *UnitController) GetUnitDetail(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	unit, err := ctl.units.GetByID(id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, unit)
}

// GetUnits liệt kê đơn vị thuê, lọc theo tỉnh/thành
func (ctl *UnitController) GetUnits(c *gin.Context) {
	page, limit := parsePagination(c)

	province := c.Query("province")
	if province != "" && ctl.geo != nil {
		province = ctl.geo.NormalizeProvince(province)
	}

	units, total, err := ctl.units.List(page, limit, province)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SuccessWithPagination(c, units, page, limit, int(total))
}
