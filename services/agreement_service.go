package services

import (
	"math"
	"os"
	"strconv"
	"time"

	"thuetro/constants"
	"thuetro/dto"
	"thuetro/errors"
	"thuetro/models"
	"thuetro/services/logger"
)

const agreementDateLayout = "02/01/2006"

// AgreementService điều phối vòng đời hợp đồng thuê: tạo, chuyển trạng
// thái, gia hạn và chấm dứt. Giá của hợp đồng luôn đến từ một pricing
// snapshot gắn lúc tạo; mỗi lần chuyển trạng thái thành công phát đúng
// một event ra EventSink.
type AgreementService struct {
	agreements AgreementStore
	units      UnitStore
	pricing    *PricingService
	unitSink   UnitStatusSink
	events     EventSink
	logger     logger.Logger

	// % tăng giá mặc định khi gia hạn, đọc từ RENEWAL_ESCALATION_PERCENT
	escalationPercent float64
}

// AgreementServiceOptions chứa dependencies của AgreementService
type AgreementServiceOptions struct {
	Agreements AgreementStore
	Units      UnitStore
	Pricing    *PricingService
	UnitSink   UnitStatusSink
	Events     EventSink
	Logger     logger.Logger
}

// NewAgreementService tạo AgreementService mới
func NewAgreementService(opts AgreementServiceOptions) *AgreementService {
	l := opts.Logger
	if l == nil {
		l = logger.NewDefaultLogger(logger.InfoLevel)
	}
	events := opts.Events
	if events == nil {
		events = NopEventSink{}
	}
	unitSink := opts.UnitSink
	if unitSink == nil && opts.Units != nil {
		unitSink = NewUnitStatusSink(opts.Units)
	}
	return &AgreementService{
		agreements:        opts.Agreements,
		units:             opts.Units,
		pricing:           opts.Pricing,
		unitSink:          unitSink,
		events:            events,
		logger:            l,
		escalationPercent: defaultEscalationPercent(),
	}
}

func defaultEscalationPercent() float64 {
	raw := os.Getenv("RENEWAL_ESCALATION_PERCENT")
	if raw == "" {
		return 0
	}
	pct, err := strconv.ParseFloat(raw, 64)
	if err != nil || pct < 0 {
		return 0
	}
	return pct
}

// Create tạo hợp đồng DRAFT: resolve chính sách cho đơn vị thuê rồi tạo hợp
// đồng kèm snapshot trong một transaction. Resolve thất bại thì không có
// thực thể nào được ghi.
func (s *AgreementService) Create(req *dto.AgreementCreateRequest) (*models.RentalAgreement, error) {
	if req.LandlordID == 0 || req.TenantID == 0 {
		return nil, errors.NewAppError(errors.ErrCodeRequiredField, "Hợp đồng phải có chủ nhà và người thuê", nil)
	}

	startDate, endDate, err := parseAgreementDates(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	unit, err := s.units.GetByID(req.UnitID)
	if err != nil {
		return nil, err
	}

	version, err := s.pricing.Resolve(unit)
	if err != nil {
		return nil, err
	}

	agreement := &models.RentalAgreement{
		LandlordID:   req.LandlordID,
		TenantID:     req.TenantID,
		UnitID:       unit.ID,
		Status:       constants.AgreementStatusDraft,
		StartDate:    startDate,
		EndDate:      endDate,
		PaymentCycle: req.PaymentCycle,
	}
	snapshot := newSnapshotFromVersion(version)

	if err := s.agreements.CreateWithSnapshot(agreement, snapshot); err != nil {
		return nil, err
	}

	s.logger.Info("Đã tạo hợp đồng %d cho đơn vị %d, snapshot %d", agreement.ID, unit.ID, snapshot.ID)
	return agreement, nil
}

// Send gửi hợp đồng DRAFT cho người thuê. Guard: đã có snapshot và đơn vị
// chưa bị hợp đồng sống khác chiếm.
func (s *AgreementService) Send(id uint) (*models.RentalAgreement, error) {
	agreement, err := s.agreements.GetByID(id)
	if err != nil {
		return nil, err
	}

	// Chạy guard của máy trạng thái trên bản copy; MarkSent mới là nơi ghi
	// trạng thái, kèm guard đơn vị trong cùng transaction.
	oldStatus := agreement.Status
	probe := *agreement
	if err := models.GetAgreementState(agreement.Status).Send(&probe); err != nil {
		return nil, err
	}

	if err := s.agreements.MarkSent(agreement); err != nil {
		return nil, err
	}

	s.emit(agreement, models.EventSend, oldStatus)
	return agreement, nil
}

// Delete xóa hợp đồng, chỉ cho phép khi còn DRAFT
func (s *AgreementService) Delete(id uint) error {
	agreement, err := s.agreements.GetByID(id)
	if err != nil {
		return err
	}

	if err := models.GetAgreementState(agreement.Status).Delete(agreement); err != nil {
		return err
	}
	return s.agreements.Delete(agreement)
}

// Confirm người thuê đồng ý hợp đồng đã gửi
func (s *AgreementService) Confirm(id uint) (*models.RentalAgreement, error) {
	return s.transition(id, models.EventConfirm, nil)
}

// Reject người thuê từ chối hợp đồng; bắt buộc có lý do
func (s *AgreementService) Reject(id uint, reason string) (*models.RentalAgreement, error) {
	if reason == "" {
		return nil, errors.NewAppError(errors.ErrCodeRequiredField, "Từ chối hợp đồng phải có lý do", nil)
	}
	return s.transition(id, models.EventReject, func(a *models.RentalAgreement) error {
		a.RejectReason = reason
		return nil
	})
}

// Activate chủ nhà kích hoạt hợp đồng đã được người thuê đồng ý; đơn vị
// thuê chuyển sang OCCUPIED.
func (s *AgreementService) Activate(id uint) (*models.RentalAgreement, error) {
	agreement, err := s.transition(id, models.EventActivate, nil)
	if err != nil {
		return nil, err
	}

	if err := s.unitSink.MarkOccupied(agreement.UnitID); err != nil {
		s.logger.Error("Lỗi đánh dấu đơn vị %d OCCUPIED: %v", agreement.UnitID, err)
	}
	return agreement, nil
}

// Terminate chấm dứt hợp đồng ACTIVE trước hạn. Tiền cọc hoàn lại = tiền
// cọc hiệu lực − phạt, chặn dưới 0. Đơn vị thuê được trả về AVAILABLE.
func (s *AgreementService) Terminate(id uint, reason, terminationType string, penalty int64) (*models.RentalAgreement, error) {
	if reason == "" || terminationType == "" {
		return nil, errors.NewAppError(errors.ErrCodeRequiredField, "Chấm dứt hợp đồng phải có lý do và loại chấm dứt", nil)
	}
	if penalty < 0 {
		return nil, errors.NewAppError(errors.ErrCodeInvalidAmount, "Tiền phạt không được âm", nil)
	}

	agreement, err := s.transition(id, models.EventTerminate, func(a *models.RentalAgreement) error {
		refund, err := s.depositRefund(a, penalty)
		if err != nil {
			return err
		}
		a.TerminationReason = reason
		a.TerminationType = terminationType
		a.TerminationPenalty = penalty
		a.DepositRefund = refund
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.unitSink.Release(agreement.UnitID); err != nil {
		s.logger.Error("Lỗi trả đơn vị %d về AVAILABLE: %v", agreement.UnitID, err)
	}
	return agreement, nil
}

// Expire chuyển hợp đồng ACTIVE đã qua ngày kết thúc sang EXPIRED. Gọi lại
// trên hợp đồng đã EXPIRED là no-op, không phải lỗi.
func (s *AgreementService) Expire(id uint, now time.Time) (*models.RentalAgreement, error) {
	agreement, err := s.agreements.GetByID(id)
	if err != nil {
		return nil, err
	}
	return s.expire(agreement, now)
}

func (s *AgreementService) expire(agreement *models.RentalAgreement, now time.Time) (*models.RentalAgreement, error) {
	if agreement.Status == constants.AgreementStatusExpired {
		return agreement, nil
	}
	if agreement.Status == constants.AgreementStatusActive && !agreement.PastEndDate(now) {
		return agreement, nil
	}

	oldStatus := agreement.Status
	if err := models.GetAgreementState(agreement.Status).Expire(agreement); err != nil {
		return nil, err
	}
	if err := s.agreements.Update(agreement); err != nil {
		return nil, err
	}

	if err := s.unitSink.Release(agreement.UnitID); err != nil {
		s.logger.Error("Lỗi trả đơn vị %d về AVAILABLE: %v", agreement.UnitID, err)
	}
	s.emit(agreement, models.EventExpire, oldStatus)
	return agreement, nil
}

// ExpireDue quét các hợp đồng ACTIVE đã qua hạn và chuyển sang EXPIRED.
// Idempotent: chạy lại không gây lỗi, không phát event trùng.
func (s *AgreementService) ExpireDue(now time.Time) (int, error) {
	due, err := s.agreements.ListExpired(now)
	if err != nil {
		return 0, err
	}

	expired := 0
	for i := range due {
		if _, err := s.expire(&due[i], now); err != nil {
			s.logger.Error("Lỗi expire hợp đồng %d: %v", due[i].ID, err)
			continue
		}
		expired++
	}
	return expired, nil
}

// Renew tạo hợp đồng kế nhiệm từ hợp đồng ACTIVE/EXPIRED: resolve chính
// sách mới, áp % tăng giá lên giá cơ bản hiệu lực trước đó (tính cả
// override) rồi gắn snapshot mới. Thất bại ở bất kỳ bước nào thì hợp đồng
// gốc không bị đụng tới.
func (s *AgreementService) Renew(id uint, req *dto.AgreementRenewRequest) (*models.RentalAgreement, error) {
	source, err := s.agreements.GetByID(id)
	if err != nil {
		return nil, err
	}

	if err := models.GetAgreementState(source.Status).Renew(source); err != nil {
		return nil, err
	}

	startDate, endDate, err := parseAgreementDates(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	unit, err := s.units.GetByID(source.UnitID)
	if err != nil {
		return nil, err
	}

	// Resolve mới theo chính sách hiện hành; không có chính sách áp dụng
	// thì hủy toàn bộ, không ghi renewed_into_id dở dang.
	version, err := s.pricing.Resolve(unit)
	if err != nil {
		return nil, err
	}

	snapshot := newSnapshotFromVersion(version)
	if err := s.applyEscalation(source, snapshot, version, req.EscalationPercent); err != nil {
		return nil, err
	}

	paymentCycle := source.PaymentCycle
	if req.PaymentCycle != nil {
		paymentCycle = *req.PaymentCycle
	}
	successor := &models.RentalAgreement{
		LandlordID:    source.LandlordID,
		TenantID:      source.TenantID,
		UnitID:        source.UnitID,
		Status:        constants.AgreementStatusDraft,
		StartDate:     startDate,
		EndDate:       endDate,
		PaymentCycle:  paymentCycle,
		RenewedFromID: &source.ID,
	}

	if err := s.agreements.Renew(source, successor, snapshot); err != nil {
		return nil, err
	}

	s.logger.Info("Đã gia hạn hợp đồng %d thành hợp đồng %d", source.ID, successor.ID)
	return successor, nil
}

// applyEscalation áp % tăng giá lên giá cơ bản hiệu lực của hợp đồng cũ.
// Giá sau leo thang khác giá chính sách thì ghi thành override để snapshot
// giữ nguyên vết giá gốc / giá đã điều chỉnh.
func (s *AgreementService) applyEscalation(source *models.RentalAgreement, snapshot *models.PricingSnapshot, version *models.PolicyVersion, pctOverride *float64) error {
	pct := s.escalationPercent
	if pctOverride != nil {
		if *pctOverride < 0 {
			return errors.NewAppError(errors.ErrCodeInvalidAmount, "Phần trăm tăng giá không được âm", nil)
		}
		pct = *pctOverride
	}
	if pct == 0 || source.SnapshotID == nil {
		return nil
	}

	prev, err := s.pricing.GetByID(*source.SnapshotID)
	if err != nil {
		return err
	}
	prevEffective, err := prev.EffectivePrice()
	if err != nil {
		return err
	}

	escalated := int64(math.Round(float64(prevEffective.BasePrice) * (1 + pct/100)))
	if escalated != version.BasePrice {
		return snapshot.SetOverride(models.FieldBasePrice, strconv.FormatInt(escalated, 10))
	}
	return nil
}

// GetByID lấy hợp đồng; hợp đồng ACTIVE đã qua hạn được expire lười ngay
// trên đường đọc.
func (s *AgreementService) GetByID(id uint) (*models.RentalAgreement, error) {
	agreement, err := s.agreements.GetByID(id)
	if err != nil {
		return nil, err
	}

	if agreement.Status == constants.AgreementStatusActive && agreement.PastEndDate(time.Now()) {
		return s.expire(agreement, time.Now())
	}
	return agreement, nil
}

// List liệt kê hợp đồng có phân trang
func (s *AgreementService) List(page, limit int, status *int, unitID *uint) ([]models.RentalAgreement, int64, error) {
	return s.agreements.List(page, limit, status, unitID)
}

// transition chạy một event qua máy trạng thái, lưu và phát sự kiện.
// Đọc qua GetByID để hợp đồng ACTIVE đã quá hạn được expire lười trước,
// không cho terminate kèm phạt một hợp đồng lẽ ra đã EXPIRED.
func (s *AgreementService) transition(id uint, event string, effect func(*models.RentalAgreement) error) (*models.RentalAgreement, error) {
	agreement, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	oldStatus := agreement.Status
	state := models.GetAgreementState(agreement.Status)

	var stateErr error
	switch event {
	case models.EventConfirm:
		stateErr = state.Confirm(agreement)
	case models.EventReject:
		stateErr = state.Reject(agreement)
	case models.EventActivate:
		stateErr = state.Activate(agreement)
	case models.EventTerminate:
		stateErr = state.Terminate(agreement)
	default:
		stateErr = errors.NewInvalidTransition(event, agreement.Status)
	}
	if stateErr != nil {
		return nil, stateErr
	}

	if effect != nil {
		if err := effect(agreement); err != nil {
			return nil, err
		}
	}

	if err := s.agreements.Update(agreement); err != nil {
		return nil, err
	}

	s.emit(agreement, event, oldStatus)
	return agreement, nil
}

func (s *AgreementService) depositRefund(agreement *models.RentalAgreement, penalty int64) (int64, error) {
	if agreement.SnapshotID == nil {
		return 0, errors.ErrSnapshotRequired
	}
	effective, err := s.pricing.EffectivePrice(*agreement.SnapshotID)
	if err != nil {
		return 0, err
	}

	refund := effective.DepositAmount - penalty
	if refund < 0 {
		refund = 0
	}
	return refund, nil
}

func (s *AgreementService) emit(agreement *models.RentalAgreement, event string, oldStatus int) {
	err := s.events.Publish(models.TransitionEvent{
		AgreementID: agreement.ID,
		Event:       event,
		OldStatus:   oldStatus,
		NewStatus:   agreement.Status,
		At:          time.Now(),
	})
	if err != nil {
		s.logger.Warn("Lỗi phát event %s cho hợp đồng %d: %v", event, agreement.ID, err)
	}
}

// newSnapshotFromVersion chụp trường giá của một phiên bản chính sách thành
// snapshot chưa persist; các store ghi nó trong transaction của nghiệp vụ.
func newSnapshotFromVersion(version *models.PolicyVersion) *models.PricingSnapshot {
	return &models.PricingSnapshot{
		PolicyID:      version.PolicyID,
		PolicyVersion: version.Version,
		PriceFields:   version.PriceFields,
		Overrides:     []byte("{}"),
		CapturedAt:    time.Now(),
	}
}

func parseAgreementDates(start, end string) (time.Time, time.Time, error) {
	startDate, err := time.Parse(agreementDateLayout, start)
	if err != nil {
		return time.Time{}, time.Time{}, errors.NewAppError(errors.ErrCodeInvalidFormat, "Sai định dạng startDate", err)
	}
	endDate, err := time.Parse(agreementDateLayout, end)
	if err != nil {
		return time.Time{}, time.Time{}, errors.NewAppError(errors.ErrCodeInvalidFormat, "Sai định dạng endDate", err)
	}
	if !endDate.After(startDate) {
		return time.Time{}, time.Time{}, errors.NewAppError(errors.ErrCodeValidation, "endDate phải sau startDate", nil)
	}
	return startDate, endDate, nil
}
