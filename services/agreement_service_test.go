package services

import (
	"context"
	"testing"
	"time"

	"thuetro/constants"
	"thuetro/dto"
	"thuetro/errors"
	"thuetro/models"
	"thuetro/services/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type agreementFixture struct {
	service    *AgreementService
	pricing    *PricingService
	policies   *PolicyService
	agreements *memAgreementStore
	snapshots  *memSnapshotStore
	units      *memUnitStore
	sink       *recordingEventSink
	unit       *models.RentableUnit
	policy     *models.PricingPolicy
}

func newAgreementFixture(t *testing.T, withPolicy bool) *agreementFixture {
	t.Helper()

	policies, _ := newPolicyServiceForTest(t)
	var policy *models.PricingPolicy
	if withPolicy {
		var err error
		policy, _, err = policies.Create(context.Background(), apartmentPolicyRequest("căn hộ HCM"))
		require.NoError(t, err)
	}

	snapshots := newMemSnapshotStore()
	pricing := NewPricingService(PricingServiceOptions{
		Snapshots: snapshots,
		Policies:  policies,
		Logger:    logger.NopLogger{},
	})

	units := newMemUnitStore()
	unit := hcmUnit()
	unit.ID = 0
	unit.LandlordID = 1
	require.NoError(t, units.Create(unit))

	agreements := newMemAgreementStore(snapshots)
	sink := &recordingEventSink{}
	service := NewAgreementService(AgreementServiceOptions{
		Agreements: agreements,
		Units:      units,
		Pricing:    pricing,
		Events:     sink,
		Logger:     logger.NopLogger{},
	})

	return &agreementFixture{
		service:    service,
		pricing:    pricing,
		policies:   policies,
		agreements: agreements,
		snapshots:  snapshots,
		units:      units,
		sink:       sink,
		unit:       unit,
		policy:     policy,
	}
}

func (f *agreementFixture) createDraft(t *testing.T) *models.RentalAgreement {
	t.Helper()
	agreement, err := f.service.Create(&dto.AgreementCreateRequest{
		LandlordID:   1,
		TenantID:     2,
		UnitID:       f.unit.ID,
		StartDate:    "01/01/2026",
		EndDate:      "01/01/2027",
		PaymentCycle: 1,
	})
	require.NoError(t, err)
	return agreement
}

func (f *agreementFixture) activate(t *testing.T, id uint) *models.RentalAgreement {
	t.Helper()
	_, err := f.service.Send(id)
	require.NoError(t, err)
	_, err = f.service.Confirm(id)
	require.NoError(t, err)
	agreement, err := f.service.Activate(id)
	require.NoError(t, err)
	return agreement
}

func TestAgreementCreateDraftWithSnapshot(t *testing.T) {
	f := newAgreementFixture(t, true)

	agreement := f.createDraft(t)
	assert.Equal(t, constants.AgreementStatusDraft, agreement.Status)
	require.NotNil(t, agreement.SnapshotID)

	snapshot, err := f.snapshots.GetByID(*agreement.SnapshotID)
	require.NoError(t, err)
	assert.Equal(t, constants.SnapshotOwnerAgreement, snapshot.OwnerType)
	assert.Equal(t, agreement.ID, snapshot.OwnerID)
	assert.Equal(t, f.policy.ID, snapshot.PolicyID)

	effective, err := snapshot.EffectivePrice()
	require.NoError(t, err)
	assert.Equal(t, int64(5000000), effective.BasePrice)
}

func TestAgreementCreateResolveFailureLeavesNothing(t *testing.T) {
	f := newAgreementFixture(t, false)

	_, err := f.service.Create(&dto.AgreementCreateRequest{
		LandlordID:   1,
		TenantID:     2,
		UnitID:       f.unit.ID,
		StartDate:    "01/01/2026",
		EndDate:      "01/01/2027",
		PaymentCycle: 1,
	})
	assert.ErrorIs(t, err, errors.ErrNoPolicyFound)

	// Không có hợp đồng hay snapshot mồ côi
	assert.Empty(t, f.agreements.agreements)
	assert.Empty(t, f.snapshots.snapshots)
}

func TestAgreementCreateValidation(t *testing.T) {
	f := newAgreementFixture(t, true)

	_, err := f.service.Create(&dto.AgreementCreateRequest{
		TenantID: 2, UnitID: f.unit.ID,
		StartDate: "01/01/2026", EndDate: "01/01/2027", PaymentCycle: 1,
	})
	require.Error(t, err, "thiếu chủ nhà")

	_, err = f.service.Create(&dto.AgreementCreateRequest{
		LandlordID: 1, TenantID: 2, UnitID: f.unit.ID,
		StartDate: "2026-01-01", EndDate: "01/01/2027", PaymentCycle: 1,
	})
	require.Error(t, err, "sai định dạng ngày")

	_, err = f.service.Create(&dto.AgreementCreateRequest{
		LandlordID: 1, TenantID: 2, UnitID: f.unit.ID,
		StartDate: "01/01/2027", EndDate: "01/01/2026", PaymentCycle: 1,
	})
	require.Error(t, err, "endDate phải sau startDate")

	_, err = f.service.Create(&dto.AgreementCreateRequest{
		LandlordID: 1, TenantID: 2, UnitID: 99,
		StartDate: "01/01/2026", EndDate: "01/01/2027", PaymentCycle: 1,
	})
	assert.ErrorIs(t, err, errors.ErrUnitNotFound)
}

func TestAgreementSend(t *testing.T) {
	f := newAgreementFixture(t, true)
	agreement := f.createDraft(t)

	sent, err := f.service.Send(agreement.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.AgreementStatusSent, sent.Status)

	require.Len(t, f.sink.events, 1)
	assert.Equal(t, models.EventSend, f.sink.events[0].Event)
	assert.Equal(t, constants.AgreementStatusDraft, f.sink.events[0].OldStatus)
	assert.Equal(t, constants.AgreementStatusSent, f.sink.events[0].NewStatus)
}

func TestAgreementSendSecondLiveOnUnitRejected(t *testing.T) {
	f := newAgreementFixture(t, true)

	first := f.createDraft(t)
	second := f.createDraft(t)

	_, err := f.service.Send(first.ID)
	require.NoError(t, err)

	_, err = f.service.Send(second.ID)
	assert.ErrorIs(t, err, errors.ErrUnitAlreadyCommitted)

	stored, err := f.service.GetByID(second.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.AgreementStatusDraft, stored.Status, "bên thua giữ nguyên DRAFT")
}

func TestAgreementSendFromSentRejected(t *testing.T) {
	f := newAgreementFixture(t, true)
	agreement := f.createDraft(t)

	_, err := f.service.Send(agreement.ID)
	require.NoError(t, err)

	_, err = f.service.Send(agreement.ID)
	require.Error(t, err)
	assert.True(t, errors.IsInvalidTransition(err))
}

func TestAgreementDeleteDraftOnly(t *testing.T) {
	f := newAgreementFixture(t, true)
	agreement := f.createDraft(t)
	snapshotID := *agreement.SnapshotID

	require.NoError(t, f.service.Delete(agreement.ID))
	_, err := f.service.GetByID(agreement.ID)
	assert.ErrorIs(t, err, errors.ErrAgreementNotFound)
	_, err = f.snapshots.GetByID(snapshotID)
	assert.ErrorIs(t, err, errors.ErrSnapshotNotFound, "snapshot đi cùng hợp đồng bị xóa")

	sent := f.createDraft(t)
	_, err = f.service.Send(sent.ID)
	require.NoError(t, err)
	err = f.service.Delete(sent.ID)
	require.Error(t, err)
	assert.True(t, errors.IsInvalidTransition(err))
}

func TestAgreementConfirmThenActivate(t *testing.T) {
	f := newAgreementFixture(t, true)
	agreement := f.createDraft(t)

	_, err := f.service.Send(agreement.ID)
	require.NoError(t, err)

	confirmed, err := f.service.Confirm(agreement.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.AgreementStatusPendingConfirm, confirmed.Status)

	active, err := f.service.Activate(agreement.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.AgreementStatusActive, active.Status)

	unit, err := f.units.GetByID(f.unit.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.UnitStatusOccupied, unit.Status)
}

func TestAgreementReject(t *testing.T) {
	f := newAgreementFixture(t, true)
	agreement := f.createDraft(t)
	_, err := f.service.Send(agreement.ID)
	require.NoError(t, err)

	_, err = f.service.Reject(agreement.ID, "")
	require.Error(t, err, "từ chối phải có lý do")

	rejected, err := f.service.Reject(agreement.ID, "giá cao hơn thỏa thuận")
	require.NoError(t, err)
	assert.Equal(t, constants.AgreementStatusCancelled, rejected.Status)
	assert.Equal(t, "giá cao hơn thỏa thuận", rejected.RejectReason)
}

func TestAgreementTerminateRefund(t *testing.T) {
	f := newAgreementFixture(t, true)
	agreement := f.createDraft(t)
	f.activate(t, agreement.ID)

	// Tiền cọc 2.000.000, phạt 1.000.000 → hoàn 1.000.000
	terminated, err := f.service.Terminate(agreement.ID, "chuyển công tác", "TENANT_REQUEST", 1000000)
	require.NoError(t, err)
	assert.Equal(t, constants.AgreementStatusTerminated, terminated.Status)
	assert.Equal(t, int64(1000000), terminated.DepositRefund)
	assert.Equal(t, int64(1000000), terminated.TerminationPenalty)
	assert.Equal(t, "chuyển công tác", terminated.TerminationReason)

	unit, err := f.units.GetByID(f.unit.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.UnitStatusAvailable, unit.Status, "đơn vị được trả về AVAILABLE")
}

func TestAgreementTerminateRefundClampedAtZero(t *testing.T) {
	f := newAgreementFixture(t, true)
	agreement := f.createDraft(t)
	f.activate(t, agreement.ID)

	terminated, err := f.service.Terminate(agreement.ID, "vi phạm hợp đồng", "LANDLORD_REQUEST", 3000000)
	require.NoError(t, err)
	assert.Equal(t, int64(0), terminated.DepositRefund)
}

func TestAgreementTerminateUsesEffectiveDeposit(t *testing.T) {
	f := newAgreementFixture(t, true)
	agreement := f.createDraft(t)
	f.activate(t, agreement.ID)

	// Cọc thương lượng lại qua override: refund tính trên giá hiệu lực
	_, err := f.pricing.Override(*agreement.SnapshotID, models.FieldDepositAmount, "2500000")
	require.NoError(t, err)

	terminated, err := f.service.Terminate(agreement.ID, "chuyển công tác", "TENANT_REQUEST", 1000000)
	require.NoError(t, err)
	assert.Equal(t, int64(1500000), terminated.DepositRefund)
}

func TestAgreementTerminateValidation(t *testing.T) {
	f := newAgreementFixture(t, true)
	agreement := f.createDraft(t)
	f.activate(t, agreement.ID)

	_, err := f.service.Terminate(agreement.ID, "", "TENANT_REQUEST", 0)
	require.Error(t, err)
	_, err = f.service.Terminate(agreement.ID, "lý do", "", 0)
	require.Error(t, err)
	_, err = f.service.Terminate(agreement.ID, "lý do", "TENANT_REQUEST", -1)
	require.Error(t, err)

	stored, err := f.service.GetByID(agreement.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.AgreementStatusActive, stored.Status)
}

func newExpiredFixture(t *testing.T) (*agreementFixture, *models.RentalAgreement) {
	t.Helper()
	f := newAgreementFixture(t, true)

	agreement, err := f.service.Create(&dto.AgreementCreateRequest{
		LandlordID:   1,
		TenantID:     2,
		UnitID:       f.unit.ID,
		StartDate:    "01/01/2024",
		EndDate:      "01/01/2025",
		PaymentCycle: 1,
	})
	require.NoError(t, err)
	f.activate(t, agreement.ID)
	return f, agreement
}

func TestAgreementExpire(t *testing.T) {
	f, agreement := newExpiredFixture(t)
	now := time.Now()

	expired, err := f.service.Expire(agreement.ID, now)
	require.NoError(t, err)
	assert.Equal(t, constants.AgreementStatusExpired, expired.Status)

	unit, err := f.units.GetByID(f.unit.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.UnitStatusAvailable, unit.Status)

	// Idempotent: expire lại không lỗi, không phát event trùng
	events := len(f.sink.events)
	again, err := f.service.Expire(agreement.ID, now)
	require.NoError(t, err)
	assert.Equal(t, constants.AgreementStatusExpired, again.Status)
	assert.Len(t, f.sink.events, events)
}

func TestAgreementExpireBeforeEndDateIsNoop(t *testing.T) {
	f := newAgreementFixture(t, true)
	agreement := f.createDraft(t)
	f.activate(t, agreement.ID)

	result, err := f.service.Expire(agreement.ID, time.Now())
	require.NoError(t, err)
	assert.Equal(t, constants.AgreementStatusActive, result.Status)
}

func TestAgreementLazyExpireOnRead(t *testing.T) {
	f, agreement := newExpiredFixture(t)

	read, err := f.service.GetByID(agreement.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.AgreementStatusExpired, read.Status)

	stored, err := f.agreements.GetByID(agreement.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.AgreementStatusExpired, stored.Status, "expire lười được persist")
}

func TestAgreementTerminatePastEndExpiresFirst(t *testing.T) {
	f, agreement := newExpiredFixture(t)

	// Hợp đồng ACTIVE đã quá hạn: không được chấm dứt kèm phạt nữa,
	// đường đọc expire lười trước rồi mới chạy máy trạng thái
	_, err := f.service.Terminate(agreement.ID, "trả nhà sớm", "TENANT_REQUEST", 1_000_000)
	require.Error(t, err)
	assert.True(t, errors.IsInvalidTransition(err))

	stored, err := f.agreements.GetByID(agreement.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.AgreementStatusExpired, stored.Status)
	assert.Zero(t, stored.TerminationPenalty)
}

func TestExpireDueSweep(t *testing.T) {
	f, _ := newExpiredFixture(t)

	count, err := f.service.ExpireDue(time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// Chạy lại sweep: không còn gì để expire
	count, err = f.service.ExpireDue(time.Now())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestAgreementRenewWithEscalation(t *testing.T) {
	f := newAgreementFixture(t, true)
	agreement := f.createDraft(t)
	f.activate(t, agreement.ID)

	pct := 10.0
	successor, err := f.service.Renew(agreement.ID, &dto.AgreementRenewRequest{
		StartDate:         "01/01/2027",
		EndDate:           "01/01/2028",
		EscalationPercent: &pct,
	})
	require.NoError(t, err)
	assert.Equal(t, constants.AgreementStatusDraft, successor.Status)
	require.NotNil(t, successor.RenewedFromID)
	assert.Equal(t, agreement.ID, *successor.RenewedFromID)

	source, err := f.agreements.GetByID(agreement.ID)
	require.NoError(t, err)
	require.NotNil(t, source.RenewedIntoID)
	assert.Equal(t, successor.ID, *source.RenewedIntoID)

	// Giá leo thang 10% ghi thành override, giá chụp giữ nguyên giá chính sách
	snapshot, err := f.snapshots.GetByID(*successor.SnapshotID)
	require.NoError(t, err)
	assert.Equal(t, int64(5000000), snapshot.BasePrice)
	effective, err := snapshot.EffectivePrice()
	require.NoError(t, err)
	assert.Equal(t, int64(5500000), effective.BasePrice)
}

func TestAgreementRenewWithoutEscalation(t *testing.T) {
	f := newAgreementFixture(t, true)
	agreement := f.createDraft(t)
	f.activate(t, agreement.ID)

	pct := 0.0
	successor, err := f.service.Renew(agreement.ID, &dto.AgreementRenewRequest{
		StartDate:         "01/01/2027",
		EndDate:           "01/01/2028",
		EscalationPercent: &pct,
	})
	require.NoError(t, err)

	snapshot, err := f.snapshots.GetByID(*successor.SnapshotID)
	require.NoError(t, err)
	m, err := snapshot.OverrideMap()
	require.NoError(t, err)
	assert.Empty(t, m)
}

func TestAgreementRenewEscalationCompoundsOnOverride(t *testing.T) {
	f := newAgreementFixture(t, true)
	agreement := f.createDraft(t)
	f.activate(t, agreement.ID)

	// Giá thương lượng 6.000.000; leo thang tính trên giá hiệu lực này
	_, err := f.pricing.Override(*agreement.SnapshotID, models.FieldBasePrice, "6000000")
	require.NoError(t, err)

	pct := 10.0
	successor, err := f.service.Renew(agreement.ID, &dto.AgreementRenewRequest{
		StartDate:         "01/01/2027",
		EndDate:           "01/01/2028",
		EscalationPercent: &pct,
	})
	require.NoError(t, err)

	effective, err := f.pricing.EffectivePrice(*successor.SnapshotID)
	require.NoError(t, err)
	assert.Equal(t, int64(6600000), effective.BasePrice)
}

func TestAgreementRenewOnlyOnce(t *testing.T) {
	f := newAgreementFixture(t, true)
	agreement := f.createDraft(t)
	f.activate(t, agreement.ID)

	pct := 0.0
	req := &dto.AgreementRenewRequest{StartDate: "01/01/2027", EndDate: "01/01/2028", EscalationPercent: &pct}
	_, err := f.service.Renew(agreement.ID, req)
	require.NoError(t, err)

	_, err = f.service.Renew(agreement.ID, req)
	assert.ErrorIs(t, err, errors.ErrAgreementRenewed)
}

func TestAgreementRenewFailureLeavesSourceUntouched(t *testing.T) {
	f := newAgreementFixture(t, true)
	agreement := f.createDraft(t)
	f.activate(t, agreement.ID)

	// Chính sách bị tắt: resolve thất bại, không được ghi lineage dở dang
	require.NoError(t, f.policies.SetStatus(f.policy.ID, constants.PolicyStatusInactive))

	pct := 0.0
	_, err := f.service.Renew(agreement.ID, &dto.AgreementRenewRequest{
		StartDate: "01/01/2027", EndDate: "01/01/2028", EscalationPercent: &pct,
	})
	assert.ErrorIs(t, err, errors.ErrNoPolicyFound)

	source, err := f.agreements.GetByID(agreement.ID)
	require.NoError(t, err)
	assert.Nil(t, source.RenewedIntoID)
	assert.Len(t, f.agreements.agreements, 1)
}

func TestAgreementRenewFromDraftRejected(t *testing.T) {
	f := newAgreementFixture(t, true)
	agreement := f.createDraft(t)

	pct := 0.0
	_, err := f.service.Renew(agreement.ID, &dto.AgreementRenewRequest{
		StartDate: "01/01/2027", EndDate: "01/01/2028", EscalationPercent: &pct,
	})
	require.Error(t, err)
	assert.True(t, errors.IsInvalidTransition(err))
}

func TestAgreementLifecycleEvents(t *testing.T) {
	f := newAgreementFixture(t, true)
	agreement := f.createDraft(t)
	f.activate(t, agreement.ID)
	_, err := f.service.Terminate(agreement.ID, "chuyển công tác", "TENANT_REQUEST", 0)
	require.NoError(t, err)

	var got []string
	for _, e := range f.sink.events {
		got = append(got, e.Event)
		assert.Equal(t, agreement.ID, e.AgreementID)
	}
	assert.Equal(t, []string{
		models.EventSend, models.EventConfirm, models.EventActivate, models.EventTerminate,
	}, got)
}
