package services

import (
	"sort"
	"time"

	"thuetro/constants"
	"thuetro/errors"
	"thuetro/models"
)

// Các store in-memory dùng cho test service, giữ đúng ngữ nghĩa CAS và
// guard của bản gorm.

type memBundleStore struct {
	bundles map[uint]*models.ConfigBundle
	nextID  uint
}

func newMemBundleStore() *memBundleStore {
	return &memBundleStore{bundles: make(map[uint]*models.ConfigBundle)}
}

func (s *memBundleStore) Create(bundle *models.ConfigBundle) error {
	s.nextID++
	bundle.ID = s.nextID
	bundle.CreatedAt = time.Now()
	stored := *bundle
	s.bundles[bundle.ID] = &stored
	return nil
}

func (s *memBundleStore) GetByID(id uint) (*models.ConfigBundle, error) {
	stored, ok := s.bundles[id]
	if !ok {
		return nil, errors.ErrBundleNotFound
	}
	copy := *stored
	return &copy, nil
}

func (s *memBundleStore) GetActive() (*models.ConfigBundle, error) {
	for _, b := range s.bundles {
		if b.Status == constants.BundleStatusActive {
			copy := *b
			return &copy, nil
		}
	}
	return nil, errors.ErrNoActiveBundle
}

func (s *memBundleStore) List(page, limit int, status *int) ([]models.ConfigBundle, int64, error) {
	var all []models.ConfigBundle
	for _, b := range s.bundles {
		if status != nil && b.Status != *status {
			continue
		}
		all = append(all, *b)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return paginateBundles(all, page, limit)
}

func paginateBundles(all []models.ConfigBundle, page, limit int) ([]models.ConfigBundle, int64, error) {
	total := int64(len(all))
	start := page * limit
	if start >= len(all) {
		return nil, total, nil
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (s *memBundleStore) Promote(bundle *models.ConfigBundle) error {
	stored, ok := s.bundles[bundle.ID]
	if !ok || stored.Status != bundle.Status {
		return errors.ErrConcurrentActivation
	}
	for id, b := range s.bundles {
		if id != bundle.ID && b.Status == constants.BundleStatusActive {
			b.Status = constants.BundleStatusArchived
		}
	}
	stored.Status = constants.BundleStatusActive
	bundle.Status = constants.BundleStatusActive
	return nil
}

type memPolicyStore struct {
	policies map[uint]*models.PricingPolicy
	versions []models.PolicyVersion
	refs     map[uint]int64
	nextID   uint
	nextVID  uint
}

func newMemPolicyStore() *memPolicyStore {
	return &memPolicyStore{
		policies: make(map[uint]*models.PricingPolicy),
		refs:     make(map[uint]int64),
	}
}

func (s *memPolicyStore) Create(policy *models.PricingPolicy, version *models.PolicyVersion) error {
	s.nextID++
	policy.ID = s.nextID
	policy.CreatedAt = time.Now()
	stored := *policy
	s.policies[policy.ID] = &stored

	version.PolicyID = policy.ID
	s.appendVersionRow(version)
	return nil
}

func (s *memPolicyStore) appendVersionRow(version *models.PolicyVersion) {
	s.nextVID++
	version.ID = s.nextVID
	version.CreatedAt = time.Now()
	s.versions = append(s.versions, *version)
}

func (s *memPolicyStore) GetByID(id uint) (*models.PricingPolicy, error) {
	stored, ok := s.policies[id]
	if !ok {
		return nil, errors.ErrPolicyNotFound
	}
	copy := *stored
	return &copy, nil
}

func (s *memPolicyStore) GetVersion(policyID uint, version int) (*models.PolicyVersion, error) {
	for _, v := range s.versions {
		if v.PolicyID == policyID && v.Version == version {
			copy := v
			return &copy, nil
		}
	}
	return nil, errors.ErrPolicyNotFound
}

func (s *memPolicyStore) AppendVersion(policy *models.PricingPolicy, version *models.PolicyVersion) error {
	stored, ok := s.policies[policy.ID]
	if !ok || stored.CurrentVersion != policy.CurrentVersion {
		return errors.ErrStaleVersion
	}
	s.appendVersionRow(version)
	stored.CurrentVersion = version.Version
	policy.CurrentVersion = version.Version
	return nil
}

func (s *memPolicyStore) SetStatus(policyID uint, status int) error {
	stored, ok := s.policies[policyID]
	if !ok {
		return errors.ErrPolicyNotFound
	}
	stored.Status = status
	return nil
}

func (s *memPolicyStore) CurrentActiveVersions(category, durationClass string) ([]models.PolicyVersion, error) {
	var out []models.PolicyVersion
	for _, v := range s.versions {
		p, ok := s.policies[v.PolicyID]
		if !ok || p.Status != constants.PolicyStatusActive || p.CurrentVersion != v.Version {
			continue
		}
		if v.Category == category && v.DurationClass == durationClass {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *memPolicyStore) List(page, limit int, status *int) ([]models.PricingPolicy, int64, error) {
	var all []models.PricingPolicy
	for _, p := range s.policies {
		if status != nil && p.Status != *status {
			continue
		}
		all = append(all, *p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all, int64(len(all)), nil
}

func (s *memPolicyStore) Delete(policyID uint) error {
	if _, ok := s.policies[policyID]; !ok {
		return errors.ErrPolicyNotFound
	}
	delete(s.policies, policyID)
	kept := s.versions[:0]
	for _, v := range s.versions {
		if v.PolicyID != policyID {
			kept = append(kept, v)
		}
	}
	s.versions = kept
	return nil
}

func (s *memPolicyStore) SnapshotRefCount(policyID uint) (int64, error) {
	return s.refs[policyID], nil
}

type memSnapshotStore struct {
	snapshots map[uint]*models.PricingSnapshot
	nextID    uint
}

func newMemSnapshotStore() *memSnapshotStore {
	return &memSnapshotStore{snapshots: make(map[uint]*models.PricingSnapshot)}
}

func (s *memSnapshotStore) Create(snapshot *models.PricingSnapshot) error {
	for _, existing := range s.snapshots {
		if existing.OwnerType == snapshot.OwnerType && existing.OwnerID == snapshot.OwnerID {
			return errors.ErrAlreadyBound
		}
	}
	s.nextID++
	snapshot.ID = s.nextID
	stored := *snapshot
	s.snapshots[snapshot.ID] = &stored
	return nil
}

func (s *memSnapshotStore) GetByID(id uint) (*models.PricingSnapshot, error) {
	stored, ok := s.snapshots[id]
	if !ok {
		return nil, errors.ErrSnapshotNotFound
	}
	copy := *stored
	return &copy, nil
}

func (s *memSnapshotStore) GetByOwner(ownerType string, ownerID uint) (*models.PricingSnapshot, error) {
	for _, stored := range s.snapshots {
		if stored.OwnerType == ownerType && stored.OwnerID == ownerID {
			copy := *stored
			return &copy, nil
		}
	}
	return nil, errors.ErrSnapshotNotFound
}

func (s *memSnapshotStore) Update(snapshot *models.PricingSnapshot) error {
	if _, ok := s.snapshots[snapshot.ID]; !ok {
		return errors.ErrSnapshotNotFound
	}
	stored := *snapshot
	s.snapshots[snapshot.ID] = &stored
	return nil
}

type memAgreementStore struct {
	agreements map[uint]*models.RentalAgreement
	snapshots  *memSnapshotStore
	nextID     uint
}

func newMemAgreementStore(snapshots *memSnapshotStore) *memAgreementStore {
	return &memAgreementStore{
		agreements: make(map[uint]*models.RentalAgreement),
		snapshots:  snapshots,
	}
}

func (s *memAgreementStore) createWithSnapshot(agreement *models.RentalAgreement, snapshot *models.PricingSnapshot) error {
	s.nextID++
	agreement.ID = s.nextID
	agreement.CreatedAt = time.Now()

	snapshot.OwnerType = constants.SnapshotOwnerAgreement
	snapshot.OwnerID = agreement.ID
	if err := s.snapshots.Create(snapshot); err != nil {
		delete(s.agreements, agreement.ID)
		return err
	}
	agreement.SnapshotID = &snapshot.ID

	stored := *agreement
	s.agreements[agreement.ID] = &stored
	return nil
}

func (s *memAgreementStore) CreateWithSnapshot(agreement *models.RentalAgreement, snapshot *models.PricingSnapshot) error {
	return s.createWithSnapshot(agreement, snapshot)
}

func (s *memAgreementStore) GetByID(id uint) (*models.RentalAgreement, error) {
	stored, ok := s.agreements[id]
	if !ok {
		return nil, errors.ErrAgreementNotFound
	}
	copy := *stored
	return &copy, nil
}

func (s *memAgreementStore) Update(agreement *models.RentalAgreement) error {
	if _, ok := s.agreements[agreement.ID]; !ok {
		return errors.ErrAgreementNotFound
	}
	stored := *agreement
	s.agreements[agreement.ID] = &stored
	return nil
}

func (s *memAgreementStore) Delete(agreement *models.RentalAgreement) error {
	if agreement.SnapshotID != nil {
		delete(s.snapshots.snapshots, *agreement.SnapshotID)
	}
	delete(s.agreements, agreement.ID)
	return nil
}

func (s *memAgreementStore) MarkSent(agreement *models.RentalAgreement) error {
	for id, a := range s.agreements {
		if id != agreement.ID && a.UnitID == agreement.UnitID && a.Live() {
			return errors.ErrUnitAlreadyCommitted
		}
	}

	stored, ok := s.agreements[agreement.ID]
	if !ok || stored.Status != constants.AgreementStatusDraft {
		return errors.ErrUnitAlreadyCommitted
	}
	stored.Status = constants.AgreementStatusSent
	agreement.Status = constants.AgreementStatusSent
	return nil
}

func (s *memAgreementStore) Renew(source *models.RentalAgreement, successor *models.RentalAgreement, snapshot *models.PricingSnapshot) error {
	stored, ok := s.agreements[source.ID]
	if !ok {
		return errors.ErrAgreementNotFound
	}
	if stored.RenewedIntoID != nil {
		return errors.ErrAgreementRenewed
	}

	if err := s.createWithSnapshot(successor, snapshot); err != nil {
		return err
	}

	stored.RenewedIntoID = &successor.ID
	source.RenewedIntoID = &successor.ID
	return nil
}

func (s *memAgreementStore) ListExpired(now time.Time) ([]models.RentalAgreement, error) {
	var out []models.RentalAgreement
	for _, a := range s.agreements {
		if a.Status == constants.AgreementStatusActive && a.EndDate.Before(now) {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memAgreementStore) List(page, limit int, status *int, unitID *uint) ([]models.RentalAgreement, int64, error) {
	var all []models.RentalAgreement
	for _, a := range s.agreements {
		if status != nil && a.Status != *status {
			continue
		}
		if unitID != nil && a.UnitID != *unitID {
			continue
		}
		all = append(all, *a)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all, int64(len(all)), nil
}

type memUnitStore struct {
	units  map[uint]*models.RentableUnit
	nextID uint
}

func newMemUnitStore() *memUnitStore {
	return &memUnitStore{units: make(map[uint]*models.RentableUnit)}
}

func (s *memUnitStore) Create(unit *models.RentableUnit) error {
	s.nextID++
	unit.ID = s.nextID
	if unit.Status == 0 {
		unit.Status = constants.UnitStatusAvailable
	}
	stored := *unit
	s.units[unit.ID] = &stored
	return nil
}

func (s *memUnitStore) GetByID(id uint) (*models.RentableUnit, error) {
	stored, ok := s.units[id]
	if !ok {
		return nil, errors.ErrUnitNotFound
	}
	copy := *stored
	return &copy, nil
}

func (s *memUnitStore) SetStatus(id uint, status int) error {
	stored, ok := s.units[id]
	if !ok {
		return errors.ErrUnitNotFound
	}
	stored.Status = status
	return nil
}

func (s *memUnitStore) List(page, limit int, province string) ([]models.RentableUnit, int64, error) {
	var all []models.RentableUnit
	for _, u := range s.units {
		if province != "" && u.Province != province {
			continue
		}
		all = append(all, *u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all, int64(len(all)), nil
}

// recordingEventSink ghi lại mọi event phát ra để test kiểm tra
type recordingEventSink struct {
	events []models.TransitionEvent
}

func (s *recordingEventSink) Publish(event models.TransitionEvent) error {
	s.events = append(s.events, event)
	return nil
}
