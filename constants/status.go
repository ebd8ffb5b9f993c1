package constants

// Config bundle status
const (
	BundleStatusDraft    = 0
	BundleStatusActive   = 1
	BundleStatusArchived = 2
)

// Pricing policy status
const (
	PolicyStatusInactive = 0
	PolicyStatusActive   = 1
)

// Rental agreement status
const (
	AgreementStatusDraft          = 0
	AgreementStatusSent           = 1
	AgreementStatusPendingConfirm = 2
	AgreementStatusActive         = 3
	AgreementStatusExpired        = 4
	AgreementStatusTerminated     = 5
	AgreementStatusCancelled      = 6
)

// Rentable unit status
const (
	UnitStatusAvailable   = 1
	UnitStatusOccupied    = 2
	UnitStatusMaintenance = 3
)

// Rental duration class
const (
	DurationShortTerm  = "SHORT_TERM"
	DurationMediumTerm = "MEDIUM_TERM"
	DurationLongTerm   = "LONG_TERM"
)

// Price unit
const (
	PriceUnitHour  = "HOUR"
	PriceUnitNight = "NIGHT"
	PriceUnitDay   = "DAY"
	PriceUnitMonth = "MONTH"
	PriceUnitYear  = "YEAR"
)

// Utility billing mode
const (
	BillingMetered  = "METERED"
	BillingFixed    = "FIXED"
	BillingIncluded = "INCLUDED"
)

// Snapshot owner type
const (
	SnapshotOwnerUnit      = "UNIT"
	SnapshotOwnerAgreement = "AGREEMENT"
)
