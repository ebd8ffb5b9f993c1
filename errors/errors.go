package errors

import (
	"errors"
	"fmt"
)

// ErrorCode định nghĩa mã lỗi
type ErrorCode string

const (
	// Auth errors
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeInvalidToken ErrorCode = "INVALID_TOKEN"
	ErrCodeMissingToken ErrorCode = "MISSING_TOKEN"
	ErrCodeInvalidRole  ErrorCode = "INVALID_ROLE"

	// Not found errors
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// State errors
	ErrCodeInvalidState      ErrorCode = "INVALID_STATE"
	ErrCodeInvalidTransition ErrorCode = "INVALID_TRANSITION"

	// Conflict errors
	ErrCodeConflict             ErrorCode = "CONFLICT"
	ErrCodeConcurrentActivation ErrorCode = "CONCURRENT_ACTIVATION"
	ErrCodeUnitCommitted        ErrorCode = "UNIT_ALREADY_COMMITTED"
	ErrCodeAlreadyBound         ErrorCode = "SNAPSHOT_ALREADY_BOUND"
	ErrCodePolicyInUse          ErrorCode = "POLICY_IN_USE"

	// Validation errors
	ErrCodeValidation    ErrorCode = "VALIDATION_ERROR"
	ErrCodeRequiredField ErrorCode = "REQUIRED_FIELD"
	ErrCodeInvalidFormat ErrorCode = "INVALID_FORMAT"
	ErrCodeUnknownField  ErrorCode = "UNKNOWN_PRICE_FIELD"
	ErrCodeInvalidAmount ErrorCode = "INVALID_AMOUNT"

	// Resolution errors
	ErrCodeResolutionFailed ErrorCode = "RESOLUTION_FAILED"
	ErrCodeNoActiveBundle   ErrorCode = "NO_ACTIVE_BUNDLE"
	ErrCodeNoPolicyFound    ErrorCode = "NO_POLICY_FOUND"

	// Database errors
	ErrCodeDBError ErrorCode = "DB_ERROR"
)

// AppError định nghĩa lỗi của ứng dụng
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError tạo một AppError mới
func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// GetAppError lấy AppError từ error
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// InvalidTransitionError báo lỗi khi gọi event không hợp lệ với trạng thái
// hiện tại của hợp đồng. Luôn kèm trạng thái thực tế để phía gọi refresh.
type InvalidTransitionError struct {
	Event string
	State int
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("không thể thực hiện %q từ trạng thái %d", e.Event, e.State)
}

// NewInvalidTransition tạo InvalidTransitionError cho event và trạng thái hiện tại
func NewInvalidTransition(event string, state int) *InvalidTransitionError {
	return &InvalidTransitionError{Event: event, State: state}
}

// IsInvalidTransition kiểm tra error có phải InvalidTransitionError không
func IsInvalidTransition(err error) bool {
	var te *InvalidTransitionError
	return errors.As(err, &te)
}

var (
	// Bundle errors
	ErrBundleNotFound       = errors.New("config bundle not found")
	ErrNoActiveBundle       = errors.New("no active config bundle")
	ErrBundleWrongStatus    = errors.New("bundle is not in an activatable status")
	ErrConcurrentActivation = errors.New("another bundle activation won the race")

	// Policy errors
	ErrPolicyNotFound = errors.New("pricing policy not found")
	ErrNoPolicyFound  = errors.New("no applicable pricing policy")
	ErrPolicyInUse    = errors.New("policy is referenced by at least one snapshot")
	ErrStaleVersion   = errors.New("policy version pointer moved concurrently")

	// Snapshot errors
	ErrSnapshotNotFound = errors.New("pricing snapshot not found")
	ErrAlreadyBound     = errors.New("owner already has a bound snapshot")
	ErrUnknownField     = errors.New("unknown priced field")

	// Agreement errors
	ErrAgreementNotFound    = errors.New("rental agreement not found")
	ErrAgreementRenewed     = errors.New("agreement already renewed")
	ErrUnitNotFound         = errors.New("rentable unit not found")
	ErrUnitAlreadyCommitted = errors.New("unit already has a live agreement")
	ErrSnapshotRequired     = errors.New("agreement has no bound pricing snapshot")

	// Validation errors
	ErrInvalidInput    = errors.New("invalid input")
	ErrMissingRequired = errors.New("missing required field")
)
