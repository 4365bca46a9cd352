package domain

// AttemptStatus is the lifecycle state of one payment attempt at a connector.
type AttemptStatus string

const (
	AttemptStarted               AttemptStatus = "started"
	AttemptAuthenticationPending AttemptStatus = "authentication_pending"
	AttemptAuthenticationFailed  AttemptStatus = "authentication_failed"
	AttemptAuthorizing           AttemptStatus = "authorizing"
	AttemptAuthorized            AttemptStatus = "authorized"
	AttemptAuthorizationFailed   AttemptStatus = "authorization_failed"
	AttemptCharged               AttemptStatus = "charged"
	AttemptPartialCharged        AttemptStatus = "partial_charged"
	AttemptCaptureInitiated      AttemptStatus = "capture_initiated"
	AttemptCaptureFailed         AttemptStatus = "capture_failed"
	AttemptVoidInitiated         AttemptStatus = "void_initiated"
	AttemptVoided                AttemptStatus = "voided"
	AttemptVoidFailed            AttemptStatus = "void_failed"
	AttemptPending               AttemptStatus = "pending"
	AttemptFailure               AttemptStatus = "failure"
	AttemptUnresolved            AttemptStatus = "unresolved"
)

// IsTerminal reports whether no further connector interaction can change the attempt.
func (s AttemptStatus) IsTerminal() bool {
	switch s {
	case AttemptCharged, AttemptVoided, AttemptFailure,
		AttemptAuthorizationFailed, AttemptAuthenticationFailed:
		return true
	default:
		return false
	}
}

type RefundStatus string

const (
	RefundPending            RefundStatus = "pending"
	RefundSuccess            RefundStatus = "success"
	RefundFailure            RefundStatus = "failure"
	RefundManualReview       RefundStatus = "manual_review"
	RefundTransactionFailure RefundStatus = "transaction_failure"
)

func (s RefundStatus) IsTerminal() bool {
	switch s {
	case RefundSuccess, RefundFailure, RefundTransactionFailure:
		return true
	default:
		return false
	}
}

type CaptureMethod string

const (
	CaptureAutomatic           CaptureMethod = "automatic"
	CaptureManual              CaptureMethod = "manual"
	CaptureManualMultiple      CaptureMethod = "manual_multiple"
	CaptureScheduled           CaptureMethod = "scheduled"
	CaptureSequentialAutomatic CaptureMethod = "sequential_automatic"
)

// IsAutomatic treats an unset capture method as automatic.
func IsAutomatic(cm *CaptureMethod) bool {
	return cm == nil || *cm == CaptureAutomatic || *cm == CaptureSequentialAutomatic
}

type FutureUsage string

const (
	FutureUsageOffSession FutureUsage = "off_session"
	FutureUsageOnSession  FutureUsage = "on_session"
)
