package contract

import "errors"

// One sentinel per external dependency, so call sites can log which
// collaborator degraded. Every failure below is non-fatal: the call flow
// always continues with a safe default.
var (
	ErrModelInvoke  = errors.New("model invoke failed")
	ErrCalendarCall = errors.New("calendar call failed")
	ErrSheetAppend  = errors.New("sheet append failed")
	ErrMailSend     = errors.New("mail send failed")
	ErrArchiveWrite = errors.New("call archive write failed")
)
