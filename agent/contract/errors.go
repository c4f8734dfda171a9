package contract

import "errors"

var (
	ErrModelInvoke      = errors.New("model invoke failed")
	ErrToolExec         = errors.New("tool execution failed")
	ErrPromptMissing    = errors.New("required prompt is missing")
	ErrValidation       = errors.New("validation failed")
	ErrConversationDone = errors.New("conversation already finalized")
	ErrTurnBudget       = errors.New("turn model-call budget exhausted")
)
