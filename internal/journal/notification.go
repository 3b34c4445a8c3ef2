package journal

import (
	"github.com/julianstephens/keptword/internal/constants"
)

// Op names a mutating journal operation
type Op string

const (
	OpCreate  Op = "create"
	OpUpdate  Op = "update"
	OpDelete  Op = "delete"
	OpClear   Op = "clear"
	OpOnboard Op = "onboard"
)

// Notification is the transient message shown after a mutation
type Notification struct {
	Message string
	Kind    constants.NotificationKind
}

func (n Notification) IsError() bool {
	return n.Kind == constants.NotificationError
}

// NotificationFor maps the outcome of op to the message a user sees
func NotificationFor(op Op, err error) Notification {
	if err != nil {
		msg := constants.MsgSaveFailed
		switch op {
		case OpDelete:
			msg = constants.MsgDeleteFailed
		case OpClear:
			msg = constants.MsgClearFailed
		}
		return Notification{Message: msg, Kind: constants.NotificationError}
	}

	msg := ""
	switch op {
	case OpCreate:
		msg = constants.MsgPromiseAdded
	case OpUpdate:
		msg = constants.MsgPromiseUpdated
	case OpDelete:
		msg = constants.MsgPromiseDeleted
	case OpClear:
		msg = constants.MsgDataCleared
	}
	return Notification{Message: msg, Kind: constants.NotificationSuccess}
}
