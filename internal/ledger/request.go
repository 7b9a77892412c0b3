package ledger

import "time"

// Status of a file request as it moves through admin triage.
type Status string

const (
	StatusPending            Status = "pending"
	StatusApproved           Status = "approved"
	StatusRejected           Status = "rejected"
	StatusCompleted          Status = "completed"
	StatusPostedToChannel    Status = "posted_to_channel"
	StatusRejectedWithReason Status = "rejected_with_reason"
)

// Action names match the callback-data verbs the admin keyboard sends.
type Action string

const (
	ActionApprove     Action = "approve"
	ActionReject      Action = "reject"
	ActionSendFile    Action = "sendfile"
	ActionPostChannel Action = "postchannel"
	ActionSendReason  Action = "sendreason"
)

type Request struct {
	ID               string
	RequesterID      int64
	SourceMessageRef string
	Status           Status
	RejectionReason  *string
	CreatedAt        time.Time
}

// transitions lists the legal edges of the request state machine.
// Every status reached through an action is terminal except approved
// and rejected, which each fan out once more.
var transitions = map[Status]map[Action]Status{
	StatusPending: {
		ActionApprove: StatusApproved,
		ActionReject:  StatusRejected,
	},
	StatusApproved: {
		ActionSendFile:    StatusCompleted,
		ActionPostChannel: StatusPostedToChannel,
	},
	StatusRejected: {
		ActionSendReason: StatusRejectedWithReason,
	},
}
