package domain

import "time"

// ActivityAction names a mutation of a user's tree.
type ActivityAction string

const (
	ActionSectionAdd    ActivityAction = "section.add"
	ActionSectionRename ActivityAction = "section.rename"
	ActionSectionDelete ActivityAction = "section.delete"
	ActionLinkAdd       ActivityAction = "link.add"
	ActionLinkUpdate    ActivityAction = "link.update"
	ActionLinkDelete    ActivityAction = "link.delete"
)

// Activity is an audit record of one successful mutation.
type Activity struct {
	ID       string
	UserID   string
	Action   ActivityAction
	TargetID string
	At       time.Time
}
