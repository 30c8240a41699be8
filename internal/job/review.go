package job

// ReviewStatus tracks the owner's review of AI-generated content.
//
//	draft --generation completes--> pending_review --owner confirms--> confirmed
//	confirmed --content edited--> pending_review
type ReviewStatus string

const (
	ReviewDraft         ReviewStatus = "draft"
	ReviewPendingReview ReviewStatus = "pending_review"
	ReviewConfirmed     ReviewStatus = "confirmed"
)

func (s ReviewStatus) Valid() bool {
	switch s {
	case ReviewDraft, ReviewPendingReview, ReviewConfirmed:
		return true
	}
	return false
}

// CanTransition reports whether the editing flows may move a job from s to next.
func (s ReviewStatus) CanTransition(next ReviewStatus) bool {
	switch s {
	case ReviewDraft:
		return next == ReviewPendingReview
	case ReviewPendingReview:
		return next == ReviewConfirmed
	case ReviewConfirmed:
		return next == ReviewPendingReview
	}
	return false
}
