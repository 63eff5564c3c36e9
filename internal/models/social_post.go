package models

import "strings"

// SocialPostStatus tracks fan-out jobs to social connectors. It shares some
// string values with OrderStatus but is a separate vocabulary.
type SocialPostStatus string

const (
	SocialPostNew       SocialPostStatus = "new"
	SocialPostCompleted SocialPostStatus = "completed"
	SocialPostPartial   SocialPostStatus = "partial"
	SocialPostFailed    SocialPostStatus = "failed"
)

func ParseSocialPostStatus(value string) (SocialPostStatus, bool) {
	switch SocialPostStatus(strings.ToLower(strings.TrimSpace(value))) {
	case SocialPostNew:
		return SocialPostNew, true
	case SocialPostCompleted:
		return SocialPostCompleted, true
	case SocialPostPartial:
		return SocialPostPartial, true
	case SocialPostFailed:
		return SocialPostFailed, true
	default:
		return "", false
	}
}
