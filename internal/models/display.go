package models

import "time"

// DisplayState carries the derived read-only fields of a post. These are
// recomputed from stored state on every read and never persisted, so expiry
// does not depend on a background job.
type DisplayState struct {
	IsExpired          bool `json:"isExpired"`
	IsActive           bool `json:"isActive"`
	HoursRemaining     int  `json:"hoursRemaining"`
	CanRepost          bool `json:"canRepost"`
	RepostLimitReached bool `json:"repostLimitReached"`
}

// ComputeDisplayState derives the display fields for a post at the given
// instant. Pure function: identical inputs always yield identical output.
// A post with no expiry set (never approved) is neither expired nor active.
func ComputeDisplayState(post *Post, now time.Time) DisplayState {
	var state DisplayState

	if post.ExpiresAt != nil {
		state.IsExpired = post.ExpiresAt.Before(now)
		if !state.IsExpired {
			remaining := post.ExpiresAt.Sub(now)
			state.HoursRemaining = int(remaining.Round(time.Hour) / time.Hour)
			if state.HoursRemaining < 0 {
				state.HoursRemaining = 0
			}
		}
	}

	state.IsActive = post.Status == StatusApproved && !state.IsExpired
	state.CanRepost = state.IsExpired && (post.IsPaid || post.RepostCount < post.MaxReposts)
	state.RepostLimitReached = !post.IsPaid && post.RepostCount >= post.MaxReposts

	return state
}

// PostView pairs a post with its derived display state for list responses.
type PostView struct {
	Post
	Display DisplayState `json:"display"`
}

// NewPostView computes display state for a single post.
func NewPostView(post *Post, now time.Time) PostView {
	return PostView{Post: *post, Display: ComputeDisplayState(post, now)}
}
