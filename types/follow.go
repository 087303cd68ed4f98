package types

// ToggleFollowReq names the target by username or by user_id.
type ToggleFollowReq struct {
	Username string `json:"username" form:"username"`
	UserID   ID     `json:"user_id" form:"user_id"`
}

type FollowToggleResp struct {
	Following      bool  `json:"following"`
	FollowersCount int64 `json:"followers_count"`
}

type FollowCheckResp struct {
	Username  string `json:"username"`
	Following bool   `json:"following"`
}

type FollowListReq struct {
	PageQuery
	Username string `form:"username"`
}

type FollowStats struct {
	UserID         ID     `json:"user_id"`
	Username       string `json:"username"`
	FollowersCount int64  `json:"followers_count"`
	FollowingCount int64  `json:"following_count"`
}
