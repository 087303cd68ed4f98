package types

import "time"

// UserBrief is the embedded author/follower view of a user.
type UserBrief struct {
	ID             ID     `json:"id"`
	Username       string `json:"username"`
	FullName       string `json:"full_name"`
	ProfilePicture string `json:"profile_picture"`
	FollowersCount int64  `json:"followers_count"`
	IsFollowing    bool   `json:"is_following"`
}

// UserDetail is the public profile.
type UserDetail struct {
	ID             ID             `json:"id"`
	Username       string         `json:"username"`
	FullName       string         `json:"full_name"`
	Bio            string         `json:"bio"`
	About          string         `json:"about"`
	ProfilePicture string         `json:"profile_picture"`
	Contact        map[string]any `json:"contact"`
	FollowersCount int64          `json:"followers_count"`
	FollowingCount int64          `json:"following_count"`
	CreatedAt      time.Time      `json:"date_joined"`
	IsFollowing    bool           `json:"is_following"`
}

// UserProfile is what the owner sees about themselves.
type UserProfile struct {
	UserDetail
	Email     string     `json:"email"`
	IsAdmin   bool       `json:"is_admin"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

// UpdateProfileReq is bound from JSON or multipart form. Nil fields are left unchanged.
type UpdateProfileReq struct {
	Username *string        `json:"username" form:"username" binding:"omitempty,username"`
	Email    *string        `json:"email" form:"email" binding:"omitempty,email,max=254"`
	FullName *string        `json:"full_name" form:"full_name" binding:"omitempty,max=255"`
	Bio      *string        `json:"bio" form:"bio" binding:"omitempty,max=500"`
	About    *string        `json:"about" form:"about" binding:"omitempty,max=5000"`
	Contact  map[string]any `json:"contact" form:"-"`
}

type UserStats struct {
	UserID           ID     `json:"user_id"`
	Username         string `json:"username"`
	FollowersCount   int64  `json:"followers_count"`
	FollowingCount   int64  `json:"following_count"`
	PhotosCount      int64  `json:"photos_count"`
	CollectionsCount int64  `json:"collections_count"`
	TotalLikes       int64  `json:"total_likes"`
	TotalComments    int64  `json:"total_comments"`
	TotalDownloads   int64  `json:"total_downloads"`
}

type SuggestedReq struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=50"`
}
