package types

type ToggleLikeReq struct {
	PhotoID ID `json:"photo_id" binding:"required"`
}

// PhotoQuery selects a photo from the query string.
type PhotoQuery struct {
	PhotoID ID `form:"photo_id" binding:"required"`
}

type LikeToggleResp struct {
	Liked      bool  `json:"liked"`
	LikesCount int64 `json:"likes_count"`
}

type LikeCheckResp struct {
	PhotoID ID   `json:"photo_id"`
	Liked   bool `json:"liked"`
}

type LikeStats struct {
	PhotoID    ID    `json:"photo_id"`
	LikesCount int64 `json:"likes_count"`
}
