package types

import "time"

type CreateCommentReq struct {
	PhotoID     ID     `json:"photo_id" binding:"required"`
	CommentText string `json:"comment_text" binding:"required,notblank,max=2000"`
}

type UpdateCommentReq struct {
	CommentText string `json:"comment_text" binding:"required,notblank,max=2000"`
}

type CommentItem struct {
	ID          ID        `json:"id"`
	PhotoID     ID        `json:"photo_id"`
	User        UserBrief `json:"user"`
	CommentText string    `json:"comment_text"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
