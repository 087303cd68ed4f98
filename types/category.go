package types

type CreateCategoryReq struct {
	Name     string `json:"name" binding:"required,notblank,max=100"`
	ImageURL string `json:"image_url" binding:"omitempty,url,max=512"`
}

type UpdateCategoryReq struct {
	Name     *string `json:"name" binding:"omitempty,notblank,max=100"`
	ImageURL *string `json:"image_url" binding:"omitempty,url,max=512"`
}

type CategoryItem struct {
	ID          ID     `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	ImageURL    string `json:"image_url"`
	PhotosCount int64  `json:"photos_count"`
}

type LimitReq struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=50"`
}

type CategoryStats struct {
	CategoryID  ID     `json:"category_id"`
	Name        string `json:"name"`
	PhotosCount int64  `json:"photos_count"`
	TotalLikes  int64  `json:"total_likes"`
}
