package types

type RegisterReq struct {
	Username string `json:"username" binding:"required,username"`
	Email    string `json:"email" binding:"required,email,max=254"`
	Password string `json:"password" binding:"required,min=8,max=128"`
	FullName string `json:"full_name" binding:"omitempty,max=255"`
}

type LoginReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshReq carries a refresh token for logout and rotation.
type RefreshReq struct {
	Refresh string `json:"refresh" binding:"required"`
}

type TokenPair struct {
	Access    string `json:"access"`
	Refresh   string `json:"refresh"`
	ExpiresIn int64  `json:"expires_in"`
}

type LoginResp struct {
	TokenPair
	User UserProfile `json:"user"`
}
