package models

import (
	"time"

	"gorm.io/datatypes"
)

// User 用户
// 对应表 users
// followers_count / following_count mirror the followers table.
type User struct {
	ID             int64             `gorm:"column:id;primaryKey;autoIncrement:false" json:"id,string"`
	Username       string            `gorm:"column:username;type:varchar(50);not null;uniqueIndex:uk_username" json:"username"`
	Email          string            `gorm:"column:email;type:varchar(254);not null;uniqueIndex:uk_email" json:"email"`
	Password       string            `gorm:"column:password;type:varchar(128);not null" json:"-"`
	FullName       string            `gorm:"column:full_name;type:varchar(255);not null;default:''" json:"full_name"`
	Bio            string            `gorm:"column:bio;type:varchar(500);not null;default:''" json:"bio"`
	About          string            `gorm:"column:about;type:text" json:"about"`
	ProfilePicture string            `gorm:"column:profile_picture;type:varchar(512);not null;default:''" json:"profile_picture"`
	Contact        datatypes.JSONMap `gorm:"column:contact" json:"contact"`
	FollowersCount int64             `gorm:"column:followers_count;not null;default:0" json:"followers_count"`
	FollowingCount int64             `gorm:"column:following_count;not null;default:0" json:"following_count"`
	IsActive       bool              `gorm:"column:is_active;not null" json:"is_active"`
	IsAdmin        bool              `gorm:"column:is_admin;not null;default:false" json:"is_admin"`
	IsStaff        bool              `gorm:"column:is_staff;not null;default:false" json:"is_staff"`
	LastLogin      *time.Time        `gorm:"column:last_login" json:"last_login,omitempty"`
	CreatedAt      time.Time         `gorm:"column:created_at" json:"created_at"`
	UpdatedAt      time.Time         `gorm:"column:updated_at" json:"updated_at"`
}

func (User) TableName() string { return "users" }

// Privileged users pass every ownership check.
func (u *User) Privileged() bool {
	return u.IsAdmin || u.IsStaff
}

// Follower 关注关系
// 唯一键: follower_id + following_id
type Follower struct {
	ID          uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	FollowerID  int64     `gorm:"column:follower_id;not null;uniqueIndex:uk_follower_following,priority:1" json:"follower_id,string"`
	FollowingID int64     `gorm:"column:following_id;not null;uniqueIndex:uk_follower_following,priority:2;index:idx_following" json:"following_id,string"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Follower) TableName() string { return "followers" }
