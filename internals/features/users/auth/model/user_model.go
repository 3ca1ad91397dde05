package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserModel struct {
	UserID        uuid.UUID `gorm:"type:uuid;primaryKey;column:user_id" json:"user_id"`
	UserEmail     string    `gorm:"type:varchar(160);not null;uniqueIndex:uq_users_email;column:user_email" json:"user_email"`
	UserFullName  string    `gorm:"type:varchar(120);not null;column:user_full_name" json:"user_full_name"`
	UserPassword  string    `gorm:"type:varchar(100);not null;column:user_password" json:"-"`
	UserCreatedAt time.Time `gorm:"not null;autoCreateTime;column:user_created_at" json:"user_created_at"`
	UserUpdatedAt time.Time `gorm:"not null;autoUpdateTime;column:user_updated_at" json:"user_updated_at"`
}

func (UserModel) TableName() string { return "users" }

func (u *UserModel) BeforeCreate(tx *gorm.DB) error {
	if u.UserID == uuid.Nil {
		u.UserID = uuid.New()
	}
	return nil
}

// Satu user satu role (admin/teacher) — mengikuti tabel user_roles.
type UserRoleModel struct {
	UserRoleID     uuid.UUID `gorm:"type:uuid;primaryKey;column:user_role_id" json:"user_role_id"`
	UserRoleUserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_user_roles_user;column:user_role_user_id" json:"user_role_user_id"`
	UserRoleRole   string    `gorm:"type:varchar(20);not null;column:user_role_role" json:"user_role_role"`
}

func (UserRoleModel) TableName() string { return "user_roles" }

func (r *UserRoleModel) BeforeCreate(tx *gorm.DB) error {
	if r.UserRoleID == uuid.Nil {
		r.UserRoleID = uuid.New()
	}
	return nil
}
