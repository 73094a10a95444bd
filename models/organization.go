package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	OrgRoleOwner  = "owner"
	OrgRoleAdmin  = "admin"
	OrgRoleMember = "member"
)

type Organization struct {
	Id        string    `json:"id" gorm:"primaryKey;type:uuid"`
	Name      string    `json:"name" gorm:"not null"`
	Slug      string    `json:"slug" gorm:"size:128;uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at"`
}

func (o *Organization) BeforeCreate(tx *gorm.DB) (err error) {
	if o.Id == "" {
		o.Id = uuid.NewString()
	}
	return
}

type OrganizationMember struct {
	Id             string    `json:"id" gorm:"primaryKey;type:uuid"`
	OrganizationId string    `json:"organization_id" gorm:"type:uuid;not null;index:idx_org_members_org_user,unique,priority:1"`
	UserId         string    `json:"user_id" gorm:"type:uuid;not null;index:idx_org_members_org_user,unique,priority:2"`
	Role           string    `json:"role" gorm:"size:20;not null"`
	CreatedAt      time.Time `json:"created_at"`
}

func (m *OrganizationMember) BeforeCreate(tx *gorm.DB) (err error) {
	if m.Id == "" {
		m.Id = uuid.NewString()
	}
	return
}

type CreateOrganizationInput struct {
	Name string `json:"name" validate:"required,min=2,max=120"`
}

type AddMemberInput struct {
	UserId string `json:"user_id" validate:"required,uuid4"`
	Role   string `json:"role" validate:"required,oneof=owner admin member"`
}
