package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const UserColName = "users"

type Role string

const (
	RoleTourist    Role = "TOURIST"
	RoleGuide      Role = "GUIDE"
	RoleAdmin      Role = "ADMIN"
	RoleSuperAdmin Role = "SUPER_ADMIN"
)

func (r Role) IsAdmin() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

func (r Role) Valid() bool {
	switch r {
	case RoleTourist, RoleGuide, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

type ActiveState string

const (
	StateActive   ActiveState = "ACTIVE"
	StateInactive ActiveState = "INACTIVE"
	StateBlocked  ActiveState = "BLOCKED"
)

type GuideProfile struct {
	Bio             string   `bson:"bio,omitempty" json:"bio,omitempty"`
	Languages       []string `bson:"languages,omitempty" json:"languages,omitempty"`
	YearsExperience int      `bson:"years_experience,omitempty" json:"yearsExperience,omitempty"`
}

type TouristProfile struct {
	Interests         []string `bson:"interests,omitempty" json:"interests,omitempty"`
	PreferredLanguage string   `bson:"preferred_language,omitempty" json:"preferredLanguage,omitempty"`
}

type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name           string             `bson:"name" json:"name" validate:"required"`
	Email          string             `bson:"email" json:"email" validate:"required,email"`
	Password       string             `bson:"password" json:"-"`
	Role           Role               `bson:"role" json:"role"`
	Phone          string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Address        string             `bson:"address,omitempty" json:"address,omitempty"`
	Picture        string             `bson:"picture,omitempty" json:"picture,omitempty"`
	IsActive       ActiveState        `bson:"is_active" json:"isActive"`
	IsDeleted      bool               `bson:"is_deleted" json:"isDeleted"`
	IsVerified     bool               `bson:"is_verified" json:"isVerified"`
	GuideProfile   *GuideProfile      `bson:"guide_profile,omitempty" json:"guideProfile,omitempty"`
	TouristProfile *TouristProfile    `bson:"tourist_profile,omitempty" json:"touristProfile,omitempty"`
	CreatedAt      time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updatedAt"`
}

// UserPatch is an explicit partial update: only non-nil fields are written,
// so an update can never clobber unrelated fields.
type UserPatch struct {
	Name           *string         `json:"name,omitempty"`
	Phone          *string         `json:"phone,omitempty"`
	Address        *string         `json:"address,omitempty"`
	Picture        *string         `json:"picture,omitempty"`
	GuideProfile   *GuideProfile   `json:"guideProfile,omitempty"`
	TouristProfile *TouristProfile `json:"touristProfile,omitempty"`
}

func (p UserPatch) SetDoc() bson.M {
	set := bson.M{}
	if p.Name != nil {
		set["name"] = *p.Name
	}
	if p.Phone != nil {
		set["phone"] = *p.Phone
	}
	if p.Address != nil {
		set["address"] = *p.Address
	}
	if p.Picture != nil {
		set["picture"] = *p.Picture
	}
	if p.GuideProfile != nil {
		set["guide_profile"] = p.GuideProfile
	}
	if p.TouristProfile != nil {
		set["tourist_profile"] = p.TouristProfile
	}
	return set
}

func (p UserPatch) IsEmpty() bool {
	return len(p.SetDoc()) == 0
}

// UserRef is the slim projection embedded in populated responses.
type UserRef struct {
	ID      primitive.ObjectID `bson:"_id" json:"id"`
	Name    string             `bson:"name" json:"name"`
	Email   string             `bson:"email" json:"email"`
	Phone   string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Address string             `bson:"address,omitempty" json:"address,omitempty"`
	Picture string             `bson:"picture,omitempty" json:"picture,omitempty"`
}
