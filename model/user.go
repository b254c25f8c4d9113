package model

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
	"time"
)

// user document collection name and fields
const (
	UserCollection          = "users"
	UserFirstNameField      = "firstName"
	UserLastNameField       = "lastName"
	UserEmailField          = "email"
	UserPasswordField       = "password"
	UserAvatarField         = "avatar"
	UserFriendsField        = "friends"
	UserFriendRequestsField = "friendRequests"
	UserSavedPostsField     = "savedPosts"
	UserCreatedAtField      = "createdAt"
	UserUpdatedAtField      = "updatedAt"
)

// User details
type User struct {
	ID             primitive.ObjectID `bson:"_id" json:"_id"`
	FirstName      string             `bson:"firstName" json:"firstName"`
	LastName       string             `bson:"lastName" json:"lastName"`
	Email          string             `bson:"email" json:"email"`
	Password       string             `bson:"password" json:"-"` // bcrypt hash
	Bio            string             `bson:"bio" json:"bio"`
	Avatar         string             `bson:"avatar" json:"avatar"`
	CoverPhoto     string             `bson:"coverPhoto" json:"coverPhoto"`
	Friends        IDSet              `bson:"friends" json:"friends"`
	FriendRequests IDSet              `bson:"friendRequests" json:"friendRequests"` // pending inbound requests
	SavedPosts     IDSet              `bson:"savedPosts" json:"savedPosts"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// NewUser returns a user with a fresh ID, empty sets and both timestamps set to now
func NewUser(firstName, lastName, email, passwordHash string, now time.Time) *User {
	return &User{
		ID:             primitive.NewObjectID(),
		FirstName:      firstName,
		LastName:       lastName,
		Email:          email,
		Password:       passwordHash,
		Friends:        IDSet{},
		FriendRequests: IDSet{},
		SavedPosts:     IDSet{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// PublicUser is the part of a user shown next to content they own
type PublicUser struct {
	ID        primitive.ObjectID `bson:"_id" json:"_id"`
	FirstName string             `bson:"firstName" json:"firstName"`
	LastName  string             `bson:"lastName" json:"lastName"`
	Avatar    string             `bson:"avatar" json:"avatar"`
}

// PublicUserFields is the projection matching PublicUser
var PublicUserFields = map[string]int{
	UserFirstNameField: 1,
	UserLastNameField:  1,
	UserAvatarField:    1,
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Avatar:    u.Avatar,
	}
}

func (u *User) String() string {
	return u.ID.Hex()
}

// Clone returns a deep copy, so that callers may mutate the sets freely
func (u *User) Clone() *User {
	c := *u
	c.Friends = u.Friends.Clone()
	c.FriendRequests = u.FriendRequests.Clone()
	c.SavedPosts = u.SavedPosts.Clone()
	return &c
}

// UserUpdate is a partial profile update. Nil fields are left unchanged.
type UserUpdate struct {
	FirstName  *string `structs:"firstName,omitempty"`
	LastName   *string `structs:"lastName,omitempty"`
	Bio        *string `structs:"bio,omitempty"`
	Avatar     *string `structs:"avatar,omitempty"`
	CoverPhoto *string `structs:"coverPhoto,omitempty"`
}

// Apply copies the non-nil fields onto u
func (up UserUpdate) Apply(u *User) {
	if up.FirstName != nil {
		u.FirstName = *up.FirstName
	}
	if up.LastName != nil {
		u.LastName = *up.LastName
	}
	if up.Bio != nil {
		u.Bio = *up.Bio
	}
	if up.Avatar != nil {
		u.Avatar = *up.Avatar
	}
	if up.CoverPhoto != nil {
		u.CoverPhoto = *up.CoverPhoto
	}
}
