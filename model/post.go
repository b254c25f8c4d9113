package model

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
	"time"
)

// post document collection name and fields
const (
	PostCollection     = "posts"
	PostUserField      = "user"
	PostContentField   = "content"
	PostImageField     = "image"
	PostLikesField     = "likes"
	PostSavedByField   = "savedBy"
	PostPinnedField    = "pinned"
	PostCommentsField  = "comments"
	PostCreatedAtField = "createdAt"
	PostUpdatedAtField = "updatedAt"
)

// FeedLimit is the number of posts returned by the news feed
const FeedLimit = 50

type Post struct {
	ID        primitive.ObjectID   `bson:"_id" json:"_id"`
	User      primitive.ObjectID   `bson:"user" json:"user"` // owner, immutable
	Content   string               `bson:"content" json:"content"`
	Image     string               `bson:"image" json:"image"`
	Likes     IDSet                `bson:"likes" json:"likes"`
	SavedBy   IDSet                `bson:"savedBy" json:"savedBy"`
	Pinned    bool                 `bson:"pinned" json:"pinned"`
	Comments  []primitive.ObjectID `bson:"comments" json:"comments"` // insertion order
	CreatedAt time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time            `bson:"updatedAt" json:"updatedAt"`
}

func NewPost(owner primitive.ObjectID, content, image string, now time.Time) *Post {
	return &Post{
		ID:        primitive.NewObjectID(),
		User:      owner,
		Content:   content,
		Image:     image,
		Likes:     IDSet{},
		SavedBy:   IDSet{},
		Comments:  make([]primitive.ObjectID, 0),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (p *Post) OwnedBy(userID primitive.ObjectID) bool {
	return p.User == userID
}

func (p *Post) Clone() *Post {
	c := *p
	c.Likes = p.Likes.Clone()
	c.SavedBy = p.SavedBy.Clone()
	c.Comments = make([]primitive.ObjectID, len(p.Comments))
	copy(c.Comments, p.Comments)
	return &c
}

// PostUpdate is a partial post update. Nil fields are left unchanged.
type PostUpdate struct {
	Content *string `structs:"content,omitempty"`
	Image   *string `structs:"image,omitempty"`
}

func (up PostUpdate) Apply(p *Post) {
	if up.Content != nil {
		p.Content = *up.Content
	}
	if up.Image != nil {
		p.Image = *up.Image
	}
}

// PostFilter narrows a post listing. Zero value lists every post.
type PostFilter struct {
	Owner *primitive.ObjectID
	IDs   []primitive.ObjectID // when non-nil, only these posts
	Limit int64                // 0 means unbounded
}
