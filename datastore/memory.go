package datastore

import (
	"context"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"socialite/model"
	"sort"
	"strings"
	"sync"
	"time"
)

// Memory is an in-process Store. A single mutex guards all collections, so every operation,
// including the multi-document ones, is applied whole.
type Memory struct {
	mu       sync.Mutex
	users    map[primitive.ObjectID]*model.User
	posts    map[primitive.ObjectID]*model.Post
	comments map[primitive.ObjectID]*model.Comment
}

var _ Store = (*Memory)(nil)

func NewMemory() *Memory {
	m := &Memory{}
	m.reset()
	return m
}

func (m *Memory) reset() {
	m.users = make(map[primitive.ObjectID]*model.User)
	m.posts = make(map[primitive.ObjectID]*model.Post)
	m.comments = make(map[primitive.ObjectID]*model.Comment)
}

func (m *Memory) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reset()
	return nil
}

func (m *Memory) Close(_ context.Context) error {
	return nil
}

// newer reports whether a sorts before b in a newest first listing
func newer(aCreated, bCreated time.Time, aID, bID primitive.ObjectID) bool {
	if !aCreated.Equal(bCreated) {
		return aCreated.After(bCreated)
	}
	return aID.Hex() > bID.Hex()
}

func (m *Memory) CreateUser(_ context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return ErrDuplicate
		}
	}
	m.users[u.ID] = u.Clone()
	return nil
}

func (m *Memory) UserByID(_ context.Context, id primitive.ObjectID) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return u.Clone(), nil
}

func (m *Memory) UserByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return u.Clone(), nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) PublicUsers(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]model.PublicUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[primitive.ObjectID]model.PublicUser, len(ids))
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			out[id] = u.Public()
		}
	}
	return out, nil
}

func (m *Memory) sortedUsers() []*model.User {
	users := make([]*model.User, 0, len(m.users))
	for _, u := range m.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool {
		return newer(users[i].CreatedAt, users[j].CreatedAt, users[i].ID, users[j].ID)
	})
	return users
}

func (m *Memory) RecentUsers(_ context.Context, limit int64) ([]model.PublicUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.PublicUser, 0, limit)
	for _, u := range m.sortedUsers() {
		if int64(len(out)) == limit {
			break
		}
		out = append(out, u.Public())
	}
	return out, nil
}

func (m *Memory) SearchUsers(_ context.Context, query string, limit int64) ([]model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q := strings.ToLower(query)
	out := make([]model.User, 0, limit)
	for _, u := range m.sortedUsers() {
		if int64(len(out)) == limit {
			break
		}
		if strings.Contains(strings.ToLower(u.FirstName), q) ||
			strings.Contains(strings.ToLower(u.LastName), q) ||
			strings.Contains(strings.ToLower(u.Email), q) {
			found := u.Clone()
			found.Password = ""
			out = append(out, *found)
		}
	}
	return out, nil
}

func (m *Memory) UpdateUser(_ context.Context, id primitive.ObjectID, update model.UserUpdate) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	update.Apply(u)
	u.UpdatedAt = time.Now().UTC()
	return u.Clone(), nil
}

func (m *Memory) AddFriendRequest(_ context.Context, targetID, requesterID primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	target, ok := m.users[targetID]
	if !ok {
		return ErrNotFound
	}
	target.FriendRequests = target.FriendRequests.Add(requesterID)
	return nil
}

func (m *Memory) AcceptFriendRequest(_ context.Context, userID, requesterID primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[userID]
	if !ok {
		return ErrNotFound
	}
	requester, ok := m.users[requesterID]
	if !ok {
		return ErrNotFound
	}
	user.FriendRequests = user.FriendRequests.Remove(requesterID)
	user.Friends = user.Friends.Add(requesterID)
	requester.FriendRequests = requester.FriendRequests.Remove(userID)
	requester.Friends = requester.Friends.Add(userID)
	return nil
}

func (m *Memory) CreatePost(_ context.Context, p *model.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.posts[p.ID] = p.Clone()
	return nil
}

func (m *Memory) PostByID(_ context.Context, id primitive.ObjectID) (*model.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return p.Clone(), nil
}

func (m *Memory) ListPosts(_ context.Context, filter model.PostFilter) ([]model.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var wanted model.IDSet
	if filter.IDs != nil {
		wanted = model.NewIDSet(filter.IDs...)
	}
	posts := make([]model.Post, 0)
	for _, p := range m.posts {
		if filter.Owner != nil && p.User != *filter.Owner {
			continue
		}
		if filter.IDs != nil && !wanted.Contains(p.ID) {
			continue
		}
		posts = append(posts, *p.Clone())
	}
	sort.Slice(posts, func(i, j int) bool {
		return newer(posts[i].CreatedAt, posts[j].CreatedAt, posts[i].ID, posts[j].ID)
	})
	if filter.Limit > 0 && int64(len(posts)) > filter.Limit {
		posts = posts[:filter.Limit]
	}
	return posts, nil
}

func (m *Memory) UpdatePost(_ context.Context, id primitive.ObjectID, update model.PostUpdate) (*model.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return nil, ErrNotFound
	}
	update.Apply(p)
	p.UpdatedAt = time.Now().UTC()
	return p.Clone(), nil
}

func (m *Memory) DeletePost(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.posts[id]; !ok {
		return ErrNotFound
	}
	delete(m.posts, id)
	for cid, c := range m.comments {
		if c.Post == id {
			delete(m.comments, cid)
		}
	}
	for _, u := range m.users {
		u.SavedPosts = u.SavedPosts.Remove(id)
	}
	return nil
}

func (m *Memory) ToggleLike(_ context.Context, postID, userID primitive.ObjectID) (model.IDSet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[postID]
	if !ok {
		return nil, ErrNotFound
	}
	p.Likes, _ = p.Likes.Toggle(userID)
	return p.Likes.Clone(), nil
}

func (m *Memory) TogglePin(_ context.Context, postID primitive.ObjectID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[postID]
	if !ok {
		return false, ErrNotFound
	}
	p.Pinned = !p.Pinned
	return p.Pinned, nil
}

func (m *Memory) ToggleSave(_ context.Context, postID, userID primitive.ObjectID) (saved bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[postID]
	if !ok {
		return false, ErrNotFound
	}
	u, ok := m.users[userID]
	if !ok {
		return false, ErrNotFound
	}
	p.SavedBy, saved = p.SavedBy.Toggle(userID)
	if saved {
		u.SavedPosts = u.SavedPosts.Add(postID)
	} else {
		u.SavedPosts = u.SavedPosts.Remove(postID)
	}
	return
}

func (m *Memory) CreateComment(_ context.Context, c *model.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[c.Post]
	if !ok {
		return ErrNotFound
	}
	p.Comments = append(p.Comments, c.ID)
	stored := *c
	m.comments[c.ID] = &stored
	return nil
}

func (m *Memory) CommentByID(_ context.Context, id primitive.ObjectID) (*model.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.comments[id]
	if !ok {
		return nil, ErrNotFound
	}
	found := *c
	return &found, nil
}

func (m *Memory) collectComments(keep func(*model.Comment) bool) []model.Comment {
	out := make([]model.Comment, 0)
	for _, c := range m.comments {
		if keep(c) {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return newer(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID)
	})
	return out
}

func (m *Memory) CommentsByPost(_ context.Context, postID primitive.ObjectID) ([]model.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.collectComments(func(c *model.Comment) bool { return c.Post == postID }), nil
}

func (m *Memory) CommentsByIDs(_ context.Context, ids []primitive.ObjectID) ([]model.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	wanted := model.NewIDSet(ids...)
	return m.collectComments(func(c *model.Comment) bool { return wanted.Contains(c.ID) }), nil
}

func (m *Memory) DeleteComment(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.comments[id]
	if !ok {
		return ErrNotFound
	}
	if p, ok := m.posts[c.Post]; ok {
		kept := p.Comments[:0]
		for _, cid := range p.Comments {
			if cid != id {
				kept = append(kept, cid)
			}
		}
		p.Comments = kept
	}
	delete(m.comments, id)
	return nil
}
