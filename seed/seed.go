// Package seed fills a store with sample users, posts, friendships and comments.
package seed

import (
	"context"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"math/rand"
	"socialite/auth"
	"socialite/datastore"
	"socialite/log"
	"socialite/model"
	"time"
)

// Password of every sample account
const Password = "123456"

type sampleUser struct {
	firstName, lastName, email, bio, avatar string
}

var users = []sampleUser{
	{"John", "Doe", "john@example.com", "Love coding and technology!", "https://i.pravatar.cc/150?img=12"},
	{"Jane", "Smith", "jane@example.com", "Travel enthusiast | Photography lover", "https://i.pravatar.cc/150?img=5"},
	{"Mike", "Johnson", "mike@example.com", "Software Engineer | Coffee addict", "https://i.pravatar.cc/150?img=33"},
	{"Sarah", "Williams", "sarah@example.com", "Artist & Designer", "https://i.pravatar.cc/150?img=9"},
}

var posts = []struct {
	content, image string
}{
	{"Just finished an amazing project! Feeling proud", "https://picsum.photos/600/400?random=1"},
	{"Beautiful sunset today! Nature is amazing", "https://picsum.photos/600/400?random=2"},
	{"Coffee time! Who else needs caffeine to start the day?", "https://picsum.photos/600/400?random=3"},
	{"Working on something exciting. Can't wait to share it with you all!", ""},
	{"Weekend vibes! Time to relax and recharge", "https://picsum.photos/600/400?random=4"},
	{"Just deployed my new website! Check it out and let me know what you think", ""},
	{"Morning run completed! Fitness is important", "https://picsum.photos/600/400?random=5"},
	{"Trying out a new recipe today. Wish me luck!", "https://picsum.photos/600/400?random=6"},
}

// friendships as pairs of indexes into users
var friendships = [][2]int{{0, 1}, {0, 2}, {2, 3}}

// comments as (author, post, content)
var comments = []struct {
	user, post int
	content    string
}{
	{1, 0, "Congratulations! Well done!"},
	{2, 0, "That's awesome! Keep up the great work!"},
	{0, 1, "Wow! Beautiful shot!"},
	{3, 2, "Same here! Coffee is life"},
	{1, 4, "Enjoy your weekend!"},
}

type Options struct {
	// Reset drops every existing document first
	Reset bool
	// Rand picks the sample likes, seeded from the clock when nil
	Rand *rand.Rand
	// Now anchors the post timestamps, time.Now when zero
	Now time.Time
}

// Result lists what was created
type Result struct {
	Users    []*model.User
	Posts    []*model.Post
	Comments []*model.Comment
}

// Run seeds store. Without Reset it fails when a sample account already exists.
func Run(ctx context.Context, store datastore.Store, opts Options) (*Result, error) {
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	now := opts.Now.UTC().Truncate(time.Millisecond)

	if opts.Reset {
		if err := store.Reset(ctx); err != nil {
			return nil, errors.Wrap(err, "clearing existing data failed")
		}
		log.Logger().Info("cleared existing data")
	}

	hash, err := auth.HashPassword(Password)
	if err != nil {
		return nil, err
	}
	res := &Result{}
	for _, u := range users {
		user := model.NewUser(u.firstName, u.lastName, u.email, hash, now)
		user.Bio = u.bio
		user.Avatar = u.avatar
		if err = store.CreateUser(ctx, user); err != nil {
			if errors.Is(err, datastore.ErrDuplicate) {
				return nil, errors.Errorf("user %s already exists, seed with reset to start over", u.email)
			}
			return nil, errors.Wrapf(err, "creating user %s failed", u.email)
		}
		res.Users = append(res.Users, user)
	}
	log.Logger().Infof("created %d users", len(res.Users))

	for _, pair := range friendships {
		a, b := res.Users[pair[0]].ID, res.Users[pair[1]].ID
		if err = store.AddFriendRequest(ctx, b, a); err != nil {
			return nil, errors.Wrap(err, "requesting friendship failed")
		}
		if err = store.AcceptFriendRequest(ctx, b, a); err != nil {
			return nil, errors.Wrap(err, "accepting friendship failed")
		}
	}
	log.Logger().Infof("created %d friendships", len(friendships))

	for i, p := range posts {
		owner := res.Users[i%len(res.Users)]
		// staggered by an hour, oldest first
		createdAt := now.Add(-time.Duration(len(posts)-i) * time.Hour)
		post := model.NewPost(owner.ID, p.content, p.image, createdAt)
		for j := opts.Rand.Intn(3); j > 0; j-- {
			post.Likes = post.Likes.Add(res.Users[opts.Rand.Intn(len(res.Users))].ID)
		}
		if err = store.CreatePost(ctx, post); err != nil {
			return nil, errors.Wrap(err, "creating post failed")
		}
		res.Posts = append(res.Posts, post)
	}
	log.Logger().Infof("created %d posts", len(res.Posts))

	for i, c := range comments {
		post := res.Posts[c.post]
		comment := model.NewComment(res.Users[c.user].ID, post.ID, c.content, post.CreatedAt.Add(time.Duration(i+1)*time.Minute))
		if err = store.CreateComment(ctx, comment); err != nil {
			return nil, errors.Wrap(err, "creating comment failed")
		}
		post.Comments = append(post.Comments, comment.ID)
		res.Comments = append(res.Comments, comment)
	}
	log.Logger().WithFields(logrus.Fields{
		"users":    len(res.Users),
		"posts":    len(res.Posts),
		"comments": len(res.Comments),
	}).Info("database seeded")
	return res, nil
}

// Accounts lists the sample logins
func Accounts() []string {
	out := make([]string, 0, len(users))
	for _, u := range users {
		out = append(out, u.email)
	}
	return out
}
