// Package client is a typed HTTP client of the socialite API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"github.com/pkg/errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"socialite/media"
	"socialite/model"
	"socialite/service"
	"strings"
	"time"
)

const DefaultBaseURL = "http://127.0.0.1:5000"

// APIError is a non 2xx answer of the API
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

// Client calls the API on behalf of one user
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/") + "/api",
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// SetToken authenticates the following calls
func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) Token() string {
	return c.token
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, errors.Wrapf(err, "building %s %s failed", method, path)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

// do sends in as JSON when non-nil and decodes the answer into out when non-nil
func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return errors.Wrap(err, "encoding request failed")
		}
		body = bytes.NewReader(raw)
	}
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s failed", req.Method, req.URL.Path)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var msg struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&msg)
		if msg.Message == "" {
			msg.Message = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: msg.Message}
	}
	if out == nil {
		return nil
	}
	return errors.Wrap(json.NewDecoder(resp.Body).Decode(out), "decoding response failed")
}

type messageResponse struct {
	Message string `json:"message"`
}

func (c *Client) Register(ctx context.Context, in service.RegisterInput) (*service.Session, error) {
	var s service.Session
	if err := c.do(ctx, http.MethodPost, "/auth/register", in, &s); err != nil {
		return nil, err
	}
	c.token = s.Token
	return &s, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*service.Session, error) {
	var s service.Session
	if err := c.do(ctx, http.MethodPost, "/auth/login", service.LoginInput{Email: email, Password: password}, &s); err != nil {
		return nil, err
	}
	c.token = s.Token
	return &s, nil
}

func (c *Client) Me(ctx context.Context) (*model.User, error) {
	var res struct {
		User *model.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &res); err != nil {
		return nil, err
	}
	return res.User, nil
}

type postsResponse struct {
	Posts []service.PostView `json:"posts"`
}

type postResponse struct {
	Post *service.PostView `json:"post"`
}

// Feed is the home page timeline
func (c *Client) Feed(ctx context.Context) ([]service.PostView, error) {
	var res postsResponse
	err := c.do(ctx, http.MethodGet, "/posts", nil, &res)
	return res.Posts, err
}

func (c *Client) SavedPosts(ctx context.Context) ([]service.PostView, error) {
	var res postsResponse
	err := c.do(ctx, http.MethodGet, "/posts/saved", nil, &res)
	return res.Posts, err
}

func (c *Client) UserPosts(ctx context.Context, userID string) ([]service.PostView, error) {
	var res postsResponse
	err := c.do(ctx, http.MethodGet, "/posts/user/"+url.PathEscape(userID), nil, &res)
	return res.Posts, err
}

func (c *Client) Post(ctx context.Context, postID string) (*service.PostView, error) {
	var res postResponse
	err := c.do(ctx, http.MethodGet, "/posts/"+url.PathEscape(postID), nil, &res)
	return res.Post, err
}

func (c *Client) CreatePost(ctx context.Context, content, image string) (*service.PostView, error) {
	var res postResponse
	err := c.do(ctx, http.MethodPost, "/posts", service.CreatePostInput{Content: content, Image: image}, &res)
	return res.Post, err
}

func (c *Client) UpdatePost(ctx context.Context, postID string, in service.UpdatePostInput) (*service.PostView, error) {
	var res postResponse
	err := c.do(ctx, http.MethodPut, "/posts/"+url.PathEscape(postID), in, &res)
	return res.Post, err
}

func (c *Client) DeletePost(ctx context.Context, postID string) error {
	return c.do(ctx, http.MethodDelete, "/posts/"+url.PathEscape(postID), nil, nil)
}

func (c *Client) ToggleLike(ctx context.Context, postID string) (*service.LikeResult, error) {
	var res service.LikeResult
	if err := c.do(ctx, http.MethodPost, "/posts/"+url.PathEscape(postID)+"/like", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) TogglePin(ctx context.Context, postID string) (*service.PinResult, error) {
	var res service.PinResult
	if err := c.do(ctx, http.MethodPost, "/posts/"+url.PathEscape(postID)+"/pin", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) ToggleSave(ctx context.Context, postID string) (*service.SaveResult, error) {
	var res service.SaveResult
	if err := c.do(ctx, http.MethodPost, "/posts/"+url.PathEscape(postID)+"/save", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) CreateComment(ctx context.Context, postID, content string) (*service.CommentView, error) {
	var res struct {
		Comment *service.CommentView `json:"comment"`
	}
	err := c.do(ctx, http.MethodPost, "/comments", service.CreateCommentInput{PostID: postID, Content: content}, &res)
	return res.Comment, err
}

func (c *Client) Comments(ctx context.Context, postID string) ([]service.CommentView, error) {
	var res struct {
		Comments []service.CommentView `json:"comments"`
	}
	err := c.do(ctx, http.MethodGet, "/comments/post/"+url.PathEscape(postID), nil, &res)
	return res.Comments, err
}

func (c *Client) DeleteComment(ctx context.Context, commentID string) error {
	return c.do(ctx, http.MethodDelete, "/comments/"+url.PathEscape(commentID), nil, nil)
}

// RecentUsers needs no token
func (c *Client) RecentUsers(ctx context.Context) ([]model.PublicUser, error) {
	var users []model.PublicUser
	err := c.do(ctx, http.MethodGet, "/users/recent", nil, &users)
	return users, err
}

type profileResponse struct {
	User *service.Profile `json:"user"`
}

func (c *Client) Profile(ctx context.Context, userID string) (*service.Profile, error) {
	var res profileResponse
	err := c.do(ctx, http.MethodGet, "/users/"+url.PathEscape(userID), nil, &res)
	return res.User, err
}

func (c *Client) UpdateProfile(ctx context.Context, in service.ProfileInput) (*service.Profile, error) {
	var res profileResponse
	err := c.do(ctx, http.MethodPut, "/users/profile", in, &res)
	return res.User, err
}

func (c *Client) SendFriendRequest(ctx context.Context, userID string) (string, error) {
	var res messageResponse
	err := c.do(ctx, http.MethodPost, "/users/friend-request/"+url.PathEscape(userID), nil, &res)
	return res.Message, err
}

func (c *Client) AcceptFriendRequest(ctx context.Context, userID string) (string, error) {
	var res messageResponse
	err := c.do(ctx, http.MethodPost, "/users/friend-request/accept/"+url.PathEscape(userID), nil, &res)
	return res.Message, err
}

func (c *Client) FriendRequests(ctx context.Context) ([]model.PublicUser, error) {
	var res struct {
		FriendRequests []model.PublicUser `json:"friendRequests"`
	}
	err := c.do(ctx, http.MethodGet, "/users/friend-requests/list", nil, &res)
	return res.FriendRequests, err
}

func (c *Client) SearchUsers(ctx context.Context, query string) ([]model.User, error) {
	var res struct {
		Users []model.User `json:"users"`
	}
	err := c.do(ctx, http.MethodGet, "/users/search/query?q="+url.QueryEscape(query), nil, &res)
	return res.Users, err
}

// UploadImage sends the image as the multipart field "image"
func (c *Client) UploadImage(ctx context.Context, filename string, r io.Reader) (*media.Image, error) {
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile("image", filename)
	if err != nil {
		return nil, errors.Wrap(err, "building upload failed")
	}
	if _, err = io.Copy(part, r); err != nil {
		return nil, errors.Wrap(err, "reading image failed")
	}
	if err = mw.Close(); err != nil {
		return nil, errors.Wrap(err, "building upload failed")
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/upload/image", body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	var img media.Image
	if err = c.send(req, &img); err != nil {
		return nil, err
	}
	return &img, nil
}

func (c *Client) DeleteImage(ctx context.Context, publicID string) error {
	return c.do(ctx, http.MethodDelete, "/upload/image/"+url.PathEscape(publicID), nil, nil)
}
