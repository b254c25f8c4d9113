package server

import (
	"bytes"
	"context"
	"encoding/json"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"socialite/config"
	"socialite/datastore"
	"socialite/log"
	"socialite/media"
	"strings"
	"sync"
	"testing"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "socialite-server-test")
	if err != nil {
		panic(err)
	}
	log.SetDir(dir)
	_ = log.SetLevel("warn")
	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

type memoryBucket struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (b *memoryBucket) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[aws.ToString(in.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func (b *memoryBucket) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.objects[aws.ToString(in.Key)]; !ok {
		return nil, &types.NotFound{}
	}
	return &s3.HeadObjectOutput{}, nil
}

func (b *memoryBucket) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

type testAPI struct {
	t       *testing.T
	handler http.Handler
	bucket  *memoryBucket
}

func newTestAPI(t *testing.T) *testAPI {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.Store = config.MemoryStore
	cfg.RateLimit = 10000
	cfg.RateBurst = 10000
	bucket := &memoryBucket{objects: map[string][]byte{}}
	srv := New(cfg, datastore.NewMemory(), media.NewHost(bucket, "bucket", "http://cdn.local/bucket"))
	return &testAPI{t: t, handler: srv.Handler(), bucket: bucket}
}

// do performs a JSON request and decodes the JSON response into out when non-nil
func (a *testAPI) do(method, path, token string, body interface{}, out interface{}) int {
	a.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	if out != nil {
		require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
	}
	return rec.Code
}

type session struct {
	Token string `json:"token"`
	User  struct {
		ID        string `json:"_id"`
		FirstName string `json:"firstName"`
	} `json:"user"`
}

func (a *testAPI) register(firstName, email string) session {
	a.t.Helper()
	var s session
	code := a.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"firstName": firstName, "lastName": "Doe", "email": email, "password": "123456",
	}, &s)
	require.Equal(a.t, http.StatusCreated, code)
	return s
}

type postBody struct {
	ID      string   `json:"_id"`
	Content string   `json:"content"`
	Pinned  bool     `json:"pinned"`
	Likes   []string `json:"likes"`
	User    struct {
		ID        string `json:"_id"`
		FirstName string `json:"firstName"`
	} `json:"user"`
	Comments []struct {
		Content string `json:"content"`
		User    struct {
			ID string `json:"_id"`
		} `json:"user"`
	} `json:"comments"`
}

func (a *testAPI) createPost(token, content string) postBody {
	a.t.Helper()
	var res struct {
		Post postBody `json:"post"`
	}
	require.Equal(a.t, http.StatusCreated, a.do(http.MethodPost, "/api/posts", token, map[string]string{"content": content}, &res))
	return res.Post
}

type messageBody struct {
	Message string `json:"message"`
}

func TestServer_Index(t *testing.T) {
	api := newTestAPI(t)
	var res messageBody
	assert.Equal(t, http.StatusOK, api.do(http.MethodGet, "/", "", nil, &res))
	assert.Equal(t, "Social Media API is running", res.Message)

	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, "/api/nowhere", "", nil, &res))
}

func TestServer_Auth(t *testing.T) {
	api := newTestAPI(t)
	jane := api.register("Jane", "jane@doe.com")
	assert.NotEmpty(t, jane.Token)

	var res messageBody
	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"firstName": "Jane", "lastName": "Doe", "email": "jane@doe.com", "password": "123456",
	}, &res))
	assert.Equal(t, "User already exists", res.Message)

	var logged session
	assert.Equal(t, http.StatusOK, api.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "jane@doe.com", "password": "123456",
	}, &logged))
	assert.Equal(t, jane.User.ID, logged.User.ID)

	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "jane@doe.com", "password": "nope",
	}, &res))
	assert.Equal(t, "Invalid credentials", res.Message)

	var me struct {
		User map[string]interface{} `json:"user"`
	}
	assert.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/auth/me", jane.Token, nil, &me))
	assert.Equal(t, "Jane", me.User["firstName"])
	assert.NotContains(t, me.User, "password")

	assert.Equal(t, http.StatusUnauthorized, api.do(http.MethodGet, "/api/auth/me", "", nil, &res))
	assert.Equal(t, http.StatusUnauthorized, api.do(http.MethodGet, "/api/posts", "forged", nil, &res))
	assert.Equal(t, "Not authorized", res.Message)
}

func TestServer_Posts(t *testing.T) {
	api := newTestAPI(t)
	john := api.register("John", "john@doe.com")
	jane := api.register("Jane", "jane@doe.com")

	var res messageBody
	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodPost, "/api/posts", john.Token, map[string]string{"content": " "}, &res))
	assert.Equal(t, "Content is required", res.Message)

	post := api.createPost(john.Token, "hello")
	assert.Equal(t, "hello", post.Content)
	assert.Equal(t, john.User.ID, post.User.ID)
	assert.Equal(t, "John", post.User.FirstName)

	var feed struct {
		Posts []postBody `json:"posts"`
	}
	assert.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/posts", jane.Token, nil, &feed))
	require.Len(t, feed.Posts, 1)

	assert.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/posts/user/"+john.User.ID, jane.Token, nil, &feed))
	assert.Len(t, feed.Posts, 1)
	assert.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/posts/user/garbage", jane.Token, nil, &feed))
	assert.Empty(t, feed.Posts)

	var got struct {
		Post postBody `json:"post"`
	}
	assert.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/posts/"+post.ID, jane.Token, nil, &got))
	assert.Equal(t, post.ID, got.Post.ID)
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, "/api/posts/garbage", jane.Token, nil, &res))
	assert.Equal(t, "Post not found", res.Message)

	assert.Equal(t, http.StatusForbidden, api.do(http.MethodPut, "/api/posts/"+post.ID, jane.Token, map[string]string{"content": "x"}, &res))
	assert.Equal(t, "Not authorized", res.Message)
	assert.Equal(t, http.StatusOK, api.do(http.MethodPut, "/api/posts/"+post.ID, john.Token, map[string]string{"content": "edited"}, &got))
	assert.Equal(t, "edited", got.Post.Content)

	var like struct {
		Likes      []string `json:"likes"`
		LikesCount int      `json:"likesCount"`
	}
	assert.Equal(t, http.StatusOK, api.do(http.MethodPost, "/api/posts/"+post.ID+"/like", jane.Token, nil, &like))
	assert.Equal(t, 1, like.LikesCount)
	assert.Equal(t, []string{jane.User.ID}, like.Likes)
	assert.Equal(t, http.StatusOK, api.do(http.MethodPost, "/api/posts/"+post.ID+"/like", jane.Token, nil, &like))
	assert.Equal(t, 0, like.LikesCount)
	assert.NotNil(t, like.Likes, "likes are always a list")

	var pin struct {
		Pinned  bool   `json:"pinned"`
		Message string `json:"message"`
	}
	assert.Equal(t, http.StatusForbidden, api.do(http.MethodPost, "/api/posts/"+post.ID+"/pin", jane.Token, nil, &res))
	assert.Equal(t, http.StatusOK, api.do(http.MethodPost, "/api/posts/"+post.ID+"/pin", john.Token, nil, &pin))
	assert.True(t, pin.Pinned)
	assert.Equal(t, "Post pinned", pin.Message)

	var save struct {
		Saved   bool   `json:"saved"`
		Message string `json:"message"`
	}
	assert.Equal(t, http.StatusOK, api.do(http.MethodPost, "/api/posts/"+post.ID+"/save", jane.Token, nil, &save))
	assert.True(t, save.Saved)
	assert.Equal(t, "Post saved", save.Message)
	assert.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/posts/saved", jane.Token, nil, &feed))
	require.Len(t, feed.Posts, 1)
	assert.Equal(t, post.ID, feed.Posts[0].ID)

	assert.Equal(t, http.StatusForbidden, api.do(http.MethodDelete, "/api/posts/"+post.ID, jane.Token, nil, &res))
	assert.Equal(t, http.StatusOK, api.do(http.MethodDelete, "/api/posts/"+post.ID, john.Token, nil, &res))
	assert.Equal(t, "Post deleted successfully", res.Message)
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, "/api/posts/"+post.ID, john.Token, nil, &res))
	assert.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/posts/saved", jane.Token, nil, &feed))
	assert.Empty(t, feed.Posts)
}

func TestServer_Comments(t *testing.T) {
	api := newTestAPI(t)
	alice := api.register("Alice", "alice@doe.com")
	bob := api.register("Bob", "bob@doe.com")
	post := api.createPost(alice.Token, "hello")

	var created struct {
		Comment struct {
			ID      string `json:"_id"`
			Content string `json:"content"`
			User    struct {
				ID string `json:"_id"`
			} `json:"user"`
		} `json:"comment"`
	}
	assert.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/comments", bob.Token, map[string]string{
		"postId": post.ID, "content": "hi",
	}, &created))
	assert.Equal(t, bob.User.ID, created.Comment.User.ID)

	var res messageBody
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodPost, "/api/comments", bob.Token, map[string]string{
		"postId": "missing", "content": "hi",
	}, &res))
	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodPost, "/api/comments", bob.Token, map[string]string{
		"postId": post.ID,
	}, &res))

	var listed struct {
		Comments []struct {
			Content string `json:"content"`
		} `json:"comments"`
	}
	assert.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/comments/post/"+post.ID, alice.Token, nil, &listed))
	require.Len(t, listed.Comments, 1)
	assert.Equal(t, "hi", listed.Comments[0].Content)

	var got struct {
		Post postBody `json:"post"`
	}
	assert.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/posts/"+post.ID, alice.Token, nil, &got))
	require.Len(t, got.Post.Comments, 1)
	assert.Equal(t, bob.User.ID, got.Post.Comments[0].User.ID)

	assert.Equal(t, http.StatusForbidden, api.do(http.MethodDelete, "/api/comments/"+created.Comment.ID, alice.Token, nil, &res))
	assert.Equal(t, http.StatusOK, api.do(http.MethodDelete, "/api/comments/"+created.Comment.ID, bob.Token, nil, &res))
	assert.Equal(t, "Comment deleted successfully", res.Message)
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodDelete, "/api/comments/"+created.Comment.ID, bob.Token, nil, &res))
	assert.Equal(t, "Comment not found", res.Message)
}

func TestServer_Users(t *testing.T) {
	api := newTestAPI(t)
	john := api.register("John", "john@doe.com")
	jane := api.register("Jane", "jane@doe.com")

	var recent []map[string]interface{}
	assert.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/users/recent", "", nil, &recent))
	require.Len(t, recent, 2)
	assert.Equal(t, "Jane", recent[0]["firstName"])
	assert.NotContains(t, recent[0], "email")

	var res messageBody
	assert.Equal(t, http.StatusOK, api.do(http.MethodPost, "/api/users/friend-request/"+jane.User.ID, john.Token, nil, &res))
	assert.Equal(t, "Friend request sent", res.Message)
	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodPost, "/api/users/friend-request/"+jane.User.ID, john.Token, nil, &res))
	assert.Equal(t, "Friend request already sent", res.Message)

	var requests struct {
		FriendRequests []struct {
			ID string `json:"_id"`
		} `json:"friendRequests"`
	}
	assert.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/users/friend-requests/list", jane.Token, nil, &requests))
	require.Len(t, requests.FriendRequests, 1)
	assert.Equal(t, john.User.ID, requests.FriendRequests[0].ID)

	assert.Equal(t, http.StatusOK, api.do(http.MethodPost, "/api/users/friend-request/accept/"+john.User.ID, jane.Token, nil, &res))
	assert.Equal(t, "Friend request accepted", res.Message)

	var profile struct {
		User struct {
			Bio     string `json:"bio"`
			Friends []struct {
				ID string `json:"_id"`
			} `json:"friends"`
		} `json:"user"`
	}
	assert.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/users/"+john.User.ID, jane.Token, nil, &profile))
	require.Len(t, profile.User.Friends, 1)
	assert.Equal(t, jane.User.ID, profile.User.Friends[0].ID)
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, "/api/users/nobody", jane.Token, nil, &res))

	assert.Equal(t, http.StatusOK, api.do(http.MethodPut, "/api/users/profile", john.Token, map[string]string{"bio": "gopher"}, &profile))
	assert.Equal(t, "gopher", profile.User.Bio)

	var found struct {
		Users []map[string]interface{} `json:"users"`
	}
	assert.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/users/search/query?q=jane", john.Token, nil, &found))
	require.Len(t, found.Users, 1)
	assert.Equal(t, "Jane", found.Users[0]["firstName"])
	assert.NotContains(t, found.Users[0], "password")

	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodGet, "/api/users/search/query", john.Token, nil, &res))
	assert.Equal(t, "Search query is required", res.Message)
}

func multipartImage(t *testing.T, filename string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func TestServer_Upload(t *testing.T) {
	api := newTestAPI(t)
	john := api.register("John", "john@doe.com")

	upload := func(filename string, data []byte, out interface{}) int {
		body, contentType := multipartImage(t, filename, data)
		req := httptest.NewRequest(http.MethodPost, "/api/upload/image", body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", "Bearer "+john.Token)
		rec := httptest.NewRecorder()
		api.handler.ServeHTTP(rec, req)
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
		return rec.Code
	}

	var res struct {
		Success  bool   `json:"success"`
		ImageURL string `json:"imageUrl"`
		PublicID string `json:"publicId"`
		Message  string `json:"message"`
	}
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	require.Equal(t, http.StatusOK, upload("me.png", png, &res))
	assert.True(t, res.Success)
	assert.True(t, strings.HasPrefix(res.ImageURL, "http://cdn.local/bucket/social-media/"), res.ImageURL)
	assert.Len(t, api.bucket.objects, 1)

	var failed messageBody
	assert.Equal(t, http.StatusBadRequest, upload("notes.png", []byte("plain text"), &failed))
	assert.Equal(t, "Only image files are allowed", failed.Message)

	req := httptest.NewRequest(http.MethodPost, "/api/upload/image", strings.NewReader(""))
	req.Header.Set("Authorization", "Bearer "+john.Token)
	rec := httptest.NewRecorder()
	api.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "No file uploaded")

	var deleted struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	assert.Equal(t, http.StatusOK, api.do(http.MethodDelete, "/api/upload/image/"+res.PublicID, john.Token, nil, &deleted))
	assert.True(t, deleted.Success)
	assert.Empty(t, api.bucket.objects)

	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodDelete, "/api/upload/image/elsewhere", john.Token, nil, &deleted))
	assert.False(t, deleted.Success)
	assert.Equal(t, "Failed to delete image", deleted.Message)

	deleted.Success = true
	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodDelete, "/api/upload/image/"+res.PublicID, john.Token, nil, &deleted),
		"an image that is already gone cannot be deleted")
	assert.False(t, deleted.Success)
	assert.Equal(t, "Failed to delete image", deleted.Message)
}

func TestServer_CORS(t *testing.T) {
	api := newTestAPI(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/posts", nil)
	rec := httptest.NewRecorder()
	api.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestServer_Metrics(t *testing.T) {
	api := newTestAPI(t)
	api.do(http.MethodGet, "/", "", nil, nil)
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	api.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "socialite_http_requests_total")
}
