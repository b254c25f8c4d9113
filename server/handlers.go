package server

import (
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"net/http"
	"socialite/auth"
	"socialite/metrics"
	"socialite/service"
)

// currentUser is the caller id set by authenticate
func currentUser(r *http.Request) primitive.ObjectID {
	id, _ := auth.UserID(r.Context())
	return id
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in service.RegisterInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	session, err := s.auth.Register(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	metrics.RecordEvent(metrics.EventRegister)
	writeJSON(w, http.StatusCreated, session)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in service.LoginInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	session, err := s.auth.Login(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	metrics.RecordEvent(metrics.EventLogin)
	writeJSON(w, http.StatusOK, session)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := s.auth.Me(r.Context(), currentUser(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	var in service.CreatePostInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	post, err := s.posts.CreatePost(r.Context(), currentUser(r), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	metrics.RecordEvent(metrics.EventPostCreated)
	writeJSON(w, http.StatusCreated, map[string]interface{}{"post": post})
}

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	posts, err := s.posts.ListFeed(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"posts": posts})
}

func (s *Server) handleSavedPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := s.posts.ListSavedPosts(r.Context(), currentUser(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"posts": posts})
}

func (s *Server) handleUserPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := s.posts.ListUserPosts(r.Context(), mux.Vars(r)["userId"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"posts": posts})
}

func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	post, err := s.posts.GetPost(r.Context(), mux.Vars(r)["postId"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"post": post})
}

func (s *Server) handleUpdatePost(w http.ResponseWriter, r *http.Request) {
	var in service.UpdatePostInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	post, err := s.posts.UpdatePost(r.Context(), currentUser(r), mux.Vars(r)["postId"], in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"post": post})
}

func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	if err := s.posts.DeletePost(r.Context(), currentUser(r), mux.Vars(r)["postId"]); err != nil {
		writeError(w, r, err)
		return
	}
	metrics.RecordEvent(metrics.EventPostDeleted)
	writeMessage(w, http.StatusOK, "Post deleted successfully")
}

func (s *Server) handleLike(w http.ResponseWriter, r *http.Request) {
	res, err := s.posts.ToggleLike(r.Context(), currentUser(r), mux.Vars(r)["postId"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	metrics.RecordEvent(metrics.EventLikeToggled)
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handlePin(w http.ResponseWriter, r *http.Request) {
	res, err := s.posts.TogglePin(r.Context(), currentUser(r), mux.Vars(r)["postId"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	res, err := s.posts.ToggleSave(r.Context(), currentUser(r), mux.Vars(r)["postId"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	metrics.RecordEvent(metrics.EventSaveToggled)
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	var in service.CreateCommentInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	comment, err := s.comments.CreateComment(r.Context(), currentUser(r), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	metrics.RecordEvent(metrics.EventCommentCreated)
	writeJSON(w, http.StatusCreated, map[string]interface{}{"comment": comment})
}

func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := s.comments.ListComments(r.Context(), mux.Vars(r)["postId"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"comments": comments})
}

func (s *Server) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	if err := s.comments.DeleteComment(r.Context(), currentUser(r), mux.Vars(r)["commentId"]); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Comment deleted successfully")
}

func (s *Server) handleRecentUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.users.ListRecent(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := s.users.GetProfile(r.Context(), mux.Vars(r)["userId"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"user": profile})
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var in service.ProfileInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	profile, err := s.users.UpdateOwnProfile(r.Context(), currentUser(r), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"user": profile})
}

func (s *Server) handleSendFriend(w http.ResponseWriter, r *http.Request) {
	if err := s.users.SendFriendRequest(r.Context(), currentUser(r), mux.Vars(r)["userId"]); err != nil {
		writeError(w, r, err)
		return
	}
	metrics.RecordEvent(metrics.EventFriendRequest)
	writeMessage(w, http.StatusOK, "Friend request sent")
}

func (s *Server) handleAcceptFriend(w http.ResponseWriter, r *http.Request) {
	if err := s.users.AcceptFriendRequest(r.Context(), currentUser(r), mux.Vars(r)["userId"]); err != nil {
		writeError(w, r, err)
		return
	}
	metrics.RecordEvent(metrics.EventFriendAccepted)
	writeMessage(w, http.StatusOK, "Friend request accepted")
}

func (s *Server) handleFriendRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := s.users.ListFriendRequests(r.Context(), currentUser(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"friendRequests": requests})
}

func (s *Server) handleSearchUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.users.SearchUsers(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"users": users})
}
