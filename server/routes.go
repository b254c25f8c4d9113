package server

import (
	"github.com/gorilla/mux"
	"net/http"
	"socialite/metrics"
)

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(logRequests, metrics.Instrument, s.limiter.Handler)

	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	// public
	api.HandleFunc("/auth/register", s.handleRegister).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)
	api.HandleFunc("/users/recent", s.handleRecentUsers).Methods(http.MethodGet)

	private := api.NewRoute().Subrouter()
	private.Use(s.authenticate)

	private.HandleFunc("/auth/me", s.handleMe).Methods(http.MethodGet)

	// /posts/saved must be matched before /posts/{postId}
	private.HandleFunc("/posts", s.handleCreatePost).Methods(http.MethodPost)
	private.HandleFunc("/posts", s.handleFeed).Methods(http.MethodGet)
	private.HandleFunc("/posts/saved", s.handleSavedPosts).Methods(http.MethodGet)
	private.HandleFunc("/posts/user/{userId}", s.handleUserPosts).Methods(http.MethodGet)
	private.HandleFunc("/posts/{postId}", s.handleGetPost).Methods(http.MethodGet)
	private.HandleFunc("/posts/{postId}", s.handleUpdatePost).Methods(http.MethodPut)
	private.HandleFunc("/posts/{postId}", s.handleDeletePost).Methods(http.MethodDelete)
	private.HandleFunc("/posts/{postId}/like", s.handleLike).Methods(http.MethodPost)
	private.HandleFunc("/posts/{postId}/pin", s.handlePin).Methods(http.MethodPost)
	private.HandleFunc("/posts/{postId}/save", s.handleSave).Methods(http.MethodPost)

	private.HandleFunc("/comments", s.handleCreateComment).Methods(http.MethodPost)
	private.HandleFunc("/comments/post/{postId}", s.handleListComments).Methods(http.MethodGet)
	private.HandleFunc("/comments/{commentId}", s.handleDeleteComment).Methods(http.MethodDelete)

	private.HandleFunc("/users/profile", s.handleUpdateProfile).Methods(http.MethodPut)
	private.HandleFunc("/users/friend-requests/list", s.handleFriendRequests).Methods(http.MethodGet)
	private.HandleFunc("/users/friend-request/accept/{userId}", s.handleAcceptFriend).Methods(http.MethodPost)
	private.HandleFunc("/users/friend-request/{userId}", s.handleSendFriend).Methods(http.MethodPost)
	private.HandleFunc("/users/search/query", s.handleSearchUsers).Methods(http.MethodGet)
	private.HandleFunc("/users/{userId}", s.handleGetProfile).Methods(http.MethodGet)

	private.HandleFunc("/upload/image", s.handleUploadImage).Methods(http.MethodPost)
	private.HandleFunc("/upload/image/{publicId}", s.handleDeleteImage).Methods(http.MethodDelete)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusNotFound, "Route not found")
	})
	return r
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	writeMessage(w, http.StatusOK, "Social Media API is running")
}
