// Package toolserver hosts the client's operations as remotely invokable
// tools over HTTP: POST /tools/{name} with a JSON body, JSON result with
// a success flag and a human-readable message.
package toolserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	apidance "github.com/anatolykoptev/go-apidance"
)

// Client is the subset of the apidance client the tools invoke.
type Client interface {
	SearchTimeline(ctx context.Context, query string, opts apidance.SearchOptions) ([]*apidance.Tweet, error)
	GetUserByScreenName(ctx context.Context, screenName string) (*apidance.User, error)
	GetUserTweets(ctx context.Context, userID string, count int) ([]*apidance.Tweet, error)
	GetTweetByID(ctx context.Context, tweetID string) (*apidance.Tweet, error)
	CreateTweet(ctx context.Context, text, replyToID string) (string, error)
	CreateNoteTweet(ctx context.Context, text string, useRichtext bool, replyToID string) (string, error)
}

// Server exposes the tool endpoints plus /healthz and /metrics.
type Server struct {
	httpServer *http.Server
	client     Client
	router     chi.Router
}

// NewServer builds the server around an apidance client.
func NewServer(port int, client Client) *Server {
	s := &Server{client: client}

	r := chi.NewRouter()
	r.Use(loggingMiddleware)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Post("/tools/{tool}", s.handleTool)

	s.router = r
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler returns the underlying router.
func (s *Server) Handler() http.Handler { return s.router }

// Start serves until the listener fails or Stop is called.
func (s *Server) Start() error {
	slog.Info("tool server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Stop shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// toolResult is the JSON shape every tool answers with. Keys beyond
// "success" and "message" vary per tool.
type toolResult map[string]any

func (s *Server) handleTool(w http.ResponseWriter, r *http.Request) {
	tool := chi.URLParam(r, "tool")

	var res toolResult
	var err error
	switch tool {
	case "search_tweets":
		res, err = s.searchTweets(r)
	case "get_user_info":
		res, err = s.getUserInfo(r)
	case "get_user_tweets":
		res, err = s.getUserTweets(r)
	case "get_tweet_by_id":
		res, err = s.getTweetByID(r)
	case "create_tweet":
		res, err = s.createTweet(r)
	case "create_note_tweet":
		res, err = s.createNoteTweet(r)
	default:
		toolInvocations.WithLabelValues(tool, "unknown").Inc()
		writeJSON(w, http.StatusNotFound, toolResult{
			"success": false,
			"message": fmt.Sprintf("unknown tool: %s", tool),
		})
		return
	}
	if err != nil {
		toolInvocations.WithLabelValues(tool, "bad_request").Inc()
		writeJSON(w, http.StatusBadRequest, toolResult{
			"success": false,
			"message": err.Error(),
		})
		return
	}

	outcome := "ok"
	if ok, _ := res["success"].(bool); !ok {
		outcome = "error"
	}
	toolInvocations.WithLabelValues(tool, outcome).Inc()
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) searchTweets(r *http.Request) (toolResult, error) {
	var req struct {
		Query   string `json:"query"`
		Product string `json:"product"`
		Count   int    `json:"count"`
	}
	if err := decodeBody(r, &req); err != nil {
		return nil, err
	}
	if req.Query == "" {
		return nil, fmt.Errorf("query is required")
	}

	tweets, err := s.client.SearchTimeline(r.Context(), req.Query, apidance.SearchOptions{
		Product: apidance.SearchProduct(req.Product),
		Count:   req.Count,
	})
	if err != nil {
		return failure(err, "Failed to search tweets"), nil
	}
	msg := fmt.Sprintf("Found %d tweets matching query: %s", len(tweets), req.Query)
	if len(tweets) == 0 {
		msg = fmt.Sprintf("No tweets found matching query: %s", req.Query)
	}
	return toolResult{
		"success": true,
		"tweets":  tweets,
		"count":   len(tweets),
		"message": msg,
	}, nil
}

func (s *Server) getUserInfo(r *http.Request) (toolResult, error) {
	var req struct {
		ScreenName string `json:"screen_name"`
	}
	if err := decodeBody(r, &req); err != nil {
		return nil, err
	}
	if req.ScreenName == "" {
		return nil, fmt.Errorf("screen_name is required")
	}

	user, err := s.client.GetUserByScreenName(r.Context(), req.ScreenName)
	if err != nil {
		return failure(err, fmt.Sprintf("Failed to retrieve user information for @%s", req.ScreenName)), nil
	}
	return toolResult{
		"success": true,
		"user":    user,
		"message": fmt.Sprintf("Successfully retrieved user information for @%s", req.ScreenName),
	}, nil
}

func (s *Server) getUserTweets(r *http.Request) (toolResult, error) {
	var req struct {
		UserID     string `json:"user_id"`
		ScreenName string `json:"screen_name"`
		Count      int    `json:"count"`
	}
	if err := decodeBody(r, &req); err != nil {
		return nil, err
	}
	if req.UserID == "" && req.ScreenName == "" {
		return nil, fmt.Errorf("either user_id or screen_name must be provided")
	}

	userID := req.UserID
	if userID == "" {
		user, err := s.client.GetUserByScreenName(r.Context(), req.ScreenName)
		if err != nil {
			return failure(err, fmt.Sprintf("User @%s not found", req.ScreenName)), nil
		}
		userID = user.ID
	}

	tweets, err := s.client.GetUserTweets(r.Context(), userID, req.Count)
	if err != nil {
		return failure(err, "Failed to retrieve user tweets"), nil
	}
	msg := fmt.Sprintf("Found %d tweets for user ID: %s", len(tweets), userID)
	if len(tweets) == 0 {
		msg = fmt.Sprintf("No tweets found for user ID: %s", userID)
	}
	return toolResult{
		"success": true,
		"tweets":  tweets,
		"count":   len(tweets),
		"user_id": userID,
		"message": msg,
	}, nil
}

func (s *Server) getTweetByID(r *http.Request) (toolResult, error) {
	var req struct {
		TweetID string `json:"tweet_id"`
	}
	if err := decodeBody(r, &req); err != nil {
		return nil, err
	}
	if req.TweetID == "" {
		return nil, fmt.Errorf("tweet_id is required")
	}

	tweet, err := s.client.GetTweetByID(r.Context(), req.TweetID)
	if err != nil {
		return failure(err, "Failed to retrieve tweet"), nil
	}
	return toolResult{
		"success": true,
		"tweet":   tweet,
	}, nil
}

func (s *Server) createTweet(r *http.Request) (toolResult, error) {
	var req struct {
		Text           string `json:"text"`
		ReplyToTweetID string `json:"reply_to_tweet_id"`
	}
	if err := decodeBody(r, &req); err != nil {
		return nil, err
	}
	if req.Text == "" {
		return nil, fmt.Errorf("text is required")
	}

	id, err := s.client.CreateTweet(r.Context(), req.Text, req.ReplyToTweetID)
	if err != nil {
		return failure(err, "Failed to create tweet"), nil
	}
	return toolResult{
		"success":  true,
		"tweet_id": id,
		"message":  "Tweet created successfully",
	}, nil
}

func (s *Server) createNoteTweet(r *http.Request) (toolResult, error) {
	var req struct {
		Text           string `json:"text"`
		UseRichtext    *bool  `json:"use_richtext"` // default true
		ReplyToTweetID string `json:"reply_to_tweet_id"`
	}
	if err := decodeBody(r, &req); err != nil {
		return nil, err
	}
	if req.Text == "" {
		return nil, fmt.Errorf("text is required")
	}
	useRichtext := req.UseRichtext == nil || *req.UseRichtext

	id, err := s.client.CreateNoteTweet(r.Context(), req.Text, useRichtext, req.ReplyToTweetID)
	if err != nil {
		return failure(err, "Failed to create note tweet"), nil
	}
	return toolResult{
		"success":  true,
		"tweet_id": id,
		"message":  "Note tweet created successfully",
	}, nil
}

func failure(err error, msg string) toolResult {
	return toolResult{
		"success": false,
		"error":   err.Error(),
		"message": msg,
	}
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("decode request: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("write response", slog.Any("error", err))
	}
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/healthz" || r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Info("request handled",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Duration("duration", time.Since(start)))
	})
}
