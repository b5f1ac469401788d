package toolserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	apidance "github.com/anatolykoptev/go-apidance"
)

// fakeClient scripts per-operation results for handler tests.
type fakeClient struct {
	tweets     []*apidance.Tweet
	user       *apidance.User
	tweet      *apidance.Tweet
	createdID  string
	err        error
	lastQuery  string
	lastUserID string
	lastText   string
	lastRich   bool
}

func (f *fakeClient) SearchTimeline(_ context.Context, query string, _ apidance.SearchOptions) ([]*apidance.Tweet, error) {
	f.lastQuery = query
	return f.tweets, f.err
}

func (f *fakeClient) GetUserByScreenName(_ context.Context, _ string) (*apidance.User, error) {
	return f.user, f.err
}

func (f *fakeClient) GetUserTweets(_ context.Context, userID string, _ int) ([]*apidance.Tweet, error) {
	f.lastUserID = userID
	return f.tweets, f.err
}

func (f *fakeClient) GetTweetByID(_ context.Context, _ string) (*apidance.Tweet, error) {
	return f.tweet, f.err
}

func (f *fakeClient) CreateTweet(_ context.Context, text, _ string) (string, error) {
	f.lastText = text
	return f.createdID, f.err
}

func (f *fakeClient) CreateNoteTweet(_ context.Context, text string, useRichtext bool, _ string) (string, error) {
	f.lastText = text
	f.lastRich = useRichtext
	return f.createdID, f.err
}

func callTool(t *testing.T, srv *Server, tool string, body any) (int, map[string]any) {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/tools/"+tool, bytes.NewReader(b))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	var res map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	return rec.Code, res
}

func TestSearchTweets(t *testing.T) {
	fake := &fakeClient{tweets: []*apidance.Tweet{{ID: "1", Text: "hello"}}}
	srv := NewServer(0, fake)

	code, res := callTool(t, srv, "search_tweets", map[string]any{"query": "golang", "count": 5})
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, true, res["success"])
	require.Equal(t, float64(1), res["count"])
	require.Equal(t, "Found 1 tweets matching query: golang", res["message"])
	require.Equal(t, "golang", fake.lastQuery)
}

func TestSearchTweets_NoResults(t *testing.T) {
	srv := NewServer(0, &fakeClient{})

	code, res := callTool(t, srv, "search_tweets", map[string]any{"query": "nothing"})
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, true, res["success"])
	require.Equal(t, float64(0), res["count"])
	require.Equal(t, "No tweets found matching query: nothing", res["message"])
}

func TestSearchTweets_MissingQuery(t *testing.T) {
	srv := NewServer(0, &fakeClient{})

	code, res := callTool(t, srv, "search_tweets", map[string]any{})
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, false, res["success"])
}

func TestSearchTweets_UpstreamFailure(t *testing.T) {
	fake := &fakeClient{err: fmt.Errorf("SearchTimeline: rate limited after 3 attempts")}
	srv := NewServer(0, fake)

	code, res := callTool(t, srv, "search_tweets", map[string]any{"query": "golang"})
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, false, res["success"])
	require.Equal(t, "Failed to search tweets", res["message"])
	require.Contains(t, res["error"], "rate limited")
}

func TestGetUserInfo(t *testing.T) {
	fake := &fakeClient{user: &apidance.User{ID: "42", ScreenName: "gopher"}}
	srv := NewServer(0, fake)

	code, res := callTool(t, srv, "get_user_info", map[string]any{"screen_name": "gopher"})
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, true, res["success"])
	user := res["user"].(map[string]any)
	require.Equal(t, "42", user["id"])
	require.Equal(t, "gopher", user["screen_name"])
}

func TestGetUserTweets_ResolvesScreenName(t *testing.T) {
	fake := &fakeClient{
		user:   &apidance.User{ID: "42", ScreenName: "gopher"},
		tweets: []*apidance.Tweet{{ID: "1"}, {ID: "2"}},
	}
	srv := NewServer(0, fake)

	code, res := callTool(t, srv, "get_user_tweets", map[string]any{"screen_name": "gopher"})
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, true, res["success"])
	require.Equal(t, "42", res["user_id"])
	require.Equal(t, float64(2), res["count"])
	require.Equal(t, "42", fake.lastUserID)
}

func TestGetUserTweets_NoIdentifier(t *testing.T) {
	srv := NewServer(0, &fakeClient{})

	code, _ := callTool(t, srv, "get_user_tweets", map[string]any{"count": 10})
	require.Equal(t, http.StatusBadRequest, code)
}

func TestGetTweetByID(t *testing.T) {
	fake := &fakeClient{tweet: &apidance.Tweet{ID: "777", Text: "found"}}
	srv := NewServer(0, fake)

	code, res := callTool(t, srv, "get_tweet_by_id", map[string]any{"tweet_id": "777"})
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, true, res["success"])
	tweet := res["tweet"].(map[string]any)
	require.Equal(t, "777", tweet["id"])
}

func TestCreateTweet(t *testing.T) {
	fake := &fakeClient{createdID: "888"}
	srv := NewServer(0, fake)

	code, res := callTool(t, srv, "create_tweet", map[string]any{"text": "hello"})
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, true, res["success"])
	require.Equal(t, "888", res["tweet_id"])
	require.Equal(t, "Tweet created successfully", res["message"])
}

func TestCreateNoteTweet_RichtextDefaultsOn(t *testing.T) {
	fake := &fakeClient{createdID: "999"}
	srv := NewServer(0, fake)

	code, res := callTool(t, srv, "create_note_tweet", map[string]any{"text": "a **bold** note"})
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, true, res["success"])
	require.True(t, fake.lastRich)

	_, _ = callTool(t, srv, "create_note_tweet", map[string]any{"text": "plain", "use_richtext": false})
	require.False(t, fake.lastRich)
}

func TestUnknownTool(t *testing.T) {
	srv := NewServer(0, &fakeClient{})

	code, res := callTool(t, srv, "delete_everything", map[string]any{})
	require.Equal(t, http.StatusNotFound, code)
	require.Equal(t, false, res["success"])
}

func TestHealthz(t *testing.T) {
	srv := NewServer(0, &fakeClient{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := NewServer(0, &fakeClient{})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}
