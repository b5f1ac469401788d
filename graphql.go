package apidance

import (
	"context"
	"encoding/json"
	"fmt"
)

// SearchOptions tune a SearchTimeline call. The zero value means
// product Latest, 40 results, first page.
type SearchOptions struct {
	Product SearchProduct
	Count   int
	Cursor  string
}

// SearchTimeline searches tweets matching a query. The query supports
// Twitter's advanced search syntax (from:, since:, min_faves: and so on).
func (c *Client) SearchTimeline(ctx context.Context, query string, opts SearchOptions) ([]*Tweet, error) {
	if opts.Product == "" {
		opts.Product = SearchLatest
	}
	if opts.Count <= 0 {
		opts.Count = 40
	}
	variables := map[string]any{
		"rawQuery":               query,
		"count":                  opts.Count,
		"cursor":                 opts.Cursor,
		"querySource":            "typed_query",
		"product":                string(opts.Product),
		"includePromotedContent": false,
	}

	body, err := c.get(ctx, "SearchTimeline", variables)
	if err != nil {
		return nil, err
	}
	return parseSearchTimeline(body)
}

// GetUserByScreenName fetches a user profile by handle (without the @).
func (c *Client) GetUserByScreenName(ctx context.Context, screenName string) (*User, error) {
	variables := map[string]any{
		"screen_name":              screenName,
		"withSafetyModeUserFields": true,
		"withHighlightedLabel":     true,
	}

	body, err := c.get(ctx, "UserByScreenName", variables)
	if err != nil {
		return nil, err
	}
	return parseUserByScreenName(body)
}

// GetUserTweets fetches recent tweets for a user, pinned tweet included.
func (c *Client) GetUserTweets(ctx context.Context, userID string, count int) ([]*Tweet, error) {
	if count <= 0 {
		count = 20
	}
	variables := map[string]any{
		"userId":                                 userID,
		"count":                                  count,
		"includePromotedContent":                 false,
		"withQuickPromoteEligibilityTweetFields": true,
		"withVoice":                              true,
		"withV2Timeline":                         true,
	}

	body, err := c.get(ctx, "UserTweets", variables)
	if err != nil {
		return nil, err
	}
	return parseUserTweets(body)
}

// GetListLatestTweets fetches the latest tweets from a Twitter list.
func (c *Client) GetListLatestTweets(ctx context.Context, listID string, count int) ([]*Tweet, error) {
	if count <= 0 {
		count = 20
	}
	variables := map[string]any{
		"listId":                 listID,
		"count":                  count,
		"includePromotedContent": false,
	}

	body, err := c.get(ctx, "ListLatestTweetsTimeline", variables)
	if err != nil {
		return nil, err
	}
	return parseListTweets(body)
}

// GetFollowing fetches accounts a user follows.
func (c *Client) GetFollowing(ctx context.Context, userID string, count int) ([]*User, error) {
	if count <= 0 {
		count = 20
	}
	variables := map[string]any{
		"userId":                 userID,
		"count":                  count,
		"includePromotedContent": false,
	}

	body, err := c.get(ctx, "Following", variables)
	if err != nil {
		return nil, err
	}
	return parseFollowing(body)
}

// GetTweetByID fetches a single tweet by its rest id.
func (c *Client) GetTweetByID(ctx context.Context, tweetID string) (*Tweet, error) {
	variables := map[string]any{
		"tweetId":                tweetID,
		"withCommunity":          false,
		"includePromotedContent": false,
		"withVoice":              false,
	}

	body, err := c.get(ctx, "TweetResultByRestId", variables)
	if err != nil {
		return nil, err
	}
	return parseTweetByID(body)
}

// CreateTweet posts a new tweet, optionally as a reply. Returns the new
// tweet's id. Requires a session auth token.
func (c *Client) CreateTweet(ctx context.Context, text, replyToID string) (string, error) {
	variables := map[string]any{
		"tweet_text": text,
	}
	if replyToID != "" {
		variables["reply"] = map[string]any{
			"in_reply_to_tweet_id":   replyToID,
			"exclude_reply_user_ids": []string{},
		}
	}

	body, err := c.post(ctx, "CreateTweet", variables)
	if err != nil {
		return "", err
	}
	return parseCreateTweet(body)
}

// CreateNoteTweet posts a long-form note tweet. With useRichtext the text
// is treated as markdown: bold and italic spans become richtext tags and
// the stripped plain text is posted. Requires a session auth token.
func (c *Client) CreateNoteTweet(ctx context.Context, text string, useRichtext bool, replyToID string) (string, error) {
	tweetText := text
	var tags []RichtextTag
	if useRichtext {
		tweetText, tags = ParseMarkdown(text)
	}

	variables := map[string]any{
		"tweet_text": tweetText,
	}
	if len(tags) > 0 {
		variables["richtext_options"] = map[string]any{"richtext_tags": tags}
	}
	if replyToID != "" {
		variables["reply"] = map[string]any{
			"in_reply_to_tweet_id":   replyToID,
			"exclude_reply_user_ids": []string{},
		}
	}

	body, err := c.post(ctx, "CreateNoteTweet", variables)
	if err != nil {
		return "", err
	}
	return parseCreateTweet(body)
}

// FavoriteTweet likes a tweet. Requires a session auth token.
func (c *Client) FavoriteTweet(ctx context.Context, tweetID string) error {
	variables := map[string]any{
		"tweet_id": tweetID,
	}

	_, err := c.post(ctx, "FavoriteTweet", variables)
	return err
}

// get runs a read operation with variables in the query string.
func (c *Client) get(ctx context.Context, operation string, variables map[string]any) ([]byte, error) {
	ep, err := endpointFor(operation)
	if err != nil {
		return nil, err
	}
	body, err := c.do(ctx, ep, apiHeaders(c.cfg.APIKey), queryParams(variables), nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}
	return body, nil
}

// post runs a write operation with variables in the JSON body and the
// session auth token attached.
func (c *Client) post(ctx context.Context, operation string, variables map[string]any) ([]byte, error) {
	ep, err := endpointFor(operation)
	if err != nil {
		return nil, err
	}
	token, err := c.authToken()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}
	payload, err := json.Marshal(map[string]any{"variables": variables})
	if err != nil {
		return nil, fmt.Errorf("%s: marshal payload: %w", operation, err)
	}
	body, err := c.do(ctx, ep, writeHeaders(c.cfg.APIKey, token), nil, payload)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}
	return body, nil
}
