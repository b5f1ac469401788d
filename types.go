package apidance

import "time"

// User represents a Twitter/X account profile.
type User struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ScreenName string `json:"screen_name"`
	Bio        string `json:"bio,omitempty"`
	Location   string `json:"location,omitempty"`
	AvatarURL  string `json:"avatar_url,omitempty"`
	Followers  int    `json:"followers_count"`
	Following  int    `json:"following_count"`
	Verified   bool   `json:"verified"`
}

// Media is a photo or video attached to a tweet.
type Media struct {
	Type        string `json:"type"` // "photo", "video", "animated_gif"
	URL         string `json:"url"`
	ExpandedURL string `json:"expanded_url,omitempty"`
	PreviewURL  string `json:"preview_url,omitempty"`
}

// URLEntity is a link embedded in a tweet body.
type URLEntity struct {
	URL         string `json:"url"`
	DisplayURL  string `json:"display_url,omitempty"`
	ExpandedURL string `json:"expanded_url,omitempty"`
}

// UserMention is an @-mention inside a tweet body.
type UserMention struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ScreenName string `json:"screen_name"`
}

// Tweet represents a single tweet.
type Tweet struct {
	ID           string        `json:"id"`
	Text         string        `json:"text"`
	CreatedAt    time.Time     `json:"created_at"`
	User         *User         `json:"user,omitempty"`
	Likes        int           `json:"favorite_count"`
	Retweets     int           `json:"retweet_count"`
	Replies      int           `json:"reply_count"`
	Quotes       int           `json:"quote_count"`
	Views        int           `json:"views_count"`
	Media        []Media       `json:"media,omitempty"`
	URLs         []URLEntity   `json:"urls,omitempty"`
	UserMentions []UserMention `json:"user_mentions,omitempty"`
	InReplyToID  string        `json:"in_reply_to_status_id,omitempty"`
	IsRetweet    bool          `json:"is_retweet,omitempty"`
	Retweeted    *Tweet        `json:"retweeted_tweet,omitempty"`
}

// SearchProduct selects the search result category.
type SearchProduct string

const (
	SearchLatest SearchProduct = "Latest"
	SearchTop    SearchProduct = "Top"
	SearchPeople SearchProduct = "People"
	SearchPhotos SearchProduct = "Photos"
	SearchVideos SearchProduct = "Videos"
)

// RichtextTag marks a formatted span inside a note tweet's plain text.
type RichtextTag struct {
	FromIndex     int      `json:"from_index"`
	ToIndex       int      `json:"to_index"`
	RichtextTypes []string `json:"richtext_types"`
}
