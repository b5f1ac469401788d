package apidance

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"
)

// twitterTimeFormat is the ruby-style timestamp Twitter uses in legacy payloads.
const twitterTimeFormat = "Mon Jan 02 15:04:05 -0700 2006"

// --- Raw envelope types ---

type timelineObj struct {
	Instructions []timelineInstruction `json:"instructions"`
}

type timelineInstruction struct {
	Type    string          `json:"type"`
	Entries []timelineEntry `json:"entries"`
	Entry   *timelineEntry  `json:"entry"`
}

type timelineEntry struct {
	EntryID string          `json:"entryId"`
	Content timelineContent `json:"content"`
}

type timelineContent struct {
	EntryType   string          `json:"entryType"`
	TypeName    string          `json:"__typename"`
	ItemContent json.RawMessage `json:"itemContent"`
}

type userResult struct {
	TypeName string `json:"__typename"`
	ID       string `json:"id"`
	RestID   string `json:"rest_id"`
	Legacy   struct {
		Name            string `json:"name"`
		ScreenName      string `json:"screen_name"`
		Description     string `json:"description"`
		Location        string `json:"location"`
		ProfileImageURL string `json:"profile_image_url_https"`
		FollowersCount  int    `json:"followers_count"`
		FriendsCount    int    `json:"friends_count"`
		Verified        bool   `json:"verified"`
	} `json:"legacy"`
	IsBlueVerified bool `json:"is_blue_verified"`
}

type tweetResult struct {
	TypeName string       `json:"__typename"`
	RestID   string       `json:"rest_id"`
	Tweet    *tweetResult `json:"tweet"` // TweetWithVisibilityResults wrapper
	Core     struct {
		UserResults struct {
			Result userResult `json:"result"`
		} `json:"user_results"`
	} `json:"core"`
	Legacy tweetLegacy `json:"legacy"`
	Views  struct {
		Count string `json:"count"`
	} `json:"views"`
}

type tweetLegacy struct {
	IDStr                string `json:"id_str"`
	FullText             string `json:"full_text"`
	CreatedAt            string `json:"created_at"`
	FavoriteCount        int    `json:"favorite_count"`
	RetweetCount         int    `json:"retweet_count"`
	ReplyCount           int    `json:"reply_count"`
	QuoteCount           int    `json:"quote_count"`
	InReplyToStatusIDStr string `json:"in_reply_to_status_id_str"`
	Entities             struct {
		URLs []struct {
			URL         string `json:"url"`
			DisplayURL  string `json:"display_url"`
			ExpandedURL string `json:"expanded_url"`
		} `json:"urls"`
		UserMentions []struct {
			IDStr      string `json:"id_str"`
			Name       string `json:"name"`
			ScreenName string `json:"screen_name"`
		} `json:"user_mentions"`
	} `json:"entities"`
	ExtendedEntities struct {
		Media []struct {
			Type          string `json:"type"`
			URL           string `json:"url"`
			ExpandedURL   string `json:"expanded_url"`
			MediaURLHTTPS string `json:"media_url_https"`
		} `json:"media"`
	} `json:"extended_entities"`
	RetweetedStatusResult *struct {
		Result tweetResult `json:"result"`
	} `json:"retweeted_status_result"`
}

// --- Record mapping ---

// mapUser converts a raw user result into a User. The profile id is the
// only required field; everything else defaults.
func mapUser(r userResult) (*User, error) {
	id := r.RestID
	if id == "" {
		id = r.ID
	}
	if id == "" {
		return nil, &MappingError{Kind: "user", Field: "rest_id"}
	}
	return &User{
		ID:         id,
		Name:       r.Legacy.Name,
		ScreenName: r.Legacy.ScreenName,
		Bio:        r.Legacy.Description,
		Location:   r.Legacy.Location,
		AvatarURL:  r.Legacy.ProfileImageURL,
		Followers:  r.Legacy.FollowersCount,
		Following:  r.Legacy.FriendsCount,
		Verified:   r.Legacy.Verified || r.IsBlueVerified,
	}, nil
}

// mapTweet converts a raw tweet result into a Tweet. The tweet id is the
// only required field. The embedded author block, media, links, mentions
// and the retweeted tweet are mapped when present and skipped when absent.
func mapTweet(r tweetResult) (*Tweet, error) {
	// TweetWithVisibilityResults nests the real tweet one level down.
	if r.Legacy.IDStr == "" && r.RestID == "" && r.Tweet != nil {
		r = *r.Tweet
	}

	id := r.Legacy.IDStr
	if id == "" {
		id = r.RestID
	}
	if id == "" {
		return nil, &MappingError{Kind: "tweet", Field: "id_str"}
	}

	var createdAt time.Time
	if r.Legacy.CreatedAt != "" {
		if t, err := time.Parse(twitterTimeFormat, r.Legacy.CreatedAt); err == nil {
			createdAt = t
		}
	}

	views := 0
	if r.Views.Count != "" {
		views, _ = strconv.Atoi(r.Views.Count)
	}

	var author *User
	if u, err := mapUser(r.Core.UserResults.Result); err == nil {
		author = u
	}

	t := &Tweet{
		ID:          id,
		Text:        r.Legacy.FullText,
		CreatedAt:   createdAt,
		User:        author,
		Likes:       r.Legacy.FavoriteCount,
		Retweets:    r.Legacy.RetweetCount,
		Replies:     r.Legacy.ReplyCount,
		Quotes:      r.Legacy.QuoteCount,
		Views:       views,
		InReplyToID: r.Legacy.InReplyToStatusIDStr,
	}

	for _, u := range r.Legacy.Entities.URLs {
		t.URLs = append(t.URLs, URLEntity{URL: u.URL, DisplayURL: u.DisplayURL, ExpandedURL: u.ExpandedURL})
	}
	for _, m := range r.Legacy.Entities.UserMentions {
		t.UserMentions = append(t.UserMentions, UserMention{ID: m.IDStr, Name: m.Name, ScreenName: m.ScreenName})
	}
	for _, m := range r.Legacy.ExtendedEntities.Media {
		mediaType := m.Type
		if mediaType == "" {
			mediaType = "photo"
		}
		t.Media = append(t.Media, Media{Type: mediaType, URL: m.URL, ExpandedURL: m.ExpandedURL, PreviewURL: m.MediaURLHTTPS})
	}

	if rt := r.Legacy.RetweetedStatusResult; rt != nil {
		t.IsRetweet = true
		if inner, err := mapTweet(rt.Result); err == nil {
			t.Retweeted = inner
		}
	}

	return t, nil
}

// --- Timeline extraction ---

// extractTweets walks timeline instructions in upstream order and maps
// every TimelineTweet entry, including pinned entries. Cursors and other
// entry kinds are skipped; individually broken entries are dropped, not
// fatal.
func extractTweets(tl timelineObj) []*Tweet {
	var tweets []*Tweet

	for _, instruction := range tl.Instructions {
		entries := instruction.Entries
		if instruction.Entry != nil {
			entries = append(entries, *instruction.Entry)
		}
		for _, entry := range entries {
			if entry.Content.ItemContent == nil {
				continue
			}
			var item struct {
				TypeName     string `json:"__typename"`
				TweetResults struct {
					Result tweetResult `json:"result"`
				} `json:"tweet_results"`
			}
			if err := json.Unmarshal(entry.Content.ItemContent, &item); err != nil {
				continue
			}
			if item.TypeName != "TimelineTweet" {
				continue
			}
			t, err := mapTweet(item.TweetResults.Result)
			if err != nil {
				slog.Debug("skip tweet entry", slog.String("entry", entry.EntryID), slog.Any("error", err))
				continue
			}
			tweets = append(tweets, t)
		}
	}
	return tweets
}

// extractUsers walks timeline instructions and maps every TimelineUser entry.
func extractUsers(tl timelineObj) []*User {
	var users []*User

	for _, instruction := range tl.Instructions {
		entries := instruction.Entries
		if instruction.Entry != nil {
			entries = append(entries, *instruction.Entry)
		}
		for _, entry := range entries {
			if entry.Content.ItemContent == nil {
				continue
			}
			var item struct {
				TypeName    string `json:"__typename"`
				UserResults struct {
					Result userResult `json:"result"`
				} `json:"user_results"`
			}
			if err := json.Unmarshal(entry.Content.ItemContent, &item); err != nil {
				continue
			}
			if item.TypeName != "TimelineUser" {
				continue
			}
			u, err := mapUser(item.UserResults.Result)
			if err != nil {
				slog.Debug("skip user entry", slog.String("entry", entry.EntryID), slog.Any("error", err))
				continue
			}
			users = append(users, u)
		}
	}
	return users
}

// --- Per-endpoint parsers ---

// parseUserByScreenName parses the UserByScreenName response.
func parseUserByScreenName(body []byte) (*User, error) {
	var raw struct {
		Data struct {
			User struct {
				Result userResult `json:"result"`
			} `json:"user"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal UserByScreenName: %w", err)
	}
	if raw.Data.User.Result.TypeName == "UserUnavailable" {
		return nil, fmt.Errorf("user unavailable (suspended or restricted)")
	}
	return mapUser(raw.Data.User.Result)
}

// parseSearchTimeline parses the SearchTimeline response.
func parseSearchTimeline(body []byte) ([]*Tweet, error) {
	var raw struct {
		Data struct {
			SearchByRawQuery struct {
				SearchTimeline struct {
					Timeline timelineObj `json:"timeline"`
				} `json:"search_timeline"`
			} `json:"search_by_raw_query"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal SearchTimeline: %w", err)
	}
	return extractTweets(raw.Data.SearchByRawQuery.SearchTimeline.Timeline), nil
}

// parseUserTweets parses the UserTweets response. The proxy serves the
// timeline under timeline_v2 with an older timeline fallback.
func parseUserTweets(body []byte) ([]*Tweet, error) {
	var raw struct {
		Data struct {
			User struct {
				Result struct {
					TimelineV2 struct {
						Timeline timelineObj `json:"timeline"`
					} `json:"timeline_v2"`
					Timeline struct {
						Timeline timelineObj `json:"timeline"`
					} `json:"timeline"`
				} `json:"result"`
			} `json:"user"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal UserTweets: %w", err)
	}
	tl := raw.Data.User.Result.TimelineV2.Timeline
	if len(tl.Instructions) == 0 {
		tl = raw.Data.User.Result.Timeline.Timeline
	}
	return extractTweets(tl), nil
}

// parseListTweets parses the ListLatestTweetsTimeline response.
func parseListTweets(body []byte) ([]*Tweet, error) {
	var raw struct {
		Data struct {
			List struct {
				TweetsTimeline struct {
					Timeline timelineObj `json:"timeline"`
				} `json:"tweets_timeline"`
			} `json:"list"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal ListLatestTweetsTimeline: %w", err)
	}
	return extractTweets(raw.Data.List.TweetsTimeline.Timeline), nil
}

// parseFollowing parses the Following response.
func parseFollowing(body []byte) ([]*User, error) {
	var raw struct {
		Data struct {
			User struct {
				Result struct {
					Timeline struct {
						Timeline timelineObj `json:"timeline"`
					} `json:"timeline"`
				} `json:"result"`
			} `json:"user"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal Following: %w", err)
	}
	return extractUsers(raw.Data.User.Result.Timeline.Timeline), nil
}

// parseTweetByID parses the TweetResultByRestId response.
func parseTweetByID(body []byte) (*Tweet, error) {
	var raw struct {
		Data struct {
			TweetResult struct {
				Result tweetResult `json:"result"`
			} `json:"tweetResult"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal TweetResultByRestId: %w", err)
	}
	return mapTweet(raw.Data.TweetResult.Result)
}

// parseCreateTweet extracts the new tweet ID from a CreateTweet or
// CreateNoteTweet mutation response.
func parseCreateTweet(body []byte) (string, error) {
	var raw struct {
		Data struct {
			CreateTweet struct {
				TweetResults struct {
					Result struct {
						RestID string `json:"rest_id"`
					} `json:"result"`
				} `json:"tweet_results"`
			} `json:"create_tweet"`
			NoteTweetCreate struct {
				TweetResults struct {
					Result struct {
						RestID string `json:"rest_id"`
					} `json:"result"`
				} `json:"tweet_results"`
			} `json:"notetweet_create"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return "", fmt.Errorf("unmarshal CreateTweet: %w", err)
	}
	id := raw.Data.CreateTweet.TweetResults.Result.RestID
	if id == "" {
		id = raw.Data.NoteTweetCreate.TweetResults.Result.RestID
	}
	if id == "" {
		return "", &MappingError{Kind: "tweet", Field: "rest_id"}
	}
	return id, nil
}
