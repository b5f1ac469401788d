package apidance

import (
	"fmt"
	"net/http"
)

// defaultBaseURL is the Apidance proxy the SDK talks to.
const defaultBaseURL = "https://api.apidance.pro"

// Endpoint describes a single proxy operation.
type Endpoint struct {
	Name         string
	Path         string
	Method       string
	RequiresAuth bool // needs a session auth token on top of the API key
}

// Endpoints maps operation names to their proxy paths.
var Endpoints = map[string]Endpoint{
	"SearchTimeline":           {Name: "SearchTimeline", Path: "/graphql/SearchTimeline", Method: http.MethodGet},
	"UserByScreenName":         {Name: "UserByScreenName", Path: "/graphql/UserByScreenName", Method: http.MethodGet},
	"UserTweets":               {Name: "UserTweets", Path: "/graphql/UserTweets", Method: http.MethodGet},
	"ListLatestTweetsTimeline": {Name: "ListLatestTweetsTimeline", Path: "/graphql/ListLatestTweetsTimeline", Method: http.MethodGet},
	"Following":                {Name: "Following", Path: "/graphql/Following", Method: http.MethodGet},
	"TweetResultByRestId":      {Name: "TweetResultByRestId", Path: "/graphql/TweetResultByRestId", Method: http.MethodGet},
	"CreateTweet":              {Name: "CreateTweet", Path: "/graphql/CreateTweet", Method: http.MethodPost, RequiresAuth: true},
	"CreateNoteTweet":          {Name: "CreateNoteTweet", Path: "/graphql/CreateNoteTweet", Method: http.MethodPost, RequiresAuth: true},
	"FavoriteTweet":            {Name: "FavoriteTweet", Path: "/graphql/FavoriteTweet", Method: http.MethodPost, RequiresAuth: true},
}

// endpointFor returns the endpoint for a named operation, or an error if unknown.
func endpointFor(operation string) (Endpoint, error) {
	ep, ok := Endpoints[operation]
	if !ok {
		return Endpoint{}, fmt.Errorf("unknown operation: %s", operation)
	}
	return ep, nil
}
