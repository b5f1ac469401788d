package apidance

import "testing"

func TestUpstreamMessage(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected string
	}{
		{"no error", `{"data":{"user":{}}}`, ""},
		{"proxy error", `{"error": "Invalid list_id"}`, "Invalid list_id"},
		{"twitter errors array", `{"errors":[{"message":"Could not authenticate you"}]}`, "Could not authenticate you"},
		{"msg field", `{"msg": "apikey invalid"}`, "apikey invalid"},
		{"empty errors", `{"errors":[]}`, ""},
		{"invalid json", `{invalid`, ""},
		{"plain text", `local_rate_limited`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := upstreamMessage([]byte(tt.body)); got != tt.expected {
				t.Fatalf("upstreamMessage(%s) = %q, want %q", tt.body, got, tt.expected)
			}
		})
	}
}

func TestIsLocalRateLimit(t *testing.T) {
	if !isLocalRateLimit([]byte("local_rate_limited")) {
		t.Fatal("expected marker to be detected")
	}
	if !isLocalRateLimit([]byte(" local_rate_limited\n")) {
		t.Fatal("expected marker with whitespace to be detected")
	}
	if isLocalRateLimit([]byte(`{"data":{}}`)) {
		t.Fatal("json body is not a rate limit marker")
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		err      error
		expected string
	}{
		{&RateLimitError{Endpoint: "SearchTimeline", Attempts: 3}, "SearchTimeline: rate limited after 3 attempts"},
		{&UpstreamError{Endpoint: "ListLatestTweetsTimeline", Status: 200, Message: "Invalid list_id"}, "ListLatestTweetsTimeline: upstream error (HTTP 200): Invalid list_id"},
		{&MappingError{Kind: "tweet", Field: "id_str"}, `map tweet: missing required field "id_str"`},
		{&ConfigError{Name: EnvAPIKey}, "config: APIDANCE_API_KEY is not set"},
	}

	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.expected {
			t.Fatalf("Error() = %q, want %q", got, tt.expected)
		}
	}
}
