package apidance

// apiHeaders returns the base headers every proxy request carries.
func apiHeaders(apiKey string) map[string]string {
	return map[string]string{
		"apikey":       apiKey,
		"Content-Type": "application/json",
	}
}

// writeHeaders returns headers for write operations, adding the Twitter
// session auth token the proxy forwards upstream.
func writeHeaders(apiKey, authToken string) map[string]string {
	h := apiHeaders(apiKey)
	h["AuthToken"] = authToken
	return h
}
