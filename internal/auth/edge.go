package auth

// HasSession reports whether a session cookie is present and non-empty. It
// deliberately performs no cryptographic or structural validation: the route
// gate runs on every request and must stay dependency-free, so a tampered or
// expired cookie passes here and is rejected later by the full validator.
func HasSession(cookieValue string) bool {
	return cookieValue != ""
}
