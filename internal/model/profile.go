package model

// ProviderProfile is the identity reported by Google's user-info endpoint.
// It lives only for the duration of one code exchange.
type ProviderProfile struct {
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
	AvatarURL     string
	GivenName     string
	FamilyName    string
}
