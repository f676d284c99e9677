package domain

// Provider constants identify how an account was created. Apple, Facebook
// and Microsoft are recognized values carried over from the mobile client's
// account model; no login path issues them yet.
const (
	ProviderEmail     = "email"
	ProviderGoogle    = "google"
	ProviderApple     = "apple"
	ProviderFacebook  = "facebook"
	ProviderMicrosoft = "microsoft"
)

// ValidProviders returns the set of recognized account providers.
func ValidProviders() []string {
	return []string{ProviderEmail, ProviderGoogle, ProviderApple, ProviderFacebook, ProviderMicrosoft}
}

// IsValidProvider checks whether the given provider string is recognized.
func IsValidProvider(provider string) bool {
	for _, p := range ValidProviders() {
		if p == provider {
			return true
		}
	}
	return false
}
