package webhook

// SecurityConfig holds chat webhook security settings.
type SecurityConfig struct {
	// Secret is the chat service API secret used to verify webhook signatures.
	Secret string

	// RateLimitPerMin caps events accepted per channel per minute.
	RateLimitPerMin int
}
