package testutil

import (
	"os"
)

const (
	// Test credential environment variables
	TestEbayClientID     = "TEST_EBAY_CLIENT_ID"
	TestEbayClientSecret = "TEST_EBAY_CLIENT_SECRET"

	// Default test values when environment variables are not set
	DefaultTestClientID     = "test-client-id"
	DefaultTestClientSecret = "test-client-secret"
	DefaultTestAccessToken  = "test-access-token"
)

// GetTestValue returns a value from environment variable or default
func GetTestValue(envVar, defaultValue string) string {
	if v := os.Getenv(envVar); v != "" {
		return v
	}
	return defaultValue
}

// GetTestClientID returns the test OAuth client ID
func GetTestClientID() string {
	return GetTestValue(TestEbayClientID, DefaultTestClientID)
}

// GetTestClientSecret returns the test OAuth client secret
func GetTestClientSecret() string {
	return GetTestValue(TestEbayClientSecret, DefaultTestClientSecret)
}
