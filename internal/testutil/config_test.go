package testutil

import (
	"testing"
)

func TestGetTestValue(t *testing.T) {
	t.Setenv("TEST_VAR", "env-value")

	result := GetTestValue("TEST_VAR", "default-value")
	if result != "env-value" {
		t.Errorf("expected env-value, got %s", result)
	}

	result = GetTestValue("PSA_UNSET_TEST_VAR", "default-value")
	if result != "default-value" {
		t.Errorf("expected default-value, got %s", result)
	}
}

func TestGetTestClientID(t *testing.T) {
	t.Setenv(TestEbayClientID, "")
	if id := GetTestClientID(); id != DefaultTestClientID {
		t.Errorf("expected %s, got %s", DefaultTestClientID, id)
	}

	t.Setenv(TestEbayClientID, "custom-id")
	if id := GetTestClientID(); id != "custom-id" {
		t.Errorf("expected custom-id, got %s", id)
	}
}

func TestGetTestClientSecret(t *testing.T) {
	t.Setenv(TestEbayClientSecret, "")
	if secret := GetTestClientSecret(); secret != DefaultTestClientSecret {
		t.Errorf("expected %s, got %s", DefaultTestClientSecret, secret)
	}
}
