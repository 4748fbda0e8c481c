package shared

import (
	"strings"
	"testing"
)

func TestOpenBrowser(t *testing.T) {
	t.Run("unsupported platform", func(t *testing.T) {
		original := getRuntime
		getRuntime = func() string { return "plan9" }
		t.Cleanup(func() { getRuntime = original })

		err := OpenBrowser("http://127.0.0.1:8080/")
		if err == nil {
			t.Fatal("expected error on unsupported platform")
		}
		if !strings.Contains(err.Error(), "unsupported platform: plan9") {
			t.Errorf("unexpected error %v", err)
		}
	})
}
