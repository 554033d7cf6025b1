package elastic_client

import (
	"bytes"
	"testing"
)

func TestConnectSkipsWithoutAddress(t *testing.T) {
	t.Setenv("TRANSITNOW_ELASTICSEARCH_ADDRESS", "")

	if err := Connect(false); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if Enabled() {
		t.Error("client should not be set up")
	}

	// Indexing without a client is a no-op.
	IndexRequest("transitnow-test", bytes.NewReader([]byte(`{}`)))
	WaitUntilQueueEmpty()
}

func TestConnectRequiredWithoutAddress(t *testing.T) {
	t.Setenv("TRANSITNOW_ELASTICSEARCH_ADDRESS", "")

	if err := Connect(true); err == nil {
		t.Error("expected error when elasticsearch is required but not configured")
	}
}
