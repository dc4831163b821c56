package kv

import "testing"

func TestSetupKVClientLogLevel(t *testing.T) {
	if err := KeyValueCommands.ParseFlags([]string{"--log-level", "verbose"}); err != nil {
		t.Fatalf("ParseFlags failed: %v", err)
	}
	if err := setupKVClient(KeyValueCommands, nil); err == nil {
		t.Fatal("Expected an invalid log level to be rejected")
	}

	if err := KeyValueCommands.ParseFlags([]string{"--log-level", "info"}); err != nil {
		t.Fatalf("ParseFlags failed: %v", err)
	}
	if err := setupKVClient(KeyValueCommands, nil); err != nil {
		t.Fatalf("setupKVClient failed: %v", err)
	}
	if kvClient == nil {
		t.Fatal("Expected the client to be created")
	}
}
