package logging

import "testing"

func TestNewLoggerWithService(t *testing.T) {
	l := NewLoggerWithService("stockroom")
	entry := l.WithField("tenant_id", "ten-1")
	if entry == nil {
		t.Fatalf("expected non-nil entry")
	}
}
