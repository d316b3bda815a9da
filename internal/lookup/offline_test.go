package lookup

import (
	"context"
	"testing"

	"github.com/ppiankov/numinfo/internal/notify"
)

func TestOfflineResolver_InvalidInput(t *testing.T) {
	collector := notify.NewCollector()
	r := NewOfflineResolver("RU", "en", collector, nil)

	_, err := r.Lookup(context.Background(), "12345")
	if KindOf(err) != InvalidInput {
		t.Errorf("expected InvalidInput, got %v", KindOf(err))
	}
	if collector.Count(notify.LevelError) != 1 {
		t.Errorf("expected error notice")
	}
}

func TestOfflineResolver_UnassignedNumber(t *testing.T) {
	r := NewOfflineResolver("RU", "en", nil, nil)

	// +7 000 ... is not part of any Russian numbering plan
	_, err := r.Lookup(context.Background(), "+70000000000")
	if KindOf(err) != RemoteError {
		t.Errorf("expected RemoteError for unassigned number, got %v (%v)", KindOf(err), err)
	}
}

func TestOfflineResolver_Cancelled(t *testing.T) {
	r := NewOfflineResolver("", "", nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Lookup(ctx, "+79123456789")
	if KindOf(err) != TransportError {
		t.Errorf("expected TransportError for cancelled context, got %v", KindOf(err))
	}
}

func TestSplitNational(t *testing.T) {
	tests := []struct {
		nsn      string
		ndcLen   int
		wantCode string
		wantNum  string
	}{
		{"9123456789", 3, "912", "3456789"},
		{"4951234567", 3, "495", "1234567"},
		{"9123456789", 0, "", "9123456789"},
		{"12", 5, "", "12"},
	}
	for _, tt := range tests {
		code, num := splitNational(tt.nsn, tt.ndcLen)
		if code != tt.wantCode || num != tt.wantNum {
			t.Errorf("splitNational(%q, %d) = %q, %q; want %q, %q", tt.nsn, tt.ndcLen, code, num, tt.wantCode, tt.wantNum)
		}
	}
}
