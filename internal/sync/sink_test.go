package sync

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/peteski22/offersync/internal/offers"
)

func TestStorageKey(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		expected  string
		id        Identity
		namespace string
	}{
		"display key sanitized": {
			namespace: "offers-",
			id:        Identity{AccountID: "123", DisplayKey: "jane.doe+vip@example.com"},
			expected:  "offers-jane.doe_vip_example.com",
		},
		"falls back to account id": {
			namespace: "offers-",
			id:        Identity{AccountID: "acct/42"},
			expected:  "offers-acct_42",
		},
		"falls back to unknown": {
			namespace: "offers-",
			expected:  "offers-unknown",
		},
		"keeps dashes and underscores": {
			namespace: "x:",
			id:        Identity{DisplayKey: "a-b_c"},
			expected:  "x:a-b_c",
		},
		"whitespace display key ignored": {
			namespace: "offers-",
			id:        Identity{AccountID: "7", DisplayKey: "  "},
			expected:  "offers-7",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.expected, StorageKey(tc.namespace, tc.id))
		})
	}
}

func TestLogDiffSink(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	sink := &logDiffSink{logger: slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))}

	sink.RecordDiff(context.Background(), "A1",
		[]offers.Sailing{{ShipCode: "OV", SailDate: "2025-09-01"}},
		[]offers.Sailing{{ShipCode: "RD", SailDate: "2025-10-01"}},
	)

	out := buf.String()
	require.Contains(t, out, "sailing only in original")
	require.Contains(t, out, "ship_code=OV")
	require.Contains(t, out, "sailing only in refetch")
	require.Contains(t, out, "ship_code=RD")
	require.Contains(t, out, "offer_code=A1")
}
