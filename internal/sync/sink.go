package sync

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/peteski22/offersync/internal/offers"
)

// DefaultNamespace prefixes every snapshot key.
const DefaultNamespace = "offers-"

// unsafeKeyChars matches characters not allowed in a snapshot key.
var unsafeKeyChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// StorageKey returns the snapshot key for an identity: the namespace followed by the sanitized
// display key, falling back to the account ID and then "unknown".
func StorageKey(namespace string, id Identity) string {
	name := strings.TrimSpace(id.DisplayKey)
	if name == "" {
		name = strings.TrimSpace(id.AccountID)
	}
	if name == "" {
		name = "unknown"
	}
	return namespace + unsafeKeyChars.ReplaceAllString(name, "_")
}

// logDiffSink writes each differing sailing to the logger at debug level.
type logDiffSink struct {
	logger *slog.Logger
}

// RecordDiff logs sailings that appeared or disappeared during a refetch.
func (l *logDiffSink) RecordDiff(
	ctx context.Context,
	offerCode string,
	onlyOriginal []offers.Sailing,
	onlyRefetched []offers.Sailing,
) {
	for _, s := range onlyOriginal {
		l.logger.DebugContext(ctx, "sailing only in original",
			"offer_code", offerCode,
			"ship_code", s.ShipCode,
			"sail_date", s.SailDate)
	}
	for _, s := range onlyRefetched {
		l.logger.DebugContext(ctx, "sailing only in refetch",
			"offer_code", offerCode,
			"ship_code", s.ShipCode,
			"sail_date", s.SailDate)
	}
}
