package transient

import (
	"context"

	"mercator-hq/tvprovider/pkg/preferences"
)

// WatermarkKey is the preference key holding the purge watermark.
const WatermarkKey = "last_transient_rows_deleted_time"

// PreferenceWatermark stores the watermark in a preferences.Store.
type PreferenceWatermark struct {
	prefs preferences.Store
	key   string
}

// NewPreferenceWatermark creates a watermark stored under WatermarkKey.
func NewPreferenceWatermark(prefs preferences.Store) *PreferenceWatermark {
	return &PreferenceWatermark{prefs: prefs, key: WatermarkKey}
}

// LastPurge returns the stored watermark or 0.
func (w *PreferenceWatermark) LastPurge(ctx context.Context) (int64, error) {
	return w.prefs.Int64(ctx, w.key, 0)
}

// SetLastPurge stores the watermark.
func (w *PreferenceWatermark) SetLastPurge(ctx context.Context, millis int64) error {
	return w.prefs.SetInt64(ctx, w.key, millis)
}
