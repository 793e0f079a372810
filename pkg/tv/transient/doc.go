// Package transient guarantees that rows flagged transient do not outlive the
// boot session in which they were created.
//
// A Guard decides once per process whether a purge is owed by comparing the
// persisted purge watermark with the instant the host last booted:
//
//	watermark > bootEpoch  -> already purged during this boot, skip
//	otherwise              -> delete transient programs, then transient
//	                          channels, then write watermark = now
//
// The check is evaluated at most once per Guard regardless of outcome, so a
// failure is reported to the first caller and never retried in the same
// process. Separate processes do not coordinate: the deletes are idempotent
// and the watermark write is last-writer-wins.
//
// Usage:
//
//	guard := transient.NewGuard(store, transient.NewPreferenceWatermark(prefs))
//	if err := guard.EnsurePurged(ctx); err != nil {
//	    return err
//	}
package transient
