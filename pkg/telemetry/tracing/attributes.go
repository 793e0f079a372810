package tracing

// Span attribute keys. Custom keys use the "tvprovider." namespace.
const (
	// Purge check
	AttrRunID           = "tvprovider.purge.run_id"
	AttrOutcome         = "tvprovider.purge.outcome"
	AttrStep            = "tvprovider.purge.step"
	AttrWatermark       = "tvprovider.purge.watermark_ms"
	AttrBootEpoch       = "tvprovider.purge.boot_epoch_ms"
	AttrNewWatermark    = "tvprovider.purge.new_watermark_ms"
	AttrProgramsDeleted = "tvprovider.purge.programs_deleted"
	AttrChannelsDeleted = "tvprovider.purge.channels_deleted"

	// Rows affected by a single store call
	AttrRows = "tvprovider.rows"

	// Provider operations
	AttrOperation = "tvprovider.operation"
	AttrTransient = "tvprovider.transient"
)
