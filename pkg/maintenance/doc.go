// Package maintenance runs the background jobs of a long-lived tvprovider
// process on cron schedules.
//
// Two jobs exist:
//
//   - checkpoint: folds the SQLite write-ahead log back into the database file.
//   - drift: samples the boot epoch (wall clock minus time since boot) and
//     warns when it moves by more than the configured tolerance between two
//     samples. A moving boot epoch means the wall clock was adjusted, which
//     can make the transient purge decision wrong for the current boot. The
//     job only reports; it never corrects the watermark.
//
// An empty schedule disables the corresponding job.
package maintenance
