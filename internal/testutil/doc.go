// Package testutil provides test doubles shared by the tvprovider packages:
// a controllable boot clock, a record store wrapper that counts and fails
// calls, and an in-memory purge watermark.
package testutil
