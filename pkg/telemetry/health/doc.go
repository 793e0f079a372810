// Package health serves liveness and readiness checks for `tvprovider run`.
//
// Liveness only says the process is up. Readiness runs the registered
// checks concurrently, each bounded by a timeout; the run command registers
// a store ping and a check that the once-per-boot purge did not fail.
//
//	checker := health.New(2 * time.Second)
//	checker.RegisterCheck("store", store.DB().PingContext)
//	health.Register(mux, checker)
package health
