// tvprovider stores TV channels and programs and removes rows flagged
// transient once per host boot.
//
// Usage:
//
//	# Long-running process: purge check, metrics, maintenance jobs
//	tvprovider run --config /etc/tvprovider/config.yaml
//
//	# One-shot purge check (the same decision a new process makes)
//	tvprovider purge
//
//	# Inspect the watermark, the boot epoch and the predicted decision
//	tvprovider status -o json
//
//	# Add and list rows; the purge check always runs first
//	tvprovider channels add --input-id com.example/.Input --name News --transient
//	tvprovider programs list
package main

func main() {
	Execute()
}
