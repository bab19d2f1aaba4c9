// Package procpool runs tasks on a bounded pool of worker processes.
//
// Each worker is the same binary started in worker mode (see Serve). It has
// its own memory and runtime, so CPU-bound work scales with cores without
// sharing a scheduler with the driver. Nothing is shared implicitly: the
// driver names a workload, ships its JSON parameters once per process, and
// then exchanges task ids and JSON-encoded results line by line.
//
// Task ids are handed to pool slots through a client-go work queue. A slot
// that loses its process (crash, kill, or a reply it cannot decode) records
// the in-flight task as failed and starts a replacement before taking the
// next id, so one bad task never hangs or poisons the run.
package procpool
