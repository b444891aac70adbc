// Package parfft plans and drives batched discrete Fourier transforms on
// accelerator-style devices, for lengths too large or too awkwardly
// factorable for a single kernel invocation.
//
// Commit factors the requested length into a chain of stages executable by
// one of three fixed-capacity leaf kernel families (workitem, subgroup,
// workgroup granularity), precomputes every combination coefficient table
// into one device buffer, and tunes per-stage launch geometry against the
// device profile. Prime lengths are embedded via Bluestein's algorithm
// into a composite padded length. Execute then runs the chunked,
// multi-stage compute and transpose pipeline asynchronously, returning a
// single completion event per call.
//
// The engine is written against the device package's queue and kernel
// interfaces; package kernels provides CPU-backed reference executors used
// for development and tests.
package parfft
