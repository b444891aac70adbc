package parfft

import (
	"github.com/gomlx/exceptions"

	"github.com/cwbudde/parfft/device"
	"github.com/cwbudde/parfft/internal/fftypes"
	"github.com/cwbudde/parfft/internal/math"
)

// Occupancy cap: at most this many workitems per compute unit are ever
// requested, regardless of how many DFT problems a stage holds. Larger
// problems loop inside the kernel instead.
const maxWorkitemsPerCU = 8 * 64

// launchGeometry computes the (global, local) launch sizes for one stage
// processing problems independent DFTs. The local size is the device's
// subgroup count per workgroup times its subgroup width; the global size
// is always a multiple of the local size and never exceeds the occupancy
// cap for the profile.
func launchGeometry(st *fftypes.Stage, profile device.Profile, problems int) (global, local int) {
	sgSize := st.SubgroupSize
	local = profile.SubgroupsPerWorkgroup * sgSize

	var wgs int
	switch st.Level {
	case fftypes.Workitem:
		// One DFT per workitem.
		wgs = math.DivideCeil(problems, local)
	case fftypes.Subgroup:
		// One DFT per sgSize/fsg lanes; fsg is the cross-lane factor.
		fsg := st.Factors[0]
		perWg := (sgSize / fsg) * profile.SubgroupsPerWorkgroup
		wgs = math.DivideCeil(problems, perWg)
	case fftypes.Workgroup:
		// One DFT per workgroup.
		wgs = problems
	default:
		exceptions.Panicf("parfft: launch geometry for unknown level %v", st.Level)
	}

	maxWgs := maxWorkitemsPerCU * profile.ComputeUnits / local
	if maxWgs < 1 {
		maxWgs = 1
	}
	if wgs > maxWgs {
		wgs = maxWgs
	}
	if wgs < 1 {
		wgs = 1
	}
	return wgs * local, local
}

// localMemScalars returns the fully local-resident footprint of a stage in
// scalars: the interleaved working set one workgroup would keep on-chip.
// Only the final stage of a chain is granted this footprint; earlier
// stages read their combination tables from global memory and carry a
// one-scalar sentinel instead.
func localMemScalars(st *fftypes.Stage, profile device.Profile) int {
	switch st.Level {
	case fftypes.Workitem:
		return 0
	case fftypes.Subgroup:
		fsg := st.Factors[0]
		perWg := (st.SubgroupSize / fsg) * profile.SubgroupsPerWorkgroup
		return 2 * st.Length * perWg
	case fftypes.Workgroup:
		return 2 * st.Length
	default:
		exceptions.Panicf("parfft: local memory for unknown level %v", st.Level)
		return 0
	}
}

// finalizeLaunch fills the launch fields of every stage in a chain.
// problems for stage s is M/F_s per transform times the batches resident
// in one pipeline chunk.
func finalizeLaunch(stages []fftypes.Stage, profile device.Profile, paddedLen, batchesInL2 int) {
	for i := range stages {
		st := &stages[i]
		st.SubgroupSize = profile.SubgroupSize()
		problems := (paddedLen / st.Length) * batchesInL2
		st.GlobalSize, st.LocalSize = launchGeometry(st, profile, problems)
		if i < len(stages)-1 {
			st.LocalMemRequired = 1
		} else {
			st.LocalMemRequired = localMemScalars(st, profile)
		}
	}
}
