// Package cpu detects host CPU features relevant to the simulated device
// profile. The subgroup width reported by the host queue mirrors the
// widest available SIMD unit's float32 lane count.
package cpu

import (
	"runtime"

	"golang.org/x/sys/cpu"
)

// Features describes the host SIMD capabilities.
type Features struct {
	HasAVX2      bool
	HasAVX512    bool
	HasNEON      bool
	Architecture string
}

// DetectFeatures queries CPUID/auxv-derived flags via golang.org/x/sys/cpu.
func DetectFeatures() Features {
	return Features{
		HasAVX2:      cpu.X86.HasAVX2,
		HasAVX512:    cpu.X86.HasAVX512F,
		HasNEON:      cpu.ARM64.HasASIMD,
		Architecture: runtime.GOARCH,
	}
}

// SubgroupWidth returns the simulated subgroup width for this host:
// float32 lanes of the widest vector unit, minimum 4.
func (f Features) SubgroupWidth() int {
	switch {
	case f.HasAVX512:
		return 16
	case f.HasAVX2:
		return 8
	case f.HasNEON:
		return 4
	default:
		return 4
	}
}
