//go:build amd64 && !purego

package bitboard

import "golang.org/x/sys/cpu"

var hasPDEP = cpu.X86.HasBMI2

func pdepAsm(src, mask uint64) uint64

func pdep(src, mask uint64) uint64 {
	if hasPDEP {
		return pdepAsm(src, mask)
	}
	return pdepSoftware(src, mask)
}
