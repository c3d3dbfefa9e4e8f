//go:build !amd64 || purego

package bitboard

const hasPDEP = false

func pdep(src, mask uint64) uint64 {
	return pdepSoftware(src, mask)
}
