package numlit

import (
	"fmt"
	"strconv"

	"lukechampine.com/uint128"
)

// Hex renders v as a lowercase 0x literal without leading zeros.
func Hex(v uint128.Uint128) string {
	if v.Hi == 0 {
		return "0x" + strconv.FormatUint(v.Lo, 16)
	}
	return fmt.Sprintf("0x%x%016x", v.Hi, v.Lo)
}

// MaxForBits returns the largest value representable in n bits (n in 1..128).
func MaxForBits(n uint) uint128.Uint128 {
	if n >= 128 {
		return uint128.Max
	}
	return uint128.Max.Rsh(128 - n)
}
