package metrics

import "strconv"

func prioLabel(p uint16) string {
	return strconv.FormatUint(uint64(p), 10)
}

func cookieLabel(c uint64) string {
	return strconv.FormatUint(c, 16)
}
