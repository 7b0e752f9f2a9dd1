package osinfo

import (
	"strconv"
	"strings"
)

// CompareVersions compares two loosely formatted version strings, such as
// "14.04", "11sp3", or "6.0-rc1". It returns -1, 0, or 1 as a sorts
// before, equal to, or after b.
//
// Versions are split into numeric and alphabetic segments ("11sp3" becomes
// 11, "sp", 3). Numeric segments compare numerically, so "14.04" sorts
// after "7.10". When one version is a prefix of the other, the longer one
// sorts after ("11sp3" is newer than "11").
func CompareVersions(a, b string) int {
	as := segments(a)
	bs := segments(b)

	for i := 0; i < len(as) && i < len(bs); i++ {
		an, aNum := atoiSegment(as[i])
		bn, bNum := atoiSegment(bs[i])

		switch {
		case aNum && bNum:
			if an != bn {
				if an < bn {
					return -1
				}
				return 1
			}
		case aNum != bNum:
			// Numeric segments sort before alphabetic ones.
			if aNum {
				return -1
			}
			return 1
		default:
			if c := strings.Compare(as[i], bs[i]); c != 0 {
				return c
			}
		}
	}

	switch {
	case len(as) < len(bs):
		return -1
	case len(as) > len(bs):
		return 1
	}
	return 0
}

// segments splits a version string into runs of digits and runs of
// letters, dropping separator punctuation.
func segments(v string) []string {
	var out []string
	var cur strings.Builder
	curDigit := false

	flush := func() {
		if cur.Len() > 0 {
			out = append(out, cur.String())
			cur.Reset()
		}
	}

	for _, r := range v {
		switch {
		case r == '.' || r == '-' || r == '_' || r == '+' || r == ' ':
			flush()
		case r >= '0' && r <= '9':
			if !curDigit {
				flush()
			}
			curDigit = true
			cur.WriteRune(r)
		default:
			if curDigit {
				flush()
			}
			curDigit = false
			cur.WriteRune(r)
		}
	}
	flush()
	return out
}

func atoiSegment(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
