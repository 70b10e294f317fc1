package youtube

import "regexp"

var durationRe = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// ParseISODuration converts an ISO-8601 duration of the form PT#H#M#S into
// whole seconds. Each component is optional ("PT3M45S" → 225). Anything
// unparseable degrades to 0 rather than failing the item.
func ParseISODuration(iso string) int {
	m := durationRe.FindStringSubmatch(iso)
	if m == nil {
		return 0
	}
	return atoiOrZero(m[1])*3600 + atoiOrZero(m[2])*60 + atoiOrZero(m[3])
}

func atoiOrZero(s string) int {
	n := 0
	for _, c := range s {
		n = n*10 + int(c-'0')
	}
	return n
}
