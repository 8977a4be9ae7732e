// Package duration resolves how long a time entry ran, either from its
// start/end instants or from an ISO-8601 style token such as "PT1H30M5S".
package duration

import "time"

type state int

const (
	expectPeriod state = iota
	expectTime
	expectComponent
	inNumber
)

// maxComponent keeps a single component from overflowing int64 once scaled to seconds.
const maxComponent = 1 << 40

// unit ranks enforce H before M before S.
var units = map[byte]struct {
	rank    int
	seconds int64
}{
	'H': {1, 3600},
	'M': {2, 60},
	'S': {3, 1},
}

// Parse reads a token of the form PT[nH][nM][nS]. Every component is optional
// but they must appear in that order and at most once. The second return value
// is false when the token does not follow the grammar.
func Parse(token string) (int64, bool) {
	var (
		st    = expectPeriod
		total int64
		n     int64
		rank  int
	)

	for i := 0; i < len(token); i++ {
		c := token[i]
		switch st {
		case expectPeriod:
			if c != 'P' {
				return 0, false
			}
			st = expectTime
		case expectTime:
			if c != 'T' {
				return 0, false
			}
			st = expectComponent
		case expectComponent, inNumber:
			if c >= '0' && c <= '9' {
				n = n*10 + int64(c-'0')
				if n > maxComponent {
					return 0, false
				}
				st = inNumber
				continue
			}
			if st != inNumber {
				return 0, false
			}
			u, ok := units[c]
			if !ok || u.rank <= rank {
				return 0, false
			}
			total += n * u.seconds
			n = 0
			rank = u.rank
			st = expectComponent
		}
	}

	if st != expectComponent {
		return 0, false
	}
	return total, true
}

// Elapsed returns the seconds an entry ran. An end instant wins over the token;
// a running entry with no parseable token counts as zero. Never negative.
func Elapsed(start time.Time, end *time.Time, token string) int64 {
	if end != nil {
		seconds := int64(end.Sub(start) / time.Second)
		if seconds < 0 {
			return 0
		}
		return seconds
	}
	seconds, ok := Parse(token)
	if !ok {
		return 0
	}
	return seconds
}
