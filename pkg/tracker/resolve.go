package tracker

import "strings"

// Resolver picks the component a file or URL belongs to. names are the
// registered component names in registration order.
type Resolver func(file string, names []string) (string, bool)

// Substring returns the first registered name contained in file. When
// several names match, the earliest registered one wins.
func Substring(file string, names []string) (string, bool) {
	for _, name := range names {
		if strings.Contains(file, name) {
			return name, true
		}
	}
	return "", false
}

// Exact returns the name equal to file.
func Exact(file string, names []string) (string, bool) {
	for _, name := range names {
		if name == file {
			return name, true
		}
	}
	return "", false
}

// Longest returns the longest registered name contained in file. Ties go to
// the earliest registered name.
func Longest(file string, names []string) (string, bool) {
	best, found := "", false
	for _, name := range names {
		if strings.Contains(file, name) && (!found || len(name) > len(best)) {
			best, found = name, true
		}
	}
	return best, found
}
