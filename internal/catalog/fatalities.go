package catalog

import (
	"sort"
	"strconv"
	"strings"
)

var magnitudes = map[byte]float64{'k': 1e3, 'm': 1e6, 'b': 1e9}

// OrderBuckets sorts fatality bucket labels ("<1k", "1-10m", ">100m")
// by their lower bound. Labels that cannot be parsed keep their relative
// order and sort after all parseable ones.
func OrderBuckets(labels []string) []string {
	out := append([]string(nil), labels...)
	sort.SliceStable(out, func(i, j int) bool {
		a, aok := bucketLowerBound(out[i])
		b, bok := bucketLowerBound(out[j])
		switch {
		case aok && bok:
			return a < b
		case aok:
			return true
		default:
			return false
		}
	})
	return out
}

// BucketRank returns the position of label in ordered, or -1.
func BucketRank(ordered []string, label string) int {
	for i, l := range ordered {
		if l == label {
			return i
		}
	}
	return -1
}

func bucketLowerBound(label string) (float64, bool) {
	s := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(label), ",", ""))
	if s == "" {
		return 0, false
	}
	unit := 1.0
	if m, ok := magnitudes[s[len(s)-1]]; ok {
		unit = m
	}
	switch s[0] {
	case '<':
		return 0, true
	case '>':
		s = s[1:]
	}
	first, _, _ := strings.Cut(s, "-")
	first = strings.TrimSpace(first)
	if first == "" {
		return 0, false
	}
	if m, ok := magnitudes[first[len(first)-1]]; ok {
		unit = m
		first = first[:len(first)-1]
	}
	n, err := strconv.ParseFloat(first, 64)
	if err != nil {
		return 0, false
	}
	return n * unit, true
}
