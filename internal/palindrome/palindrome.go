// Package palindrome finds palindromic substrings.
package palindrome

// Longest returns the longest palindromic substring of s, comparing by rune.
// Among equally long candidates the leftmost wins. An empty input yields "".
func Longest(s string) string {
	runes := []rune(s)
	if len(runes) < 2 {
		return s
	}

	start, length := 0, 1
	for center := 0; center < len(runes); center++ {
		// odd length around runes[center], then even length around the gap after it
		for _, right := range []int{center, center + 1} {
			lo, hi := center, right
			for lo >= 0 && hi < len(runes) && runes[lo] == runes[hi] {
				lo--
				hi++
			}
			if n := hi - lo - 1; n > length {
				start, length = lo+1, n
			}
		}
	}

	return string(runes[start : start+length])
}
