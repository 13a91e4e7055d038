package attendance

// ResolveColumn finds header among headers by exact string match and returns
// its 1-based position. When absent, the returned position is the one the
// header takes once appended and created is true.
//
// Headers that decode to the same session but differ in text, seconds for
// example, are distinct columns.
func ResolveColumn(headers []string, header string) (index int, created bool) {
	for i, h := range headers {
		if h == header {
			return i + 1, false
		}
	}
	return len(headers) + 1, true
}
