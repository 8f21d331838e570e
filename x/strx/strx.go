package strx

// Or returns the first non-empty string in vs, or "" when all are empty.
func Or(vs ...string) string {
	for _, v := range vs {
		if v != "" {
			return v
		}
	}
	return ""
}
