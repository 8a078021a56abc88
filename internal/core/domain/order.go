package domain

// SortCategories reorders categories to follow the desired name order.
// Names in order that are absent from the content are ignored; categories
// not named in order keep their relative position and are appended last.
// Matching is exact, as in the content file.
func SortCategories(categories []RawCategory, order []string) []RawCategory {
	remaining := make(map[string][]RawCategory, len(categories))
	for _, c := range categories {
		remaining[c.Name] = append(remaining[c.Name], c)
	}

	sorted := make([]RawCategory, 0, len(categories))
	for _, name := range order {
		if cats, ok := remaining[name]; ok {
			sorted = append(sorted, cats...)
			delete(remaining, name)
		}
	}

	for _, c := range categories {
		if cats, ok := remaining[c.Name]; ok {
			sorted = append(sorted, cats...)
			delete(remaining, c.Name)
		}
	}

	return cloneCategories(sorted)
}
