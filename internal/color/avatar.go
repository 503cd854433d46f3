// Package color provides deterministic avatar colors for users without an avatar image.
package color

import "hash/fnv"

// palette holds readable mid-lightness colors that work on both light and dark UIs.
var palette = []string{
	"#7C6FCD", "#5B8DEF", "#4DA1A9", "#4CAF7D",
	"#8FA644", "#C9A23F", "#D98841", "#D96C6C",
	"#C65A8C", "#9B59B6", "#5D9CEC", "#48A9A6",
}

// ForUser returns a consistent hex color for a user based on their ID.
// The same user always gets the same color.
func ForUser(userID string) string {
	h := fnv.New32a()
	h.Write([]byte(userID))
	return palette[h.Sum32()%uint32(len(palette))]
}
