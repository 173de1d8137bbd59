package formatting

import "fmt"

// Plural returns "1 slot", "2 slots"
func Plural(count int, singular string) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, singular)
	}
	return fmt.Sprintf("%d %ss", count, singular)
}
