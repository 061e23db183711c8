package streak

import "fmt"

// Label renders a streak length as "N day streak" or "N days streak"
func Label(n int) string {
	if n == 1 {
		return "1 day streak"
	}
	return fmt.Sprintf("%d days streak", n)
}
