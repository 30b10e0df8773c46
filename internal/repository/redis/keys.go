package redis

import "fmt"

const ns = "seatspot:v1"

func KeySeatGrid(day string) string {
	return fmt.Sprintf("%s:grid:%s", ns, day)
}

func KeyNextAvailable(seatID int64, months int, slot string) string {
	return fmt.Sprintf("%s:seat:%d:next:%d:%s", ns, seatID, months, slot)
}

func KeyRateLimit(scope, id string) string {
	return fmt.Sprintf("%s:rl:%s:%s", ns, scope, id)
}

func ChannelSeatsChanged() string {
	return ns + ":seats:changed"
}
