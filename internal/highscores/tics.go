package highscores

import "fmt"

// ticRate is the game's simulation rate: 35 tics per second.
const ticRate = 35

// TicsToString formats a tic count as M:SS.CC, the display format used for
// record times and the level timer. Centiseconds are derived with the
// historical integer arithmetic (tics * 2), so the fraction advances in
// steps of two.
func TicsToString(tics int) string {
	minutes := tics / (60 * ticRate)
	seconds := tics / ticRate % 60
	centiseconds := (tics % ticRate) * (100 / ticRate)
	return fmt.Sprintf("%d:%02d.%02d", minutes, seconds, centiseconds)
}
