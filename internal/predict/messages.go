package predict

import (
	"fmt"
	"strings"
	"time"

	"github.com/rcliao/babylog/internal/model"
)

var templates = map[model.Kind]string{
	model.KindSleep:       "Baby has been awake for %s. Time for a nap?",
	model.KindMilk:        "It's been %s since the last feeding.",
	model.KindWetDiaper:   "It's been %s since the last wet diaper. Time for a check?",
	model.KindDirtyDiaper: "It's been %s since the last dirty diaper.",
	model.KindSolidFood:   "It's been %s since the last meal.",
	model.KindTummyTime:   "It's been %s since the last tummy time.",
	model.KindBathTime:    "It's been %s since the last bath.",
	model.KindMedicine:    "It's been %s since the last medicine dose.",
}

// Message renders the reminder text for kind after elapsed time.
func Message(kind model.Kind, elapsed time.Duration) string {
	tmpl, ok := templates[kind]
	if !ok {
		tmpl = "It's been %s since the last " + string(kind) + "."
	}
	return fmt.Sprintf(tmpl, FormatElapsed(elapsed))
}

// FormatElapsed spells out a duration in hours and minutes, e.g.
// "1 hour 5 minutes". Seconds are rounded to the nearest minute.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Round(time.Minute) / time.Minute)
	hours, minutes := total/60, total%60

	var parts []string
	if hours > 0 {
		parts = append(parts, plural(hours, "hour"))
	}
	if minutes > 0 || hours == 0 {
		parts = append(parts, plural(minutes, "minute"))
	}
	return strings.Join(parts, " ")
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
