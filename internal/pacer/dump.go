package pacer

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"
)

// Dump renders the track state and its keyframes as an aligned table.
func (t *Track) Dump() string {
	var b strings.Builder
	fmt.Fprintf(&b, "track %q id=%s units=%q\n", t.label, t.id, t.units)
	fmt.Fprintf(&b, "  start=%g stop=%g duration=%g cursor=%g index=%d n=%.4f dir=%d enabled=%t clamped=%t removed=%t\n",
		t.timeStart, t.timeStop, t.duration, t.timeCursor, t.keyIndex, t.n, t.direction, t.enabled, t.clamped, t.removed)
	fmt.Fprintf(&b, "  values %s\n", formatValues(t.values))

	w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "  #\ttime\trel\tlabel\tguarantee\tvalues")
	for _, k := range t.keys {
		mark := " "
		if k.index == t.keyIndex {
			mark = ">"
		}
		fmt.Fprintf(w, "%s %d\t%g\t%g\t%s\t%t\t%s\n",
			mark, k.index, k.timeAbsolute, k.timeRelative, k.label, k.guarantee, formatValues(k.values))
	}
	w.Flush()
	return b.String()
}

func formatValues(v Values) string {
	if v == nil {
		return "{}"
	}
	names := make([]string, 0, len(v))
	for name := range v {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s=%g", name, v[name])
	}
	return "{" + strings.Join(parts, " ") + "}"
}
