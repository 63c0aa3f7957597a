package report

// palette holds the display colors assigned to category labels, in
// assignment order.
var palette = []string{
	"#5470c6", "#91cc75", "#fac858", "#ee6666", "#73c0de",
	"#3ba272", "#fc8452", "#9a60b4", "#ea7ccc", "#48b3bd",
	"#b6a2de", "#d48265", "#61a0a8", "#c4ccd3", "#749f83",
}

// ColorFor returns the display color of a label given the stable
// ordered label list of the report it appears in. The function is pure:
// color assignment depends only on the label's position, never on
// process-wide state, so the analytics engine stays a pure function of
// its inputs.
func ColorFor(label string, orderedLabels []string) string {
	for i, l := range orderedLabels {
		if l == label {
			return palette[i%len(palette)]
		}
	}
	return palette[len(palette)-1]
}
