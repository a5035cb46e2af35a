package llm

import (
	"strings"
)

// section identifies a block of the model's reply.
type section int

const (
	sectionNone section = iota
	sectionSecurity
	sectionQuality
	sectionPerformance
	sectionBreaking
	sectionTests
	sectionRecommendation
)

// markers are matched in order, so RECOMMENDATION must precede RECOMMEND.
var markers = []struct {
	label   string
	section section
}{
	{"SECURITY", sectionSecurity},
	{"QUALITY", sectionQuality},
	{"PERFORMANCE", sectionPerformance},
	{"BREAKING", sectionBreaking},
	{"TESTS", sectionTests},
	{"RECOMMENDATION", sectionRecommendation},
	{"RECOMMEND", sectionRecommendation},
}

// sectionedReply is the model's free text split by section marker.
type sectionedReply struct {
	Security       []string
	Quality        []string
	Performance    []string
	Breaking       []string
	Tests          []string
	Recommendation []string
	// Markers counts the recognized section markers.
	Markers int
}

// parseSections segments a reply with a small state machine: the current
// section changes only when a line starts with a recognized marker, and every
// other non-empty line belongs to the current section. Text before the first
// marker is ignored.
func parseSections(reply string) sectionedReply {
	reply = stripMarkdownFence(reply)

	var out sectionedReply
	current := sectionNone

	for _, raw := range strings.Split(reply, "\n") {
		line := strings.TrimSpace(raw)
		if next, rest, ok := matchMarker(line); ok {
			current = next
			out.Markers++
			line = rest
		}
		if current == sectionNone || isPlaceholder(line) {
			continue
		}
		out.add(current, strings.TrimSpace(strings.TrimLeft(line, "-*• ")))
	}

	return out
}

func (s *sectionedReply) add(sec section, line string) {
	switch sec {
	case sectionSecurity:
		s.Security = append(s.Security, line)
	case sectionQuality:
		s.Quality = append(s.Quality, line)
	case sectionPerformance:
		s.Performance = append(s.Performance, line)
	case sectionBreaking:
		s.Breaking = append(s.Breaking, line)
	case sectionTests:
		s.Tests = append(s.Tests, line)
	case sectionRecommendation:
		s.Recommendation = append(s.Recommendation, line)
	}
}

// matchMarker recognizes "SECURITY:" style markers, tolerating list bullets,
// heading hashes and bold markup around the label. It returns the text that
// follows the marker on the same line.
func matchMarker(line string) (section, string, bool) {
	trimmed := strings.TrimLeft(line, "-*#• \t")
	upper := strings.ToUpper(trimmed)

	for _, m := range markers {
		if !strings.HasPrefix(upper, m.label) {
			continue
		}
		rest := strings.TrimLeft(trimmed[len(m.label):], "*")
		if !strings.HasPrefix(rest, ":") {
			continue
		}
		rest = strings.TrimLeft(rest[1:], "* ")
		return m.section, strings.TrimSpace(rest), true
	}
	return sectionNone, "", false
}

func isPlaceholder(line string) bool {
	l := strings.ToLower(strings.Trim(strings.TrimSpace(line), "-*•. "))
	switch l {
	case "", "none", "n/a", "na", "no issues", "none found", "nothing":
		return true
	default:
		return false
	}
}

// stripMarkdownFence removes ```markdown ... ``` wrapping that some models add around their output.
func stripMarkdownFence(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return s
	}
	idx := strings.Index(trimmed, "\n")
	if idx < 0 {
		return s
	}
	inner := trimmed[idx+1:]
	if lastFence := strings.LastIndex(inner, "```"); lastFence >= 0 {
		inner = inner[:lastFence]
	}
	return strings.TrimSpace(inner)
}
