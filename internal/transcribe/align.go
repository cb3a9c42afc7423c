package transcribe

import (
	"fmt"
	"strings"
	"time"

	"github.com/TechnicallyShaun/acta-orbis/internal/transcribe/client"
)

// UnknownSpeaker labels speech that no diarization turn covers.
const UnknownSpeaker = "UNKNOWN_SPEAKER"

// SpeakerLine is one attributed stretch of transcript text.
type SpeakerLine struct {
	Start   float64
	Speaker string
	Text    string
}

// AlignSpeakers merges a timed transcription with diarization turns.
// Word timestamps are preferred: consecutive words attributed to the
// same speaker collapse into one line, starting a new line on every
// speaker change. When a segment has no word timestamps the whole
// segment is attributed at once. Attribution uses midpoint containment
// first and falls back to maximum time overlap.
func AlignSpeakers(result *client.TranscriptionResult, turns []client.SpeakerTurn) []SpeakerLine {
	var lines []SpeakerLine

	var current *SpeakerLine
	emit := func() {
		if current != nil {
			current.Text = strings.TrimSpace(current.Text)
			lines = append(lines, *current)
			current = nil
		}
	}

	for _, seg := range result.Segments {
		if len(seg.Words) == 0 {
			// Segment-level fallback: attribute the whole segment at once
			emit()
			lines = append(lines, SpeakerLine{
				Start:   seg.Start,
				Speaker: speakerAt(seg.Start, seg.End, turns),
				Text:    strings.TrimSpace(seg.Text),
			})
			continue
		}

		for _, word := range seg.Words {
			speaker := speakerAt(word.Start, word.End, turns)
			if current == nil || current.Speaker != speaker {
				emit()
				current = &SpeakerLine{Start: word.Start, Speaker: speaker}
			}
			current.Text += " " + strings.TrimSpace(word.Text)
		}
	}
	emit()

	return lines
}

// speakerAt attributes the interval [start, end) to a speaker. The turn
// containing the interval midpoint wins; when no turn contains it, the
// turn with the largest overlap wins; with no overlap at all the
// speaker is unknown.
func speakerAt(start, end float64, turns []client.SpeakerTurn) string {
	mid := (start + end) / 2

	best := UnknownSpeaker
	maxOverlap := 0.0

	for _, turn := range turns {
		if turn.Start <= mid && mid < turn.End {
			return turn.Speaker
		}
		overlapStart := max(start, turn.Start)
		overlapEnd := min(end, turn.End)
		if overlap := overlapEnd - overlapStart; overlap > maxOverlap {
			maxOverlap = overlap
			best = turn.Speaker
		}
	}

	return best
}

// FormatTranscript renders attributed lines as a Markdown bullet list.
func FormatTranscript(lines []SpeakerLine) string {
	var sb strings.Builder
	for _, line := range lines {
		fmt.Fprintf(&sb, "- [%s - %s] %s\n", formatTimestamp(line.Start), line.Speaker, line.Text)
	}
	return sb.String()
}

// formatTimestamp converts seconds to HH:MM:SS.mmm form.
func formatTimestamp(seconds float64) string {
	d := time.Duration(seconds * float64(time.Second))
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	ms := int(d.Milliseconds()) % 1000
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms)
}
