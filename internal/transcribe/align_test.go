package transcribe

import (
	"testing"

	"github.com/TechnicallyShaun/acta-orbis/internal/transcribe/client"
)

func TestAlignSpeakersWordGrouping(t *testing.T) {
	result := &client.TranscriptionResult{
		Segments: []client.TranscriptSegment{
			{
				Start: 0, End: 4, Text: "hi there how are you",
				Words: []client.Word{
					{Text: "hi", Start: 0.0, End: 0.5},
					{Text: "there", Start: 0.5, End: 1.0},
					{Text: "how", Start: 2.0, End: 2.4},
					{Text: "are", Start: 2.4, End: 2.8},
					{Text: "you", Start: 2.8, End: 3.2},
				},
			},
		},
	}
	turns := []client.SpeakerTurn{
		{Start: 0, End: 1.5, Speaker: "SPEAKER_00"},
		{Start: 1.5, End: 4.0, Speaker: "SPEAKER_01"},
	}

	lines := AlignSpeakers(result, turns)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %+v", len(lines), lines)
	}
	if lines[0].Speaker != "SPEAKER_00" || lines[0].Text != "hi there" {
		t.Errorf("unexpected first line: %+v", lines[0])
	}
	if lines[1].Speaker != "SPEAKER_01" || lines[1].Text != "how are you" {
		t.Errorf("unexpected second line: %+v", lines[1])
	}
	if lines[0].Start != 0.0 {
		t.Errorf("first line start = %v, want 0", lines[0].Start)
	}
	if lines[1].Start != 2.0 {
		t.Errorf("second line start = %v, want 2.0", lines[1].Start)
	}
}

func TestAlignSpeakersSegmentFallback(t *testing.T) {
	result := &client.TranscriptionResult{
		Segments: []client.TranscriptSegment{
			{Start: 0, End: 2, Text: " first segment "},
			{Start: 2, End: 4, Text: "second segment"},
		},
	}
	turns := []client.SpeakerTurn{
		{Start: 0, End: 2, Speaker: "SPEAKER_00"},
		{Start: 2, End: 4, Speaker: "SPEAKER_01"},
	}

	lines := AlignSpeakers(result, turns)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0].Speaker != "SPEAKER_00" || lines[0].Text != "first segment" {
		t.Errorf("unexpected first line: %+v", lines[0])
	}
	if lines[1].Speaker != "SPEAKER_01" {
		t.Errorf("unexpected second speaker: %q", lines[1].Speaker)
	}
}

func TestSpeakerAtMidpointWins(t *testing.T) {
	turns := []client.SpeakerTurn{
		{Start: 0, End: 3, Speaker: "SPEAKER_00"},
		{Start: 3, End: 6, Speaker: "SPEAKER_01"},
	}

	// Interval 2..4 has midpoint 3, inside the second turn, even
	// though the first turn overlaps equally.
	if got := speakerAt(2, 4, turns); got != "SPEAKER_01" {
		t.Errorf("speakerAt(2, 4) = %q, want SPEAKER_01", got)
	}
}

func TestSpeakerAtOverlapFallback(t *testing.T) {
	turns := []client.SpeakerTurn{
		{Start: 0, End: 1, Speaker: "SPEAKER_00"},
		{Start: 4, End: 10, Speaker: "SPEAKER_01"},
	}

	// Midpoint 2.5 is in a gap; SPEAKER_01 overlaps 1s vs 0.5s.
	if got := speakerAt(0.5, 5, turns); got != "SPEAKER_01" {
		t.Errorf("speakerAt(0.5, 5) = %q, want SPEAKER_01", got)
	}
}

func TestSpeakerAtUnknown(t *testing.T) {
	turns := []client.SpeakerTurn{
		{Start: 10, End: 20, Speaker: "SPEAKER_00"},
	}

	if got := speakerAt(0, 5, turns); got != UnknownSpeaker {
		t.Errorf("speakerAt with no overlap = %q, want %q", got, UnknownSpeaker)
	}
	if got := speakerAt(0, 5, nil); got != UnknownSpeaker {
		t.Errorf("speakerAt with no turns = %q, want %q", got, UnknownSpeaker)
	}
}

func TestFormatTranscript(t *testing.T) {
	lines := []SpeakerLine{
		{Start: 0, Speaker: "SPEAKER_00", Text: "hello"},
		{Start: 3921.5, Speaker: UnknownSpeaker, Text: "mystery voice"},
	}

	got := FormatTranscript(lines)
	want := "- [00:00:00.000 - SPEAKER_00] hello\n" +
		"- [01:05:21.500 - UNKNOWN_SPEAKER] mystery voice\n"
	if got != want {
		t.Errorf("FormatTranscript mismatch:\ngot:  %q\nwant: %q", got, want)
	}
}
