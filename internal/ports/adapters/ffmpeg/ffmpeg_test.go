package ffmpeg

import "testing"

func TestFmtSeconds(t *testing.T) {
	cases := map[float64]string{
		0:      "0.000",
		12.5:   "12.500",
		61.234: "61.234",
	}
	for in, want := range cases {
		if got := fmtSeconds(in); got != want {
			t.Fatalf("fmtSeconds(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestEscapeFilterPath(t *testing.T) {
	got := escapeFilterPath(`C:\clips\001.srt`)
	if got != `C\:/clips/001.srt` {
		t.Fatalf("unexpected escape: %s", got)
	}
}

func TestEscapeDrawtext(t *testing.T) {
	got := escapeDrawtext("@my:channel's")
	if got != `@my\:channel\'s` {
		t.Fatalf("unexpected escape: %s", got)
	}
}
