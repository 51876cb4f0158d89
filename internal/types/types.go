package types

// Transcript is the normalized output of any transcription backend.
// Segment and word times are absolute offsets into the original
// source video's timeline, in seconds.
type Transcript struct {
	Text     string    `json:"text"`
	Segments []Segment `json:"segments"`
}

type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
	Words []Word  `json:"words,omitempty"`
}

type Word struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Moment is a candidate or selected clip window in the source video's
// timeline. Score is a pointer so AI moments without one marshal as
// null instead of a fake zero.
type Moment struct {
	Start       float64  `json:"start"`
	End         float64  `json:"end"`
	Score       *float64 `json:"score,omitempty"`
	Reason      string   `json:"reason"`
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	Hashtags    []string `json:"hashtags,omitempty"`
}

// Cue is a single caption line relative to a clip's own zero point.
type Cue struct {
	Start float64
	End   float64
	Text  string
}

// StyleOverrides are per-request caption tweaks applied on top of a
// named preset. Colors are "RRGGBB" with an optional leading '#'.
type StyleOverrides struct {
	TextColor string
	BgColor   string
	FontSize  int
}

// ClipResult describes one successfully rendered clip.
type ClipResult struct {
	Path        string   `json:"path"`
	URL         string   `json:"url"`
	Reason      string   `json:"reason"`
	Start       float64  `json:"start"`
	End         float64  `json:"end"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Hashtags    []string `json:"hashtags"`
}

func ScorePtr(v float64) *float64 { return &v }
