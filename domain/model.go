package domain

import (
	"strings"
	"time"
	"unicode"
)

// MaxScriptChars bounds the narration script length. Anything longer is
// trimmed before it reaches the speech synthesizer.
const MaxScriptChars = 1000

type ScenePrompt struct {
	ID      string
	Text    string
	Ordinal int
}

type ScriptPackage struct {
	Script string
	Scenes []ScenePrompt
}

type Frame struct {
	PromptID string
	FileName string
	Ordinal  int
}

type FramesAscByOrdinal []Frame

func (f FramesAscByOrdinal) Len() int           { return len(f) }
func (f FramesAscByOrdinal) Less(i, j int) bool { return f[i].Ordinal < f[j].Ordinal }
func (f FramesAscByOrdinal) Swap(i, j int)      { f[i], f[j] = f[j], f[i] }

type NarrationAsset struct {
	FileName string
}

type VideoArtifact struct {
	FileName string
	Duration float64
}

type RunRecord struct {
	RunID     string
	Topic     string
	Script    string
	Scenes    []ScenePrompt
	OutputDir string
	CreatedAt time.Time
}

// RunPaths is the filesystem layout of a single run.
type RunPaths struct {
	RootDir       string
	FramesDir     string
	NarrationFile string
	VideoFile     string
}

// SanitizeTopic reduces a topic to a string safe for use in a directory name.
// Only alphanumerics, spaces, dashes and underscores survive.
func SanitizeTopic(topic string) string {
	var builder strings.Builder
	for _, r := range topic {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			builder.WriteRune(r)
		}
	}
	return strings.TrimSpace(builder.String())
}

// ClampScript enforces MaxScriptChars, counted in runes so multi-byte text
// is not over-trimmed. When the text is over the limit it is cut at the last
// sentence boundary that fits, falling back to a hard cut on a rune boundary
// when no boundary exists.
func ClampScript(text string) string {
	text = strings.TrimSpace(text)
	runes := []rune(text)
	if len(runes) <= MaxScriptChars {
		return text
	}

	clipped := string(runes[:MaxScriptChars])
	boundary := strings.LastIndexAny(clipped, ".!?")
	if boundary > 0 {
		return strings.TrimSpace(clipped[:boundary+1])
	}
	return strings.TrimSpace(clipped)
}
