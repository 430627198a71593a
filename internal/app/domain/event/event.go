package event

// Message is the envelope the assistant's bus speaks: a type string
// plus free-form data and context objects. Only the handful of fields
// the harness asserts on get typed accessors.
type Message struct {
	Type    string         `json:"type"`
	Data    map[string]any `json:"data,omitempty"`
	Context map[string]any `json:"context,omitempty"`
}

// Type names the harness emits or watches for.
const (
	TypeUtterance        = "recognizer_loop:utterance"
	TypeSpeak            = "speak"
	TypeAudioOutputStart = "recognizer_loop:audio_output_start"
	TypeAudioOutputEnd   = "recognizer_loop:audio_output_end"
)

// Utterance returns the spoken text carried by a "speak" message, or
// "" when absent.
func (m Message) Utterance() string {
	s, _ := m.Data["utterance"].(string)
	return s
}

// DialogMeta returns the name of the dialog resource that produced a
// "speak" message, taken from data.meta.dialog, or "" when the
// assistant did not report one.
func (m Message) DialogMeta() string {
	meta, _ := m.Data["meta"].(map[string]any)
	s, _ := meta["dialog"].(string)
	return s
}
