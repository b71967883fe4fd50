package models

// VoiceType chọn giọng đọc tổng hợp cho podcast
type VoiceType string

const (
	VoiceAlloy   VoiceType = "alloy"
	VoiceEcho    VoiceType = "echo"
	VoiceFable   VoiceType = "fable"
	VoiceOnyx    VoiceType = "onyx"
	VoiceNova    VoiceType = "nova"
	VoiceShimmer VoiceType = "shimmer"
)

var VoiceTypes = []VoiceType{VoiceAlloy, VoiceEcho, VoiceFable, VoiceOnyx, VoiceNova, VoiceShimmer}

func (v VoiceType) Valid() bool {
	for _, vt := range VoiceTypes {
		if v == vt {
			return true
		}
	}
	return false
}
