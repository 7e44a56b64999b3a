package naming

// VoicePair holds the companion audio filenames of one image
type VoicePair struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// AssetNamer derives audio filenames from image filenames
type AssetNamer struct {
	SourceMarker string
	TargetMarker string
	Extension    string
}

// DefaultAssetNamer produces "{stem}_en.wav" and "{stem}_cn.wav"
var DefaultAssetNamer = AssetNamer{
	SourceMarker: "en",
	TargetMarker: "cn",
	Extension:    ".wav",
}

// Names returns the audio filenames for an image. The result depends on the
// filename only, so it is stable across runs and dictionary changes.
func (a AssetNamer) Names(filename string) VoicePair {
	stem := Stem(filename)
	return VoicePair{
		Source: stem + "_" + a.SourceMarker + a.Extension,
		Target: stem + "_" + a.TargetMarker + a.Extension,
	}
}

// AssetNames uses DefaultAssetNamer
func AssetNames(filename string) VoicePair {
	return DefaultAssetNamer.Names(filename)
}
