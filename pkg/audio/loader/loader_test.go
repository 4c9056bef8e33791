package loader

import (
	"testing"

	"github.com/gigstage/stemengine/pkg/catalog"
)

func TestToStereoMonoDuplicatesToBothChannels(t *testing.T) {
	mono := []float32{0.1, 0.2, 0.3}
	out := toStereo(mono, 1)
	want := []float32{0.1, 0.1, 0.2, 0.2, 0.3, 0.3}
	if len(out) != len(want) {
		t.Fatalf("len = %d, want %d", len(out), len(want))
	}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("out[%d] = %v, want %v", i, out[i], want[i])
		}
	}
}

func TestToStereoPassesThroughTwoChannel(t *testing.T) {
	stereo := []float32{0.1, 0.2, 0.3, 0.4}
	out := toStereo(stereo, 2)
	if &out[0] != &stereo[0] {
		t.Fatal("expected stereo input to pass through unchanged")
	}
}

func TestToStereoDropsExtraChannels(t *testing.T) {
	// 3-channel input, 2 frames: frame0 = [1,2,3], frame1 = [4,5,6]
	in := []float32{1, 2, 3, 4, 5, 6}
	out := toStereo(in, 3)
	want := []float32{1, 2, 4, 5}
	if len(out) != len(want) {
		t.Fatalf("len = %d, want %d", len(out), len(want))
	}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("out[%d] = %v, want %v", i, out[i], want[i])
		}
	}
}

func TestLoadSongAggregatesFirstErrorAfterAllStemsFinish(t *testing.T) {
	song := catalog.SongDescriptor{
		SongID: "song-1",
		Name:   "Test Song",
		Stems: []catalog.StemDescriptor{
			{StemID: "vox", Path: "/nonexistent/vox.wav"},
			{StemID: "drums", Path: "/nonexistent/drums.wav"},
		},
	}

	var progressCalls int
	_, err := LoadSong(song, 48000, nil, func(Progress) { progressCalls++ })
	if err == nil {
		t.Fatal("expected an error when every stem file is missing")
	}
	if progressCalls != 0 {
		t.Fatalf("progress should not fire for failed stems, got %d calls", progressCalls)
	}
}
