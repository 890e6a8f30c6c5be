package adapters

import "testing"

func TestObjectLocation_UsesConfiguredRegion(t *testing.T) {
	location := objectLocation("videos", "eu-west-1", "runs/run-1/final_video.mp4")
	want := "https://videos.s3.eu-west-1.amazonaws.com/runs/run-1/final_video.mp4"
	if location != want {
		t.Fatalf("Unexpected object location: got %s, want %s", location, want)
	}
}
